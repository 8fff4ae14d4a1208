package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vancomm/htmx-minesweeper/internal/records"
)

var flagLimit int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print the most recent finished games",
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "number of records to print")
}

func runRecords(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := records.Open(cmd.Context(), cfg.Records)
	if err != nil {
		return err
	}
	defer store.Close()

	recent, err := store.Recent(cmd.Context(), flagLimit)
	if err != nil {
		log.WithError(err).Error("unable to fetch records")
		return err
	}

	if len(recent) == 0 {
		fmt.Println("No finished games yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRESULT\tBOARD\tMOVES\tPLAYTIME\tENDED")
	for _, r := range recent {
		fmt.Fprintf(w, "%d\t%s\t%dx%d/%d\t%d\t%s\t%s\n",
			r.ID, r.Result, r.Width, r.Length, r.Mines, r.Moves,
			r.Playtime().Round(10*time.Millisecond), r.EndedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
