package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/htmx-minesweeper/internal/records"
)

const (
	defaultRecordsLimit = 20
	maxRecordsLimit     = 100
)

type RecordsHandler struct {
	log   logrus.FieldLogger
	store records.Store
}

func NewRecordsHandler(log logrus.FieldLogger, store records.Store) *RecordsHandler {
	return &RecordsHandler{log: log, store: store}
}

func (h RecordsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecordsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			sendErrorOrLog(w, h.log, http.StatusBadRequest, errBadLimit)
			return
		}
		limit = min(n, maxRecordsLimit)
	}

	recent, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch records")
		return
	}
	sendJSONOrLog(w, h.log, recent)
}
