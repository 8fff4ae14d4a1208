package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type RecordsConfig struct {
	Driver string `json:"driver"` // postgres, sqlite or none
	URL    string `json:"url"`
}

type WebSocketConfig struct {
	WriteTimeout Duration `json:"write_timeout"`
	PingInterval Duration `json:"ping_interval"`
	SendBuffer   int      `json:"send_buffer"`
}

type Config struct {
	Mode            string          `json:"mode"`
	Addr            string          `json:"addr"`
	Board           mines.Params    `json:"board"`
	Log             LogConfig       `json:"log"`
	Records         RecordsConfig   `json:"records"`
	WebSocket       WebSocketConfig `json:"ws"`
	ShutdownTimeout Duration        `json:"shutdown_timeout"`
}

func Default() Config {
	return Config{
		Mode:  "development",
		Addr:  ":3001",
		Board: mines.DefaultParams,
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Records: RecordsConfig{
			Driver: "sqlite",
			URL:    "minesweeper.db",
		},
		WebSocket: WebSocketConfig{
			WriteTimeout: Duration{10 * time.Second},
			PingInterval: Duration{30 * time.Second},
			SendBuffer:   16,
		},
		ShutdownTimeout: Duration{15 * time.Second},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":             c.Mode,
		"addr":             c.Addr,
		"board_width":      c.Board.Width,
		"board_length":     c.Board.Length,
		"board_mines":      c.Board.Mines,
		"log_level":        c.Log.Level,
		"log_file":         c.Log.File,
		"records_driver":   c.Records.Driver,
		"ws_write_timeout": c.WebSocket.WriteTimeout.String(),
		"ws_ping_interval": c.WebSocket.PingInterval.String(),
		"ws_send_buffer":   c.WebSocket.SendBuffer,
		"shutdown_timeout": c.ShutdownTimeout.String(),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

var ErrUnknownDriver = errors.New("unknown records driver")

func (c Config) Validate() error {
	if err := c.Board.Validate(); err != nil {
		return fmt.Errorf("invalid board: %w", err)
	}
	switch c.Records.Driver {
	case "postgres", "sqlite":
		if c.Records.URL == "" {
			return fmt.Errorf("records driver %s needs a url", c.Records.Driver)
		}
	case "none", "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Records.Driver)
	}
	if c.WebSocket.WriteTimeout.Duration <= 0 || c.WebSocket.PingInterval.Duration <= 0 {
		return errors.New("ws timeouts must be positive")
	}
	if c.WebSocket.SendBuffer <= 0 {
		return fmt.Errorf("ws send buffer must be positive, got %d", c.WebSocket.SendBuffer)
	}
	return nil
}

// Read layers the JSON file at path over [Default] and applies environment
// overrides. An empty path reads no file.
func Read(path string) (Config, error) {
	config := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return config, err
		}
		if err := json.Unmarshal(b, &config); err != nil {
			return config, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if addr, ok := os.LookupEnv("MINESWEEPER_ADDR"); ok {
		config.Addr = addr
	}
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.Records.Driver = "postgres"
		config.Records.URL = dbURL
	}
	return config, config.Validate()
}
