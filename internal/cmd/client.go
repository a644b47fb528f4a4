package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/config"
	"github.com/gravitrone/libris/internal/observe"
)

// newClient builds an API client from the config file and LIBRIS_API_URL,
// logging requests the same way the TUI does. Call the returned func when the
// command is done.
func newClient() (*api.Client, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := observe.Setup(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("set up logging: %w", err)
	}
	client := api.NewClient(cfg.BaseURL())
	client.SetLogger(logger)
	return client, func() { _ = closeLog() }, nil
}

// requestError reports a failed call in the words the TUI would use.
type requestError struct {
	action string
	err    *api.Error
}

func (e *requestError) Error() string {
	return e.action + ": " + e.err.UserMessage()
}

func (e *requestError) Unwrap() error {
	return e.err
}

func failed(action string, err error) error {
	return &requestError{action: action, err: api.Classify(err)}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: want a positive number", raw)
	}
	return id, nil
}
