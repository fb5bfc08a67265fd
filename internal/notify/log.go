package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LogNotifier emits notifications as structured log lines carrying the
// base64-encoded JSON payload, so an off-process tailer can decode them
// without parsing free-form text.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Name returns the name of the notifier.
func (n *LogNotifier) Name() string {
	return "log"
}

// OrderUpdated logs a parent order update.
func (n *LogNotifier) OrderUpdated(ctx context.Context, update OrderUpdate) error {
	payload, err := encode(update)
	if err != nil {
		return err
	}
	n.logger.Info("STOPLOSS_PARENT_UPDATE",
		"own_address", update.OwnAddress,
		"payload", payload,
	)
	return nil
}

// ChildOrderFilled logs a child order fill report.
func (n *LogNotifier) ChildOrderFilled(ctx context.Context, fill ChildOrderFill) error {
	payload, err := encode(fill)
	if err != nil {
		return err
	}
	n.logger.Info("STOPLOSS_CHILD_UPDATE",
		"parent_address", fill.ParentAddress,
		"composite_id", fill.CompositeID,
		"status", fill.Status.String(),
		"payload", payload,
	)
	return nil
}

func encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
