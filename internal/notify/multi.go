package notify

import (
	"context"
	"errors"
	"strings"
)

// MultiNotifier fans out to several notifiers, collecting errors instead
// of stopping at the first failure.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that publishes through all of the
// given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Name returns the combined name of the underlying notifiers.
func (m *MultiNotifier) Name() string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

// OrderUpdated publishes through every notifier.
func (m *MultiNotifier) OrderUpdated(ctx context.Context, update OrderUpdate) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.OrderUpdated(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ChildOrderFilled publishes through every notifier.
func (m *MultiNotifier) ChildOrderFilled(ctx context.Context, fill ChildOrderFill) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.ChildOrderFilled(ctx, fill); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
