package services

import (
	"go.uber.org/zap"
)

// Rollback collects compensating actions for files written during a request.
// When a later step fails, Run executes them in reverse order so the request
// leaves no orphaned files behind.
type Rollback struct {
	logger *zap.Logger
	undos  []func() error
	descs  []string
}

// NewRollback creates an empty rollback recorder
func NewRollback(logger *zap.Logger) *Rollback {
	return &Rollback{logger: logger}
}

// Add registers a compensating action with a description used for logging
func (rb *Rollback) Add(desc string, fn func() error) {
	rb.undos = append(rb.undos, fn)
	rb.descs = append(rb.descs, desc)
}

// Run executes all registered actions in reverse order. Every action is
// attempted; failures are logged and do not stop the remaining actions.
func (rb *Rollback) Run() {
	for i := len(rb.undos) - 1; i >= 0; i-- {
		if err := rb.undos[i](); err != nil {
			rb.logger.Error("compensating action failed",
				zap.String("action", rb.descs[i]),
				zap.Error(err),
			)
		}
	}
	rb.undos = nil
	rb.descs = nil
}

// Len returns the number of pending compensating actions
func (rb *Rollback) Len() int {
	return len(rb.undos)
}
