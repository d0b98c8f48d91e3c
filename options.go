package skillhost

import (
	"log/slog"
	"time"

	"github.com/agentplane/skillhost/spec"
)

type hostOptions struct {
	logger    *slog.Logger
	store     spec.ActivationStore
	statePath string

	scriptTimeout    time.Duration
	scriptTimeoutSet bool
}

type Option func(*hostOptions) error

func WithLogger(l *slog.Logger) Option {
	return func(o *hostOptions) error {
		o.logger = l
		return nil
	}
}

// WithActivationStore substitutes the activation store, e.g. an in-memory
// store for tests or embedded hosts.
func WithActivationStore(s spec.ActivationStore) Option {
	return func(o *hostOptions) error {
		o.store = s
		return nil
	}
}

// WithStateFile sets the path of the file-backed activation record. Ignored
// when WithActivationStore is also given. Default is .active_skill.json
// inside the skills directory.
func WithStateFile(path string) Option {
	return func(o *hostOptions) error {
		o.statePath = path
		return nil
	}
}

// WithScriptTimeout bounds script runtime. Non-positive disables the bound.
// Default is scriptrun.DefaultTimeout.
func WithScriptTimeout(d time.Duration) Option {
	return func(o *hostOptions) error {
		o.scriptTimeout = d
		o.scriptTimeoutSet = true
		return nil
	}
}
