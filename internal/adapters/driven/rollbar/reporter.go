// Package rollbar forwards recoverable sync failures to Rollbar.
package rollbar

import (
	"github.com/rollbar/rollbar-go"

	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ErrorReporter = (*Reporter)(nil)

// Reporter implements ErrorReporter over the Rollbar client. With an
// empty token it stays disabled and every call is a no-op, so callers
// never need a nil check.
type Reporter struct {
	enabled bool
}

// Config holds Reporter settings.
type Config struct {
	// Token is the Rollbar project access token. Empty disables reporting.
	Token string

	// Environment tags reported items (e.g. "production", "staging").
	Environment string

	// CodeVersion is the running build's version string.
	CodeVersion string

	// ServerHost identifies the reporting host.
	ServerHost string
}

// NewReporter configures the global Rollbar client and returns a Reporter.
func NewReporter(cfg Config) *Reporter {
	if cfg.Token == "" {
		rollbar.SetEnabled(false)
		return &Reporter{}
	}

	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(cfg.Environment)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	rollbar.SetServerHost(cfg.ServerHost)

	return &Reporter{enabled: true}
}

// Report sends an error with optional extra context fields.
func (r *Reporter) Report(err error, extras map[string]interface{}) {
	if !r.enabled || err == nil {
		return
	}
	if len(extras) > 0 {
		rollbar.Error(err, extras)
		return
	}
	rollbar.Error(err)
}

// Wait blocks until queued reports have been delivered.
func (r *Reporter) Wait() {
	if r.enabled {
		rollbar.Wait()
	}
}
