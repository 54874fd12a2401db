package driven

// ErrorReporter forwards recoverable failures to an external diagnostics
// sink. Category-level and best-effort fetch failures are reported here in
// addition to being logged; reporting itself is fire-and-forget.
type ErrorReporter interface {
	// Report sends an error with optional extra context fields.
	Report(err error, extras map[string]interface{})

	// Wait blocks until queued reports have been delivered. Called on
	// shutdown.
	Wait()
}
