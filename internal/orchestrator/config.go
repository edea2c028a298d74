package orchestrator

import "time"

// Config controls the tiered generation pipeline.
type Config struct {
	// Timeout bounds one whole multi-tier attempt.
	Timeout time.Duration

	// MaxConsecutiveFailures is the circuit breaker per request
	// signature. After this many failed attempts in a row the next
	// attempt is refused with an ExhaustedError.
	MaxConsecutiveFailures int

	// MinStoreQuality is the quality floor for database-tier records.
	MinStoreQuality float64

	// TemplateAttemptsPerQuestion bounds how many template draws the
	// local tier spends per still-missing question.
	TemplateAttemptsPerQuestion int

	// AIOverfetch asks the AI tier for this many candidates per
	// still-missing question, since some will be filtered out.
	AIOverfetch int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:                     45 * time.Second,
		MaxConsecutiveFailures:      3,
		MinStoreQuality:             0.7,
		TemplateAttemptsPerQuestion: 8,
		AIOverfetch:                 2,
	}
}
