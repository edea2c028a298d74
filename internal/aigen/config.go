package aigen

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExclusions is the maximum number of already-seen prompts to
	// include in the request for deduplication.
	MaxExclusions int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		Temperature:   0.8,
		MaxExclusions: 12,
	}
}
