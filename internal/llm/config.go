// Package llm wraps the Gemini API behind tiered model selection.
package llm

// ModelTier selects how capable a model a task gets.
type ModelTier string

const (
	// TierLite serves cheap per-field fallback prompts.
	TierLite ModelTier = "lite"
	// TierStandard serves resume extraction and summarization.
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for heavyweight reasoning tasks.
	TierAdvanced ModelTier = "advanced"
)

// Config maps model tiers to concrete Gemini model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the stock model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Model resolves the model name for a tier, falling back to standard
// and then lite when the tier has no mapping.
func (c *Config) Model(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if name, ok := c.Models[t]; ok {
			return name
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier remapped.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return &Config{Models: models}
}
