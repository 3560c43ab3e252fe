package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Show an intermediate progress message every N answers
	ProgressUpdateInterval int
	// Maximum words accepted into one drill session
	MaxWordsPerSession int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ProgressUpdateInterval: 5,
		MaxWordsPerSession:     300,
	}
}
