package config

type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

func loadOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
		Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
	}
}
