package constants

import "time"

const (
	// DefaultEndpoint is the OpenAI-compatible base URL of a local llama-swappo instance.
	DefaultEndpoint = "http://localhost:8080/v1"
	// DefaultApiKey is sent when no key is configured; local backends ignore it.
	DefaultApiKey = "dummy"
	// DefaultOllamaEndpoint is the Ollama-native API of the same instance.
	DefaultOllamaEndpoint = "http://localhost:8080/api"

	APIOpenAI = "openai"
	APIOllama = "ollama"

	// DefaultModel is the "fast" alias selected when chat is started without one.
	DefaultModel     = "deepseek"
	DefaultMaxTokens = 500
	DefaultTimeout   = 5 * time.Minute

	DefaultDashboardPort = "8081"
	DefaultDashboardDir  = "webui"

	DefaultBenchPause = time.Second
)
