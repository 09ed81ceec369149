package llm

// ProviderName identifies a supported model provider.
type ProviderName string

const (
	ProviderGoogle ProviderName = "google"
	ProviderVertex ProviderName = "vertex"
	ProviderOpenAI ProviderName = "openai"
	ProviderOllama ProviderName = "ollama"
	ProviderMock   ProviderName = "mock"
)

// Config holds the provider-specific settings needed to build a Client.
type Config struct {
	Provider ProviderName `koanf:"provider" json:"provider" validate:"required,oneof=google vertex openai ollama mock"`
	Model    string       `koanf:"model"    json:"model"    validate:"required"`
	APIKey   string       `koanf:"api_key"  json:"-"`
	APIURL   string       `koanf:"api_url"  json:"api_url,omitempty"`

	// Project and Region address Vertex AI deployments.
	Project string `koanf:"project" json:"project,omitempty"`
	Region  string `koanf:"region"  json:"region,omitempty"`
}
