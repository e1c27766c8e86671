package llm

import (
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go/v2/option"

	"github.com/tenderdesk/tenderdesk/internal/common"
	"github.com/tenderdesk/tenderdesk/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider selects the drafting backend from the environment: OpenAI when
// OPENAI_API_KEY is set, otherwise a local stub so the rest of the API keeps
// working without a key.
func NewProvider() Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		logger.Warn("llm: OPENAI_API_KEY not set; falling back to local provider")
		return providers.NewLocalProvider()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); endpoint != "" {
		logger.Info("llm: using custom OpenAI endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(opts...)
}

// NormalizeMessages lowercases roles and rejects empty conversations.
func NormalizeMessages(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}
	for i := range messages {
		messages[i].Role = strings.ToLower(messages[i].Role)
	}
	return messages, nil
}
