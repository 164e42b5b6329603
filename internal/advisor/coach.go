// Package advisor produces coaching advice for a member through an
// OpenAI-compatible chat completion API.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/config"
	"neonfit/studio-tracker/internal/domain"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingAPIKey    = errors.New("advisor API key is not configured")
	ErrAdviceFailed     = errors.New("advice request failed")
	ErrAdviceInProgress = errors.New("advice for this member is already being generated")
)

const (
	defaultModel       = "moonshot-v1-8k"
	defaultTemperature = 0.7
)

// Advice is the text to show for an advice request. Text is always set, also
// when an error is returned alongside it.
type Advice struct {
	Text     string   `json:"advice"`
	Language Language `json:"language"`
}

// Coach generates advice. It allows one request per member at a time.
type Coach struct {
	client      Client // nil when no API key is configured
	model       string
	temperature float64

	inFlight sync.Map // member id -> struct{}
}

// NewCoach builds a Coach from configuration. Without an API key it still
// works but answers every request with MissingKeyMessage.
func NewCoach(cfg config.AdvisorConfig) *Coach {
	var client Client
	if strings.TrimSpace(cfg.APIKey) != "" {
		client = NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
	}
	return NewCoachWithClient(client, cfg.Model, cfg.Temperature)
}

// NewCoachWithClient builds a Coach around an existing client, which may be nil.
func NewCoachWithClient(client Client, model string, temperature float64) *Coach {
	if model == "" {
		model = defaultModel
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Coach{client: client, model: model, temperature: temperature}
}

// Configured reports whether the coach can reach a completion API.
func (c *Coach) Configured() bool {
	return c.client != nil
}

// Advise asks the completion API about member. It returns ErrMissingAPIKey or
// an error wrapping ErrAdviceFailed together with the localized message to
// show, and ErrAdviceInProgress while another request for the member runs.
func (c *Coach) Advise(ctx context.Context, member *domain.Member, question string, lang Language) (Advice, error) {
	advice := Advice{Language: lang}
	if c.client == nil {
		advice.Text = MissingKeyMessage(lang)
		return advice, ErrMissingAPIKey
	}

	if _, busy := c.inFlight.LoadOrStore(member.ID, struct{}{}); busy {
		return advice, ErrAdviceInProgress
	}
	defer c.inFlight.Delete(member.ID)

	content, err := c.client.Complete(ctx, CompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(member.Name, member.Workouts, question, lang)},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		log.Errorf("advice for member %s: %v", member.ID, err)
		advice.Text = FailureMessage(lang)
		return advice, fmt.Errorf("%w: %w", ErrAdviceFailed, err)
	}

	if strings.TrimSpace(content) == "" {
		content = NoAdviceMessage
	}
	advice.Text = content
	return advice, nil
}
