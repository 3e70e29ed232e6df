// Package assistant talks to an OpenAI-compatible chat completions API.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultRequestTimeout is the budget for one completion request. The client
// does not enforce it; callers configure it on the http.Client they pass in.
const DefaultRequestTimeout = 10 * time.Second

const (
	DefaultModel   = openai.GPT3Dot5Turbo
	DefaultBaseURL = "https://api.openai.com/v1"

	maxTokens        = 500
	temperature      = 0.7
	maxSubtasks      = 7
	emptyReplyAnswer = "Desculpe, não consegui processar sua mensagem."
)

var ErrNotConfigured = errors.New("assistant: api key not configured")

var bulletPrefix = regexp.MustCompile(`^[-•*\d.)\s]+`)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Client struct {
	cfg Config
	api *openai.Client
}

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	if httpClient != nil {
		apiCfg.HTTPClient = httpClient
	}
	return &Client{cfg: cfg, api: openai.NewClientWithConfig(apiCfg)}
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

// SendMessage sends one user message with the system prompt built from ws and
// returns the reply text.
func (c *Client) SendMessage(ctx context.Context, message string, ws *Workspace) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(ws)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", fmt.Errorf("assistant: %s", apiErr.Message)
		}
		return "", fmt.Errorf("assistant: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return emptyReplyAnswer, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateSubtasks asks for up to seven subtasks for a project. It always
// returns a usable list: DefaultSubtasks is returned when the client is not
// configured or the request fails, together with the failure.
func (c *Client) GenerateSubtasks(ctx context.Context, title, description string) ([]string, error) {
	if !c.Configured() {
		return DefaultSubtasks(), nil
	}

	reply, err := c.SendMessage(ctx, subtasksPrompt(title, description), nil)
	if err != nil {
		return DefaultSubtasks(), err
	}

	subtasks := ParseSubtaskList(reply)
	if len(subtasks) == 0 {
		return DefaultSubtasks(), nil
	}
	return subtasks, nil
}

// ParseSubtaskList reads one subtask per line, stripping list bullets and
// numbering.
func ParseSubtaskList(reply string) []string {
	var subtasks []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		subtasks = append(subtasks, line)
		if len(subtasks) == maxSubtasks {
			break
		}
	}
	return subtasks
}

// AnalyzeProductivity asks for a short analysis of ws. On failure it returns
// DefaultProductivityAnalysis together with the failure.
func (c *Client) AnalyzeProductivity(ctx context.Context, ws Workspace) (string, error) {
	reply, err := c.SendMessage(ctx, productivityPrompt(ws), &ws)
	if err != nil {
		return DefaultProductivityAnalysis(ws.Metrics), err
	}
	return reply, nil
}
