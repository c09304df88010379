package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion   = "2023-06-01"
	anthropicDefaultModel = "claude-sonnet-4-20250514"
	anthropicMaxTokens    = 8192
)

type anthropicProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func newAnthropic(model string, timeout time.Duration) *anthropicProvider {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &anthropicProvider{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		model:  model,
		client: newHTTPClient(timeout),
	}
}

func (p *anthropicProvider) Name() string      { return "anthropic" }
func (p *anthropicProvider) Model() string     { return p.model }
func (p *anthropicProvider) Available() bool   { return p.apiKey != "" }
func (p *anthropicProvider) ContextLimit() int { return anthropicContextLimit }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !p.Available() {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: "ANTHROPIC_API_KEY is not set"}
	}

	body := anthropicRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", transportError(p.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(p.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(p.Name(), resp.StatusCode, respBody)
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: fmt.Sprintf("parsing response: %v", err)}
	}

	var content string
	for _, block := range result.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return content, nil
}
