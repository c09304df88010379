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
	openAIAPIURL       = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o"
)

type openAIProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func newOpenAI(model string, timeout time.Duration) *openAIProvider {
	if model == "" {
		model = openAIDefaultModel
	}
	return &openAIProvider{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  model,
		client: newHTTPClient(timeout),
	}
}

func (p *openAIProvider) Name() string      { return "openai" }
func (p *openAIProvider) Model() string     { return p.model }
func (p *openAIProvider) Available() bool   { return p.apiKey != "" }
func (p *openAIProvider) ContextLimit() int { return openAIContextLimit }

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !p.Available() {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: "OPENAI_API_KEY is not set"}
	}

	body := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: fmt.Sprintf("parsing response: %v", err)}
	}
	if len(result.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: "response contained no choices"}
	}
	return result.Choices[0].Message.Content, nil
}
