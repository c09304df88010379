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
	ollamaDefaultHost  = "http://localhost:11434"
	ollamaDefaultModel = "gemma3:latest"
)

type ollamaProvider struct {
	host   string
	model  string
	client *http.Client
}

func newOllama(model string, timeout time.Duration) *ollamaProvider {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = ollamaDefaultHost
	}
	if model == "" {
		model = ollamaDefaultModel
	}
	return &ollamaProvider{
		host:   host,
		model:  model,
		client: newHTTPClient(timeout),
	}
}

func (p *ollamaProvider) Name() string  { return "ollama" }
func (p *ollamaProvider) Model() string { return p.model }

// Available is true whenever a host is configured; a local daemon needs no key.
func (p *ollamaProvider) Available() bool   { return p.host != "" }
func (p *ollamaProvider) ContextLimit() int { return ollamaContextLimit }

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (p *ollamaProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := ollamaRequest{
		Model:  p.model,
		System: systemPrompt,
		Prompt: userPrompt,
		Stream: false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var result ollamaResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: fmt.Sprintf("parsing response: %v", err)}
	}
	return result.Response, nil
}
