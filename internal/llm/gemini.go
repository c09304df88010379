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
	geminiAPIURLFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	geminiDefaultModel = "gemini-2.5-flash"
)

type geminiProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func newGemini(model string, timeout time.Duration) *geminiProvider {
	if model == "" {
		model = geminiDefaultModel
	}
	return &geminiProvider{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  model,
		client: newHTTPClient(timeout),
	}
}

func (p *geminiProvider) Name() string      { return "gemini" }
func (p *geminiProvider) Model() string     { return p.model }
func (p *geminiProvider) Available() bool   { return p.apiKey != "" }
func (p *geminiProvider) ContextLimit() int { return geminiContextLimit }

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *geminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !p.Available() {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: "GEMINI_API_KEY is not set"}
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf(geminiAPIURLFormat, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

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

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: fmt.Sprintf("parsing response: %v", err)}
	}
	if len(result.Candidates) == 0 {
		return "", &ProviderError{Provider: p.Name(), Kind: KindTerminal, Message: "response contained no candidates"}
	}

	var content string
	for _, part := range result.Candidates[0].Content.Parts {
		content += part.Text
	}
	return content, nil
}
