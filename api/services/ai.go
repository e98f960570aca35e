package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// CompletionProvider is the interface for generative text model providers.
// The system prompt carries the adaptive master prompt; the user prompt
// carries the task template.
type CompletionProvider interface {
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)
	GetProviderName() string
}

// GeminiProvider calls the Google Generative Language REST API.
type GeminiProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

func NewCompletionProvider(provider, apiKey, model string) CompletionProvider {
	switch strings.ToLower(provider) {
	case "openai":
		return &OpenAIProvider{
			APIKey: apiKey,
			Model:  model,
			Client: &http.Client{},
		}
	default:
		return &GeminiProvider{
			APIKey: apiKey,
			Model:  model,
			Client: &http.Client{},
		}
	}
}

func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.Model, url.QueryEscape(g.APIKey),
	)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
	}
	if systemPrompt != "" {
		reqBody["system_instruction"] = map[string]interface{}{
			"parts": []map[string]string{{"text": systemPrompt}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &CompletionError{Provider: g.GetProviderName(), Err: fmt.Errorf("no content in response")}
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func (o *OpenAIProvider) GetProviderName() string {
	return "openai"
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	endpoint := "https://api.openai.com/v1/chat/completions"

	reqBody := map[string]interface{}{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 4096,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.APIKey))

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(result.Choices) == 0 {
		return "", &CompletionError{Provider: o.GetProviderName(), Err: fmt.Errorf("no choices in response")}
	}

	return result.Choices[0].Message.Content, nil
}
