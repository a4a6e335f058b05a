package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const yandexCompletionURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

// YandexProvider sends completions to the YandexGPT foundation models API.
type YandexProvider struct {
	apiKey     string
	modelURI   string
	httpClient *http.Client
}

// YandexConfig holds configuration for the YandexGPT provider.
type YandexConfig struct {
	APIKey         string
	FolderID       string
	Model          string // optional, defaults to yandexgpt-lite
	RequestTimeout time.Duration
}

// NewYandex creates a YandexGPT provider.
func NewYandex(cfg YandexConfig) (*YandexProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("yandex: api key required")
	}
	if cfg.FolderID == "" {
		return nil, errors.New("yandex: folder id required")
	}

	model := cfg.Model
	if model == "" {
		model = "yandexgpt-lite"
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &YandexProvider{
		apiKey:   cfg.APIKey,
		modelURI: fmt.Sprintf("gpt://%s/%s", cfg.FolderID, model),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name returns the provider name.
func (p *YandexProvider) Name() string { return "yandexgpt" }

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexRequest struct {
	ModelURI          string `json:"modelUri"`
	CompletionOptions struct {
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"maxTokens"`
	} `json:"completionOptions"`
	Messages []yandexMessage `json:"messages"`
}

type yandexResponse struct {
	Result struct {
		Alternatives []struct {
			Message yandexMessage `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
}

// Complete sends one completion request.
func (p *YandexProvider) Complete(ctx context.Context, systemPrompt, input string) (string, error) {
	payload := yandexRequest{
		ModelURI: p.modelURI,
		Messages: []yandexMessage{
			{Role: "system", Text: systemPrompt},
			{Role: "user", Text: input},
		},
	}
	payload.CompletionOptions.Temperature = 0.8
	payload.CompletionOptions.MaxTokens = 2000

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("yandex: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, yandexCompletionURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("yandex: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Api-Key "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandex: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("yandex: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandex: api error: %s", resp.Status)
	}

	var parsed yandexResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("yandex: parse response: %w", err)
	}
	if len(parsed.Result.Alternatives) == 0 {
		return "", errors.New("yandex: empty completion")
	}

	return parsed.Result.Alternatives[0].Message.Text, nil
}
