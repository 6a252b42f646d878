package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"

	"google.golang.org/genai"
)

// ModelCaller dispatches one rendered prompt to an upstream LLM provider and
// returns the raw answer with its elapsed time. Failures surface as
// UpstreamCallError; the analyzer is responsible for containing them.
type ModelCaller interface {
	Call(ctx context.Context, modelName, prompt, systemInstruction string) (models.RawModelResponse, error)
}

// GeminiCaller talks to Google models through the genai SDK.
type GeminiCaller struct {
	client *genai.Client
}

func NewGeminiCaller(ctx context.Context, apiKey string) (*GeminiCaller, error) {
	config := &genai.ClientConfig{}
	if apiKey != "" {
		config.APIKey = apiKey
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return &GeminiCaller{client: client}, nil
}

func (g *GeminiCaller) Call(ctx context.Context, modelName, prompt, systemInstruction string) (models.RawModelResponse, error) {
	var config *genai.GenerateContentConfig
	if systemInstruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), config)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return models.RawModelResponse{ElapsedMs: elapsed}, &UpstreamCallError{Model: modelName, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return models.RawModelResponse{ElapsedMs: elapsed}, &UpstreamCallError{Model: modelName, Err: errors.New("empty response")}
	}
	return models.RawModelResponse{Text: text, ElapsedMs: elapsed}, nil
}

// OpenAICaller talks to OpenAI-compatible chat-completion endpoints over
// plain HTTP.
type OpenAICaller struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewOpenAICaller(apiKey, endpoint string) *OpenAICaller {
	return &OpenAICaller{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *OpenAICaller) Call(ctx context.Context, modelName, prompt, systemInstruction string) (models.RawModelResponse, error) {
	start := time.Now()

	resp, err := c.send(ctx, modelName, prompt, systemInstruction)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return models.RawModelResponse{ElapsedMs: elapsed}, &UpstreamCallError{Model: modelName, Err: err}
	}
	return models.RawModelResponse{Text: resp, ElapsedMs: elapsed}, nil
}

func (c *OpenAICaller) send(ctx context.Context, modelName, prompt, systemInstruction string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("openai client misconfigured: missing API key")
	}

	messages := []chatMessage{}
	if systemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemInstruction})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(map[string]interface{}{
		"model":    modelName,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(responseData.Choices) == 0 {
		return "", errors.New("unexpected response format: no choices")
	}
	return responseData.Choices[0].Message.Content, nil
}

// ProviderRegistry selects the caller responsible for a model name.
type ProviderRegistry struct {
	gemini ModelCaller
	openai ModelCaller
}

func NewProviderRegistry(gemini, openai ModelCaller) *ProviderRegistry {
	return &ProviderRegistry{gemini: gemini, openai: openai}
}

// CallerFor routes by model-name substring: gpt/o-series names go to the
// OpenAI caller, gemini names to the Gemini caller.
func (r *ProviderRegistry) CallerFor(modelName string) (ModelCaller, error) {
	name := strings.ToLower(modelName)

	switch {
	case strings.Contains(name, "gpt") || strings.HasPrefix(name, "o1") || strings.HasPrefix(name, "o3"):
		if r.openai == nil {
			return nil, fmt.Errorf("openai provider not configured for model %s", modelName)
		}
		return r.openai, nil
	case strings.Contains(name, "gemini"):
		if r.gemini == nil {
			return nil, fmt.Errorf("gemini provider not configured for model %s", modelName)
		}
		return r.gemini, nil
	}
	return nil, fmt.Errorf("unsupported model: %s", modelName)
}
