// Package ai provides the Claude-backed collaborators: free-text
// generation for conversational replies and vision analysis for
// project photos.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/circuitbreaker"
	"github.com/infinitydev4/reenove-sub000/internal/config"
	apperrors "github.com/infinitydev4/reenove-sub000/internal/errors"
	"github.com/infinitydev4/reenove-sub000/internal/middleware"
)

// maxImageBytes caps a fetched photo at 5 MB, the API limit for a
// single base64 image block.
const maxImageBytes = 5 * 1024 * 1024

// ClaudeClient handles communication with the Anthropic API.
type ClaudeClient struct {
	apiKey         string
	model          string
	baseURL        string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

// NewClaudeClient creates a new Claude client.
func NewClaudeClient(cfg *config.AnthropicConfig, logger *zap.Logger) *ClaudeClient {
	cbConfig := &circuitbreaker.Config{
		FailureThreshold:    5,
		SuccessThreshold:    3,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 3,
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	return &ClaudeClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		circuitBreaker: circuitbreaker.New("claude-api", cbConfig, logger),
		logger:         logger,
	}
}

// claudeRequest represents a request to the Claude API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is one conversation message made of content blocks.
type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is either a text block or a base64 image block.
type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// claudeResponse represents a response from the Claude API.
type claudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// claudeError represents an error response from the Claude API.
type claudeError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a single-turn prompt and returns the reply text.
func (c *ClaudeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating text",
		zap.Int("prompt_length", len(prompt)),
	)

	blocks := []contentBlock{{Type: "text", Text: prompt}}
	response, err := c.sendMessage(ctx, blocks)
	if err != nil {
		return "", apperrors.GenerationError(err)
	}
	return response, nil
}

// EncodedImage is a photo fetched and prepared for a vision request.
type EncodedImage struct {
	MediaType string
	Data      string
}

// AnalyzeImages runs a vision request over the given photos with the
// given instruction and returns the analysis text.
func (c *ClaudeClient) AnalyzeImages(ctx context.Context, images []EncodedImage, prompt string) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no images to analyze")
	}

	blocks := make([]contentBlock, 0, len(images)+1)
	for _, img := range images {
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Data,
			},
		})
	}
	blocks = append(blocks, contentBlock{Type: "text", Text: prompt})

	c.logger.Debug("analyzing images", zap.Int("count", len(images)))

	response, err := c.sendMessage(ctx, blocks)
	if err != nil {
		return "", apperrors.Wrap(err, "ai.AnalyzeImages", apperrors.CodeExternalService, "photo analysis failed")
	}
	return response, nil
}

// FetchImage downloads a photo URL and base64-encodes it for a vision
// request. Non-image content types and oversized bodies are rejected.
func (c *ClaudeClient) FetchImage(ctx context.Context, url string) (EncodedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return EncodedImage{}, fmt.Errorf("failed to create image request: %w", err)
	}
	middleware.PropagateHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return EncodedImage{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return EncodedImage{}, apperrors.PhotoRejected(fmt.Sprintf("image fetch returned status %d", resp.StatusCode))
	}

	mediaType := resp.Header.Get("Content-Type")
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return EncodedImage{}, apperrors.PhotoRejected(fmt.Sprintf("unsupported content type %q", mediaType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return EncodedImage{}, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(body) > maxImageBytes {
		return EncodedImage{}, apperrors.PhotoRejected(fmt.Sprintf("image exceeds %d bytes", maxImageBytes))
	}

	return EncodedImage{
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(body),
	}, nil
}

// CircuitBreakerStats returns the current circuit breaker statistics.
func (c *ClaudeClient) CircuitBreakerStats() circuitbreaker.Stats {
	return c.circuitBreaker.Stats()
}

// IsCircuitOpen returns true if the circuit breaker is open.
func (c *ClaudeClient) IsCircuitOpen() bool {
	return c.circuitBreaker.IsOpen()
}

// ResetCircuitBreaker resets the circuit breaker to closed state.
// Use with caution - typically for administrative purposes.
func (c *ClaudeClient) ResetCircuitBreaker() {
	c.circuitBreaker.Reset()
}

// sendMessage sends content blocks through the circuit breaker and
// returns the response text.
func (c *ClaudeClient) sendMessage(ctx context.Context, blocks []contentBlock) (string, error) {
	var result string

	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = c.doSendMessage(ctx, blocks)
		return execErr
	})

	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return "", apperrors.Wrap(err, "ai.sendMessage", apperrors.CodeCircuitOpen, "service temporarily unavailable")
		}
		return "", err
	}

	return result, nil
}

// doSendMessage performs the actual HTTP request to Claude API.
func (c *ClaudeClient) doSendMessage(ctx context.Context, blocks []contentBlock) (string, error) {
	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []claudeMessage{
			{
				Role:    "user",
				Content: blocks,
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp claudeError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("Claude API error: %s - %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("Claude API error: status %d", resp.StatusCode)
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	c.logger.Debug("response received",
		zap.Int("input_tokens", claudeResp.Usage.InputTokens),
		zap.Int("output_tokens", claudeResp.Usage.OutputTokens),
	)

	return claudeResp.Content[0].Text, nil
}
