package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vnkhanh/flashcards-backend/models"
)

const (
	defaultAPIURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel      = "openai/gpt-4o-mini"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2 // tổng số lần gửi request (1 lần đầu + 1 retry)

	placeholderAPIKey = "your_openrouter_api_key_here"
)

// base delay cho exponential backoff: 1000ms * 2^(attempt-1).
// Là var để test rút ngắn thời gian chờ.
var retryBaseDelay = 1000 * time.Millisecond

// Proposal là flashcard do AI đề xuất, chưa lưu vào DB
type Proposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ModelParams: tham số sampling gửi kèm mỗi request
type ModelParams struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
	MaxTokens        int     `json:"max_tokens,omitempty"`
}

func defaultModelParams() ModelParams {
	return ModelParams{
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}
}

// OpenRouterConfig là cấu hình bất biến của client.
// Muốn đổi model/timeout/maxRetries thì tạo client mới qua WithModel/...,
// không mutate client đang dùng (tránh share state giữa các request).
type OpenRouterConfig struct {
	APIURL     string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Params     ModelParams
}

type OpenRouterClient struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterClient kiểm tra API key ngay lúc khởi tạo: thiếu key là lỗi
// cấu hình, phải fail ngay khi start server chứ không đợi đến lúc gọi AI.
func NewOpenRouterClient(cfg OpenRouterConfig) (*OpenRouterClient, error) {
	if cfg.APIKey == "" || cfg.APIKey == placeholderAPIKey {
		return nil, errors.New("OPENROUTER_API_KEY chưa được cấu hình")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Params == (ModelParams{}) {
		cfg.Params = defaultModelParams()
	}
	return &OpenRouterClient{
		cfg:        cfg,
		httpClient: &http.Client{},
	}, nil
}

// NewOpenRouterClientFromEnv đọc cấu hình từ biến môi trường
func NewOpenRouterClientFromEnv() (*OpenRouterClient, error) {
	cfg := OpenRouterConfig{
		APIKey: os.Getenv("OPENROUTER_API_KEY"),
		Model:  os.Getenv("OPENROUTER_MODEL"),
	}
	return NewOpenRouterClient(cfg)
}

// WithModel trả về client mới dùng model (và params nếu có) khác
func (c *OpenRouterClient) WithModel(model string, params *ModelParams) *OpenRouterClient {
	cfg := c.cfg
	cfg.Model = model
	if params != nil {
		cfg.Params = *params
	}
	return &OpenRouterClient{cfg: cfg, httpClient: c.httpClient}
}

// WithTimeout trả về client mới với timeout khác
func (c *OpenRouterClient) WithTimeout(d time.Duration) *OpenRouterClient {
	cfg := c.cfg
	cfg.Timeout = d
	return &OpenRouterClient{cfg: cfg, httpClient: c.httpClient}
}

// WithMaxRetries trả về client mới với tổng số lần gửi request khác
func (c *OpenRouterClient) WithMaxRetries(n int) *OpenRouterClient {
	cfg := c.cfg
	cfg.MaxRetries = n
	return &OpenRouterClient{cfg: cfg, httpClient: c.httpClient}
}

// WithHTTPClient cho phép thay http.Client (dùng trong test)
func (c *OpenRouterClient) WithHTTPClient(hc *http.Client) *OpenRouterClient {
	return &OpenRouterClient{cfg: c.cfg, httpClient: hc}
}

func (c *OpenRouterClient) Config() OpenRouterConfig {
	return c.cfg
}

// ==== wire types theo API chat completions của OpenRouter ====

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type requestPayload struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateFlashcards sinh danh sách flashcard đề xuất từ source text
func (c *OpenRouterClient) GenerateFlashcards(ctx context.Context, sourceText string) ([]Proposal, error) {
	payload := c.buildRequestPayload(buildPrompt(sourceText))
	resp, err := c.executeRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	return parseResponse(resp)
}

func buildPrompt(sourceText string) string {
	return fmt.Sprintf(`Generate flashcards from the following text. Create 3-5 high-quality flashcards.

Requirements:
- Each flashcard must have a "front" (question) and "back" (answer)
- Front text must be 200 characters or less
- Back text must be 500 characters or less
- Focus on key concepts, definitions, and important facts
- Make questions clear and specific
- Provide comprehensive but concise answers

Return ONLY a valid JSON array with this exact structure:
[
  {"front": "question here", "back": "answer here"},
  {"front": "question here", "back": "answer here"}
]

Source text:
%s`, sourceText)
}

func (c *OpenRouterClient) buildRequestPayload(prompt string) requestPayload {
	return requestPayload{
		Model:            c.cfg.Model,
		Messages:         []chatMessage{{Role: "user", Content: prompt}},
		Temperature:      c.cfg.Params.Temperature,
		TopP:             c.cfg.Params.TopP,
		FrequencyPenalty: c.cfg.Params.FrequencyPenalty,
		PresencePenalty:  c.cfg.Params.PresencePenalty,
		MaxTokens:        c.cfg.Params.MaxTokens,
	}
}

// executeRequest gửi request tuần tự với retry + exponential backoff.
// Chỉ retry 5xx / 429 và lỗi mạng; timeout và 4xx khác trả về ngay.
func (c *OpenRouterClient) executeRequest(ctx context.Context, payload requestPayload) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("không thể encode request payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.sendOnce(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == c.cfg.MaxRetries || !shouldRetry(err) {
			return nil, err
		}

		delay := retryBaseDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *OpenRouterClient) sendOnce(ctx context.Context, body []byte) (*apiResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("không thể tạo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// timeout của chính request này -> TimeoutError riêng biệt
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Timeout: c.cfg.Timeout}
		}
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("không thể đọc response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, &InvalidResponseError{
			Reason:  ReasonInvalidJSON,
			Message: "không thể parse response của OpenRouter",
			Snippet: snippet(string(respBody)),
		}
	}
	return &apiResp, nil
}

func shouldRetry(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		// retry 5xx và 429 (rate limit), các 4xx khác thì không
		return httpErr.Status >= 500 || httpErr.Status == http.StatusTooManyRequests
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return false
	}

	// lỗi mạng tạm thời (connection refused, reset...)
	var netErr net.Error
	return errors.As(err, &netErr)
}

// parseResponse tách content của choice đầu tiên, bỏ code fence markdown,
// parse JSON và validate từng phần tử. Field quá dài bị cắt bớt chứ không
// loại bỏ cả proposal.
func parseResponse(resp *apiResponse) ([]Proposal, error) {
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &InvalidResponseError{
			Reason:  ReasonEmptyResponse,
			Message: "OpenRouter trả về response rỗng",
		}
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var proposals []Proposal
	if err := json.Unmarshal([]byte(content), &proposals); err != nil {
		return nil, &InvalidResponseError{
			Reason:  ReasonInvalidJSON,
			Message: "không thể parse nội dung AI thành JSON",
			Snippet: snippet(content),
		}
	}

	if len(proposals) == 0 {
		return nil, &InvalidResponseError{
			Reason:  ReasonInvalidFormat,
			Message: "response không hợp lệ: cần mảng JSON không rỗng",
			Snippet: snippet(content),
		}
	}

	for i := range proposals {
		if proposals[i].Front == "" || proposals[i].Back == "" {
			return nil, &InvalidResponseError{
				Reason:  ReasonInvalidFormat,
				Message: fmt.Sprintf("proposal thứ %d thiếu front hoặc back", i),
			}
		}
		proposals[i].Front = truncateRunes(proposals[i].Front, models.MaxFrontLength)
		proposals[i].Back = truncateRunes(proposals[i].Back, models.MaxBackLength)
	}
	return proposals, nil
}

func stripCodeFence(content string) string {
	clean := strings.TrimSpace(content)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

func snippet(s string) string {
	return truncateRunes(s, 200)
}
