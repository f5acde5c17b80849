// Package trivia talks to the external trivia API that supplies the daily
// conversation question and riddle quizzes.
package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const apiKeyHeader = "X-Api-Key"

// Client implements domain.TriviaSource.
type Client struct {
	client  *fiber.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a trivia client from cfg. An API key is required.
func NewClient(cfg config.TriviaConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("trivia base URL cannot be empty")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("trivia API key cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultServiceTimeout
	}
	return &Client{
		client:  &fiber.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}, nil
}

type triviaItem struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type riddleItem struct {
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type randomWord struct {
	Word json.RawMessage `json:"word"`
}

func (c *Client) Trivia(ctx context.Context) (string, error) {
	var items []triviaItem
	if err := c.getJSON(ctx, "/v1/trivia", &items); err != nil {
		return "", err
	}
	if len(items) == 0 || items[0].Question == "" {
		return "", domain.NewMalformedResponseError("trivia response has no question", nil)
	}
	return items[0].Question, nil
}

func (c *Client) Riddle(ctx context.Context) (string, string, error) {
	var items []riddleItem
	if err := c.getJSON(ctx, "/v1/riddles", &items); err != nil {
		return "", "", err
	}
	if len(items) == 0 || items[0].Question == "" {
		return "", "", domain.NewMalformedResponseError("riddle response has no question", nil)
	}
	return items[0].Question, items[0].Answer, nil
}

// RandomWord accepts both {"word":"x"} and {"word":["x"]}.
func (c *Client) RandomWord(ctx context.Context) (string, error) {
	var resp randomWord
	if err := c.getJSON(ctx, "/v1/randomword", &resp); err != nil {
		return "", err
	}

	var words []string
	if err := json.Unmarshal(resp.Word, &words); err == nil {
		if len(words) > 0 && words[0] != "" {
			return words[0], nil
		}
		return "", domain.NewMalformedResponseError("random word response is empty", nil)
	}
	var word string
	if err := json.Unmarshal(resp.Word, &word); err != nil || word == "" {
		return "", domain.NewMalformedResponseError("random word response has no word", err)
	}
	return word, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return domain.NewTransportFailureError(path, err)
	}

	agent := c.client.Get(c.baseURL + path)
	agent.Set(apiKeyHeader, c.apiKey)
	agent.Timeout(c.timeout)
	if err := agent.Parse(); err != nil {
		return domain.NewTransportFailureError(path, err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		logger.Get().Warn("Trivia: no response", zap.String("path", path), zap.Error(err))
		return domain.NewTransportFailureError(path, err)
	}
	if status != fiber.StatusOK {
		logger.Get().Warn("Trivia: unexpected status",
			zap.String("path", path),
			zap.Int("status", status),
			zap.ByteString("body", body))
		return domain.NewServiceError(path, status, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.NewMalformedResponseError(fmt.Sprintf("cannot parse %s response", path), err)
	}
	return nil
}
