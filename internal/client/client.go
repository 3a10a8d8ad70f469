// Package client talks to the chat backend: the JSON chat endpoint and the
// multipart analyze endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/chatwidget/internal/attachment"
	"github.com/jask/chatwidget/internal/config"
)

// ErrMalformedReply is returned when the chat endpoint answers with something
// other than a JSON object carrying a string "reply".
var ErrMalformedReply = errors.New("chat: malformed reply")

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply *string `json:"reply"`
}

// AnalyzeResult reports how the analyze endpoint answered.
type AnalyzeResult struct {
	Status int
	Bytes  int64
}

// Client is safe for concurrent use.
type Client struct {
	chatURL    string
	analyzeURL string
	http       *http.Client
	log        zerolog.Logger
}

// New builds a client from the endpoint config. A nil httpClient uses one
// with cfg.Timeout.
func New(cfg config.EndpointConfig, httpClient *http.Client, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		chatURL:    base.String() + cfg.ChatPath,
		analyzeURL: base.String() + cfg.AnalyzePath,
		http:       httpClient,
		log:        log,
	}, nil
}

// Chat sends message and returns the reply text. The status code is not
// inspected; the body decides.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post chat: %w", err)
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if out.Reply == nil {
		return "", fmt.Errorf("%w: no reply field (status %d)", ErrMalformedReply, resp.StatusCode)
	}
	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Int("reply_len", len(*out.Reply)).
		Msg("chat reply")
	return *out.Reply, nil
}

// Analyze uploads f as the multipart field "file".
func (c *Client) Analyze(ctx context.Context, f attachment.File) (AnalyzeResult, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("open attachment: %w", err)
	}
	defer src.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", f.Name)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL, pr)
	if err != nil {
		pr.CloseWithError(err)
		return AnalyzeResult{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("post analyze: %w", err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("read analyze response: %w", err)
	}
	res := AnalyzeResult{Status: resp.StatusCode, Bytes: n}
	c.log.Info().Str("file", f.Name).Int("status", res.Status).Int64("bytes", n).Msg("analyze")
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("analyze: %s", resp.Status)
	}
	return res, nil
}
