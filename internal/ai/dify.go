package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rebeccawang123/twincity/internal/config"
)

const difyUser = "twin-city-user"

// DifyClient talks to the three Dify endpoints: the router (blocking chat),
// the workflow (blocking, nested inputs) and the merchant agent (streaming
// SSE). Timeouts are left to the transport defaults.
type DifyClient struct {
	cfg        config.DifyConfig
	httpClient *http.Client
}

func NewDifyClient(cfg config.DifyConfig) *DifyClient {
	return &DifyClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// DifyResponse is the blocking-mode envelope. Chat endpoints fill Answer;
// workflow endpoints nest theirs under outputs.result.
type DifyResponse struct {
	Answer  string         `json:"answer"`
	Outputs map[string]any `json:"outputs"`
}

// DisplayText picks whichever field the endpoint populated.
func (r *DifyResponse) DisplayText() string {
	if r == nil {
		return ""
	}
	if r.Answer != "" {
		return r.Answer
	}
	if r.Outputs != nil {
		if s, ok := r.Outputs["result"].(string); ok {
			return s
		}
	}
	return ""
}

// RouterChat sends one blocking chat-message request to the intent router.
func (d *DifyClient) RouterChat(ctx context.Context, query string) (*DifyResponse, error) {
	return d.blocking(ctx, d.cfg.RouterURL, d.cfg.RouterKey, map[string]any{
		"inputs":        map[string]any{},
		"query":         query,
		"response_mode": "blocking",
		"user":          difyUser,
	})
}

// Workflow sends one blocking workflow request; the query travels inside
// inputs.
func (d *DifyClient) Workflow(ctx context.Context, query string) (*DifyResponse, error) {
	return d.blocking(ctx, d.cfg.WorkflowURL, d.cfg.WorkflowKey, map[string]any{
		"inputs":        map[string]any{"query": query},
		"response_mode": "blocking",
		"user":          difyUser,
	})
}

func (d *DifyClient) blocking(ctx context.Context, url, key string, payload map[string]any) (*DifyResponse, error) {
	if url == "" || key == "" {
		return nil, errors.New("dify endpoint not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dify returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out DifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MerchantStream runs the streaming chat endpoint and reassembles the answer
// from agent_message frames. Malformed chunks are skipped, not fatal; the
// stream runs to completion or failure with no user-triggered abort.
func (d *DifyClient) MerchantStream(ctx context.Context, query string) (string, error) {
	if d.cfg.MerchantURL == "" || d.cfg.MerchantKey == "" {
		return "", errors.New("dify merchant endpoint not configured")
	}
	body, err := json.Marshal(map[string]any{
		"inputs":        map[string]any{},
		"query":         query,
		"response_mode": "streaming",
		"user":          difyUser,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.MerchantURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.MerchantKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("dify merchant returned status %d: %s", resp.StatusCode, string(raw))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		if data == "" || data == "[DONE]" {
			continue
		}

		var frame struct {
			Event  string `json:"event"`
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			continue // skip malformed chunks, keep reading
		}
		if frame.Event == "agent_message" {
			full.WriteString(frame.Answer)
		}
	}
	if err := scanner.Err(); err != nil && full.Len() == 0 {
		return "", err
	}
	return full.String(), nil
}
