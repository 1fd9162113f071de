package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatMessage is one turn in the upstream chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the upstream chat-completion request body.
type ChatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
	Messages    []ChatMessage `json:"messages"`
}

// chatChoice tolerates the two content locations providers use: the
// chat shape (message.content) and the legacy completion shape (text).
type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Text string `json:"text"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// UpstreamResult carries the raw upstream outcome back to the handler:
// status code and body are always present so non-2xx responses can be
// relayed verbatim.
type UpstreamResult struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream call succeeded.
func (r *UpstreamResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text extracts the first completion's text, checking message.content
// first and falling back to the legacy text field. A structurally empty
// response yields "".
func (r *UpstreamResult) Text() string {
	var parsed chatResponse
	if err := json.Unmarshal(r.Body, &parsed); err != nil {
		return ""
	}
	if len(parsed.Choices) == 0 {
		return ""
	}
	if content := parsed.Choices[0].Message.Content; content != "" {
		return content
	}
	return parsed.Choices[0].Text
}

// completionsURL joins the provider base URL with the chat-completions path.
func completionsURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/chat/completions"
}

// callUpstream issues a single non-streamed chat-completion request.
// A nil error with a non-2xx status is a successful relay of an
// unhappy upstream; a non-nil error means no response was obtained.
func callUpstream(ctx context.Context, client *http.Client, baseURL, apiKey string, reqBody *ChatRequest) (*UpstreamResult, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL(baseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	return &UpstreamResult{StatusCode: resp.StatusCode, Body: body}, nil
}
