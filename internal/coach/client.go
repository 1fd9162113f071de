package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/kaizenlab/pdca-coach/internal/prompt"
	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

// Fixed messages surfaced as chat content. Failures are conversation
// content here, not thrown faults: the consumer inspects what it reads.
const (
	OfflineNotice = "Offline mode: the editor works fully, but AI coach feedback needs a " +
		"running relay server. Set COACH_SERVER_URL and configure DEEPSEEK_API_KEY on the relay."
	NoContentPlaceholder = "(the model returned no content)"
	NetworkErrorNotice   = "The coach could not be reached. Check your network connection and try again."
	serverErrorPrefix    = "The coach could not generate a review: server returned an error (%d).\n\n%s"
)

// Client talks to the relay service. An empty base URL puts the client
// in offline mode: a deliberate degradation path, not an error.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a coach client. httpClient may be nil; transport defaults
// then bound the request (no explicit timeout, matching the relay).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

// Offline reports whether the client has no backend to talk to.
func (c *Client) Offline() bool {
	return c.baseURL == ""
}

// coachRequest mirrors the relay's wire contract.
type coachRequest struct {
	Mode        string `json:"mode"`
	Step        string `json:"step"`
	CurrentData any    `json:"currentData"`
	Prompt      string `json:"prompt"`
}

type coachResponse struct {
	Text string `json:"text"`
}

// StreamSuggestion requests per-stage coaching and returns a finite
// channel of text chunks. Each call creates a fresh channel; it closes
// after at most one real chunk today, but the producer interface stays
// so a true-streaming backend is a drop-in replacement. The channel
// also closes when ctx is cancelled.
func (c *Client) StreamSuggestion(ctx context.Context, v workflow.Variant, stage workflow.Stage, stageData workflow.StageRecord, userPrompt string) <-chan string {
	out := make(chan string, 1)

	go func() {
		defer close(out)
		chunk := c.fetch(ctx, v.Key(), stage.Key(), stageData, userPrompt)
		select {
		case out <- chunk:
		case <-ctx.Done():
		}
	}()

	return out
}

// AuditPDCA requests a holistic review of the full four-stage record.
// Same backend, different framing: the audit pseudo stage and the whole
// variant snapshot instead of a single stage.
func (c *Client) AuditPDCA(ctx context.Context, v workflow.Variant, allStages workflow.StageSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.fetch(ctx, v.Key(), prompt.AuditStageKey, allStages, prompt.AuditUserPrompt), nil
}

// fetch performs the single relay round trip and maps every outcome,
// happy or not, to displayable text.
func (c *Client) fetch(ctx context.Context, mode, step string, currentData any, userPrompt string) string {
	if c.Offline() {
		return OfflineNotice
	}

	payload, err := json.Marshal(coachRequest{
		Mode:        mode,
		Step:        step,
		CurrentData: currentData,
		Prompt:      userPrompt,
	})
	if err != nil {
		log.Printf("[Coach] Failed to encode request: %v", err)
		return NetworkErrorNotice
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/coach", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Coach] Failed to build request: %v", err)
		return NetworkErrorNotice
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[Coach] Request failed: %v", err)
		return NetworkErrorNotice
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Coach] Failed to read response: %v", err)
		return NetworkErrorNotice
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf(serverErrorPrefix, resp.StatusCode, string(body))
	}

	var parsed coachResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Text == "" {
		return NoContentPlaceholder
	}
	return parsed.Text
}
