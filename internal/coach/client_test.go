package coach

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaizenlab/pdca-coach/internal/prompt"
	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var chunks []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return chunks
			}
			chunks = append(chunks, chunk)
		case <-timeout:
			t.Fatal("stream did not terminate")
		}
	}
}

func TestStreamSuggestion_Offline(t *testing.T) {
	var hits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer backend.Close()

	// Empty base URL means offline regardless of any reachable server.
	c := New("", backend.Client())
	if !c.Offline() {
		t.Fatal("client with empty base URL should be offline")
	}

	chunks := collect(t, c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Plan, workflow.StageRecord{}, "help"))
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want exactly 1", len(chunks))
	}
	if chunks[0] != OfflineNotice {
		t.Errorf("chunk = %q, want offline notice", chunks[0])
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("offline client made %d network calls, want 0", n)
	}
}

func TestStreamSuggestion_Success(t *testing.T) {
	var captured struct {
		path string
		body map[string]any
	}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &captured.body)
		w.Write([]byte(`{"text":"good plan, tighten the metrics"}`))
	}))
	defer backend.Close()

	c := New(backend.URL, backend.Client())
	data := workflow.StageRecord{"goal": "grow 20%"}
	chunks := collect(t, c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Plan, data, "review this"))

	if len(chunks) != 1 || chunks[0] != "good plan, tighten the metrics" {
		t.Errorf("chunks = %v", chunks)
	}
	if captured.path != "/coach" {
		t.Errorf("path = %q, want /coach", captured.path)
	}
	if captured.body["mode"] != "A" || captured.body["step"] != "p" {
		t.Errorf("framing = mode %v step %v", captured.body["mode"], captured.body["step"])
	}
	if captured.body["prompt"] != "review this" {
		t.Errorf("prompt = %v", captured.body["prompt"])
	}
	current, _ := captured.body["currentData"].(map[string]any)
	if current["goal"] != "grow 20%" {
		t.Errorf("currentData = %v", captured.body["currentData"])
	}
}

func TestStreamSuggestion_EmptyTextPlaceholder(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":""}`))
	}))
	defer backend.Close()

	c := New(backend.URL, backend.Client())
	chunks := collect(t, c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Do, workflow.StageRecord{}, "hi"))
	if len(chunks) != 1 || chunks[0] != NoContentPlaceholder {
		t.Errorf("chunks = %v, want placeholder", chunks)
	}
}

func TestStreamSuggestion_ServerError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Missing DEEPSEEK_API_KEY. Set it in the relay environment."}`))
	}))
	defer backend.Close()

	c := New(backend.URL, backend.Client())
	chunks := collect(t, c.StreamSuggestion(context.Background(), workflow.ProblemResolution, workflow.Check, workflow.StageRecord{}, "hi"))

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0], "server returned an error (500)") {
		t.Errorf("chunk missing status prefix: %q", chunks[0])
	}
	if !strings.Contains(chunks[0], "DEEPSEEK_API_KEY") {
		t.Errorf("chunk missing raw body: %q", chunks[0])
	}
}

func TestStreamSuggestion_TransportFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := backend.URL
	backend.Close()

	c := New(url, nil)
	chunks := collect(t, c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Act, workflow.StageRecord{}, "hi"))
	if len(chunks) != 1 || chunks[0] != NetworkErrorNotice {
		t.Errorf("chunks = %v, want network error notice", chunks)
	}
}

func TestStreamSuggestion_FreshChannelPerCall(t *testing.T) {
	c := New("", nil)
	first := c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Plan, nil, "a")
	second := c.StreamSuggestion(context.Background(), workflow.GoalExecution, workflow.Plan, nil, "b")
	if first == second {
		t.Error("StreamSuggestion reused a channel across calls")
	}
	collect(t, first)
	collect(t, second)
}

func TestAuditPDCA_Framing(t *testing.T) {
	var captured map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &captured)
		w.Write([]byte(`{"text":"solid loop"}`))
	}))
	defer backend.Close()

	c := New(backend.URL, backend.Client())
	state := workflow.DefaultState()
	if err := state.SetField(workflow.ProblemResolution, workflow.Plan, "problem", "latency"); err != nil {
		t.Fatal(err)
	}

	got, err := c.AuditPDCA(context.Background(), workflow.ProblemResolution, state.StageSet(workflow.ProblemResolution))
	if err != nil {
		t.Fatalf("AuditPDCA: %v", err)
	}
	if got != "solid loop" {
		t.Errorf("audit = %q", got)
	}

	if captured["step"] != prompt.AuditStageKey {
		t.Errorf("step = %v, want %q", captured["step"], prompt.AuditStageKey)
	}
	if captured["mode"] != "B" {
		t.Errorf("mode = %v, want B", captured["mode"])
	}
	snapshot, _ := captured["currentData"].(map[string]any)
	for _, key := range []string{"p", "d", "c", "a"} {
		if _, ok := snapshot[key]; !ok {
			t.Errorf("audit snapshot missing stage %q", key)
		}
	}
}

func TestAuditPDCA_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New("http://127.0.0.1:1", nil)
	if _, err := c.AuditPDCA(ctx, workflow.GoalExecution, nil); err == nil {
		t.Error("AuditPDCA with cancelled context should return an error")
	}
}

func TestQuickPrompts(t *testing.T) {
	for _, v := range workflow.Variants() {
		prompts := QuickPrompts(v)
		if len(prompts) != 4 {
			t.Errorf("QuickPrompts(%s) = %d entries, want 4", v.Key(), len(prompts))
		}
		for _, p := range prompts {
			if p.Title == "" || p.Prompt == "" {
				t.Errorf("QuickPrompts(%s) has empty entry: %+v", v.Key(), p)
			}
		}
	}
}
