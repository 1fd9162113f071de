package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kaizenlab/pdca-coach/internal/prompt"
)

// Temperature is fixed low for review-style output.
const temperature = 0.3

// CoachRequest is the client-facing wire contract. The client supplies
// mode/step/data and its free-form prompt; the system instruction is
// always built server-side so a client cannot inject one.
type CoachRequest struct {
	Mode        string          `json:"mode"`
	Step        string          `json:"step"`
	CurrentData json.RawMessage `json:"currentData"`
	Prompt      string          `json:"prompt"`
}

// CoachResponse is the success payload.
type CoachResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the shape of every non-2xx payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler relays coaching requests to the upstream provider. It is
// stateless: every request is independent and carries no session state,
// so the relay can be replicated freely.
type Handler struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewHandler creates a relay handler. client may be nil, in which case
// http.DefaultClient's transport defaults bound the upstream call.
func NewHandler(apiKey, baseURL, model string, client *http.Client) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  client,
	}
}

// RegisterRoutes registers the relay routes. The /coach route accepts
// all methods so non-POST requests get the contract's fixed 405 body
// instead of the router's default.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/coach", h.HandleCoach)
}

// HandleCoach handles POST /coach plus the CORS pre-flight.
func (h *Handler) HandleCoach(w http.ResponseWriter, r *http.Request) {
	// A single bad request must never take the process down.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Relay] Recovered from panic: %v", rec)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "Server error",
				Details: fmt.Sprint(rec),
			})
		}
	}()

	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
		// fall through
	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	if h.apiKey == "" {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Missing DEEPSEEK_API_KEY. Set it in the relay environment.",
		})
		return
	}

	var req CoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing prompt"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing prompt"})
		return
	}

	var currentData any
	if len(req.CurrentData) > 0 {
		if err := json.Unmarshal(req.CurrentData, &currentData); err != nil {
			log.Printf("[Relay] Ignoring unparseable currentData: %v", err)
		}
	}

	systemPrompt := prompt.BuildSystem(req.Mode, req.Step, currentData)

	result, err := callUpstream(r.Context(), h.client, h.baseURL, h.apiKey, &ChatRequest{
		Model:       h.model,
		Temperature: temperature,
		Stream:      false,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		log.Printf("[Relay] Upstream call failed: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "Upstream unreachable",
			Details: err.Error(),
		})
		return
	}

	if !result.OK() {
		log.Printf("[Relay] Upstream returned %d: %s", result.StatusCode, truncate(string(result.Body), 500))
		writeJSON(w, result.StatusCode, ErrorResponse{
			Error:   "Upstream API error",
			Status:  result.StatusCode,
			Details: string(result.Body),
		})
		return
	}

	writeJSON(w, http.StatusOK, CoachResponse{Text: result.Text()})
}

// setCORS allows any origin to reach the relay. Only the credential is
// secret, and it never leaves the server.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Relay] Failed to write response: %v", err)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
