package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"hrbot/internal/i18n"
	"hrbot/internal/service"
)

type ChatbotHandler struct {
	svc      *service.ChatbotService
	contexts *service.ContextService
	llm      *service.LLMService
}

func NewChatbotHandler(svc *service.ChatbotService, contexts *service.ContextService, llm *service.LLMService) *ChatbotHandler {
	return &ChatbotHandler{svc: svc, contexts: contexts, llm: llm}
}

// ChatRequest is the inbound message payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// callerID extracts the authenticated user from the request. The host
// gateway authenticates and sets the header; an absent header is a guest.
func callerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// HandleMessage answers a message with the rule-based pipeline.
func (h *ChatbotHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctx := i18n.WithLocale(r.Context(), r.Header.Get("X-Locale"))
	resp := h.svc.Respond(ctx, callerID(r), req.Message)
	writeJSON(w, resp)
}

// HandleAssistant answers a message via the LLM path. The same context and
// role gates apply; the model only adds phrasing and tool selection.
func (h *ChatbotHandler) HandleAssistant(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctx := i18n.WithLocale(r.Context(), r.Header.Get("X-Locale"))
	if req.Message == "" {
		writeJSON(w, service.Response{Success: false, Message: i18n.T(ctx, "chat.err.empty")})
		return
	}

	uctx, err := h.contexts.GetUserContext(ctx, callerID(r))
	if err != nil {
		log.Printf("ERROR assistant context: %v", err)
		writeJSON(w, service.Response{Success: false, Message: "Error: " + err.Error()})
		return
	}
	if uctx == nil {
		writeJSON(w, service.Response{Success: false, Message: i18n.T(ctx, "chat.login_required")})
		return
	}

	text := h.llm.ProcessMessage(ctx, req.Message, uctx)
	writeJSON(w, service.Response{Success: true, Message: text})
}

// RegisterRoutes registers the chatbot routes on the given mux.
func (h *ChatbotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chatbot", h.HandleMessage)
	mux.HandleFunc("POST /api/chatbot/assistant", h.HandleAssistant)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding response: %v", err)
	}
}
