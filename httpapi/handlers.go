package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/renderloop/genui"
	"github.com/renderloop/genui/action"
	"github.com/renderloop/genui/auth"
	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/mcp"
	"github.com/renderloop/genui/uitree"
)

// Response wraps all JSON API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorDetails(w, status, code, message, nil)
}

// writeErrorDetails writes a JSON error response with structured details.
func writeErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error: &APIError{Code: code, Message: message, Details: details},
	})
}

func (rt *router) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "genui chat API",
		"version": "0.1.0",
	})
}

func (rt *router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Chat handlers

func (rt *router) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	// Streaming is the default, matching OpenAI-compatible clients.
	req := genui.ChatRequest{Stream: true}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if !req.Stream {
		completion, err := rt.svc.Complete(r.Context(), &req)
		if err != nil {
			rt.chatError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, completion)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if err := rt.svc.StreamMessage(r.Context(), &req, w); err != nil {
		if errors.Is(err, genui.ErrNoMessages) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		// Headers are already sent; all we can do is log.
		if rt.config.Logger != nil {
			rt.config.Logger.Error("chat stream failed", "error", err)
		}
	}
}

func (rt *router) chatError(w http.ResponseWriter, err error) {
	if errors.Is(err, genui.ErrNoMessages) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
}

// Catalog, render and action handlers

func (rt *router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.svc.Catalog().Describe())
}

func (rt *router) handleRender(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	tree, ok := uitree.Decode(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "not_a_tree", "body is not a ui-tree payload")
		return
	}

	strict := r.URL.Query().Get("strict") == "true"
	if err := rt.svc.Catalog().ValidateTree(tree, catalog.ValidateOptions{Strict: strict}); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			writeErrorDetails(w, http.StatusUnprocessableEntity, "invalid_tree", "tree failed validation", verr.Violations)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid_tree", err.Error())
		return
	}

	html, err := rt.renderer.Render(tree)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": string(html)})
}

func (rt *router) handleDispatchAction(w http.ResponseWriter, r *http.Request) {
	var inv action.Invocation
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	result, err := rt.dispatcher.Dispatch(r.Context(), inv)
	if err != nil {
		var perr *action.InvalidParamsError
		switch {
		case errors.As(err, &perr):
			writeErrorDetails(w, http.StatusUnprocessableEntity, "invalid_params", "action params failed validation", perr.Violations)
		case errors.Is(err, action.ErrUnknownAction):
			writeError(w, http.StatusNotFound, "unknown_action", err.Error())
		case errors.Is(err, action.ErrNoHandler):
			writeError(w, http.StatusNotImplemented, "no_handler", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "action_failed", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": inv.Name, "result": result})
}

// Tool server handlers

func (rt *router) handleListServers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"servers": rt.svc.Servers().Descriptors()})
}

func (rt *router) handleGetServer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s, ok := rt.svc.Servers().Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "server_not_found", "MCP server not found: "+name)
		return
	}
	writeJSON(w, http.StatusOK, mcp.Descriptor{
		Name:        s.Name(),
		Description: s.Description(),
		Enabled:     rt.svc.Servers().Enabled(name),
		Tools:       s.Tools(),
	})
}

func (rt *router) handleToggleServer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if err := rt.svc.Servers().SetEnabled(body.Name, body.Enabled); err != nil {
		writeError(w, http.StatusNotFound, "server_not_found", "MCP server not found: "+body.Name)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"name":    body.Name,
		"enabled": body.Enabled,
	})
}

func (rt *router) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := rt.svc.Servers().EnabledTools()
	if tools == nil {
		tools = []mcp.QualifiedTool{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

// Credential handlers

func (rt *router) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"authenticated": false}
	if token, err := rt.auth.Token(); err == nil {
		status["authenticated"] = rt.auth.IsAuthenticated()
		status["preview"] = auth.Preview(token)
	}
	writeJSON(w, http.StatusOK, status)
}

func (rt *router) handleSaveToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		ProfileName string `json:"profile_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if err := rt.auth.Save(body.Token, body.ProfileName); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_token", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"preview": auth.Preview(body.Token),
	})
}

func (rt *router) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	deleted, err := rt.auth.Delete()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
