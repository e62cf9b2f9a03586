package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"llmsvc/pkg/types"
)

type handlers struct {
	svc Service
}

// health godoc
// @Summary      Service health
// @Description  Always 200; model_loaded reflects the load state at call time.
// @Tags         service
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Health())
}

// generate godoc
// @Summary      Raw text completion
// @Description  Loads the model on first use, then completes the prompt.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateRequest  true  "Completion request"
// @Success      200      {object}  types.GenerateResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /generate [post]
func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	gl := startGenLog(r, "generate")
	var req types.GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		gl.end(http.StatusInternalServerError, err)
		return
	}
	gl.debug("generate request", map[string]any{"prompt_len": len(req.Prompt), "stop": req.Stop})

	ctx, cancel := generationContext(r)
	defer cancel()
	resp, err := h.svc.Generate(ctx, req)
	if err != nil {
		writeGenerationError(w, r, gl, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	gl.debug("generate response", map[string]any{"completion_tokens": resp.Usage.CompletionTokens})
	gl.end(http.StatusOK, nil)
}

// chat godoc
// @Summary      Chat completion
// @Description  Applies the model's chat template and returns the engine response unchanged.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      types.ChatRequest  true  "Chat request"
// @Success      200      {object}  llm.ChatCompletion
// @Failure      500      {object}  types.ErrorResponse
// @Router       /chat [post]
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	gl := startGenLog(r, "chat")
	var req types.ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		gl.end(http.StatusInternalServerError, err)
		return
	}
	gl.debug("chat request", map[string]any{"messages": len(req.Messages)})

	ctx, cancel := generationContext(r)
	defer cancel()
	resp, err := h.svc.Chat(ctx, req)
	if err != nil {
		writeGenerationError(w, r, gl, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	gl.end(http.StatusOK, nil)
}

// healthz godoc
// @Summary      Liveness probe
// @Tags         service
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /healthz [get]
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz godoc
// @Summary      Readiness probe
// @Description  200 once the model is loaded, otherwise 503 with the load state.
// @Tags         service
// @Produce      plain
// @Success      200  {string}  string  "ready"
// @Failure      503  {string}  string  "loading"
// @Router       /readyz [get]
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(h.svc.Status().State))
}

// status godoc
// @Summary      Load state and counters
// @Tags         service
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// models godoc
// @Summary      Cached GGUF artifacts
// @Tags         service
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListModels()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []types.Model{}
	}
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: list})
}

// writeGenerationError reports a failed generation as 500. Nothing is written
// once the client has disconnected.
func writeGenerationError(w http.ResponseWriter, r *http.Request, gl genLog, err error) {
	if clientGone(r) {
		gl.end(0, err)
		return
	}
	msg := err.Error()
	if serverBaseCtx.Err() != nil {
		msg = errShuttingDown.Error()
	}
	writeJSONError(w, http.StatusInternalServerError, msg)
	gl.end(http.StatusInternalServerError, err)
}

// decodeBody reads an optional JSON object. An empty body leaves v at its
// zero value; unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("request body exceeds %d bytes", mbe.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
}
