package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/api/request"
	"github.com/edvin/modelerd/internal/api/response"
	"github.com/edvin/modelerd/internal/deploy"
	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/negotiate"
)

// Deployment exposes the deploy trigger and the negotiation overlay
// resolution endpoints.
type Deployment struct {
	orchestrator *deploy.Orchestrator
	presenter    *negotiate.PromptPresenter
	logger       zerolog.Logger
}

func NewDeployment(orchestrator *deploy.Orchestrator, presenter *negotiate.PromptPresenter, logger zerolog.Logger) *Deployment {
	return &Deployment{
		orchestrator: orchestrator,
		presenter:    presenter,
		logger:       logger.With().Str("component", "deployment-handler").Logger(),
	}
}

type triggerDeployRequest struct {
	DocumentPath string `json:"document_path" validate:"required"`
	IsStart      bool   `json:"is_start"`
}

// Trigger starts a deploy flow. The flow may pause on a negotiation
// prompt, so it runs detached; the outcome arrives on the event bus.
func (h *Deployment) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerDeployRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		err := h.orchestrator.Deploy(context.Background(), deploy.Options{
			DocumentPath: req.DocumentPath,
			IsStart:      req.IsStart,
		})
		if err != nil {
			h.logger.Error().Err(err).Str("document", req.DocumentPath).Msg("deploy flow failed")
		}
	}()

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

type resolvePromptRequest struct {
	Config model.DeploymentConfig `json:"config"`
}

// Confirm resolves the pending negotiation prompt with the user's
// edited config.
func (h *Deployment) Confirm(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, true)
}

// Cancel dismisses the pending negotiation prompt, carrying whatever
// partial input was shown.
func (h *Deployment) Cancel(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, false)
}

func (h *Deployment) resolve(w http.ResponseWriter, r *http.Request, confirmed bool) {
	promptID := chi.URLParam(r, "promptID")
	if promptID == "" {
		response.WriteError(w, http.StatusBadRequest, "missing prompt ID")
		return
	}

	var req resolvePromptRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.presenter.Resolve(promptID, confirmed, req.Config); err != nil {
		if errors.Is(err, negotiate.ErrNoPendingPrompt) {
			response.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}
