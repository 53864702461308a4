package handler

import (
	"net/http"

	"github.com/edvin/modelerd/internal/api/request"
	"github.com/edvin/modelerd/internal/api/response"
	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/store"
)

// Endpoints exposes the connection endpoint and tab configuration
// store to the shell's settings UI.
type Endpoints struct {
	store store.Store
}

func NewEndpoints(st store.Store) *Endpoints {
	return &Endpoints{store: st}
}

func (h *Endpoints) List(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.store.Endpoints(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if endpoints == nil {
		endpoints = []model.Endpoint{}
	}
	response.WriteJSON(w, http.StatusOK, endpoints)
}

type setEndpointsRequest struct {
	Endpoints []model.Endpoint `json:"endpoints" validate:"required"`
}

// Replace overwrites the endpoint list. Credentials are stripped
// before persisting unless an endpoint remembers them.
func (h *Endpoints) Replace(w http.ResponseWriter, r *http.Request) {
	var req setEndpointsRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored := make([]model.Endpoint, len(req.Endpoints))
	for i, e := range req.Endpoints {
		stored[i] = e.ForStorage()
	}

	if err := h.store.SetEndpoints(r.Context(), stored); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Endpoints) TabConfig(w http.ResponseWriter, r *http.Request) {
	documentPath := r.URL.Query().Get("document")
	if documentPath == "" {
		response.WriteError(w, http.StatusBadRequest, "missing document query parameter")
		return
	}

	cfg, ok, err := h.store.TabConfig(r.Context(), documentPath)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		response.WriteError(w, http.StatusNotFound, "no configuration for document")
		return
	}
	response.WriteJSON(w, http.StatusOK, cfg)
}

type setTabConfigRequest struct {
	DocumentPath string                 `json:"document_path" validate:"required"`
	Config       model.TabConfiguration `json:"config"`
}

func (h *Endpoints) SetTabConfig(w http.ResponseWriter, r *http.Request) {
	var req setTabConfigRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SetTabConfig(r.Context(), req.DocumentPath, req.Config); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
