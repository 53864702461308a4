package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edvin/modelerd/internal/api/request"
	"github.com/edvin/modelerd/internal/api/response"
	"github.com/edvin/modelerd/internal/formsession"
)

// Form feeds the shell's embedded form editor into per-document
// sessions: schema props, mutation events, and lifecycle.
type Form struct {
	sessions *formsession.Manager
}

func NewForm(sessions *formsession.Manager) *Form {
	return &Form{sessions: sessions}
}

type importSchemaRequest struct {
	DocumentPath string          `json:"document_path" validate:"required"`
	Schema       json.RawMessage `json:"schema" validate:"required"`
}

type importSchemaResponse struct {
	Imported bool              `json:"imported"`
	State    formsession.State `json:"state"`
	Error    string            `json:"error,omitempty"`
}

// ImportSchema feeds a schema prop change into the document's
// session. Import errors are part of the response, not an HTTP
// failure: the session survives them.
func (h *Form) ImportSchema(w http.ResponseWriter, r *http.Request) {
	var req importSchemaRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := h.sessions.Open(req.DocumentPath)
	imported, err := session.ImportSchema(req.Schema)

	resp := importSchemaResponse{Imported: imported, State: session.State()}
	if err != nil {
		resp.Error = err.Error()
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

type mutationRequest struct {
	DocumentPath string                   `json:"document_path" validate:"required"`
	Kind         formsession.MutationKind `json:"kind" validate:"required"`
}

// Mutation records an editor mutation event, returning the updated
// affordance state.
func (h *Form) Mutation(w http.ResponseWriter, r *http.Request) {
	var req mutationRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := h.sessions.Get(req.DocumentPath)
	if session == nil {
		response.WriteError(w, http.StatusNotFound, "no session for document")
		return
	}
	response.WriteJSON(w, http.StatusOK, session.HandleMutation(formsession.Mutation{Kind: req.Kind}))
}

type documentRequest struct {
	DocumentPath string `json:"document_path" validate:"required"`
}

// Exported marks the document's current revision as saved.
func (h *Form) Exported(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := h.sessions.Get(req.DocumentPath)
	if session == nil {
		response.WriteError(w, http.StatusNotFound, "no session for document")
		return
	}
	session.MarkExported()
	response.WriteJSON(w, http.StatusOK, session.Affordances())
}

// Lint runs lint evaluation immediately.
func (h *Form) Lint(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := h.sessions.Get(req.DocumentPath)
	if session == nil {
		response.WriteError(w, http.StatusNotFound, "no session for document")
		return
	}

	issues, err := session.LintNow(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if issues == nil {
		issues = []formsession.Issue{}
	}
	response.WriteJSON(w, http.StatusOK, issues)
}

// Close tears down the document's session when the tab closes.
func (h *Form) Close(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.sessions.Close(req.DocumentPath)
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
