package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/modelerd/internal/formsession"
)

const formSchema = `{
	"type": "default",
	"executionPlatform": "Camunda Cloud",
	"executionPlatformVersion": "8.7.0",
	"components": [{"type": "textfield", "key": "name", "id": "f1"}]
}`

func newFormHandler() (*Form, *formsession.Manager) {
	linter := formsession.NewRuleLinter(formsession.RuleSet{})
	sessions := formsession.NewManager(linter, nopEmitter{}, zerolog.Nop(), time.Hour)
	return NewForm(sessions), sessions
}

func TestFormImportSchema_InvalidJSON(t *testing.T) {
	h, _ := newFormHandler()
	rec := httptest.NewRecorder()

	h.ImportSchema(rec, newRequestRaw(http.MethodPost, "/forms/schema", "{bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormImportSchema_OpensSession(t *testing.T) {
	h, sessions := newFormHandler()
	rec := httptest.NewRecorder()

	h.ImportSchema(rec, newRequestRaw(http.MethodPost, "/forms/schema",
		`{"document_path": "/projects/order.form", "schema": `+formSchema+`}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["imported"])
	assert.Equal(t, "idle", resp["state"])
	assert.NotNil(t, sessions.Get("/projects/order.form"))
}

func TestFormImportSchema_ParseErrorInBody(t *testing.T) {
	h, sessions := newFormHandler()
	rec := httptest.NewRecorder()

	// The schema field is valid JSON (a string) but not a valid form
	// schema. The session absorbs the failure.
	h.ImportSchema(rec, newRequestRaw(http.MethodPost, "/forms/schema",
		`{"document_path": "/projects/order.form", "schema": "\"not a form\""}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["imported"])
	assert.NotEmpty(t, resp["error"])
	assert.NotNil(t, sessions.Get("/projects/order.form"))
}

func TestFormMutation_NoSession(t *testing.T) {
	h, _ := newFormHandler()
	rec := httptest.NewRecorder()

	h.Mutation(rec, newRequest(http.MethodPost, "/forms/mutations", map[string]any{
		"document_path": "/projects/order.form",
		"kind":          "commandStack.changed",
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormMutation_MarksDirty(t *testing.T) {
	h, sessions := newFormHandler()
	sessions.Open("/projects/order.form")
	rec := httptest.NewRecorder()

	h.Mutation(rec, newRequest(http.MethodPost, "/forms/mutations", map[string]any{
		"document_path": "/projects/order.form",
		"kind":          "commandStack.changed",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var affordances formsession.Affordances
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &affordances))
	assert.True(t, affordances.Dirty)
	assert.True(t, affordances.CanUndo)
}

func TestFormExported_ClearsDirty(t *testing.T) {
	h, sessions := newFormHandler()
	session := sessions.Open("/projects/order.form")
	session.HandleMutation(formsession.Mutation{Kind: formsession.MutationCommand})
	rec := httptest.NewRecorder()

	h.Exported(rec, newRequest(http.MethodPost, "/forms/exported", map[string]any{
		"document_path": "/projects/order.form",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var affordances formsession.Affordances
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &affordances))
	assert.False(t, affordances.Dirty)
}

func TestFormLint_ReturnsIssues(t *testing.T) {
	h, sessions := newFormHandler()
	session := sessions.Open("/projects/order.form")
	_, err := session.ImportSchema([]byte(formSchema))
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	h.Lint(rec, newRequest(http.MethodPost, "/forms/lint", map[string]any{
		"document_path": "/projects/order.form",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var issues []formsession.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	assert.Empty(t, issues)
}

func TestFormClose_RemovesSession(t *testing.T) {
	h, sessions := newFormHandler()
	sessions.Open("/projects/order.form")
	rec := httptest.NewRecorder()

	h.Close(rec, newRequest(http.MethodPost, "/forms/close", map[string]any{
		"document_path": "/projects/order.form",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessions.Get("/projects/order.form"))
}
