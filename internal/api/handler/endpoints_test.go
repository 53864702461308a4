package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/store"
)

func TestEndpointsList_Empty(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())
	rec := httptest.NewRecorder()

	h.List(rec, newRequest(http.MethodGet, "/endpoints", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var endpoints []model.Endpoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &endpoints))
	assert.Empty(t, endpoints)
}

func TestEndpointsList_ReturnsStored(t *testing.T) {
	st := store.NewMemStore()
	st.SetEndpoints(context.Background(), []model.Endpoint{
		{ID: "ep-1", TargetType: model.TargetTypeSelfHosted, ContactPoint: "localhost:26500"},
	})
	h := NewEndpoints(st)
	rec := httptest.NewRecorder()

	h.List(rec, newRequest(http.MethodGet, "/endpoints", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var endpoints []model.Endpoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &endpoints))
	require.Len(t, endpoints, 1)
	assert.Equal(t, "ep-1", endpoints[0].ID)
}

func TestEndpointsReplace_InvalidJSON(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())
	rec := httptest.NewRecorder()

	h.Replace(rec, newRequestRaw(http.MethodPut, "/endpoints", "{bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestEndpointsReplace_StripsCredentials(t *testing.T) {
	st := store.NewMemStore()
	h := NewEndpoints(st)
	rec := httptest.NewRecorder()

	h.Replace(rec, newRequest(http.MethodPut, "/endpoints", map[string]any{
		"endpoints": []model.Endpoint{{
			ID:           "ep-1",
			TargetType:   model.TargetTypeSelfHosted,
			AuthType:     model.AuthTypeOAuth,
			ContactPoint: "localhost:26500",
			ClientID:     "client",
			ClientSecret: "secret",
		}},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := st.Endpoints(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].ClientID)
	assert.Empty(t, stored[0].ClientSecret)
}

func TestEndpointsReplace_KeepsRememberedCredentials(t *testing.T) {
	st := store.NewMemStore()
	h := NewEndpoints(st)
	rec := httptest.NewRecorder()

	h.Replace(rec, newRequest(http.MethodPut, "/endpoints", map[string]any{
		"endpoints": []model.Endpoint{{
			ID:                  "ep-1",
			TargetType:          model.TargetTypeSelfHosted,
			AuthType:            model.AuthTypeOAuth,
			ContactPoint:        "localhost:26500",
			ClientID:            "client",
			ClientSecret:        "secret",
			RememberCredentials: true,
		}},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := st.Endpoints(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "client", stored[0].ClientID)
	assert.Equal(t, "secret", stored[0].ClientSecret)
}

func TestEndpointsTabConfig_MissingQueryParam(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())
	rec := httptest.NewRecorder()

	h.TabConfig(rec, newRequest(http.MethodGet, "/tab-configs", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndpointsTabConfig_NotFound(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())
	rec := httptest.NewRecorder()

	h.TabConfig(rec, newRequest(http.MethodGet, "/tab-configs?document=/projects/missing.bpmn", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndpointsTabConfig_RoundTrip(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())

	rec := httptest.NewRecorder()
	h.SetTabConfig(rec, newRequest(http.MethodPut, "/tab-configs", map[string]any{
		"document_path": "/projects/invoice.bpmn",
		"config": model.TabConfiguration{
			Deployment: model.DeploymentTarget{Name: "invoice"},
			EndpointID: "ep-1",
		},
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.TabConfig(rec, newRequest(http.MethodGet, "/tab-configs?document=/projects/invoice.bpmn", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg model.TabConfiguration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "invoice", cfg.Deployment.Name)
	assert.Equal(t, "ep-1", cfg.EndpointID)
}

func TestEndpointsSetTabConfig_MissingDocumentPath(t *testing.T) {
	h := NewEndpoints(store.NewMemStore())
	rec := httptest.NewRecorder()

	h.SetTabConfig(rec, newRequest(http.MethodPut, "/tab-configs", map[string]any{
		"config": model.TabConfiguration{},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}
