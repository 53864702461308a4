package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutCredentials_StripsAllFour(t *testing.T) {
	e := Endpoint{
		ID:                       "ep-1",
		TargetType:               TargetTypeCamundaCloud,
		ContactPoint:             "localhost:26500",
		OAuthURL:                 "https://login.example.com/oauth/token",
		Audience:                 "zeebe.example.com",
		ClientID:                 "client",
		ClientSecret:             "secret",
		CamundaCloudClientID:     "cloud-client",
		CamundaCloudClientSecret: "cloud-secret",
		RememberCredentials:      true,
	}

	stripped := e.WithoutCredentials()

	assert.Empty(t, stripped.ClientID)
	assert.Empty(t, stripped.ClientSecret)
	assert.Empty(t, stripped.CamundaCloudClientID)
	assert.Empty(t, stripped.CamundaCloudClientSecret)

	// Everything else survives.
	assert.Equal(t, "ep-1", stripped.ID)
	assert.Equal(t, "localhost:26500", stripped.ContactPoint)
	assert.Equal(t, "https://login.example.com/oauth/token", stripped.OAuthURL)
	assert.Equal(t, "zeebe.example.com", stripped.Audience)
	assert.True(t, stripped.RememberCredentials)
}

func TestWithoutCredentials_Idempotent(t *testing.T) {
	e := Endpoint{ID: "ep-1", ClientSecret: "secret", CamundaCloudClientSecret: "cs"}

	once := e.WithoutCredentials()
	twice := once.WithoutCredentials()

	assert.Equal(t, once, twice)
}

func TestForStorage_KeepsCredentialsWhenRemembered(t *testing.T) {
	e := Endpoint{ID: "ep-1", ClientSecret: "secret", RememberCredentials: true}
	assert.Equal(t, "secret", e.ForStorage().ClientSecret)
}

func TestForStorage_StripsCredentialsByDefault(t *testing.T) {
	e := Endpoint{ID: "ep-1", ClientSecret: "secret"}
	assert.Empty(t, e.ForStorage().ClientSecret)
}

func TestAddOrUpdateEndpoint_InsertGrowsByOne(t *testing.T) {
	list := []Endpoint{{ID: "a"}, {ID: "b"}}

	out := AddOrUpdateEndpoint(list, Endpoint{ID: "c"})

	require.Len(t, out, 3)
	assert.Equal(t, "c", out[2].ID)
}

func TestAddOrUpdateEndpoint_UpdatePreservesLengthAndOrder(t *testing.T) {
	list := []Endpoint{{ID: "a"}, {ID: "b", ContactPoint: "old"}, {ID: "c"}}

	out := AddOrUpdateEndpoint(list, Endpoint{ID: "b", ContactPoint: "new"})

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "new", out[1].ContactPoint)
	assert.Equal(t, "c", out[2].ID)
}

func TestAddOrUpdateEndpoint_DoesNotMutateInput(t *testing.T) {
	list := []Endpoint{{ID: "a", ContactPoint: "orig"}}

	_ = AddOrUpdateEndpoint(list, Endpoint{ID: "a", ContactPoint: "changed"})

	assert.Equal(t, "orig", list[0].ContactPoint)
}

func TestMigrateClusterURL_DerivesFromLegacyID(t *testing.T) {
	e := Endpoint{ID: "ep-1", CamundaCloudClusterID: "abc"}

	out := MigrateClusterURL(e)

	assert.Equal(t, "https://abc.bru-2.zeebe.camunda.io:443", out.CamundaCloudClusterURL)
}

func TestMigrateClusterURL_KeepsExistingURL(t *testing.T) {
	e := Endpoint{
		ID:                     "ep-1",
		CamundaCloudClusterID:  "abc",
		CamundaCloudClusterURL: "https://custom.example.com",
	}

	out := MigrateClusterURL(e)

	assert.Equal(t, "https://custom.example.com", out.CamundaCloudClusterURL)
}

func TestDefaultDeploymentName(t *testing.T) {
	assert.Equal(t, "invoice", DefaultDeploymentName("/projects/invoice.bpmn"))
	assert.Equal(t, "order.v2", DefaultDeploymentName("order.v2.bpmn"))
	assert.Equal(t, "plain", DefaultDeploymentName("plain"))
}
