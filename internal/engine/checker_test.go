package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/edvin/modelerd/internal/model"
)

func TestGRPCChecker_NoContactPoint(t *testing.T) {
	c := NewGRPCChecker(zerolog.Nop(), time.Second)

	result := c.Check(context.Background(), model.Endpoint{TargetType: model.TargetTypeSelfHosted})

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "no contact point")
}

func TestGRPCChecker_UnreachableGateway(t *testing.T) {
	c := NewGRPCChecker(zerolog.Nop(), 500*time.Millisecond)

	result := c.Check(context.Background(), model.Endpoint{
		TargetType:   model.TargetTypeSelfHosted,
		ContactPoint: "127.0.0.1:1",
	})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Reason)
}

func TestGRPCTarget(t *testing.T) {
	target, secure := grpcTarget(model.Endpoint{
		TargetType:   model.TargetTypeSelfHosted,
		ContactPoint: "localhost:26500",
	})
	assert.Equal(t, "localhost:26500", target)
	assert.False(t, secure)

	target, secure = grpcTarget(model.Endpoint{
		TargetType:   model.TargetTypeSelfHosted,
		ContactPoint: "grpcs://gw.example.com:26500",
	})
	assert.Equal(t, "gw.example.com:26500", target)
	assert.True(t, secure)

	target, secure = grpcTarget(model.Endpoint{
		TargetType:             model.TargetTypeCamundaCloud,
		CamundaCloudClusterURL: "https://abc.bru-2.zeebe.camunda.io:443",
	})
	assert.Equal(t, "abc.bru-2.zeebe.camunda.io:443", target)
	assert.True(t, secure)
}

func TestOAuthParams(t *testing.T) {
	id, secret, url, audience := oauthParams(model.Endpoint{
		TargetType:               model.TargetTypeCamundaCloud,
		CamundaCloudClientID:     "cloud-id",
		CamundaCloudClientSecret: "cloud-secret",
	})
	assert.Equal(t, "cloud-id", id)
	assert.Equal(t, "cloud-secret", secret)
	assert.Equal(t, cloudTokenURL, url)
	assert.Equal(t, "zeebe.camunda.io", audience)

	id, _, url, audience = oauthParams(model.Endpoint{
		TargetType: model.TargetTypeSelfHosted,
		AuthType:   model.AuthTypeOAuth,
		ClientID:   "self-id",
		OAuthURL:   "https://login.example.com/token",
		Audience:   "zeebe.example.com",
	})
	assert.Equal(t, "self-id", id)
	assert.Equal(t, "https://login.example.com/token", url)
	assert.Equal(t, "zeebe.example.com", audience)

	id, _, _, _ = oauthParams(model.Endpoint{
		TargetType: model.TargetTypeSelfHosted,
		AuthType:   model.AuthTypeNone,
		ClientID:   "ignored",
	})
	assert.Empty(t, id)
}
