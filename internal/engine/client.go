// Package engine talks to a workflow engine cluster: deploying
// diagram artifacts over the gateway REST API and probing gateway
// reachability over the grpc health protocol.
package engine

import (
	"context"
	"strings"

	"github.com/edvin/modelerd/internal/model"
)

// Client performs deploys and gateway-version queries against a
// target cluster endpoint.
type Client interface {
	Deploy(ctx context.Context, doc model.SavedDocument, cfg model.DeploymentConfig) (model.DeploymentResult, error)
	GatewayVersion(ctx context.Context, endpoint model.Endpoint) (string, error)
}

// CheckResult is the outcome of a connectivity probe.
type CheckResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// ConnectionChecker runs a lightweight connectivity/auth probe
// against an endpoint.
type ConnectionChecker interface {
	Check(ctx context.Context, endpoint model.Endpoint) CheckResult
}

// baseURL resolves the HTTP base URL for an endpoint. Cloud endpoints
// use the cluster URL; self-hosted endpoints use the contact point,
// defaulting to http when no scheme is given.
func baseURL(endpoint model.Endpoint) string {
	var raw string
	if endpoint.TargetType == model.TargetTypeCamundaCloud {
		raw = endpoint.CamundaCloudClusterURL
	} else {
		raw = endpoint.ContactPoint
	}
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return raw
}
