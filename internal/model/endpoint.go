package model

import "fmt"

// TargetType identifies the kind of cluster an endpoint points at.
type TargetType string

const (
	TargetTypeCamundaCloud TargetType = "camundaCloud"
	TargetTypeSelfHosted   TargetType = "selfHosted"
)

// AuthType identifies how the gateway authenticates the client.
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeBasic AuthType = "basic"
	AuthTypeOAuth AuthType = "oauth"
)

// Endpoint is a connection + credential bundle describing a target
// deployment cluster. Identity is the ID, generated once and stable
// across edits.
type Endpoint struct {
	ID                       string     `json:"id"`
	TargetType               TargetType `json:"target_type"`
	AuthType                 AuthType   `json:"auth_type"`
	ContactPoint             string     `json:"contact_point"`
	OAuthURL                 string     `json:"oauth_url,omitempty"`
	Audience                 string     `json:"audience,omitempty"`
	ClientID                 string     `json:"client_id,omitempty"`
	ClientSecret             string     `json:"client_secret,omitempty"`
	CamundaCloudClientID     string     `json:"camunda_cloud_client_id,omitempty"`
	CamundaCloudClientSecret string     `json:"camunda_cloud_client_secret,omitempty"`
	CamundaCloudClusterID    string     `json:"camunda_cloud_cluster_id,omitempty"`
	CamundaCloudClusterURL   string     `json:"camunda_cloud_cluster_url,omitempty"`
	RememberCredentials      bool       `json:"remember_credentials"`
}

// WithoutCredentials returns a copy of the endpoint with the four
// credential fields cleared. Idempotent.
func (e Endpoint) WithoutCredentials() Endpoint {
	e.ClientID = ""
	e.ClientSecret = ""
	e.CamundaCloudClientID = ""
	e.CamundaCloudClientSecret = ""
	return e
}

// ForStorage returns the endpoint as it must be persisted: credentials
// are stripped unless the user opted to remember them.
func (e Endpoint) ForStorage() Endpoint {
	if e.RememberCredentials {
		return e
	}
	return e.WithoutCredentials()
}

// AddOrUpdateEndpoint upserts e into list by ID. An existing entry is
// replaced in place; a new entry is appended. Unrelated elements keep
// their positions.
func AddOrUpdateEndpoint(list []Endpoint, e Endpoint) []Endpoint {
	for i := range list {
		if list[i].ID == e.ID {
			out := make([]Endpoint, len(list))
			copy(out, list)
			out[i] = e
			return out
		}
	}
	out := make([]Endpoint, len(list), len(list)+1)
	copy(out, list)
	return append(out, e)
}

const clusterURLTemplate = "https://%s.bru-2.zeebe.camunda.io:443"

// MigrateClusterURL fills in the cluster URL for legacy endpoints that
// carry a cluster ID but no URL. The derivation is deterministic so the
// migration is safe to run on every load.
func MigrateClusterURL(e Endpoint) Endpoint {
	if e.CamundaCloudClusterID != "" && e.CamundaCloudClusterURL == "" {
		e.CamundaCloudClusterURL = DeriveClusterURL(e.CamundaCloudClusterID)
	}
	return e
}

// DeriveClusterURL builds the gateway URL for a legacy cluster ID.
func DeriveClusterURL(clusterID string) string {
	return fmt.Sprintf(clusterURLTemplate, clusterID)
}
