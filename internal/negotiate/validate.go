package negotiate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/modelerd/internal/model"
)

var validate = validator.New()

// configValidation mirrors the deploy-relevant fields of a
// DeploymentConfig with per-target requirement tags. Credentials are
// required only for the auth scheme the target type actually uses.
type configValidation struct {
	DeploymentName string `validate:"required"`
	TargetType     string `validate:"required,oneof=camundaCloud selfHosted"`
	AuthType       string `validate:"omitempty,oneof=none basic oauth"`

	ContactPoint string `validate:"required_if=TargetType selfHosted"`
	OAuthURL     string `validate:"required_if=TargetType selfHosted AuthType oauth,omitempty,url"`
	Audience     string `validate:"required_if=TargetType selfHosted AuthType oauth"`
	ClientID     string `validate:"required_if=TargetType selfHosted AuthType oauth"`
	ClientSecret string `validate:"required_if=TargetType selfHosted AuthType oauth"`

	CamundaCloudClientID     string `validate:"required_if=TargetType camundaCloud"`
	CamundaCloudClientSecret string `validate:"required_if=TargetType camundaCloud"`
	CamundaCloudClusterURL   string `validate:"required_if=TargetType camundaCloud,omitempty,url"`
}

// ValidateConfig runs the static field-level checks on a candidate
// config: required fields non-empty, URL-shaped fields well-formed.
// Validation failures route back to the overlay; they are never
// surfaced as notifications.
func ValidateConfig(cfg model.DeploymentConfig) error {
	v := configValidation{
		DeploymentName:           cfg.Deployment.Name,
		TargetType:               string(cfg.Endpoint.TargetType),
		AuthType:                 string(cfg.Endpoint.AuthType),
		ContactPoint:             cfg.Endpoint.ContactPoint,
		OAuthURL:                 cfg.Endpoint.OAuthURL,
		Audience:                 cfg.Endpoint.Audience,
		ClientID:                 cfg.Endpoint.ClientID,
		ClientSecret:             cfg.Endpoint.ClientSecret,
		CamundaCloudClientID:     cfg.Endpoint.CamundaCloudClientID,
		CamundaCloudClientSecret: cfg.Endpoint.CamundaCloudClientSecret,
		CamundaCloudClusterURL:   cfg.Endpoint.CamundaCloudClusterURL,
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
