package model

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// DeploymentTarget labels the artifact being deployed.
type DeploymentTarget struct {
	Name string `json:"name"`
}

// DefaultDeploymentName derives a deployment name from a source file
// path: the base name without its extension.
func DefaultDeploymentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DeploymentConfig is the complete unit required to perform a deploy.
// It is ephemeral and reconstructed per deploy attempt.
type DeploymentConfig struct {
	Deployment DeploymentTarget `json:"deployment"`
	Endpoint   Endpoint         `json:"endpoint"`
}

// TabConfiguration is persisted per source file. It references the
// endpoint by ID rather than embedding it, so credentials are never
// duplicated into per-file state.
type TabConfiguration struct {
	Deployment DeploymentTarget `json:"deployment"`
	EndpointID string           `json:"endpoint_id"`
}

// SavedDocument is the saved-to-disk reference handed to the engine
// client. Contents hold the serialized diagram.
type SavedDocument struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Contents []byte `json:"contents"`
}

// DeploymentResponse is the engine's answer to a deploy call. On
// success Key and Deployments are set; on failure Code, Message and
// Details describe the error.
type DeploymentResponse struct {
	Key         string            `json:"key,omitempty"`
	Deployments []DeployedArtifact `json:"deployments,omitempty"`
	Code        int               `json:"code,omitempty"`
	Message     string            `json:"message,omitempty"`
	Details     json.RawMessage   `json:"details,omitempty"`
}

// DeployedArtifact identifies one artifact created by a deployment.
type DeployedArtifact struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// DeploymentResult is the outcome of a deploy call.
type DeploymentResult struct {
	Success  bool               `json:"success"`
	Response DeploymentResponse `json:"response"`
}
