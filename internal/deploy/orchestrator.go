// Package deploy sequences the full deployment flow: save the active
// document, negotiate a config, deploy to the engine, and report the
// outcome to the shell.
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/engine"
	"github.com/edvin/modelerd/internal/events"
	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/negotiate"
	"github.com/edvin/modelerd/internal/notify"
)

// DocumentSaver saves the active document. A nil SavedDocument with a
// nil error means the user cancelled the save.
type DocumentSaver interface {
	Save(ctx context.Context, documentPath string) (*model.SavedDocument, error)
}

// Negotiator produces a deploy-ready config, possibly pausing for
// user input.
type Negotiator interface {
	Negotiate(ctx context.Context, documentPath string, opts negotiate.Options) (negotiate.Outcome, error)
}

// Options controls one deploy invocation.
type Options struct {
	DocumentPath string
	// IsStart marks the flow as a start-instance action rather than
	// an explicit deploy.
	IsStart bool
}

const (
	contextDeploymentTool    = "deploymentTool"
	contextStartInstanceTool = "startInstanceTool"
)

// DonePayload is the deployment.done event payload.
type DonePayload struct {
	Context        string                   `json:"context"`
	TargetType     model.TargetType         `json:"targetType"`
	GatewayVersion string                   `json:"gatewayVersion,omitempty"`
	Response       model.DeploymentResponse `json:"response"`
}

// ErrorPayload is the deployment.error event payload.
type ErrorPayload struct {
	Context        string           `json:"context"`
	TargetType     model.TargetType `json:"targetType"`
	GatewayVersion string           `json:"gatewayVersion,omitempty"`
	Error          StructuredError  `json:"error"`
}

// StructuredError is the classified failure attached to telemetry.
type StructuredError struct {
	Code    model.ErrorClass `json:"code"`
	Message string           `json:"message"`
}

// Orchestrator drives the end-to-end deploy. It holds no state across
// calls; concurrent invocations for different documents are
// independent.
type Orchestrator struct {
	saver      DocumentSaver
	negotiator Negotiator
	client     engine.Client
	bus        events.Emitter
	notifier   notify.Notifier
	logger     zerolog.Logger
}

func NewOrchestrator(saver DocumentSaver, negotiator Negotiator, client engine.Client, bus events.Emitter, notifier notify.Notifier, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		saver:      saver,
		negotiator: negotiator,
		client:     client,
		bus:        bus,
		notifier:   notifier,
		logger:     logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Deploy runs save -> negotiate -> deploy -> gateway-version ->
// report, strictly in that order. User cancellation at any stage
// aborts silently; recoverable failures become notifications plus
// telemetry, never returned errors.
func (o *Orchestrator) Deploy(ctx context.Context, opts Options) error {
	saved, err := o.saver.Save(ctx, opts.DocumentPath)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if saved == nil {
		o.logger.Debug().Str("document", opts.DocumentPath).Msg("save cancelled, deploy aborted")
		return nil
	}

	outcome, err := o.negotiator.Negotiate(ctx, opts.DocumentPath, negotiate.Options{IsStart: opts.IsStart})
	if err != nil {
		return fmt.Errorf("negotiate config: %w", err)
	}
	if outcome.Cancelled {
		o.logger.Debug().Str("document", opts.DocumentPath).Msg("negotiation cancelled, deploy aborted")
		return nil
	}
	cfg := outcome.Config

	start := time.Now()
	result, err := o.client.Deploy(ctx, *saved, cfg)
	if err != nil {
		result = model.DeploymentResult{
			Success:  false,
			Response: model.DeploymentResponse{Code: 2, Message: err.Error()},
		}
	}

	// Best-effort telemetry context; a version-query failure must not
	// mask the deploy result.
	gatewayVersion, err := o.client.GatewayVersion(ctx, cfg.Endpoint)
	if err != nil {
		o.logger.Debug().Err(err).Str("endpoint", cfg.Endpoint.ID).Msg("gateway version query failed")
		gatewayVersion = ""
	}

	o.report(opts, cfg, result, gatewayVersion)
	observeDeployment(result.Success, cfg.Endpoint.TargetType, time.Since(start))
	return nil
}

func (o *Orchestrator) report(opts Options, cfg model.DeploymentConfig, result model.DeploymentResult, gatewayVersion string) {
	flowContext := contextDeploymentTool
	if opts.IsStart {
		flowContext = contextStartInstanceTool
	}

	if result.Success {
		o.bus.Emit(events.Event{
			Type: events.TypeDeploymentDone,
			Payload: DonePayload{
				Context:        flowContext,
				TargetType:     cfg.Endpoint.TargetType,
				GatewayVersion: gatewayVersion,
				Response:       result.Response,
			},
		})
		o.notifier.Notify(notify.Notification{
			Type:     "success",
			Title:    "Deployment succeeded",
			Content:  successContent(cfg),
			Duration: 4000,
		})
		return
	}

	class := model.ClassifyCode(result.Response.Code)
	o.logger.Warn().
		Str("document", opts.DocumentPath).
		Str("class", string(class)).
		Int("code", result.Response.Code).
		Msg("deployment failed")

	o.bus.Emit(events.Event{
		Type: events.TypeDeploymentError,
		Payload: ErrorPayload{
			Context:        flowContext,
			TargetType:     cfg.Endpoint.TargetType,
			GatewayVersion: gatewayVersion,
			Error: StructuredError{
				Code:    class,
				Message: result.Response.Message,
			},
		},
	})
	o.notifier.Notify(notify.Notification{
		Type:    "error",
		Title:   "Deployment failed",
		Content: "See the log for further details.",
	})
	o.notifier.Log(notify.LogEntry{
		Category: "deploy-error",
		Message:  fmt.Sprintf("%s: %s", class, result.Response.Message),
	})
}

// successContent links cloud deployments to their cluster console;
// self-hosted targets have no canonical artifact view.
func successContent(cfg model.DeploymentConfig) string {
	if cfg.Endpoint.TargetType == model.TargetTypeCamundaCloud && cfg.Endpoint.CamundaCloudClusterURL != "" {
		return fmt.Sprintf("Deployed %q to %s", cfg.Deployment.Name, cfg.Endpoint.CamundaCloudClusterURL)
	}
	return fmt.Sprintf("Deployed %q", cfg.Deployment.Name)
}
