// Package negotiate produces a complete, deploy-ready deployment
// configuration for an open document, minimizing user interruption:
// persisted config and computed defaults are combined, and the user
// is prompted only when the result is incomplete, invalid, or the
// action explicitly asks for review.
package negotiate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/engine"
	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/platform"
	"github.com/edvin/modelerd/internal/store"
)

// Options controls a negotiation round.
type Options struct {
	// IsStart marks a start-instance flow, which may skip the overlay
	// when the persisted config is already complete and reachable.
	// Explicit deploy actions always present the overlay.
	IsStart bool
}

// Outcome is the result of a negotiation. Cancelled is a distinct
// variant meaning deployment must not proceed; it is not an error.
type Outcome struct {
	Cancelled bool
	Config    model.DeploymentConfig
}

// Negotiator assembles and validates deployment configs.
type Negotiator struct {
	store   store.Store
	checker engine.ConnectionChecker
	overlay Presenter
	logger  zerolog.Logger
	newID   func() string
}

func NewNegotiator(st store.Store, checker engine.ConnectionChecker, overlay Presenter, logger zerolog.Logger) *Negotiator {
	return &Negotiator{
		store:   st,
		checker: checker,
		overlay: overlay,
		logger:  logger.With().Str("component", "negotiator").Logger(),
		newID:   platform.NewID,
	}
}

// Negotiate implements the negotiation protocol for one document.
func (n *Negotiator) Negotiate(ctx context.Context, documentPath string, opts Options) (Outcome, error) {
	tabCfg, hasTabCfg, err := n.store.TabConfig(ctx, documentPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("load tab configuration: %w", err)
	}

	endpoint, endpointPresent, err := n.resolveEndpoint(ctx, tabCfg)
	if err != nil {
		return Outcome{}, err
	}

	candidate := model.DeploymentConfig{
		Deployment: tabCfg.Deployment,
		Endpoint:   endpoint,
	}

	if n.canSkipOverlay(ctx, opts, candidate, hasTabCfg, endpointPresent) {
		if err := n.persist(ctx, documentPath, candidate); err != nil {
			return Outcome{}, err
		}
		return Outcome{Config: candidate}, nil
	}

	// Prefill a derived deployment name so the overlay never opens
	// with an empty label.
	if candidate.Deployment.Name == "" {
		candidate.Deployment.Name = model.DefaultDeploymentName(documentPath)
	}

	decision, err := n.overlay.Present(ctx, documentPath, candidate)
	if err != nil {
		return Outcome{}, fmt.Errorf("present overlay: %w", err)
	}

	switch decision.Kind {
	case DecisionConfirmed:
		if err := n.persist(ctx, documentPath, decision.Config); err != nil {
			return Outcome{}, err
		}
		return Outcome{Config: decision.Config}, nil
	case DecisionCancelled:
		// Keep whatever partial input was shown, so the next attempt
		// starts where the user left off.
		if err := n.persist(ctx, documentPath, decision.Config); err != nil {
			n.logger.Warn().Err(err).Str("document", documentPath).Msg("persisting partial config failed")
		}
		return Outcome{Cancelled: true}, nil
	default:
		return Outcome{Cancelled: true}, nil
	}
}

// resolveEndpoint picks the endpoint for the candidate config: the
// one the tab used before, else the first stored endpoint, else a
// default-constructed endpoint. The legacy cluster-URL migration is
// applied on every load.
func (n *Negotiator) resolveEndpoint(ctx context.Context, tabCfg model.TabConfiguration) (model.Endpoint, bool, error) {
	endpoints, err := n.store.Endpoints(ctx)
	if err != nil {
		return model.Endpoint{}, false, fmt.Errorf("load endpoints: %w", err)
	}

	if tabCfg.EndpointID != "" {
		for _, e := range endpoints {
			if e.ID == tabCfg.EndpointID {
				return model.MigrateClusterURL(e), true, nil
			}
		}
	}
	if len(endpoints) > 0 {
		return model.MigrateClusterURL(endpoints[0]), true, nil
	}

	return model.Endpoint{
		ID:         n.newID(),
		TargetType: model.TargetTypeCamundaCloud,
		AuthType:   model.AuthTypeOAuth,
	}, false, nil
}

// canSkipOverlay decides whether user interaction is unnecessary:
// only for start flows whose candidate has a deployment target and a
// known endpoint, passes static validation, and answers a live
// connectivity probe. The probe runs only after the static checks
// pass.
func (n *Negotiator) canSkipOverlay(ctx context.Context, opts Options, candidate model.DeploymentConfig, hasTarget, endpointPresent bool) bool {
	if !opts.IsStart {
		return false
	}
	if !hasTarget || candidate.Deployment.Name == "" || !endpointPresent {
		return false
	}
	if err := ValidateConfig(candidate); err != nil {
		n.logger.Debug().Err(err).Msg("static validation failed, overlay required")
		return false
	}
	result := n.checker.Check(ctx, candidate.Endpoint)
	if !result.Success {
		n.logger.Debug().Str("reason", result.Reason).Msg("connectivity probe failed, overlay required")
	}
	return result.Success
}

// persist upserts the endpoint (credentials stripped unless
// remembered) and updates the tab configuration.
func (n *Negotiator) persist(ctx context.Context, documentPath string, cfg model.DeploymentConfig) error {
	endpoints, err := n.store.Endpoints(ctx)
	if err != nil {
		return fmt.Errorf("load endpoints: %w", err)
	}
	updated := model.AddOrUpdateEndpoint(endpoints, cfg.Endpoint.ForStorage())
	if err := n.store.SetEndpoints(ctx, updated); err != nil {
		return fmt.Errorf("persist endpoints: %w", err)
	}
	if err := n.store.SetTabConfig(ctx, documentPath, model.TabConfiguration{
		Deployment: cfg.Deployment,
		EndpointID: cfg.Endpoint.ID,
	}); err != nil {
		return fmt.Errorf("persist tab configuration: %w", err)
	}
	return nil
}
