package negotiate

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/edvin/modelerd/internal/model"
)

// DecisionKind distinguishes the ways a prompt resolves. Cancellation
// is its own variant, never a nil config, so "cancelled" and "no
// result yet" cannot be confused.
type DecisionKind int

const (
	// DecisionConfirmed means the user accepted the config.
	DecisionConfirmed DecisionKind = iota
	// DecisionCancelled means the user dismissed the overlay; the
	// config carries whatever partial input was shown.
	DecisionCancelled
	// DecisionSuperseded means a newer prompt replaced this one. No
	// cancellation side effects must run.
	DecisionSuperseded
)

// Decision is the user's answer to a negotiation prompt.
type Decision struct {
	Kind   DecisionKind
	Config model.DeploymentConfig
}

// Presenter shows the negotiation overlay populated with a candidate
// config and blocks until the user confirms or cancels.
type Presenter interface {
	Present(ctx context.Context, documentPath string, candidate model.DeploymentConfig) (Decision, error)
}

// PromptListener observes prompt lifecycle, letting the host shell
// render and tear down the overlay.
type PromptListener interface {
	PromptOpened(id string, documentPath string, candidate model.DeploymentConfig)
	PromptClosed(id string)
}

// Prompt is one pending overlay interaction. It resolves exactly
// once; later resolutions are ignored.
type Prompt struct {
	ID           string
	DocumentPath string
	Candidate    model.DeploymentConfig

	once   sync.Once
	result chan Decision
}

func (p *Prompt) resolve(d Decision) bool {
	resolved := false
	p.once.Do(func() {
		p.result <- d
		resolved = true
	})
	return resolved
}

// Confirm resolves the prompt with the user-edited config.
func (p *Prompt) Confirm(cfg model.DeploymentConfig) bool {
	return p.resolve(Decision{Kind: DecisionConfirmed, Config: cfg})
}

// Cancel resolves the prompt with the partial config shown at
// dismissal time.
func (p *Prompt) Cancel(cfg model.DeploymentConfig) bool {
	return p.resolve(Decision{Kind: DecisionCancelled, Config: cfg})
}

// PromptPresenter implements Presenter over one-shot prompts exposed
// to the host shell. At most one prompt is active at a time; opening
// a new one supersedes the prior one without running its cancellation
// side effects.
type PromptPresenter struct {
	mu       sync.Mutex
	current  *Prompt
	listener PromptListener
}

func NewPromptPresenter(listener PromptListener) *PromptPresenter {
	return &PromptPresenter{listener: listener}
}

// ErrNoPendingPrompt is returned when a resolution arrives for a
// prompt that is no longer active.
var ErrNoPendingPrompt = errors.New("no pending negotiation prompt")

func (pp *PromptPresenter) Present(ctx context.Context, documentPath string, candidate model.DeploymentConfig) (Decision, error) {
	p := &Prompt{
		ID:           uuid.New().String(),
		DocumentPath: documentPath,
		Candidate:    candidate,
		result:       make(chan Decision, 1),
	}

	pp.mu.Lock()
	prev := pp.current
	pp.current = p
	pp.mu.Unlock()

	if prev != nil {
		prev.resolve(Decision{Kind: DecisionSuperseded, Config: prev.Candidate})
		if pp.listener != nil {
			pp.listener.PromptClosed(prev.ID)
		}
	}
	if pp.listener != nil {
		pp.listener.PromptOpened(p.ID, documentPath, candidate)
	}

	select {
	case d := <-p.result:
		pp.finish(p)
		return d, nil
	case <-ctx.Done():
		pp.finish(p)
		return Decision{}, ctx.Err()
	}
}

func (pp *PromptPresenter) finish(p *Prompt) {
	pp.mu.Lock()
	wasCurrent := pp.current == p
	if wasCurrent {
		pp.current = nil
	}
	pp.mu.Unlock()
	// A superseded prompt was already closed by its replacement.
	if wasCurrent && pp.listener != nil {
		pp.listener.PromptClosed(p.ID)
	}
}

// Resolve routes a shell response to the active prompt. confirmed
// selects between confirmation and cancellation. A resolution that
// carries no config adopts the prompt's candidate, so a bare cancel
// persists what the overlay showed rather than a zero value.
func (pp *PromptPresenter) Resolve(id string, confirmed bool, cfg model.DeploymentConfig) error {
	pp.mu.Lock()
	p := pp.current
	pp.mu.Unlock()

	if p == nil || p.ID != id {
		return ErrNoPendingPrompt
	}
	if cfg == (model.DeploymentConfig{}) {
		cfg = p.Candidate
	}
	if confirmed {
		p.Confirm(cfg)
	} else {
		p.Cancel(cfg)
	}
	return nil
}

// Pending returns the active prompt, if any.
func (pp *PromptPresenter) Pending() *Prompt {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	return pp.current
}
