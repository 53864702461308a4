// Package formsession owns one embedded form-editing session per
// open document: schema import with engine-profile extraction, dirty
// tracking against a revision counter, and a debounced lint trigger
// fed by editor mutation events.
package formsession

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/events"
	"github.com/edvin/modelerd/internal/model"
)

// State is the session's import lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateImporting State = "importing"
)

// MutationKind classifies editor mutation events.
type MutationKind string

const (
	MutationCommand   MutationKind = "commandStack.changed"
	MutationSelection MutationKind = "selection.changed"
	MutationFocus     MutationKind = "focusin"
)

// Mutation is one editor event fed into the session.
type Mutation struct {
	Kind MutationKind `json:"kind"`
}

// Affordances is the UI state derived from the session: which menu
// actions apply and whether unsaved edits exist.
type Affordances struct {
	Dirty   bool `json:"dirty"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// Session is one form-editor session. Created when the document
// opens, closed when it closes.
type Session struct {
	documentPath string
	linter       Linter
	bus          events.Emitter
	logger       zerolog.Logger

	mu           sync.Mutex
	state        State
	lastRendered []byte
	lastImported []byte
	profile      model.EngineProfile
	schemaValid  bool

	// revision counts command mutations; dirty means the counter has
	// moved since the last export.
	revision         int64
	exportedRevision int64
	undoDepth        int64

	debouncer *Debouncer
}

// DefaultLintQuiescence is how long the editor must stay quiet after
// a mutation burst before lint runs.
const DefaultLintQuiescence = 500 * time.Millisecond

func NewSession(documentPath string, linter Linter, bus events.Emitter, logger zerolog.Logger, quiescence time.Duration) *Session {
	s := &Session{
		documentPath: documentPath,
		linter:       linter,
		bus:          bus,
		logger:       logger.With().Str("component", "form-session").Str("document", documentPath).Logger(),
		state:        StateIdle,
	}
	s.debouncer = NewDebouncer(quiescence, s.lint)
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the engine profile extracted from the last
// successful import.
func (s *Session) Profile() model.EngineProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// ImportSchema feeds a new schema prop into the session. A schema
// equal by value to the last-rendered prop or the last-imported
// schema is a redundant re-render and is skipped. Parse or
// profile-extraction errors invalidate the schema and clear the
// profile but leave the session running.
func (s *Session) ImportSchema(schema []byte) (imported bool, err error) {
	s.mu.Lock()
	if s.state == StateImporting {
		s.mu.Unlock()
		return false, fmt.Errorf("import already in progress")
	}
	if schemaEqual(schema, s.lastRendered) || schemaEqual(schema, s.lastImported) {
		s.mu.Unlock()
		return false, nil
	}
	s.state = StateImporting
	s.lastRendered = append([]byte(nil), schema...)
	s.mu.Unlock()

	// The importing flag comes down no matter how the import ends.
	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	profile, err := extractProfile(schema)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.profile = model.EngineProfile{}
		s.schemaValid = false
		s.lastImported = nil
		s.logger.Warn().Err(err).Msg("schema import failed")
		return false, err
	}

	s.profile = profile
	s.schemaValid = true
	s.lastImported = append([]byte(nil), schema...)
	return true, nil
}

// HandleMutation updates affordance state and re-arms the lint
// debouncer. Selection and focus changes refresh affordances without
// marking the document dirty.
func (s *Session) HandleMutation(m Mutation) Affordances {
	s.mu.Lock()
	if m.Kind == MutationCommand {
		s.revision++
		s.undoDepth++
	}
	aff := s.affordancesLocked()
	s.mu.Unlock()

	s.debouncer.Trigger()
	return aff
}

// MarkExported records the current revision as saved.
func (s *Session) MarkExported() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportedRevision = s.revision
}

// Affordances returns the current UI affordance state.
func (s *Session) Affordances() Affordances {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.affordancesLocked()
}

func (s *Session) affordancesLocked() Affordances {
	return Affordances{
		Dirty:   s.revision != s.exportedRevision,
		CanUndo: s.undoDepth > 0,
		CanRedo: false,
	}
}

// LintNow runs lint evaluation immediately, bypassing the debounce
// window. A no-op until an engine profile with a version is known.
func (s *Session) LintNow(ctx context.Context) ([]Issue, error) {
	s.mu.Lock()
	profile := s.profile
	schema := s.lastImported
	valid := s.schemaValid
	s.mu.Unlock()

	if !valid || !profile.Complete() {
		return nil, nil
	}

	issues, err := s.linter.Lint(ctx, schema, profile)
	if err != nil {
		return nil, fmt.Errorf("lint schema: %w", err)
	}

	s.bus.Emit(events.Event{
		Type: events.TypeFormSessionLint,
		Payload: LintPayload{
			DocumentPath: s.documentPath,
			Issues:       issues,
		},
	})
	return issues, nil
}

// LintPayload is the formsession.lint event payload.
type LintPayload struct {
	DocumentPath string  `json:"documentPath"`
	Issues       []Issue `json:"issues"`
}

func (s *Session) lint() {
	if _, err := s.LintNow(context.Background()); err != nil {
		s.logger.Warn().Err(err).Msg("debounced lint failed")
	}
}

// Close tears the session down; pending lint runs are cancelled.
func (s *Session) Close() {
	s.debouncer.Stop()
}

// schemaEqual compares schemas by value, not bytes, so formatting
// changes from unrelated re-renders do not force a re-import.
func schemaEqual(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	aj, errA := json.Marshal(av)
	bj, errB := json.Marshal(bv)
	return errA == nil && errB == nil && bytes.Equal(aj, bj)
}

// extractProfile pulls the execution platform identification out of
// the schema document.
func extractProfile(schema []byte) (model.EngineProfile, error) {
	var doc struct {
		ExecutionPlatform        string `json:"executionPlatform"`
		ExecutionPlatformVersion string `json:"executionPlatformVersion"`
	}
	if err := json.Unmarshal(schema, &doc); err != nil {
		return model.EngineProfile{}, fmt.Errorf("parse schema: %w", err)
	}
	if doc.ExecutionPlatform == "" {
		return model.EngineProfile{}, fmt.Errorf("schema declares no execution platform")
	}
	return model.EngineProfile{
		Platform: doc.ExecutionPlatform,
		Version:  doc.ExecutionPlatformVersion,
	}, nil
}
