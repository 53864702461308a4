// Package api is the HTTP surface the desktop shell talks to:
// deploy triggers, negotiation prompt resolution, endpoint and tab
// configuration management, form session feeds, and the WebSocket
// event stream.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/api/handler"
	mw "github.com/edvin/modelerd/internal/api/middleware"
	"github.com/edvin/modelerd/internal/deploy"
	"github.com/edvin/modelerd/internal/events"
	"github.com/edvin/modelerd/internal/formsession"
	"github.com/edvin/modelerd/internal/model"
	"github.com/edvin/modelerd/internal/negotiate"
	"github.com/edvin/modelerd/internal/store"
)

type Server struct {
	router chi.Router
	logger zerolog.Logger
}

// Deps carries everything the server routes to.
type Deps struct {
	Orchestrator *deploy.Orchestrator
	Presenter    *negotiate.PromptPresenter
	Store        store.Store
	Sessions     *formsession.Manager
	Bus          *events.Bus
}

func NewServer(logger zerolog.Logger, deps Deps) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
	}
	s.setupMiddleware()
	s.setupRoutes(deps)
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes(deps Deps) {
	deployment := handler.NewDeployment(deps.Orchestrator, deps.Presenter, s.logger)
	endpoints := handler.NewEndpoints(deps.Store)
	form := handler.NewForm(deps.Sessions)
	eventStream := handler.NewEvents(deps.Bus, s.logger)

	// /metrics lives on the dedicated scrape listener.
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/deployments", deployment.Trigger)
		r.Post("/negotiations/{promptID}/confirm", deployment.Confirm)
		r.Post("/negotiations/{promptID}/cancel", deployment.Cancel)

		r.Get("/endpoints", endpoints.List)
		r.Put("/endpoints", endpoints.Replace)
		r.Get("/tab-configs", endpoints.TabConfig)
		r.Put("/tab-configs", endpoints.SetTabConfig)

		r.Post("/forms/schema", form.ImportSchema)
		r.Post("/forms/mutations", form.Mutation)
		r.Post("/forms/exported", form.Exported)
		r.Post("/forms/lint", form.Lint)
		r.Post("/forms/close", form.Close)

		r.Get("/events", eventStream.Stream)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// PromptEvents adapts prompt lifecycle to deployment.opened /
// deployment.closed bus events, so the shell knows when to render
// and tear down the overlay.
type PromptEvents struct {
	Bus events.Emitter
}

// PromptOpenedPayload is the deployment.opened event payload.
type PromptOpenedPayload struct {
	PromptID     string                 `json:"promptId"`
	DocumentPath string                 `json:"documentPath"`
	Candidate    model.DeploymentConfig `json:"candidate"`
}

func (p PromptEvents) PromptOpened(id, documentPath string, candidate model.DeploymentConfig) {
	p.Bus.Emit(events.Event{
		Type: events.TypeDeploymentOpened,
		Payload: PromptOpenedPayload{
			PromptID:     id,
			DocumentPath: documentPath,
			Candidate:    candidate,
		},
	})
}

func (p PromptEvents) PromptClosed(id string) {
	p.Bus.Emit(events.Event{
		Type:    events.TypeDeploymentClosed,
		Payload: map[string]string{"promptId": id},
	})
}
