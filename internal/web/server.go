package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/tictactoe-history/internal/app"
)

// DefaultHeartbeat is the SSE keep-alive interval used when none is given.
const DefaultHeartbeat = 15 * time.Second

// NewServer wires routes and returns an http.Handler. It installs the JSON
// view renderer on s so SSE and websocket subscribers share one payload.
func NewServer(s *app.Service, heartbeat time.Duration) http.Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	s.SetRenderer(encodeView)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: heartbeat}
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Get("/state", h.state)
		r.Post("/cell", h.cell)
		r.Post("/jump", h.jump)
		r.Post("/order", h.order)
		r.Get("/events", h.events)
		r.Get("/ws", h.socket)
	})
	return r
}
