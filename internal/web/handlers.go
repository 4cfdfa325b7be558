package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	heartbeat time.Duration
}

// encodeView is the broadcast renderer: every subscriber receives the view
// as JSON and re-renders it for its own transport.
func encodeView(v app.View) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode view %s: %v", v.ID, err)
		return nil
	}
	return b
}

func (h *handlers) writeBoard(w http.ResponseWriter, v app.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.tpl.renderBoard(v))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	v := h.svc.Create()
	log.Printf("game %s (%s) created", v.ID, v.Name)
	http.Redirect(w, r, "/game/"+v.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	v, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded board container
	_, _ = w.Write(renderTemplate(h.tpl.game, "", v))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	v, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// cell plays a cell. Unparsable or illegal cells are ignored and the
// unchanged board is returned.
func (h *handlers) cell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	i, err := strconv.Atoi(r.Form.Get("i"))
	if err != nil {
		i = -1
	}
	v, _, err := h.svc.CellClicked(id, i)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeBoard(w, v)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	move, err := strconv.Atoi(r.Form.Get("move"))
	if err != nil {
		http.Error(w, fmt.Sprintf("bad move %q", r.Form.Get("move")), http.StatusBadRequest)
		return
	}
	v, err := h.svc.HistoryEntryClicked(id, move)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeBoard(w, v)
}

func (h *handlers) order(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.OrderToggleClicked(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeBoard(w, v)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrInvalidMoveIndex):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		return
	}
	defer unsub()
	// heartbeat ticker
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			var v app.View
			if err := json.Unmarshal(b, &v); err != nil {
				continue
			}
			writeEvent(w, "board", h.tpl.renderBoard(v))
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event; every line of data gets its own field.
func writeEvent(w io.Writer, event string, data []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
