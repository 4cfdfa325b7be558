package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/jaminalder/tictactoe-history/internal/app"
)

// inbound is a UI event sent by a websocket client.
type inbound struct {
	Type  string `json:"type"` // "cell" | "jump" | "order"
	Index int    `json:"index"`
}

type outbound struct {
	Type  string          `json:"type"` // "view" | "error"
	View  json.RawMessage `json:"view,omitempty"`
	Error string          `json:"error,omitempty"`
}

// socket streams views over a websocket and applies inbound events.
// Ignored cell clicks are answered with the unchanged view.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	v, updates, unsub, err := h.svc.Watch(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("game %s: websocket accept: %v", id, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "closing")
	log.Printf("game %s: websocket connected", id)
	defer log.Printf("game %s: websocket disconnected", id)

	if err := wsjson.Write(ctx, c, outbound{Type: "view", View: encodeView(v)}); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			var msg inbound
			if err := wsjson.Read(ctx, c, &msg); err != nil {
				return
			}
			reply, ok := h.apply(id, msg)
			if !ok {
				continue
			}
			if err := wsjson.Write(ctx, c, reply); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case b, ok := <-updates:
			if !ok {
				c.Close(websocket.StatusGoingAway, "game closed")
				return
			}
			if err := wsjson.Write(ctx, c, outbound{Type: "view", View: b}); err != nil {
				return
			}
		}
	}
}

// apply runs one inbound event. It returns a direct reply when the event
// produced no broadcast: an error, or an ignored cell click.
func (h *handlers) apply(id string, msg inbound) (outbound, bool) {
	var err error
	switch msg.Type {
	case "cell":
		var (
			v      app.View
			played bool
		)
		v, played, err = h.svc.CellClicked(id, msg.Index)
		if err == nil && !played {
			return outbound{Type: "view", View: encodeView(v)}, true
		}
	case "jump":
		_, err = h.svc.HistoryEntryClicked(id, msg.Index)
	case "order":
		_, err = h.svc.OrderToggleClicked(id)
	default:
		err = errors.New("unknown event type " + msg.Type)
	}
	if err != nil {
		return outbound{Type: "error", Error: err.Error()}, true
	}
	return outbound{}, false
}
