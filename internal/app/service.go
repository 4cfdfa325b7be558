package app

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options tune a Service.
type Options struct {
	// Descending is the initial history order of new sessions.
	Descending bool
	// SendBuffer is the per-subscriber channel capacity.
	SendBuffer int
}

// Service manages sessions and subscribers.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   func(View) []byte
	opts     Options
}

// NewService creates a service whose broadcasts carry a nil payload.
// Use SetRenderer or NewServiceWithRenderer to encode views.
func NewService(opts Options) *Service { return NewServiceWithRenderer(opts, nil) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(opts Options, renderer func(View) []byte) *Service {
	if renderer == nil {
		renderer = func(View) []byte { return nil }
	}
	if opts.SendBuffer < 1 {
		opts.SendBuffer = 1
	}
	return &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   renderer,
		opts:     opts,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(View) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(View) []byte { return nil }
		return
	}
	s.render = renderer
}

// Create starts and registers a new session.
func (s *Service) Create() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := NewSession(s.opts.Descending)
	s.sessions[sess.ID] = sess
	return sess.View()
}

// Get returns the view of a session if present.
func (s *Service) Get(id string) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return View{}, false
	}
	return sess.View(), true
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CellClicked plays a cell and reports whether the move was recorded.
// Illegal moves leave the session untouched and are not broadcast.
func (s *Service) CellClicked(id string, cell int) (View, bool, error) {
	var played bool
	v, err := s.update(id, func(sess *Session) (bool, error) {
		played = sess.CellClicked(cell)
		return played, nil
	})
	return v, played, err
}

// HistoryEntryClicked jumps to a recorded move.
func (s *Service) HistoryEntryClicked(id string, move int) (View, error) {
	return s.update(id, func(sess *Session) (bool, error) {
		if err := sess.HistoryEntryClicked(move); err != nil {
			return false, err
		}
		return true, nil
	})
}

// OrderToggleClicked flips the history order of a session.
func (s *Service) OrderToggleClicked(id string) (View, error) {
	return s.update(id, func(sess *Session) (bool, error) {
		sess.OrderToggleClicked()
		return true, nil
	})
}

// update applies fn under the lock and broadcasts the new view when fn
// reports a change. Fan-out stays under the lock so it never sends on a
// channel that unsubscribe or Sweep has closed.
func (s *Service) update(id string, fn func(*Session) (bool, error)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return View{}, ErrNotFound
	}
	changed, err := fn(sess)
	view := sess.View()
	if err != nil || !changed {
		return view, err
	}

	payload := s.render(view)
	// Fan-out; drop slow subscribers by closing them
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(s.subs[id], sub)
		}
	}
	return view, nil
}

// Subscribe registers a subscriber for a session. Returns a channel and an
// unsubscribe func; the channel is closed on unsubscribe, on ctx
// cancellation, when the subscriber falls behind, or when the session is
// swept.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	ch, unsub := s.subscribeLocked(ctx, id)
	return ch, unsub, nil
}

// Watch subscribes to a session and returns its current view taken under
// the same lock, so every later change reaches the channel.
func (s *Service) Watch(ctx context.Context, id string) (View, <-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return View{}, nil, func() {}, ErrNotFound
	}
	ch, unsub := s.subscribeLocked(ctx, id)
	return sess.View(), ch, unsub, nil
}

func (s *Service) subscribeLocked(ctx context.Context, id string) (<-chan []byte, func()) {
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, s.opts.SendBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// Sweep removes sessions not updated within maxIdle and closes their
// subscribers. It returns the number of sessions removed.
func (s *Service) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	var closing []*subscriber

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Updated.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		for sub := range s.subs[id] {
			closing = append(closing, sub)
		}
		delete(s.subs, id)
		removed++
	}
	s.mu.Unlock()

	for _, sub := range closing {
		sub.close()
	}
	return removed
}
