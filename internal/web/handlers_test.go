package web

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService(app.Options{})
	h := NewServer(s, 0)
	return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
		t.Fatalf("index should contain create form; got body: %q", body)
	}
}

func TestCreateRedirectsToGame(t *testing.T) {
	svc, h := newTestServer(t)
	req := httptest.NewRequest("POST", "/game", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := rr.Result().Header.Get("Location")
	if !strings.HasPrefix(loc, "/game/") {
		t.Fatalf("expected redirect to /game/{id}, got %q", loc)
	}
	if _, ok := svc.Get(strings.TrimPrefix(loc, "/game/")); !ok {
		t.Fatalf("redirect target %q is not a live game", loc)
	}
}

func TestGamePageRendersBoardAndSSE(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()

	req := httptest.NewRequest("GET", "/game/"+url.PathEscape(v.ID), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+v.ID+"/events") {
		t.Fatalf("expected SSE wiring in page; got body: %q", body)
	}
	for _, want := range []string{`id="game"`, "Player X to move", "You are at game start", ">Descend<", v.Name} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if strings.Count(body, `name="i"`) != 9 {
		t.Fatalf("expected nine cell forms")
	}
}

func TestUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	for _, path := range []string{"/game/nope", "/game/nope/state", "/game/nope/events", "/game/nope/ws"} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, rr.Code)
		}
	}
	rr := postForm(h, "/game/nope/cell", url.Values{"i": {"0"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("POST cell: expected 404, got %d", rr.Code)
	}
}

func TestCellEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()

	rr := postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {"4"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="game"`) || !strings.Contains(body, "Player O to move") {
		t.Fatalf("expected board fragment, got %q", body)
	}
	latest, _ := svc.Get(v.ID)
	if latest.Board[4] != domain.X || len(latest.Moves) != 2 {
		t.Fatalf("expected move applied, got %+v", latest)
	}
}

func TestCellEndpointIgnoresIllegalClicks(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {"4"}})

	for _, i := range []string{"4", "9", "-1", "x"} {
		rr := postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {i}})
		if rr.Code != http.StatusOK {
			t.Fatalf("cell %s: expected 200, got %d", i, rr.Code)
		}
	}
	latest, _ := svc.Get(v.ID)
	if len(latest.Moves) != 2 {
		t.Fatalf("illegal clicks changed history: %d entries", len(latest.Moves))
	}
}

func TestWinningCellsAreHighlighted(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	var rr *httptest.ResponseRecorder
	for _, i := range []string{"0", "1", "4", "2", "8"} {
		rr = postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {i}})
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Winner: X") {
		t.Fatalf("expected winner tips, got %q", body)
	}
	if strings.Count(body, `class="cell win"`) != 3 {
		t.Fatalf("expected three highlighted cells, got %q", body)
	}
}

func TestJumpEndpoint(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {"4"}})

	rr := postForm(h, "/game/"+v.ID+"/jump", url.Values{"move": {"0"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Go to move #1 (X at (2,2))") {
		t.Fatalf("expected move list in fragment, got %q", rr.Body.String())
	}
	postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {"1"}})
	latest, _ := svc.Get(v.ID)
	if len(latest.Moves) != 2 || latest.Board[1] != domain.X || latest.Board[4] != domain.Empty {
		t.Fatalf("expected truncated history, got %+v", latest)
	}
}

func TestJumpEndpointRejectsBadIndex(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	for _, m := range []string{"5", "-1", "abc"} {
		rr := postForm(h, "/game/"+v.ID+"/jump", url.Values{"move": {m}})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("move %s: expected 400, got %d", m, rr.Code)
		}
	}
}

func TestOrderEndpointReversesList(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	postForm(h, "/game/"+v.ID+"/cell", url.Values{"i": {"0"}})

	rr := postForm(h, "/game/"+v.ID+"/order", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	cur := strings.Index(body, "You are at move #1")
	start := strings.Index(body, "Go to game start")
	if cur < 0 || start < 0 || cur > start {
		t.Fatalf("expected descending list, got %q", body)
	}
	if !strings.Contains(body, ">Ascend<") {
		t.Fatalf("expected Ascend toggle, got %q", body)
	}
}

func TestStateEndpointReturnsJSON(t *testing.T) {
	svc, h := newTestServer(t)
	v := svc.Create()
	svc.CellClicked(v.ID, 2)

	req := httptest.NewRequest("GET", "/game/"+v.ID+"/state", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got app.View
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Board[2] != domain.X || got.Tips != "Player O to move" || len(got.Moves) != 2 {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	// create a game via POST
	reqCreate := httptest.NewRequest("POST", "/game", nil)
	rrCreate := httptest.NewRecorder()
	h.ServeHTTP(rrCreate, reqCreate)
	loc := rrCreate.Result().Header.Get("Location")
	if loc == "" {
		t.Fatalf("missing redirect location")
	}
	// Request SSE
	req := httptest.NewRequest("GET", loc+"/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestEventsEndpointStreamsBoard(t *testing.T) {
	svc := app.NewService(app.Options{SendBuffer: 4})
	srv := httptest.NewServer(NewServer(svc, 0))
	defer srv.Close()
	v := svc.Create()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/game/"+v.ID+"/events", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// headers are flushed after subscribing
	if _, _, err := svc.CellClicked(v.ID, 4); err != nil {
		t.Fatalf("play: %v", err)
	}

	sc := bufio.NewScanner(resp.Body)
	var event string
	var data strings.Builder
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data.WriteString(strings.TrimPrefix(line, "data: "))
			data.WriteString("\n")
		case line == "" && event != "":
			if event != "board" {
				t.Fatalf("unexpected event %q", event)
			}
			body := data.String()
			if !strings.Contains(body, `id="game"`) || !strings.Contains(body, "Player O to move") {
				t.Fatalf("unexpected board event %q", body)
			}
			return
		}
	}
	t.Fatalf("stream ended without a board event: %v", sc.Err())
}

func TestWriteEventPrefixesEveryLine(t *testing.T) {
	var buf bytes.Buffer
	writeEvent(&buf, "board", []byte("\n<div>\n  x\n</div>\n"))
	want := "event: board\ndata: <div>\ndata:   x\ndata: </div>\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected event %q", buf.String())
	}
}
