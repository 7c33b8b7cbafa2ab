package http

import (
	"encoding/json"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chessgrid/internal/core"
	"chessgrid/internal/processor"
	"chessgrid/internal/service"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(nil, []byte("http-test-secret-0123456789abcdef"), time.Hour)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewFiberApp(processor.New(svc), svc, true)
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func createGame(t *testing.T, app *fiber.App, body string) core.GameResponse {
	t.Helper()
	status, data := do(t, app, fiber.MethodPost, "/api/v1/games", body, "")
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d: %s", status, data)
	}
	return decode[core.GameResponse](t, data)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, data := do(t, app, fiber.MethodGet, "/health", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	health := decode[map[string]any](t, data)
	if health["status"] != "healthy" || health["storage"] != "disabled" {
		t.Errorf("health = %v", health)
	}
}

func TestCreateGameValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing player", `{}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad player", `{"player":"red"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad turn", `{"player":"w","turn":"x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"malformed json", `{"player":`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"short board", `{"player":"w","position":[["wr"]]}`, fiber.StatusBadRequest, core.ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, fiber.MethodPost, "/api/v1/games", tt.body, "")
			if status != tt.status {
				t.Fatalf("status = %d, want %d: %s", status, tt.status, data)
			}
			if got := decode[core.ErrorResponse](t, data); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", strings.NewReader(`player=w`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestInvalidGameID(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{
		"/api/v1/games/not-a-uuid",
		"/api/v1/games/not-a-uuid/board",
		"/api/v1/games/not-a-uuid/threats",
	} {
		if status, _ := do(t, app, fiber.MethodGet, path, "", ""); status != fiber.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, status)
		}
	}

	status, _ := do(t, app, fiber.MethodGet, "/api/v1/games/6f1f7a4e-1111-4c4c-9a9a-000000000000", "", "")
	if status != fiber.StatusNotFound {
		t.Errorf("unknown game = %d, want 404", status)
	}
}

func TestMoveRequiresSeatToken(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)
	path := "/api/v1/games/" + created.GameID + "/moves"
	move := `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`

	if status, _ := do(t, app, fiber.MethodPost, path, move, ""); status != fiber.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", status)
	}
	if status, _ := do(t, app, fiber.MethodPost, path, move, "garbage"); status != fiber.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", status)
	}

	status, data := do(t, app, fiber.MethodPost, path, move, created.Tokens.Black)
	if status != fiber.StatusForbidden {
		t.Fatalf("black seat on white's turn = %d: %s", status, data)
	}
	if got := decode[core.ErrorResponse](t, data); got.Code != core.ErrNotYourTurn {
		t.Errorf("code = %s", got.Code)
	}

	other := createGame(t, app, `{"player":"w"}`)
	if status, _ := do(t, app, fiber.MethodPost, path, move, other.Tokens.White); status != fiber.StatusUnauthorized {
		t.Errorf("token of another game = %d, want 401", status)
	}

	status, data = do(t, app, fiber.MethodPost, path, move, created.Tokens.White)
	if status != fiber.StatusOK {
		t.Fatalf("move = %d: %s", status, data)
	}
	state := decode[core.GameResponse](t, data)
	if state.Turn != "b" || state.Position[4][4] != "wp^" {
		t.Errorf("after move = %+v", state)
	}
}

func TestMoveErrors(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)
	path := "/api/v1/games/" + created.GameID + "/moves"

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"off board", `{"from":{"row":6,"col":4},"to":{"row":8,"col":4}}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"illegal", `{"from":{"row":6,"col":4},"to":{"row":3,"col":4}}`, fiber.StatusUnprocessableEntity, core.ErrIllegalMove},
		{"opponent piece", `{"from":{"row":1,"col":4},"to":{"row":2,"col":4}}`, fiber.StatusForbidden, core.ErrNotYourPiece},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, fiber.MethodPost, path, tt.body, created.Tokens.White)
			if status != tt.status {
				t.Fatalf("status = %d, want %d: %s", status, tt.status, data)
			}
			if got := decode[core.ErrorResponse](t, data); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestSelectAndQueries(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)
	base := "/api/v1/games/" + created.GameID

	status, data := do(t, app, fiber.MethodGet, base+"/moves?row=7&col=1", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("legal moves = %d: %s", status, data)
	}
	if moves := decode[core.MovesResponse](t, data); moves.Piece != "n" || len(moves.Moves) != 2 {
		t.Errorf("knight moves = %+v", moves)
	}

	if status, _ := do(t, app, fiber.MethodGet, base+"/moves?row=9&col=1", "", ""); status != fiber.StatusBadRequest {
		t.Errorf("off-board query = %d, want 400", status)
	}

	status, data = do(t, app, fiber.MethodGet, base+"/threats?color=w", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("threats = %d: %s", status, data)
	}
	if threats := decode[core.ThreatsResponse](t, data); threats.Color != "w" || len(threats.Squares) == 0 {
		t.Errorf("threats = %+v", threats)
	}
	if status, _ := do(t, app, fiber.MethodGet, base+"/threats?color=green", "", ""); status != fiber.StatusBadRequest {
		t.Errorf("bad color = %d, want 400", status)
	}

	status, data = do(t, app, fiber.MethodPost, base+"/select", `{"square":{"row":7,"col":1}}`, created.Tokens.White)
	if status != fiber.StatusOK {
		t.Fatalf("select = %d: %s", status, data)
	}
	if sel := decode[core.SelectResponse](t, data); sel.Selected == nil || len(sel.LegalMoves) != 2 {
		t.Errorf("selection = %+v", sel)
	}

	status, data = do(t, app, fiber.MethodPost, base+"/select", `{"square":{"row":5,"col":2}}`, created.Tokens.White)
	if status != fiber.StatusOK {
		t.Fatalf("click move = %d: %s", status, data)
	}
	if sel := decode[core.SelectResponse](t, data); sel.Moved == nil || sel.Turn != "b" {
		t.Errorf("click move = %+v", sel)
	}

	status, data = do(t, app, fiber.MethodGet, base+"/board", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("board = %d", status)
	}
	if b := decode[core.BoardResponse](t, data); !strings.Contains(b.Board, "0 1 2 3 4 5 6 7") {
		t.Errorf("board = %q", b.Board)
	}
}

func TestUndoAndDelete(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)
	base := "/api/v1/games/" + created.GameID

	do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, created.Tokens.White)

	if status, _ := do(t, app, fiber.MethodPost, base+"/undo", `{"count":0}`, ""); status != fiber.StatusBadRequest {
		t.Errorf("undo 0 = %d, want 400", status)
	}

	status, data := do(t, app, fiber.MethodPost, base+"/undo", `{"count":1}`, "")
	if status != fiber.StatusOK {
		t.Fatalf("undo = %d: %s", status, data)
	}
	if state := decode[core.GameResponse](t, data); state.Turn != "w" || len(state.Moves) != 0 {
		t.Errorf("after undo = %+v", state)
	}

	if status, _ := do(t, app, fiber.MethodDelete, base, "", ""); status != fiber.StatusNoContent {
		t.Errorf("delete = %d, want 204", status)
	}
	if status, _ := do(t, app, fiber.MethodGet, base, "", ""); status != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", status)
	}
}

func TestLongPoll(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)
	base := "/api/v1/games/" + created.GameID

	// A stale move count returns at once
	status, data := do(t, app, fiber.MethodGet, base+"?wait=true&moveCount=5", "", "")
	if status != fiber.StatusOK || len(decode[core.GameResponse](t, data).Moves) != 0 {
		t.Fatalf("stale poll = %d: %s", status, data)
	}

	done := make(chan core.GameResponse, 1)
	go func() {
		var state core.GameResponse
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, base+"?wait=true&moveCount=0", nil), -1)
		if err == nil {
			json.NewDecoder(resp.Body).Decode(&state)
			resp.Body.Close()
		}
		done <- state
	}()

	time.Sleep(100 * time.Millisecond)
	do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, created.Tokens.White)

	select {
	case state := <-done:
		if len(state.Moves) != 1 {
			t.Errorf("poll woke with %d moves, want 1", len(state.Moves))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("long poll did not wake on move")
	}
}

func TestLongPollDuringShutdown(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, `{"player":"w"}`)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go app.Listener(ln)

	type result struct {
		status int
		body   core.ErrorResponse
		err    error
	}
	done := make(chan result, 1)
	go func() {
		url := "http://" + ln.Addr().String() + "/api/v1/games/" + created.GameID + "?wait=true&moveCount=0"
		resp, err := nethttp.Get(url)
		if err != nil {
			done <- result{err: err}
			return
		}
		defer resp.Body.Close()
		var body core.ErrorResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		done <- result{status: resp.StatusCode, body: body, err: err}
	}()

	time.Sleep(200 * time.Millisecond)
	go app.Shutdown()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("poll: %v", res.err)
		}
		if res.status != fiber.StatusServiceUnavailable || res.body.Code != core.ErrUnavailable {
			t.Errorf("poll during shutdown = %d %+v", res.status, res.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poll was not released by shutdown")
	}
}
