package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessgrid/internal/storage"

	"github.com/google/uuid"
)

func seed(t *testing.T, path string) string {
	t.Helper()
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatal(err)
	}
	id := uuid.New().String()
	store.RecordNewGame(storage.GameRecord{
		GameID:          id,
		PlayerColor:     "b",
		StartingTurn:    "w",
		InitialPosition: "[]",
		WhiteSeatID:     uuid.New().String(),
		BlackSeatID:     uuid.New().String(),
		StartTimeUTC:    time.Now().UTC(),
	})
	store.RecordMove(storage.MoveRecord{
		GameID:        id,
		MoveNumber:    1,
		FromRow:       1,
		FromCol:       4,
		ToRow:         3,
		ToCol:         4,
		Piece:         "p",
		Kind:          "normal",
		PositionAfter: "[]",
		PlayerColor:   "w",
		MoveTimeUTC:   time.Now().UTC(),
	})
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRunArguments(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "subcommand required"},
		{[]string{"vacuum"}, "unknown subcommand"},
		{[]string{"init"}, "database path required"},
		{[]string{"query", "-path", "x.db", "-gameId", "abc"}, "gameId must be a UUID"},
		{[]string{"moves", "-path", "x.db"}, "gameId required"},
	}
	for _, tt := range tests {
		err := run(tt.args, nil, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("run(%v) = %v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestQueryAndMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	id := seed(t, path)

	var out bytes.Buffer
	if err := run([]string{"query", "-path", path, "-gameId", "*"}, nil, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "Found 1 game(s)") {
		t.Errorf("query output:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"moves", "-path", path, "-gameId", id}, nil, &out); err != nil {
		t.Fatalf("moves: %v", err)
	}
	if !strings.Contains(out.String(), "1,4") || !strings.Contains(out.String(), "Found 1 move(s)") {
		t.Errorf("moves output:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"query", "-path", path, "-seatId", uuid.New().String()}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No games found") {
		t.Errorf("unknown seat output:\n%s", out.String())
	}
}

func TestDeleteNeedsForceWithoutTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	if err := run([]string{"init", "-path", path}, nil, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"delete", "-path", path}, strings.NewReader("y\n"), &bytes.Buffer{}); err == nil {
		t.Fatal("delete without -force accepted from a pipe")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database removed without confirmation: %v", err)
	}

	if err := run([]string{"delete", "-path", path, "-force"}, nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("forced delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database still present: %v", err)
	}
}
