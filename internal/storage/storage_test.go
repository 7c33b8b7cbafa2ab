package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return s
}

func sampleGame(id string) GameRecord {
	return GameRecord{
		GameID:          id,
		PlayerColor:     "w",
		StartingTurn:    "w",
		InitialPosition: `[["","","","","","","",""]]`,
		WhiteSeatID:     id + "-white",
		BlackSeatID:     id + "-black",
		StartTimeUTC:    time.Now().UTC(),
	}
}

func sampleMove(gameID string, n int, color string) MoveRecord {
	return MoveRecord{
		GameID:        gameID,
		MoveNumber:    n,
		FromRow:       6,
		FromCol:       n,
		ToRow:         4,
		ToCol:         n,
		Piece:         "p",
		Kind:          "normal",
		PositionAfter: "[]",
		PlayerColor:   color,
		MoveTimeUTC:   time.Now().UTC(),
	}
}

func TestStoreRecordsAndUndo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	s := openStore(t, path)
	s.RecordNewGame(sampleGame("g1"))
	s.RecordNewGame(sampleGame("g2"))
	s.RecordMove(sampleMove("g1", 1, "w"))
	s.RecordMove(sampleMove("g1", 2, "b"))
	s.RecordMove(sampleMove("g1", 3, "w"))
	s.DeleteUndoneMoves("g1", 1)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s.IsHealthy() {
		t.Fatal("store degraded during writes")
	}

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("*", "")
	if err != nil {
		t.Fatalf("query games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	bySeat, err := s.QueryGames("", "g2-black")
	if err != nil {
		t.Fatal(err)
	}
	if len(bySeat) != 1 || bySeat[0].GameID != "g2" {
		t.Fatalf("seat filter returned %+v", bySeat)
	}

	moves, err := s.QueryMoves("g1")
	if err != nil {
		t.Fatalf("query moves: %v", err)
	}
	if len(moves) != 1 || moves[0].MoveNumber != 1 || moves[0].PlayerColor != "w" {
		t.Fatalf("moves after undo = %+v", moves)
	}
}

func TestStoreDegradesOnFailedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	s := openStore(t, path)
	// no such game, the foreign key rejects the insert
	s.RecordMove(sampleMove("missing", 1, "w"))
	s.RecordNewGame(sampleGame("after"))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.IsHealthy() {
		t.Fatal("store should be degraded after a failed write")
	}

	s = openStore(t, path)
	defer s.Close()
	games, err := s.QueryGames("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Fatalf("writes after degradation should be dropped, found %d games", len(games))
	}
}

func TestDeleteGameCascades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	s := openStore(t, path)
	s.RecordNewGame(sampleGame("g1"))
	s.RecordMove(sampleMove("g1", 1, "w"))
	s.DeleteGame("g1")
	s.Close()

	s = openStore(t, path)
	defer s.Close()
	moves, err := s.QueryMoves("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 0 {
		t.Fatalf("moves survived game deletion: %+v", moves)
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s := openStore(t, path)
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("database file still present: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
