package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID          string    `db:"game_id"`
	PlayerColor     string    `db:"player_color"` // orientation of the board, "w" or "b"
	StartingTurn    string    `db:"starting_turn"`
	InitialPosition string    `db:"initial_position"` // JSON encoded 8x8 matrix
	WhiteSeatID     string    `db:"white_seat_id"`
	BlackSeatID     string    `db:"black_seat_id"`
	StartTimeUTC    time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID        int64     `db:"move_id"`
	GameID        string    `db:"game_id"`
	MoveNumber    int       `db:"move_number"`
	FromRow       int       `db:"from_row"`
	FromCol       int       `db:"from_col"`
	ToRow         int       `db:"to_row"`
	ToCol         int       `db:"to_col"`
	Piece         string    `db:"piece"`
	Captured      string    `db:"captured"`
	Kind          string    `db:"kind"` // normal, castling or en-passant
	PositionAfter string    `db:"position_after"`
	PlayerColor   string    `db:"player_color"`
	MoveTimeUTC   time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	starting_turn TEXT NOT NULL CHECK(starting_turn IN ('w', 'b')),
	initial_position TEXT NOT NULL,
	white_seat_id TEXT NOT NULL,
	black_seat_id TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	from_row INTEGER NOT NULL CHECK(from_row BETWEEN 0 AND 7),
	from_col INTEGER NOT NULL CHECK(from_col BETWEEN 0 AND 7),
	to_row INTEGER NOT NULL CHECK(to_row BETWEEN 0 AND 7),
	to_col INTEGER NOT NULL CHECK(to_col BETWEEN 0 AND 7),
	piece TEXT NOT NULL,
	captured TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL DEFAULT 'normal',
	position_after TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_seat ON games(white_seat_id);
CREATE INDEX IF NOT EXISTS idx_games_black_seat ON games(black_seat_id);
`
