package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string     `db:"game_id"`
	InitialLayout string     `db:"initial_layout"`
	WhitePlayerID string     `db:"white_player_id"`
	WhiteType     int        `db:"white_type"`
	WhiteDepth    int        `db:"white_depth"`
	BlackPlayerID string     `db:"black_player_id"`
	BlackType     int        `db:"black_type"`
	BlackDepth    int        `db:"black_depth"`
	StartTimeUTC  time.Time  `db:"start_time_utc"`
	Result        string     `db:"result"` // "ongoing" until decided
	EndTimeUTC    *time.Time `db:"end_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	Move        string    `db:"move"`
	Captures    int       `db:"captures"`
	LayoutAfter string    `db:"layout_after"`
	PlayerColor string    `db:"player_color"`
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_layout TEXT NOT NULL,
	white_player_id TEXT NOT NULL,
	white_type INTEGER NOT NULL,
	white_depth INTEGER NOT NULL DEFAULT 0,
	black_player_id TEXT NOT NULL,
	black_type INTEGER NOT NULL,
	black_depth INTEGER NOT NULL DEFAULT 0,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	result TEXT NOT NULL DEFAULT 'ongoing',
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	captures INTEGER NOT NULL DEFAULT 0,
	layout_after TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
`
