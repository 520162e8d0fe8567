package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/uno/pkg/db/migrations"
	"github.com/fadedpez/uno/pkg/entities"
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository and applies pending migrations
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	migrator := migrations.NewMigrator(db, migrations.Embedded())
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveMove stores a single move
func (r *SQLiteRepository) SaveMove(ctx context.Context, move *entities.MoveRecord) error {
	cardJSON, err := json.Marshal(move.Card)
	if err != nil {
		return fmt.Errorf("error marshaling card: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO moves (session_id, player_id, player_name, card, color_chosen, hand_size_before, turn_duration_ms, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		move.SessionID, move.PlayerID, move.PlayerName, string(cardJSON), string(move.ColorChosen),
		move.HandSizeBefore, move.TurnDuration, move.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving move: %w", err)
	}
	return nil
}

// GetMoves retrieves the moves of a session in play order
func (r *SQLiteRepository) GetMoves(ctx context.Context, sessionID string) ([]*entities.MoveRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, player_id, player_name, card, color_chosen, hand_size_before, turn_duration_ms, played_at
		FROM moves
		WHERE session_id = ?
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying moves: %w", err)
	}
	defer rows.Close()

	moves := []*entities.MoveRecord{}
	for rows.Next() {
		var (
			move     entities.MoveRecord
			cardJSON string
			color    sql.NullString
		)
		if err := rows.Scan(&move.SessionID, &move.PlayerID, &move.PlayerName, &cardJSON, &color,
			&move.HandSizeBefore, &move.TurnDuration, &move.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning move: %w", err)
		}
		if err := json.Unmarshal([]byte(cardJSON), &move.Card); err != nil {
			return nil, fmt.Errorf("error unmarshaling card: %w", err)
		}
		move.ColorChosen = entities.Color(color.String)
		moves = append(moves, &move)
	}
	return moves, rows.Err()
}

// SaveLearningRecord stores a computer decision
func (r *SQLiteRepository) SaveLearningRecord(ctx context.Context, record *entities.LearningRecord) error {
	opponents, err := json.Marshal(record.OpponentHandSizes)
	if err != nil {
		return fmt.Errorf("error marshaling opponent hand sizes: %w", err)
	}
	topCard, err := json.Marshal(record.TopCard)
	if err != nil {
		return fmt.Errorf("error marshaling top card: %w", err)
	}
	played, err := json.Marshal(record.CardPlayed)
	if err != nil {
		return fmt.Errorf("error marshaling played card: %w", err)
	}

	var won sql.NullBool
	var cardsLeft sql.NullInt64
	if record.Outcome != nil {
		won = sql.NullBool{Bool: record.Outcome.Won, Valid: true}
		cardsLeft = sql.NullInt64{Int64: int64(record.Outcome.CardsLeftAtEnd), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO learning_records (
			id, session_id, player_id, difficulty, hand_size, opponent_hand_sizes, active_color,
			top_card, card_played, color_chosen, confidence, reasoning, outcome_won, outcome_cards_left, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.SessionID, record.PlayerID, string(record.Difficulty), record.HandSize,
		string(opponents), string(record.ActiveColor), string(topCard), string(played),
		string(record.ColorChosen), record.Confidence, record.Reasoning, won, cardsLeft,
		record.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving learning record: %w", err)
	}
	return nil
}

// GetLearningRecords returns up to limit records for a difficulty, newest first
func (r *SQLiteRepository) GetLearningRecords(ctx context.Context, difficulty entities.Difficulty, limit int) ([]*entities.LearningRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, player_id, difficulty, hand_size, opponent_hand_sizes, active_color,
		       top_card, card_played, color_chosen, confidence, reasoning, outcome_won, outcome_cards_left, recorded_at
		FROM learning_records
		WHERE difficulty = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, string(difficulty), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying learning records: %w", err)
	}
	defer rows.Close()

	var records []*entities.LearningRecord
	for rows.Next() {
		record, err := scanLearningRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanLearningRecord(rows *sql.Rows) (*entities.LearningRecord, error) {
	var (
		record                     entities.LearningRecord
		difficulty, active, chosen sql.NullString
		opponents, topCard, played string
		won                        sql.NullBool
		cardsLeft                  sql.NullInt64
	)
	err := rows.Scan(&record.ID, &record.SessionID, &record.PlayerID, &difficulty, &record.HandSize,
		&opponents, &active, &topCard, &played, &chosen, &record.Confidence, &record.Reasoning,
		&won, &cardsLeft, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("error scanning learning record: %w", err)
	}

	if err := json.Unmarshal([]byte(opponents), &record.OpponentHandSizes); err != nil {
		return nil, fmt.Errorf("error unmarshaling opponent hand sizes: %w", err)
	}
	if err := json.Unmarshal([]byte(topCard), &record.TopCard); err != nil {
		return nil, fmt.Errorf("error unmarshaling top card: %w", err)
	}
	if err := json.Unmarshal([]byte(played), &record.CardPlayed); err != nil {
		return nil, fmt.Errorf("error unmarshaling played card: %w", err)
	}
	record.Difficulty = entities.Difficulty(difficulty.String)
	record.ActiveColor = entities.Color(active.String)
	record.ColorChosen = entities.Color(chosen.String)
	if won.Valid {
		record.Outcome = &entities.Outcome{Won: won.Bool, CardsLeftAtEnd: int(cardsLeft.Int64)}
	}
	return &record, nil
}

// ResolveOutcomes attaches outcomes to the session's records in one transaction
func (r *SQLiteRepository) ResolveOutcomes(ctx context.Context, sessionID string, outcomes map[string]entities.Outcome) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE learning_records SET outcome_won = ?, outcome_cards_left = ?
		WHERE session_id = ? AND player_id = ?`)
	if err != nil {
		return fmt.Errorf("error preparing outcome update: %w", err)
	}
	defer stmt.Close()

	for playerID, outcome := range outcomes {
		if _, err := stmt.ExecContext(ctx, outcome.Won, outcome.CardsLeftAtEnd, sessionID, playerID); err != nil {
			return fmt.Errorf("error resolving outcome for %s: %w", playerID, err)
		}
	}

	return tx.Commit()
}

// PruneLearningRecords keeps the newest keep records of each difficulty
func (r *SQLiteRepository) PruneLearningRecords(ctx context.Context, keep int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM learning_records WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY difficulty ORDER BY recorded_at DESC, rowid DESC
				) AS position
				FROM learning_records
			) WHERE position > ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("error pruning learning records: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

// SaveGameSummary stores a finished match summary
func (r *SQLiteRepository) SaveGameSummary(ctx context.Context, summary *entities.GameSummary) error {
	scores, err := json.Marshal(summary.Players)
	if err != nil {
		return fmt.Errorf("error marshaling final scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO game_summaries (session_id, winner, winner_name, final_scores, duration_ms, total_turns, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.SessionID, summary.Winner, summary.WinnerName, string(scores),
		summary.Duration.Milliseconds(), summary.TotalTurns, summary.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving game summary: %w", err)
	}
	return nil
}

// GetGameSummaries returns up to limit summaries, newest first
func (r *SQLiteRepository) GetGameSummaries(ctx context.Context, limit int) ([]*entities.GameSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, winner, winner_name, final_scores, duration_ms, total_turns, completed_at
		FROM game_summaries
		ORDER BY completed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying game summaries: %w", err)
	}
	defer rows.Close()

	summaries := []*entities.GameSummary{}
	for rows.Next() {
		var (
			summary    entities.GameSummary
			scores     string
			durationMS int64
		)
		if err := rows.Scan(&summary.SessionID, &summary.Winner, &summary.WinnerName, &scores,
			&durationMS, &summary.TotalTurns, &summary.CompletedAt); err != nil {
			return nil, fmt.Errorf("error scanning game summary: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &summary.Players); err != nil {
			return nil, fmt.Errorf("error unmarshaling final scores: %w", err)
		}
		summary.Duration = time.Duration(durationMS) * time.Millisecond
		summaries = append(summaries, &summary)
	}
	return summaries, rows.Err()
}

const selectStatisticsSQL = `
	SELECT player_name, games_played, games_won, win_rate, average_cards_left,
	       favorite_color, total_play_time, last_updated
	FROM player_statistics`

// GetPlayerStatistics retrieves statistics for a specific player
func (r *SQLiteRepository) GetPlayerStatistics(ctx context.Context, name string) (*entities.PlayerStatistics, error) {
	var stats entities.PlayerStatistics
	var color string
	err := r.db.QueryRowContext(ctx, selectStatisticsSQL+" WHERE player_name = ?", name).Scan(
		&stats.PlayerName, &stats.GamesPlayed, &stats.GamesWon, &stats.WinRate,
		&stats.AverageCardsLeft, &color, &stats.TotalPlayTime, &stats.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return entities.NewPlayerStatistics(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player statistics: %w", err)
	}
	stats.FavoriteColor = entities.Color(color)
	return &stats, nil
}

// GetAllPlayerStatistics retrieves statistics for all players, most wins first
func (r *SQLiteRepository) GetAllPlayerStatistics(ctx context.Context) ([]*entities.PlayerStatistics, error) {
	rows, err := r.db.QueryContext(ctx, selectStatisticsSQL+" ORDER BY games_won DESC, win_rate DESC, player_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query player statistics: %w", err)
	}
	defer rows.Close()

	all := []*entities.PlayerStatistics{}
	for rows.Next() {
		var stats entities.PlayerStatistics
		var color string
		if err := rows.Scan(&stats.PlayerName, &stats.GamesPlayed, &stats.GamesWon, &stats.WinRate,
			&stats.AverageCardsLeft, &color, &stats.TotalPlayTime, &stats.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan player statistics: %w", err)
		}
		stats.FavoriteColor = entities.Color(color)
		all = append(all, &stats)
	}
	return all, rows.Err()
}

// SavePlayerStatistics inserts or replaces the statistics for a player
func (r *SQLiteRepository) SavePlayerStatistics(ctx context.Context, stats *entities.PlayerStatistics) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO player_statistics (
			player_name, games_played, games_won, win_rate, average_cards_left,
			favorite_color, total_play_time, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_name) DO UPDATE SET
			games_played = excluded.games_played,
			games_won = excluded.games_won,
			win_rate = excluded.win_rate,
			average_cards_left = excluded.average_cards_left,
			favorite_color = excluded.favorite_color,
			total_play_time = excluded.total_play_time,
			last_updated = excluded.last_updated`,
		stats.PlayerName, stats.GamesPlayed, stats.GamesWon, stats.WinRate, stats.AverageCardsLeft,
		string(stats.FavoriteColor), stats.TotalPlayTime, stats.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save player statistics: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
