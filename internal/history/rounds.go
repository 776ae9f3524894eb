package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Round is one won board, written when a check reaches the target score.
type Round struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId,omitempty"`
	AnonymousID string    `json:"-"`
	Preset      string    `json:"preset"`
	DailyDate   string    `json:"dailyDate,omitempty"`
	Score       int       `json:"score"`
	TargetScore int       `json:"targetScore"`
	Words       []string  `json:"words"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// LeaderRow is one entry of a daily leaderboard.
type LeaderRow struct {
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RecordWin stores r and, for a signed-in owner, bumps their win count and
// best score in the same transaction.
func (s *Store) RecordWin(ctx context.Context, r Round) (int64, error) {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	if r.Words == nil {
		r.Words = []string{}
	}
	wordsJSON, err := json.Marshal(r.Words)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO rounds
            (session_id, user_id, anonymous_id, preset, daily_date, score, target_score, words, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, nullable(r.UserID), nullable(r.AnonymousID), r.Preset, nullable(r.DailyDate),
		r.Score, r.TargetScore, string(wordsJSON), r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert round: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if r.UserID != "" {
		if _, err := tx.ExecContext(ctx, `
            UPDATE users
            SET rounds_won = rounds_won + 1, best_score = MAX(best_score, ?)
            WHERE id = ?`, r.Score, r.UserID); err != nil {
			return 0, fmt.Errorf("bump user stats: %w", err)
		}
	}
	return id, tx.Commit()
}

// RecentRounds lists the newest rounds owned by a user ID or anonymous ID.
func (s *Store) RecentRounds(ctx context.Context, owner string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, session_id, COALESCE(user_id,''), preset, COALESCE(daily_date,''),
               score, target_score, words, finished_at
        FROM rounds
        WHERE user_id = ? OR anonymous_id = ?
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, owner, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var (
			r        Round
			wordsRaw string
			finished string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.UserID, &r.Preset, &r.DailyDate,
			&r.Score, &r.TargetScore, &wordsRaw, &finished); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(wordsRaw), &r.Words); err != nil {
			return nil, fmt.Errorf("round %d words: %w", r.ID, err)
		}
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous moves rounds played as a guest onto a user account and
// credits them to the user's stats.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n, best int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(MAX(score),0) FROM rounds WHERE anonymous_id = ?`, anonID,
	).Scan(&n, &best); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE rounds SET user_id = ?, anonymous_id = NULL WHERE anonymous_id = ?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET rounds_won = rounds_won + ?, best_score = MAX(best_score, ?) WHERE id = ?`,
		n, best, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// DailyLeaderboard returns the best signed-in scores for a date: highest
// score first, then whoever first reached that score. Each user appears once,
// with the finish time of the round that set their best.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LeaderRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        WITH day AS (
            SELECT user_id, score, finished_at
            FROM rounds
            WHERE daily_date = ? AND user_id IS NOT NULL
        ), best AS (
            SELECT user_id, MAX(score) AS score FROM day GROUP BY user_id
        )
        SELECT u.username, b.score, MIN(d.finished_at) AS reached
        FROM best b
        JOIN day d ON d.user_id = b.user_id AND d.score = b.score
        JOIN users u ON u.id = b.user_id
        GROUP BY b.user_id
        ORDER BY b.score DESC, reached ASC
        LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderRow, 0, limit)
	for rows.Next() {
		var (
			r        LeaderRow
			finished string
		)
		if err := rows.Scan(&r.Username, &r.Score, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
