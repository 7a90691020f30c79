// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists finished ideation rounds in a local SQLite
// ledger so past ideas can be reviewed and searched.
// Implements: prd004-history (R1-R3).
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

const dbFile = "ideation.db"

// Store manages the round-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dir/ideation.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".ideation"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			problem TEXT NOT NULL,
			model TEXT,
			connection TEXT,
			mechanisms TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id INTEGER NOT NULL REFERENCES rounds(id),
			position INTEGER NOT NULL,
			idea TEXT NOT NULL,
			relevance REAL,
			plausibility REAL,
			reasoning TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_round_id ON ideas(round_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='ideas_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE ideas_fts USING fts5(idea, content=ideas, content_rowid=rowid)`,
			`CREATE TRIGGER ideas_ai AFTER INSERT ON ideas BEGIN
				INSERT INTO ideas_fts(rowid, idea) VALUES (new.rowid, new.idea);
			END`,
			`CREATE TRIGGER ideas_ad AFTER DELETE ON ideas BEGIN
				INSERT INTO ideas_fts(ideas_fts, rowid, idea) VALUES('delete', old.rowid, old.idea);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRound appends one finished round and its ranked ideas to the ledger.
func (s *Store) SaveRound(ctx context.Context, round types.Round) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	mechanismsJSON, _ := json.Marshal(round.Mechanisms)
	ts := round.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (problem, model, connection, mechanisms, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		round.Problem, round.Model, round.Connection,
		string(mechanismsJSON), ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting round: %w", err)
	}

	roundID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading round id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ideas (round_id, position, idea, relevance, plausibility, reasoning)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, idea := range round.Ideas {
		if _, err := stmt.ExecContext(ctx,
			roundID, i+1, idea.Idea, idea.Relevance, idea.Plausibility, idea.Reasoning,
		); err != nil {
			return fmt.Errorf("inserting idea %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Rounds returns the most recent rounds, newest first, with their ideas in
// rank order. limit <= 0 returns the 20 most recent.
func (s *Store) Rounds(ctx context.Context, limit int) ([]types.Round, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem, model, connection, mechanisms, created_at
		 FROM rounds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var rounds []types.Round
	var ids []int64

	for rows.Next() {
		var id int64
		var round types.Round
		var mechanismsJSON, createdAt string
		if err := rows.Scan(&id, &round.Problem, &round.Model, &round.Connection, &mechanismsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		json.Unmarshal([]byte(mechanismsJSON), &round.Mechanisms)
		round.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		rounds = append(rounds, round)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rounds: %w", err)
	}

	for i, id := range ids {
		ideas, err := s.roundIdeas(ctx, id)
		if err != nil {
			return nil, err
		}
		rounds[i].Ideas = ideas
	}

	return rounds, nil
}

func (s *Store) roundIdeas(ctx context.Context, roundID int64) ([]types.RankedIdea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idea, relevance, plausibility, reasoning
		 FROM ideas WHERE round_id = ? ORDER BY position`, roundID)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	var ideas []types.RankedIdea
	for rows.Next() {
		var idea types.RankedIdea
		if err := rows.Scan(&idea.Idea, &idea.Relevance, &idea.Plausibility, &idea.Reasoning); err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// IdeaHit is one full-text search match with its round context.
type IdeaHit struct {
	Idea      types.RankedIdea `json:"idea"`
	Problem   string           `json:"problem"`
	Timestamp time.Time        `json:"timestamp"`
}

// SearchIdeas runs an FTS5 match over stored idea text and returns the
// best matches with the problem they were generated for.
func (s *Store) SearchIdeas(ctx context.Context, query string, limit int) ([]IdeaHit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.idea, i.relevance, i.plausibility, i.reasoning, r.problem, r.created_at
		 FROM ideas_fts
		 JOIN ideas i ON i.rowid = ideas_fts.rowid
		 JOIN rounds r ON r.id = i.round_id
		 WHERE ideas_fts MATCH ?
		 ORDER BY ideas_fts.rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching ideas: %w", err)
	}
	defer rows.Close()

	var hits []IdeaHit
	for rows.Next() {
		var hit IdeaHit
		var createdAt string
		if err := rows.Scan(&hit.Idea.Idea, &hit.Idea.Relevance, &hit.Idea.Plausibility,
			&hit.Idea.Reasoning, &hit.Problem, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hit.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
