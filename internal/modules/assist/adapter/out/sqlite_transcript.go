package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cxassist/internal/modules/assist/domain"
	assistout "cxassist/internal/modules/assist/port/out"

	_ "modernc.org/sqlite"
)

// Fixed width keeps created_at lexically sortable.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteTranscriptStore struct {
	db *sql.DB
}

func NewSQLiteTranscriptStore(dbPath string) (assistout.TranscriptStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteTranscriptStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteTranscriptStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS turns (
  conversation_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  agent_id TEXT NOT NULL,
  role TEXT NOT NULL,
  kind TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (conversation_id, seq)
);
CREATE INDEX IF NOT EXISTS turns_agent_created ON turns (agent_id, created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create turns table: %w", err)
	}
	return nil
}

func (s *SQLiteTranscriptStore) Append(ctx context.Context, entry domain.TranscriptEntry) error {
	const stmt = `
INSERT INTO turns (conversation_id, seq, agent_id, role, kind, body, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(conversation_id, seq) DO UPDATE SET
  role=excluded.role,
  kind=excluded.kind,
  body=excluded.body,
  created_at=excluded.created_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ConversationID,
		entry.Seq,
		entry.AgentID,
		string(entry.Role),
		entry.Kind.String(),
		entry.Body,
		entry.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// List returns the newest limit turns for agentID in chronological order.
// An empty agentID lists every agent.
func (s *SQLiteTranscriptStore) List(ctx context.Context, agentID string, limit int) ([]domain.TranscriptEntry, error) {
	const query = `
SELECT conversation_id, seq, agent_id, role, kind, body, created_at FROM (
  SELECT * FROM turns
  WHERE (? = '' OR agent_id = ?)
  ORDER BY created_at DESC, conversation_id DESC, seq DESC
  LIMIT ?
) ORDER BY created_at ASC, conversation_id ASC, seq ASC;
`
	rows, err := s.db.QueryContext(ctx, query, agentID, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []domain.TranscriptEntry
	for rows.Next() {
		var (
			e         domain.TranscriptEntry
			role      string
			kind      string
			createdAt string
		)
		if err := rows.Scan(&e.ConversationID, &e.Seq, &e.AgentID, &role, &kind, &e.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		e.Role = domain.Role(role)
		if kind == domain.ContentFeedback.String() {
			e.Kind = domain.ContentFeedback
		}
		at, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse turn time: %w", err)
		}
		e.At = at
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return out, nil
}

func (s *SQLiteTranscriptStore) Close() error {
	return s.db.Close()
}
