package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"shelf-cli/internal/model"
)

const dbFileName = "shelf.sqlite"

// Store is the local SQLite-backed Client. It also owns the local
// session row that stands in for the remote auth/session service.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the shelf database under dir.
func Open(ctx context.Context, dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a second shelf process runs.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s := &Store{db: db, log: log}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chats (
			initial_id TEXT PRIMARY KEY,
			id TEXT,
			url_id TEXT,
			description TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_created ON chats(created_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS linked_projects (
			chat_initial_id TEXT PRIMARY KEY REFERENCES chats(initial_id) ON DELETE CASCADE,
			team_slug TEXT NOT NULL,
			project_slug TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// EnsureSession returns the stored session, creating one on first run.
func (s *Store) EnsureSession(ctx context.Context) (*model.Session, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	sess = &model.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, token, created_at_unixms) VALUES(?, ?, ?)`,
		sess.ID, sess.Token, sess.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info("session created", zap.String("session_id", sess.ID))
	return sess, nil
}

// Session returns the stored session, or nil when signed out.
func (s *Store) Session(ctx context.Context) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, token, created_at_unixms FROM sessions ORDER BY created_at_unixms LIMIT 1`)
	var sess model.Session
	var ms int64
	if err := row.Scan(&sess.ID, &sess.Token, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	sess.CreatedAt = time.UnixMilli(ms).UTC()
	return &sess, nil
}

// ClearSession signs out by dropping all session rows.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}

func (s *Store) ListChats(ctx context.Context, session *model.Session) ([]model.ChatItem, error) {
	if session == nil {
		// Skip semantics: no session, no query.
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT initial_id, COALESCE(id, ''), COALESCE(url_id, ''), description, created_at_unixms
		 FROM chats ORDER BY created_at_unixms DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChatItem
	for rows.Next() {
		var it model.ChatItem
		var ms int64
		if err := rows.Scan(&it.InitialID, &it.ID, &it.URLID, &it.Description, &ms); err != nil {
			return nil, err
		}
		if ms > 0 {
			it.CreatedAt = time.UnixMilli(ms).UTC()
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) LookupLinkedProject(ctx context.Context, session *model.Session, chatID string) (model.LinkedProject, error) {
	if session == nil {
		return model.LinkedProject{Kind: model.LinkNone}, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT team_slug, project_slug FROM linked_projects WHERE chat_initial_id = ?`,
		strings.TrimSpace(chatID))
	var lp model.LinkedProject
	if err := row.Scan(&lp.TeamSlug, &lp.ProjectSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LinkedProject{Kind: model.LinkNone}, nil
		}
		return model.LinkedProject{}, err
	}
	lp.Kind = model.LinkConnected
	return lp, nil
}

func (s *Store) DeleteChat(ctx context.Context, req model.DeleteRequest) model.DeleteResult {
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.AuthToken) == "" {
		return model.DeleteErrorResult("not signed in")
	}
	ok, err := s.sessionValid(ctx, req.SessionID, req.AuthToken)
	if err != nil {
		return model.DeleteErrorResult(err.Error())
	}
	if !ok {
		return model.DeleteErrorResult("invalid session")
	}

	chatID := strings.TrimSpace(req.ChatID)
	if req.AlsoDeleteExternal {
		// Cascade only applies to an actually-connected project; a flag
		// set without a link row is ignored, matching server behavior.
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM linked_projects WHERE chat_initial_id = ? AND team_slug = ? AND project_slug = ?`,
			chatID, req.TeamSlug, req.ProjectSlug)
		if err != nil {
			return model.DeleteErrorResult(err.Error())
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.log.Info("deleted linked project",
				zap.String("chat", chatID),
				zap.String("project", req.ProjectSlug))
		}
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chats WHERE initial_id = ? OR id = ?`, chatID, chatID)
	if err != nil {
		return model.DeleteErrorResult(err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.DeleteErrorResult("chat not found")
	}
	s.log.Info("deleted chat", zap.String("chat", chatID))
	return model.DeleteOKResult()
}

func (s *Store) UpdateDescription(ctx context.Context, session *model.Session, chatID, description string) error {
	if session == nil {
		return ErrNoSession
	}
	id := strings.TrimSpace(chatID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE chats SET description = ? WHERE initial_id = ? OR id = ?`,
		strings.TrimSpace(description), id, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrChatNotFound
	}
	return nil
}

// CreateChat inserts a new chat. Used by `shelf new` and by tests.
func (s *Store) CreateChat(ctx context.Context, session *model.Session, item model.ChatItem) error {
	if session == nil {
		return ErrNoSession
	}
	if strings.TrimSpace(item.InitialID) == "" {
		item.InitialID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats(initial_id, id, url_id, description, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		item.InitialID, item.ID, item.URLID, item.Description, item.CreatedAt.UnixMilli())
	return err
}

// LinkProject connects a chat to an external project.
func (s *Store) LinkProject(ctx context.Context, chatID, teamSlug, projectSlug string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO linked_projects(chat_initial_id, team_slug, project_slug) VALUES(?, ?, ?)`,
		strings.TrimSpace(chatID), teamSlug, projectSlug)
	return err
}

func (s *Store) sessionValid(ctx context.Context, id, token string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sessions WHERE id = ? AND token = ?`, id, token)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Client = (*Store)(nil)
