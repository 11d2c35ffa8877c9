package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/spacebuilder/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time check: SessionRepository implements domain.SessionRepository.
var _ domain.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements domain.SessionRepository using SQLite.
// The selection and its history stack are stored as JSON columns.
type SessionRepository struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*SessionRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives per connection; pin it to one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*SessionRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &SessionRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *SessionRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *SessionRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = time.RFC3339Nano

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) error {
	selection, history, err := encodeState(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, stage, selection, history, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, string(s.Selection.Stage), selection, history,
		s.CreatedAt.Format(timeFormat),
		s.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	var stage, selection, history, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, stage, selection, history, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &stage, &selection, &history, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("scanning session: %w", err)
	}

	if err := json.Unmarshal([]byte(selection), &s.Selection); err != nil {
		return domain.Session{}, fmt.Errorf("decoding selection: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &s.History); err != nil {
		return domain.Session{}, fmt.Errorf("decoding history: %w", err)
	}
	if s.History == nil {
		s.History = domain.History{}
	}
	s.Selection.Stage = domain.Stage(stage)

	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	s.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return s, nil
}

func (r *SessionRepository) Update(ctx context.Context, s domain.Session) error {
	selection, history, err := encodeState(s)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET stage = ?, selection = ?, history = ?, updated_at = ?
		 WHERE id = ?`,
		string(s.Selection.Stage), selection, history,
		time.Now().UTC().Format(timeFormat), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func encodeState(s domain.Session) (string, string, error) {
	selection, err := json.Marshal(s.Selection)
	if err != nil {
		return "", "", fmt.Errorf("encoding selection: %w", err)
	}

	history := s.History
	if history == nil {
		history = domain.History{}
	}
	hist, err := json.Marshal(history)
	if err != nil {
		return "", "", fmt.Errorf("encoding history: %w", err)
	}

	return string(selection), string(hist), nil
}
