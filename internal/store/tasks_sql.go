package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scheduler-cli/internal/model"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var ErrNotFound = errors.New("task not found")

// TaskStore is the SQL repository behind the reference API server.
type TaskStore struct {
	db     *sql.DB
	driver string

	// Now is the clock used for Created; tests may replace it.
	Now func() time.Time
	// NewID generates task IDs; tests may replace it.
	NewID func() string
}

// OpenTaskStore opens (and migrates) a task store.
// For sqlite the dsn is a file path (parent dirs are created) or ":memory:".
func OpenTaskStore(ctx context.Context, driver, dsn string) (*TaskStore, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	dsn = strings.TrimSpace(dsn)
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			return nil, errors.New("store: missing sqlite path")
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, err
			}
		}
	case DriverMySQL:
		if dsn == "" {
			return nil, errors.New("store: missing mysql dsn")
		}
	default:
		return nil, fmt.Errorf("store: unknown driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases alive and sidesteps "database is locked".
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL;",
			"PRAGMA synchronous=NORMAL;",
			"PRAGMA busy_timeout=5000;",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &TaskStore{
		db:     db,
		driver: driver,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TaskStore) Close() error { return s.db.Close() }

func (s *TaskStore) Driver() string { return s.driver }

// The DDL sticks to the subset both sqlite and mysql accept.
func (s *TaskStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id VARCHAR(64) NOT NULL PRIMARY KEY,
			message VARCHAR(255) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_unixms BIGINT NOT NULL
		)`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// List returns every task, newest first.
func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, message, completed, favorite, created_unixms FROM tasks ORDER BY created_unixms DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TaskStore) Get(ctx context.Context, id string) (model.Task, error) {
	return getTask(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryer, id string) (model.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT id, message, completed, favorite, created_unixms FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, err
}

// Create inserts a new task with a fresh ID and the current time.
func (s *TaskStore) Create(ctx context.Context, message string) (model.Task, error) {
	t := model.Task{
		ID:      s.NewID(),
		Message: message,
		Created: s.Now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, message, completed, favorite, created_unixms) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Message, t.Completed, t.Favorite, t.Created.UnixMilli(),
	)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Update overwrites message and flags. Created is owned by the store and never changes.
func (s *TaskStore) Update(ctx context.Context, t model.Task) (model.Task, error) {
	out, err := s.UpdateAll(ctx, []model.Task{t})
	if err != nil {
		return model.Task{}, err
	}
	return out[0], nil
}

// UpdateAll applies a batch of updates in one transaction. An unknown ID
// rolls back the whole batch with ErrNotFound.
func (s *TaskStore) UpdateAll(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		_, err := tx.ExecContext(ctx,
			`UPDATE tasks SET message = ?, completed = ?, favorite = ? WHERE id = ?`,
			t.Message, t.Completed, t.Favorite, t.ID,
		)
		if err != nil {
			return nil, err
		}
		// mysql reports 0 affected rows when nothing changed, so existence is checked by reading back.
		u, err := getTask(ctx, tx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (model.Task, error) {
	var t model.Task
	var created int64
	if err := r.Scan(&t.ID, &t.Message, &t.Completed, &t.Favorite, &created); err != nil {
		return model.Task{}, err
	}
	t.Created = time.UnixMilli(created).UTC()
	return t, nil
}
