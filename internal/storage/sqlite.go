package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shohag/countboard/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// A single connection also keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS counter (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			value INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT OR IGNORE INTO counter (id, value) VALUES (1, 0)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- Counter ---

func (s *SQLiteStorage) GetCounter(ctx context.Context) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counter WHERE id = 1`).Scan(&value)
	return value, err
}

func (s *SQLiteStorage) SetCounter(ctx context.Context, value int64) (int64, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE counter SET value = ?, updated_at = ? WHERE id = 1`,
		value, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *SQLiteStorage) AddCounter(ctx context.Context, delta int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE counter SET value = value + ?, updated_at = ? WHERE id = 1`,
		delta, time.Now().UTC(),
	); err != nil {
		return 0, err
	}

	var value int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM counter WHERE id = 1`).Scan(&value); err != nil {
		return 0, err
	}
	return value, tx.Commit()
}

func (s *SQLiteStorage) ResetCounter(ctx context.Context) (int64, error) {
	return s.SetCounter(ctx, 0)
}

// --- Messages ---

func (s *SQLiteStorage) ListMessages(ctx context.Context) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, created_at FROM messages ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStorage) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (content, created_at) VALUES (?, ?)`,
		msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read message id: %w", err)
	}
	msg.ID = id
	return nil
}

func (s *SQLiteStorage) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	var msg models.Message
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, created_at FROM messages WHERE id = ?`, id,
	).Scan(&msg.ID, &msg.Content, &msg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *SQLiteStorage) DeleteMessage(ctx context.Context, id int64) (*models.Message, error) {
	msg, err := s.GetMessage(ctx, id)
	if err != nil || msg == nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *SQLiteStorage) DeleteAllMessages(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
