package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/ust_basket/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS basket_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract TEXT NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			class TEXT NOT NULL DEFAULT '',
			entries INTEGER NOT NULL DEFAULT 0,
			edge_cases INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			requested_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_basket_requests_contract ON basket_requests(contract);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// RequestLogRepository Implementation

func (s *SQLiteStore) SaveRequestLog(ctx context.Context, log *domain.RequestLog) error {
	query := `INSERT INTO basket_requests (contract, abbreviation, class, entries, edge_cases, warnings, status, error, duration_ms, requested_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		log.Contract, log.Abbreviation, log.Class, log.Entries, log.EdgeCases,
		log.Warnings, log.Status, log.Error, log.DurationMs, log.RequestedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

func (s *SQLiteStore) ListRequestLogs(ctx context.Context, limit int) ([]*domain.RequestLog, error) {
	query := `SELECT id, contract, abbreviation, class, entries, edge_cases, warnings, status, error, duration_ms, requested_at
			  FROM basket_requests ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.RequestLog
	for rows.Next() {
		var l domain.RequestLog
		if err := rows.Scan(&l.ID, &l.Contract, &l.Abbreviation, &l.Class, &l.Entries, &l.EdgeCases,
			&l.Warnings, &l.Status, &l.Error, &l.DurationMs, &l.RequestedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
