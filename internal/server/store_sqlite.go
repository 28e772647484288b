package server

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) Read(ctx context.Context, collection, key string) (string, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT payload_json FROM records WHERE collection = ? AND key = ?`,
		collection, key,
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrapf(err, "read %s/%s", collection, key)
	}
	return payload, nil
}

func (s *SQLiteStore) Create(ctx context.Context, collection, key, payload string) error {
	now := time.Now().Unix()
	res, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO records (collection, key, payload_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection, key, payload, now, now,
	)
	if err != nil {
		return errors.Wrapf(err, "create %s/%s", collection, key)
	}
	return expectOneRow(res, ErrExists)
}

func (s *SQLiteStore) Update(ctx context.Context, collection, key, payload string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE records SET payload_json = ?, updated_at = ?
		 WHERE collection = ? AND key = ?`,
		payload, time.Now().Unix(), collection, key,
	)
	if err != nil {
		return errors.Wrapf(err, "update %s/%s", collection, key)
	}
	return expectOneRow(res, ErrNotFound)
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, key string) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND key = ?`,
		collection, key,
	)
	if err != nil {
		return errors.Wrapf(err, "delete %s/%s", collection, key)
	}
	return expectOneRow(res, ErrNotFound)
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT key FROM records WHERE collection = ? ORDER BY key`,
		collection,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", collection)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CountByCollection is used by svc-dbcheck.
func (s *SQLiteStore) CountByCollection(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT collection, COUNT(*) FROM records GROUP BY collection`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var c string
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result, otherwise error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return otherwise
	}
	return nil
}
