package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/shorterhq/shorter/pkg/core/domain"
)

// KVRepository implements ports.KVStore on a single flat table. Each row is
// one (namespace, key) pair; the database gives single-row atomicity and
// nothing more, matching the contract the stores are written against.
type KVRepository struct {
	db *sql.DB
}

func NewKVRepository(dbURL string) (*KVRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &KVRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		ns    TEXT NOT NULL,
		k     TEXT NOT NULL,
		v     BLOB NOT NULL,
		PRIMARY KEY (ns, k)
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *KVRepository) Get(ctx context.Context, ns, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE ns = ? AND k = ?`, ns, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return value, nil
}

func (r *KVRepository) Put(ctx context.Context, ns, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv (ns, k, v) VALUES (?, ?, ?)
		 ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v`,
		ns, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, ns, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE ns = ? AND k = ?`, ns, key)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *KVRepository) List(ctx context.Context, ns, prefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT k FROM kv WHERE ns = ? AND k >= ? ORDER BY k`, ns, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if prefix != "" && !strings.HasPrefix(k, prefix) {
			break
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return keys, nil
}

func (r *KVRepository) Close() error {
	return r.db.Close()
}
