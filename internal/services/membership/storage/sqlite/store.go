package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/webmentordev/swarm/internal/platform/storage/sqlitemigrate"
	"github.com/webmentordev/swarm/internal/services/membership/storage"
	"github.com/webmentordev/swarm/internal/services/membership/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides a SQLite-backed member registry.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a member registry at the provided path.
// Opening an existing registry reuses its data.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("registry path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// MemberExists reports whether any row is registered for the address.
func (s *Store) MemberExists(ctx context.Context, address string) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("registry is not configured")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return false, fmt.Errorf("member address is required")
	}

	var count int64
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM members WHERE address = ?", address)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	return count > 0, nil
}

// AddMember registers a new active member for the address.
func (s *Store) AddMember(ctx context.Context, address string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("registry is not configured")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("member address is required")
	}

	if _, err := s.sqlDB.ExecContext(ctx, "INSERT INTO members (address) VALUES (?)", address); err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetMember loads the member registered for the address.
func (s *Store) GetMember(ctx context.Context, address string) (storage.Member, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Member{}, fmt.Errorf("registry is not configured")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return storage.Member{}, fmt.Errorf("member address is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		"SELECT id, address, is_active, has_left FROM members WHERE address = ?",
		address,
	)

	var member storage.Member
	var isActive int64
	var hasLeft int64
	if err := row.Scan(&member.ID, &member.Address, &isActive, &hasLeft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Member{}, storage.ErrNotFound
		}
		return storage.Member{}, fmt.Errorf("get member: %w", err)
	}
	member.IsActive = isActive != 0
	member.HasLeft = hasLeft != 0
	return member, nil
}

var _ storage.Registry = (*Store)(nil)
