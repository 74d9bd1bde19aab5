// Package store persists bid-out auctions in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bridgetools/bba-go/pkg/bba"
)

// ErrNotFound reports a lookup for an auction id that was never saved.
var ErrNotFound = errors.New("store: auction not found")

//go:embed schema.sql
var schemaSQL string

// Auction is one archived board: the deal, its setup, and the auction the
// engine produced for it.
type Auction struct {
	ID            int64
	Deal          string
	Dealer        bba.Seat
	Vulnerability bba.Vulnerability
	Calls         []string
	Contract      string
	CreatedAt     time.Time
}

// Store is a SQLite-backed auction archive.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the archive at path, creating the schema when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveAuction archives one auction and returns its id. A zero CreatedAt is
// stamped with the current time.
func (s *Store) SaveAuction(ctx context.Context, a Auction) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store: not configured")
	}
	if strings.TrimSpace(a.Deal) == "" {
		return 0, fmt.Errorf("store: deal is required")
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO auctions (deal, dealer, vulnerability, calls, contract, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Deal,
		a.Dealer.String(),
		a.Vulnerability.String(),
		strings.Join(a.Calls, " "),
		a.Contract,
		toMillis(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("store: save auction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: save auction: %w", err)
	}
	return id, nil
}

// GetAuction returns one archived auction by id.
func (s *Store) GetAuction(ctx context.Context, id int64) (Auction, error) {
	if err := ctx.Err(); err != nil {
		return Auction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Auction{}, fmt.Errorf("store: not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, deal, dealer, vulnerability, calls, contract, created_at
		 FROM auctions
		 WHERE id = ?`,
		id,
	)
	a, err := scanAuction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Auction{}, ErrNotFound
		}
		return Auction{}, fmt.Errorf("store: get auction: %w", err)
	}
	return a, nil
}

// ListAuctions returns the most recent auctions, newest first. A limit of
// zero or less falls back to 50.
func (s *Store) ListAuctions(ctx context.Context, limit int) ([]Auction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("store: not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, deal, dealer, vulnerability, calls, contract, created_at
		 FROM auctions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list auctions: %w", err)
	}
	defer rows.Close()

	auctions := make([]Auction, 0, limit)
	for rows.Next() {
		a, err := scanAuction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: list auctions: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list auctions: %w", err)
	}
	return auctions, nil
}

// CountAuctions returns how many auctions the archive holds.
func (s *Store) CountAuctions(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store: not configured")
	}
	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM auctions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count auctions: %w", err)
	}
	return n, nil
}

func scanAuction(scan func(dest ...any) error) (Auction, error) {
	var (
		a         Auction
		dealer    string
		vul       string
		calls     string
		createdAt int64
	)
	if err := scan(&a.ID, &a.Deal, &dealer, &vul, &calls, &a.Contract, &createdAt); err != nil {
		return Auction{}, err
	}
	seat, err := bba.ParseSeat(dealer)
	if err != nil {
		return Auction{}, fmt.Errorf("stored dealer %q: %w", dealer, err)
	}
	a.Dealer = seat
	v, err := bba.ParseVulnerability(vul)
	if err != nil {
		return Auction{}, fmt.Errorf("stored vulnerability %q: %w", vul, err)
	}
	a.Vulnerability = v
	if calls != "" {
		a.Calls = strings.Fields(calls)
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}
