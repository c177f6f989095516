// Package store implements the Metadata Store (C1): typed tables for
// Device, Sync, Tree, File, SyncList, SyncMode, ShareSync, DHTPeer, Config,
// and History, batch transactions, and observer notifications keyed by URI
// prefix.
//
// Modeled directly on the teacher's internal/sync/state.go (WAL pragmas,
// one *sql.DB per store, slog threaded through every method) and
// internal/sync/migrations.go (goose Provider-API migration runner).
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

// openRetryBackoff bounds how long Open retries a locked database before
// giving up. The daemon and a concurrent CLI invocation (e.g. "status"
// racing "start") can both open the same file within this window; one of
// them will see SQLITE_BUSY while the other holds the migration lock.
const openRetryBackoff = 2 * time.Second

//go:embed migrations/*.sql
var secureMigrationsFS embed.FS

//go:embed migrations_plain/*.sql
var plainMigrationsFS embed.FS

// walJournalSizeLimit bounds the WAL file before a checkpoint is forced.
const walJournalSizeLimit = 67108864 // 64 MiB

// Notification is delivered to a subscriber when a row matching its URI
// prefix changes.
type Notification struct {
	URI string
}

// subscriber owns a private FIFO queue drained by one goroutine, so that one
// slow consumer never blocks delivery to another (§4.1 "delivery to a given
// subscriber is serialized"; cross-subscriber order is unspecified).
type subscriber struct {
	prefix    string
	recursive bool
	ch        chan Notification

	mu       sync.Mutex
	queue    []string
	wake     chan struct{}
	done     chan struct{}
}

func newSubscriber(prefix string, recursive bool) *subscriber {
	s := &subscriber{
		prefix:    prefix,
		recursive: recursive,
		ch:        make(chan Notification, 32),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	go s.drain()

	return s
}

func (s *subscriber) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()

			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		uri := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.ch <- Notification{URI: uri}:
		case <-s.done:
			return
		}
	}
}

func (s *subscriber) matches(uri string) bool {
	if s.recursive {
		return uri == s.prefix || strings.HasPrefix(uri, s.prefix+"/")
	}

	return uri == s.prefix
}

func (s *subscriber) enqueue(uri string) {
	s.mu.Lock()
	s.queue = append(s.queue, uri)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) close() {
	close(s.done)
}

// Store wraps a single SQLite database (either the Secure main store or the
// Plain side-store) in WAL mode, with goose-migrated schema and a
// per-database write latch (§5 "writers take a per-database exclusive
// latch; a batch is atomic; readers may run concurrently").
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	writeMu sync.Mutex

	subMu sync.Mutex
	subs  []*subscriber
}

// Kind selects which embedded migration set a Store opens with.
type Kind int

const (
	// Secure is the main metadata database (device/sync/tree/file/...).
	Secure Kind = iota
	// Plain is the unencrypted side-store holding history/misc rows and the
	// passphrase seed (§4.2, §6 "Persisted state layout").
	Plain
)

// Open opens (creating if absent) the SQLite database at path, configures
// WAL-mode pragmas, and applies pending migrations for the given Kind. A
// failed migration is fatal and the store is not returned open (§4.1,
// §8 invariant "failed migration is fatal").
func Open(ctx context.Context, kind Kind, path string, logger *slog.Logger) (*Store, error) {
	logger.Info("opening store database", "path", path, "kind", kindName(kind))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, kerr.Wrap(kerr.SQLite, "store.Open", err)
	}

	db.SetMaxOpenConns(1) // one writer; modernc.org/sqlite has no internal connection pooling story for WAL writers

	backoff, err := retry.NewExponential(10 * time.Millisecond)
	if err != nil {
		db.Close()

		return nil, kerr.Wrap(kerr.SQLite, "store.Open: backoff", err)
	}

	backoff = retry.WithMaxDuration(openRetryBackoff, backoff)

	openErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := setPragmas(ctx, db, logger); err != nil {
			if isLockedErr(err) {
				return retry.RetryableError(err)
			}

			return err
		}

		if err := runMigrations(ctx, kind, db, logger); err != nil {
			if isLockedErr(err) {
				return retry.RetryableError(err)
			}

			return err
		}

		return nil
	})
	if openErr != nil {
		db.Close()

		return nil, kerr.Wrap(kerr.SQLite, "store.Open: migrate", openErr)
	}

	s := &Store{db: db, logger: logger}

	logger.Info("store database ready", "path", path, "kind", kindName(kind))

	return s, nil
}

func kindName(kind Kind) string {
	if kind == Plain {
		return "plain"
	}

	return "secure"
}

func setPragmas(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	pragmas := []struct {
		sql  string
		desc string
	}{
		{"PRAGMA journal_mode = WAL", "WAL mode"},
		{"PRAGMA synchronous = FULL", "synchronous FULL"},
		{"PRAGMA foreign_keys = ON", "foreign keys"},
		{fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit), "journal size limit"},
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.sql); err != nil {
			return kerr.Wrap(kerr.SQLite, "store.setPragmas: "+p.desc, err)
		}

		logger.Debug("pragma set", "pragma", p.desc)
	}

	return nil
}

func runMigrations(ctx context.Context, kind Kind, db *sql.DB, logger *slog.Logger) error {
	var (
		fsys embed.FS
		dir  string
	)

	if kind == Plain {
		fsys, dir = plainMigrationsFS, "migrations_plain"
	} else {
		fsys, dir = secureMigrationsFS, "migrations"
	}

	subFS, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}

// Close closes the underlying database and releases all subscribers.
func (s *Store) Close() error {
	s.subMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subMu.Unlock()

	if err := s.db.Close(); err != nil {
		return kerr.Wrap(kerr.SQLite, "store.Close", err)
	}

	return nil
}

// Checkpoint forces a WAL checkpoint, consolidating the WAL file into the
// main database file.
func (s *Store) Checkpoint(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err != nil {
		return kerr.Wrap(kerr.SQLite, "store.Checkpoint", err)
	}

	return nil
}

// Subscribe registers a URI-prefix observer. If recursive, any URI equal to
// or nested under prefix (by "/" separator) matches; otherwise only exact
// matches. The returned cancel func unregisters the subscriber and closes
// its channel's delivery goroutine; callers must drain or discard the
// channel afterward.
func (s *Store) Subscribe(prefix string, recursive bool) (<-chan Notification, func()) {
	sub := newSubscriber(prefix, recursive)

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)

				break
			}
		}
		s.subMu.Unlock()

		sub.close()
	}

	return sub.ch, cancel
}

// notify delivers uri to every matching subscriber exactly once. Callers
// must hold writeMu (i.e. call only from within a committed write) so that
// "observers see notifications in commit order" (§5) holds.
func (s *Store) notify(uri string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, sub := range s.subs {
		if sub.matches(uri) {
			sub.enqueue(uri)
		}
	}
}

// notifyAll delivers each distinct URI in uris exactly once (§4.1 "a batch
// ... notifying each distinct URI exactly once").
func (s *Store) notifyAll(uris map[string]struct{}) {
	for uri := range uris {
		s.notify(uri)
	}
}

// withWriteTx runs fn inside a transaction while holding the store's write
// latch, committing on success and rolling back (surfacing the rollback
// error only if the original error is nil) on failure.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return kerr.Wrap(kerr.SQLite, "store.withWriteTx: begin", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return kerr.Wrap(kerr.SQLite, "store.withWriteTx: commit", err)
	}

	return nil
}

// isNoRows reports whether err is sql.ErrNoRows, the sentinel every
// Get*-style method collapses to (nil, nil) per the teacher's GetItem /
// GetItemByPath convention.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed sentinel for this, so
// callers that need to distinguish "already exists" from other failures
// match on the driver's error text, same as the message-matching approach
// the teacher's graph client uses for Graph API error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isLockedErr reports whether err is a transient SQLITE_BUSY/SQLITE_LOCKED
// failure, matched the same message-text way as isUniqueViolation.
func isLockedErr(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
