// Package sqlite implements the file-organization repository on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// DatabaseFileName is the SQLite file created under the data path.
const DatabaseFileName = "fileorganization.db"

const resultColumns = `id, original_path, original_file_name, target_path, date, status,
	status_message, organizer_type, file_size, extracted_name, extracted_year,
	extracted_season, extracted_episode, duplicate_paths`

// Repository implements ports.FileOrganizationRepository.
// It is unusable until Initialize succeeds.
type Repository struct {
	logger     log.Logger
	path       string
	serializer ports.Serializer

	mu          sync.RWMutex
	db          *sql.DB
	initialized bool
}

// NewRepository creates a repository for the database under paths.DataPath.
// No I/O happens until Initialize.
func NewRepository(logger log.Logger, paths ports.ApplicationPaths, serializer ports.Serializer) *Repository {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	var path string
	if paths.DataPath != "" {
		path = filepath.Join(paths.DataPath, DatabaseFileName)
	}
	return &Repository{
		logger:     logger,
		path:       path,
		serializer: serializer,
	}
}

// Open creates and initializes a repository. Errors wrap
// domain.ErrStorageUnavailable.
func Open(ctx context.Context, logger log.Logger, paths ports.ApplicationPaths, serializer ports.Serializer) (*Repository, error) {
	r := NewRepository(logger, paths, serializer)
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Initialize opens the database file and applies pending migrations.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if r.path == "" {
		return fmt.Errorf("%w: data path not configured", domain.ErrStorageUnavailable)
	}
	if r.serializer == nil {
		return fmt.Errorf("%w: no serializer", domain.ErrStorageUnavailable)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", domain.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite3", r.path+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("%w: open database: %w", domain.ErrStorageUnavailable, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: ping database: %w", domain.ErrStorageUnavailable, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	r.db = db
	r.initialized = true
	r.logger.Info("auto-organize database ready", log.String("path", r.path))
	return nil
}

// Initialized reports whether Initialize has succeeded and Close has not
// been called since.
func (r *Repository) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// Close closes the database. Subsequent calls are no-ops.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.initialized = false
	return err
}

func (r *Repository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return r.db, nil
}

// SaveResult inserts or replaces a result. A row with the same original
// path is replaced as well.
func (r *Repository) SaveResult(ctx context.Context, res domain.FileOrganizationResult) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	duplicates, err := r.encodeStrings(res.DuplicatePaths)
	if err != nil {
		return fmt.Errorf("encode duplicate paths: %w", err)
	}

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO organization_results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.OriginalPath, res.OriginalFileName, res.TargetPath, res.Date.UnixNano(),
		string(res.Status), res.StatusMessage, string(res.Type), res.FileSize,
		res.ExtractedName, res.ExtractedYear, res.ExtractedSeasonNumber, res.ExtractedEpisodeNumber,
		duplicates,
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", res.ID, err)
	}
	return nil
}

// GetResult returns the result with the given ID.
func (r *Repository) GetResult(ctx context.Context, id string) (domain.FileOrganizationResult, error) {
	return r.queryResult(ctx, "SELECT "+resultColumns+" FROM organization_results WHERE id = ?", id)
}

// FindByOriginalPath returns the result recorded for a source file.
func (r *Repository) FindByOriginalPath(ctx context.Context, path string) (domain.FileOrganizationResult, error) {
	return r.queryResult(ctx, "SELECT "+resultColumns+" FROM organization_results WHERE original_path = ?", path)
}

func (r *Repository) queryResult(ctx context.Context, query string, arg any) (domain.FileOrganizationResult, error) {
	db, err := r.conn()
	if err != nil {
		return domain.FileOrganizationResult{}, err
	}

	res, err := r.scanResult(db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FileOrganizationResult{}, domain.ErrNotFound
	}
	return res, err
}

// GetResults returns a page of results, newest first.
func (r *Repository) GetResults(ctx context.Context, q domain.ResultQuery) (domain.QueryResult[domain.FileOrganizationResult], error) {
	var out domain.QueryResult[domain.FileOrganizationResult]

	db, err := r.conn()
	if err != nil {
		return out, err
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM organization_results").Scan(&out.TotalRecordCount); err != nil {
		return out, fmt.Errorf("count results: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+resultColumns+" FROM organization_results ORDER BY date DESC, id LIMIT ? OFFSET ?",
		limit(q), offset(q),
	)
	if err != nil {
		return out, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		res, err := r.scanResult(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, res)
	}
	return out, rows.Err()
}

// DeleteResult removes one result. Deleting a missing result is not an error.
func (r *Repository) DeleteResult(ctx context.Context, id string) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM organization_results WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete result %s: %w", id, err)
	}
	return nil
}

// DeleteAllResults removes every result.
func (r *Repository) DeleteAllResults(ctx context.Context) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM organization_results"); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	return nil
}

// SaveSmartMatch inserts or replaces a smart-match entry.
func (r *Repository) SaveSmartMatch(ctx context.Context, m domain.SmartMatchResult) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	matches, err := r.encodeStrings(m.MatchStrings)
	if err != nil {
		return fmt.Errorf("encode match strings: %w", err)
	}

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO smart_match
		(id, item_name, display_name, organizer_type, match_strings) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ItemName, m.DisplayName, string(m.OrganizerType), matches,
	)
	if err != nil {
		return fmt.Errorf("save smart match %s: %w", m.ID, err)
	}
	return nil
}

// GetSmartMatch returns a page of smart-match entries ordered by item name.
func (r *Repository) GetSmartMatch(ctx context.Context, q domain.ResultQuery) (domain.QueryResult[domain.SmartMatchResult], error) {
	var out domain.QueryResult[domain.SmartMatchResult]

	db, err := r.conn()
	if err != nil {
		return out, err
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM smart_match").Scan(&out.TotalRecordCount); err != nil {
		return out, fmt.Errorf("count smart match: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, item_name, display_name, organizer_type, match_strings
		FROM smart_match ORDER BY item_name, id LIMIT ? OFFSET ?`,
		limit(q), offset(q),
	)
	if err != nil {
		return out, fmt.Errorf("query smart match: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := r.scanSmartMatch(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, m)
	}
	return out, rows.Err()
}

// DeleteSmartMatch removes a smart-match entry.
func (r *Repository) DeleteSmartMatch(ctx context.Context, id string) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM smart_match WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete smart match %s: %w", id, err)
	}
	return nil
}

// DeleteSmartMatchString removes one match string from an entry and drops
// the entry once it has none left.
func (r *Repository) DeleteSmartMatchString(ctx context.Context, id, matchString string) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	m, err := r.scanSmartMatch(db.QueryRowContext(ctx,
		"SELECT id, item_name, display_name, organizer_type, match_strings FROM smart_match WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	kept := m.MatchStrings[:0]
	for _, s := range m.MatchStrings {
		if s != matchString {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return r.DeleteSmartMatch(ctx, id)
	}
	m.MatchStrings = kept
	return r.SaveSmartMatch(ctx, m)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanResult(s scanner) (domain.FileOrganizationResult, error) {
	var (
		res        domain.FileOrganizationResult
		date       int64
		status     string
		orgType    string
		duplicates string
	)
	err := s.Scan(
		&res.ID, &res.OriginalPath, &res.OriginalFileName, &res.TargetPath, &date, &status,
		&res.StatusMessage, &orgType, &res.FileSize, &res.ExtractedName, &res.ExtractedYear,
		&res.ExtractedSeasonNumber, &res.ExtractedEpisodeNumber, &duplicates,
	)
	if err != nil {
		return res, err
	}

	res.Date = time.Unix(0, date).UTC()
	res.Status = domain.FileSortingStatus(status)
	res.Type = domain.FileOrganizerType(orgType)
	if res.DuplicatePaths, err = r.decodeStrings(duplicates); err != nil {
		return res, fmt.Errorf("decode duplicate paths of %s: %w", res.ID, err)
	}
	return res, nil
}

func (r *Repository) scanSmartMatch(s scanner) (domain.SmartMatchResult, error) {
	var (
		m       domain.SmartMatchResult
		orgType string
		matches string
	)
	if err := s.Scan(&m.ID, &m.ItemName, &m.DisplayName, &orgType, &matches); err != nil {
		return m, err
	}

	m.OrganizerType = domain.FileOrganizerType(orgType)
	var err error
	if m.MatchStrings, err = r.decodeStrings(matches); err != nil {
		return m, fmt.Errorf("decode match strings of %s: %w", m.ID, err)
	}
	return m, nil
}

func (r *Repository) encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := r.serializer.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Repository) decodeStrings(data string) ([]string, error) {
	var values []string
	if data == "" {
		return nil, nil
	}
	if err := r.serializer.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// limit maps a non-positive limit to SQLite's "no limit".
func limit(q domain.ResultQuery) int {
	if q.Limit <= 0 {
		return -1
	}
	return q.Limit
}

func offset(q domain.ResultQuery) int {
	if q.StartIndex < 0 {
		return 0
	}
	return q.StartIndex
}

var _ ports.FileOrganizationRepository = (*Repository)(nil)
