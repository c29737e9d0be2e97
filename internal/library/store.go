package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lightbox/internal/config"
	"lightbox/internal/services"
)

// timestampLayout is fixed-width UTC so lexical order equals chronological
// order in SQL comparisons.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Store manages photo index persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the index database at the configured path.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "library", "open", "ensure directories", err)
	}

	dbPath := cfg.Paths.DatabasePath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "library", "open", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrUnavailable, "library", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrUnavailable, "library", "open", "init schema", err)
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert persists a new record and returns it with the store-assigned id.
func (s *Store) Insert(ctx context.Context, record PhotoRecord) (*PhotoRecord, error) {
	if record.Filename == "" || record.FilePath == "" {
		return nil, errors.New("insert: filename and filepath are required")
	}
	if !record.HasMotion && record.VideoFilename != "" {
		return nil, errors.New("insert: video filename set without motion flag")
	}
	if record.HasMotion && record.VideoFilename == "" {
		return nil, errors.New("insert: motion flag set without video filename")
	}

	now := time.Now().UTC()
	timestamp := now.Format(timestampLayout)

	var res sql.Result
	err := s.retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`INSERT INTO photos (
                filename, filepath, captured_at, has_motion,
                video_filename, duration_seconds, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Filename,
			record.FilePath,
			record.CapturedAt.UTC().Format(timestampLayout),
			boolToInt(record.HasMotion),
			nullableString(record.VideoFilename),
			record.Duration,
			timestamp,
			timestamp,
		)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a record by identifier. A missing id returns (nil, nil):
// not-found is a normal empty result, not an error.
func (s *Store) GetByID(ctx context.Context, id int64) (*PhotoRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id)
	record, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return record, nil
}

// List returns all records ordered by capture timestamp.
func (s *Store) List(ctx context.Context, order Order) ([]*PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos ORDER BY captured_at ` + orderClause(order) + `, id ` + orderClause(order)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// Search returns records matching the query, newest first. The filename
// filter is a case-insensitive substring match; timestamp bounds are
// inclusive. Absent filters are skipped, so an empty query lists everything.
func (s *Store) Search(ctx context.Context, query SearchQuery) ([]*PhotoRecord, error) {
	var conditions []string
	var args []any

	if text := strings.TrimSpace(query.Text); text != "" {
		conditions = append(conditions, `LOWER(filename) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(text))+"%")
	}
	if query.From != nil {
		conditions = append(conditions, `captured_at >= ?`)
		args = append(args, query.From.UTC().Format(timestampLayout))
	}
	if query.To != nil {
		conditions = append(conditions, `captured_at <= ?`)
		args = append(args, query.To.UTC().Format(timestampLayout))
	}

	sqlQuery := `SELECT ` + photoColumns + ` FROM photos`
	if len(conditions) > 0 {
		sqlQuery += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	sqlQuery += ` ORDER BY captured_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// Remove deletes a row by identifier. Index-only: the caller owns backing
// file removal.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	var res sql.Result
	err := s.retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("delete photo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateDuration records the motion clip length after a successful decode.
func (s *Store) UpdateDuration(ctx context.Context, id int64, seconds float64) error {
	err := s.retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(
			ctx,
			`UPDATE photos SET duration_seconds = ?, updated_at = ? WHERE id = ?`,
			seconds,
			time.Now().UTC().Format(timestampLayout),
			id,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("update duration: %w", err)
	}
	return nil
}

// Counts returns the total record count and the count of records with
// motion.
func (s *Store) Counts(ctx context.Context) (total int, motion int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(has_motion), 0) FROM photos`)
	if err := row.Scan(&total, &motion); err != nil {
		return 0, 0, fmt.Errorf("count photos: %w", err)
	}
	return total, motion, nil
}

const photoColumns = "id, filename, filepath, captured_at, has_motion, video_filename, duration_seconds, created_at, updated_at"

func scanPhoto(scanner interface{ Scan(dest ...any) error }) (*PhotoRecord, error) {
	var (
		id          int64
		filename    string
		filePath    string
		capturedRaw string
		hasMotion   int
		videoName   sql.NullString
		duration    float64
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id,
		&filename,
		&filePath,
		&capturedRaw,
		&hasMotion,
		&videoName,
		&duration,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &PhotoRecord{
		ID:            id,
		Filename:      filename,
		FilePath:      filePath,
		HasMotion:     hasMotion != 0,
		VideoFilename: videoName.String,
		Duration:      duration,
	}
	if captured, err := parseTimestamp(capturedRaw); err == nil {
		record.CapturedAt = captured
	}
	if created, err := parseTimestamp(createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimestamp(updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func collectPhotos(rows *sql.Rows) ([]*PhotoRecord, error) {
	var records []*PhotoRecord
	for rows.Next() {
		record, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func orderClause(order Order) string {
	if order == OrderOldestFirst {
		return "ASC"
	}
	return "DESC"
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timestampLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) retryOnBusy(ctx context.Context, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
