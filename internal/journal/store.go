package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
)

// ErrNotFound is returned for unknown entry ids.
var ErrNotFound = errors.New("journal: entry not found")

// Metadata property names returned by Store.Metadata.
const (
	PropTitle       = "title"
	PropActivity    = "activity"
	PropDescription = "description"
	PropKeep        = "keep"
	PropPreview     = "preview"
)

// Store is the SQLite journal datastore.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the datastore at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Describe() string {
	return "journal " + s.path
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS entries (
    uid TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    activity TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    kind INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    keep INTEGER NOT NULL DEFAULT 0,
    progress INTEGER NOT NULL DEFAULT -1,
    buddies TEXT NOT NULL DEFAULT '[]',
    preview BLOB,
    modified INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_modified ON entries(modified DESC);
CREATE TABLE IF NOT EXISTS marks (
    uid TEXT PRIMARY KEY,
    keep INTEGER NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Create inserts an entry with its encoded preview and returns its id. A new
// id is generated when e.UID is empty.
func (s *Store) Create(ctx context.Context, e Entry, preview []byte) (string, error) {
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	if e.Modified.IsZero() {
		e.Modified = time.Now()
	}
	buddies, err := json.Marshal(nonNil(e.Buddies))
	if err != nil {
		return "", fmt.Errorf("encode buddies: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO entries (uid, title, activity, description, kind, size, keep, progress, buddies, preview, modified)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UID, e.Title, e.Activity, e.Description, int(e.Kind), e.Size,
		boolToInt(e.Keep), e.Progress, string(buddies), preview, e.Modified.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return e.UID, nil
}

// Changes lists the fields Update writes; nil fields are left alone.
type Changes struct {
	Title       *string
	Description *string
	Keep        *bool
	Progress    *int
	Preview     []byte
}

// Update applies changes to uid.
func (s *Store) Update(ctx context.Context, uid string, c Changes) error {
	var sets []string
	var args []any
	if c.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *c.Title)
	}
	if c.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *c.Description)
	}
	if c.Keep != nil {
		sets = append(sets, "keep = ?")
		args = append(args, boolToInt(*c.Keep))
	}
	if c.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *c.Progress)
	}
	if c.Preview != nil {
		sets = append(sets, "preview = ?")
		args = append(args, c.Preview)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, uid)
	res, err := s.db.ExecContext(ctx,
		"UPDATE entries SET "+strings.Join(sets, ", ")+" WHERE uid = ?", args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes uid.
func (s *Store) Delete(ctx context.Context, uid string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE uid = ?", uid)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

const entryColumns = "uid, title, activity, description, kind, size, keep, progress, buddies, modified"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e        Entry
		kind     int
		keep     int
		buddies  string
		modified int64
	)
	err := row.Scan(&e.UID, &e.Title, &e.Activity, &e.Description, &kind, &e.Size,
		&keep, &e.Progress, &buddies, &modified)
	if err != nil {
		return Entry{}, err
	}
	e.Kind = fsutil.Kind(kind)
	e.Keep = keep != 0
	e.Modified = time.Unix(0, modified)
	if buddies != "" {
		if err := json.Unmarshal([]byte(buddies), &e.Buddies); err != nil {
			return Entry{}, fmt.Errorf("decode buddies of %s: %w", e.UID, err)
		}
	}
	return e, nil
}

// Get loads one entry.
func (s *Store) Get(ctx context.Context, uid string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE uid = ?", uid)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// Query lists every entry, newest first.
func (s *Store) Query(ctx context.Context) (Entries, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries ORDER BY modified DESC, title")
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries Entries
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("query entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

// Metadata returns the property map of uid including its preview bytes.
// Unknown ids yield a nil map.
func (s *Store) Metadata(ctx context.Context, uid string) (map[string]string, error) {
	var (
		title, activity, description string
		keep                         int
		preview                      []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT title, activity, description, keep, preview FROM entries WHERE uid = ?", uid).
		Scan(&title, &activity, &description, &keep, &preview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	props := map[string]string{
		PropTitle:       title,
		PropActivity:    activity,
		PropDescription: description,
		PropKeep:        strconv.Itoa(keep),
	}
	if len(preview) > 0 {
		props[PropPreview] = string(preview)
	}
	return props, nil
}

func (s *Store) SetKeep(ctx context.Context, uid string, keep bool) error {
	return s.Update(ctx, uid, Changes{Keep: &keep})
}

func (s *Store) SetTitle(ctx context.Context, uid, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title cannot be empty")
	}
	return s.Update(ctx, uid, Changes{Title: &title})
}

// Marks returns keep flags stored for entries outside the datastore.
func (s *Store) Marks(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT uid FROM marks WHERE keep != 0")
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	defer rows.Close()

	marks := make(map[string]bool)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("query marks: %w", err)
		}
		marks[uid] = true
	}
	return marks, rows.Err()
}

// SetMark stores the keep flag of an entry outside the datastore.
func (s *Store) SetMark(ctx context.Context, uid string, keep bool) error {
	var err error
	if keep {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO marks (uid, keep) VALUES (?, 1) ON CONFLICT(uid) DO UPDATE SET keep = 1", uid)
	} else {
		_, err = s.db.ExecContext(ctx, "DELETE FROM marks WHERE uid = ?", uid)
	}
	if err != nil {
		return fmt.Errorf("set mark: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
