package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (or creates) the database at path and applies any
// pending migrations.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// runMigrations uses its own connection; closing the migrator closes it.
func runMigrations(path string) error {
	mdb, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	driver, err := sqlitemigrate.WithInstance(mdb, &sqlitemigrate.Config{})
	if err != nil {
		_ = mdb.Close()
		return err
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		_ = mdb.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = mdb.Close()
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Categories --------------------

func (s *Store) CategoryRecords(ctx context.Context) ([]CategoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nigp_codes, category, subcategory, friendly_name, examples
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryRecord
	for rows.Next() {
		var rec CategoryRecord
		var codes string
		if err := rows.Scan(&rec.ID, &codes, &rec.Category, &rec.Subcategory, &rec.FriendlyName, &rec.Examples); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if rec.NIGPCodes, err = parseCodes(codes); err != nil {
			return nil, fmt.Errorf("category %d codes: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Lookup builds the picker's lookup tables from the stored categories.
func (s *Store) Lookup(ctx context.Context) (Lookup, error) {
	records, err := s.CategoryRecords(ctx)
	if err != nil {
		return Lookup{}, err
	}
	return BuildLookup(records), nil
}

// Import Categories --------------------

type ImportRecord struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	RowCount   int    `json:"rowCount"`
	ImportedAt string `json:"importedAt"`
	Status     string `json:"status"` // "completed", "failed"
}

// ImportCategoriesFromCSV loads an NIGP category export. Rows already
// present are ignored. It returns the number of new categories.
func (s *Store) ImportCategoriesFromCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV file: %w", err)
	}
	defer f.Close()

	added, err := s.importCategories(ctx, f)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if recErr := s.recordImport(ctx, filepath.Base(path), added, status); recErr != nil {
		log.Error("failed to record import", "file", path, "err", recErr)
	}
	return added, err
}

func (s *Store) importCategories(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, name := range []string{"parent_category", "category_friendly_name"} {
		if _, ok := cols[name]; !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO categories (nigp_codes, category, subcategory, friendly_name, examples)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return cleanField(fields[i])
		}

		parent, friendly := field("parent_category"), field("category_friendly_name")
		if parent == "" || friendly == "" {
			continue
		}
		codes, err := parseCodes(field("code"))
		if err != nil {
			log.Warn("skipping row with invalid codes", "line", line, "err", err)
			continue
		}

		res, err := stmt.ExecContext(ctx, formatCodes(codes), parent, field("category"), friendly, field("examples"))
		if err != nil {
			return 0, fmt.Errorf("insert line %d: %w", line, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}

func cleanField(val string) string {
	val = strings.TrimSpace(val)
	if val == "None" {
		return ""
	}
	return val
}

// parseCodes parses a "|"-separated list of NIGP codes.
func parseCodes(codes string) ([]int, error) {
	if strings.TrimSpace(codes) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(codes, "|") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid code %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, "|")
}

func (s *Store) recordImport(ctx context.Context, filename string, count int, status string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (filename, row_count, status) VALUES (?, ?, ?)
	`, filename, count, status)
	return err
}

func (s *Store) Imports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, row_count, imported_at, status
		FROM imports
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.RowCount, &rec.ImportedAt, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Selections --------------------

// Selection is a saved set of checked subcategory ids. Reopening one
// rebuilds the picker in restore mode.
type Selection struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	SubcategoryIDs []string  `json:"subcategoryIds"`
}

func (s *Store) SaveSelection(ctx context.Context, ids []string) (Selection, error) {
	sel := Selection{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		SubcategoryIDs: append([]string{}, ids...),
	}
	data, err := json.Marshal(sel.SubcategoryIDs)
	if err != nil {
		return Selection{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO selections (id, created_at, subcategory_ids) VALUES (?, ?, ?)
	`, sel.ID, sel.CreatedAt.Format(createdAtLayout), string(data))
	if err != nil {
		return Selection{}, fmt.Errorf("save selection: %w", err)
	}
	return sel, nil
}

// Selections returns saved selections, newest first.
func (s *Store) Selections(ctx context.Context) ([]Selection, error) {
	return s.querySelections(ctx, -1)
}

// LatestSelection returns the newest saved selection. ok is false when
// nothing has been saved yet.
func (s *Store) LatestSelection(ctx context.Context) (Selection, bool, error) {
	sels, err := s.querySelections(ctx, 1)
	if err != nil || len(sels) == 0 {
		return Selection{}, false, err
	}
	return sels[0], true, nil
}

func (s *Store) querySelections(ctx context.Context, limit int) ([]Selection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, subcategory_ids
		FROM selections
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query selections: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		var created, ids string
		if err := rows.Scan(&sel.ID, &created, &ids); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		sel.CreatedAt, err = time.Parse(createdAtLayout, created)
		if err != nil {
			return nil, fmt.Errorf("selection %s: %w", sel.ID, err)
		}
		if err := json.Unmarshal([]byte(ids), &sel.SubcategoryIDs); err != nil {
			return nil, fmt.Errorf("selection %s: %w", sel.ID, err)
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}
