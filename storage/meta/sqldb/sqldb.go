package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/storage/meta"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

// Store keeps media records in a relational table. A monotonically
// increasing seq column preserves insertion order for FindByParent.
type Store struct {
	cfg         *config.SQLMetadataStrategy
	db          *sql.DB
	table       string
	driver      string
	placeholder placeholderStyle
}

func NewStore(cfg *config.SQLMetadataStrategy) (*Store, error) {
	store, err := newStoreWithDB(cfg, nil)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(store.driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	store.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func newStoreWithDB(cfg *config.SQLMetadataStrategy, db *sql.DB) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("metadata sql config is nil")
	}

	prefix := "photobin"
	if cfg.TablePrefix != nil {
		prefix = *cfg.TablePrefix
	}

	table := "media"
	if prefix != "" {
		table = prefix + "_media"
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	placeholder := placeholderQuestion
	if driverName == "pgx" {
		placeholder = placeholderDollar
	}

	return &Store{
		cfg:         cfg,
		db:          db,
		table:       table,
		driver:      driverName,
		placeholder: placeholder,
	}, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.schemaQuery())
	return err
}

func (s *Store) schemaQuery() string {
	var seq string
	switch s.driver {
	case "sqlite":
		seq = "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	case "mysql":
		seq = "seq BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		seq = "seq BIGSERIAL PRIMARY KEY"
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
%s,
id VARCHAR(64) NOT NULL UNIQUE,
item_id VARCHAR(255) NOT NULL,
ext VARCHAR(8) NOT NULL,
created_at TIMESTAMP NOT NULL,
width INT NULL,
height INT NULL,
size BIGINT NOT NULL
)`, s.table, seq)
}

func (s *Store) placeholderFor(n int) string {
	if s.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", n)
	}

	return "?"
}

func (s *Store) placeholders(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.placeholderFor(i + 1)
	}

	return strings.Join(out, ", ")
}

func (s *Store) insertQuery() string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, item_id, ext, created_at, width, height, size) VALUES (%s)",
		s.table, s.placeholders(7),
	)
}

func (s *Store) selectByParentQuery() string {
	return fmt.Sprintf(
		"SELECT id, item_id, ext, created_at, width, height, size FROM %s WHERE item_id = %s ORDER BY seq",
		s.table, s.placeholderFor(1),
	)
}

func (s *Store) selectByIDQuery() string {
	return fmt.Sprintf(
		"SELECT id, item_id, ext, created_at, width, height, size FROM %s WHERE id = %s",
		s.table, s.placeholderFor(1),
	)
}

func (s *Store) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", s.table, s.placeholderFor(1))
}

func (s *Store) Append(ctx context.Context, rec *meta.Record) error {
	_, err := s.db.ExecContext(ctx, s.insertQuery(),
		rec.ID, rec.ItemID, rec.Ext, rec.CreatedAt.UTC(), rec.Width, rec.Height, rec.Size)
	return err
}

func (s *Store) FindByParent(ctx context.Context, itemID string) ([]*meta.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.selectByParentQuery(), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*meta.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, id string) (*meta.Record, error) {
	row := s.db.QueryRowContext(ctx, s.selectByIDQuery(), id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, meta.ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.deleteQuery(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return meta.ErrNotFound
	}

	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*meta.Record, error) {
	var rec meta.Record
	var width, height sql.NullInt64

	if err := row.Scan(&rec.ID, &rec.ItemID, &rec.Ext, &rec.CreatedAt, &width, &height, &rec.Size); err != nil {
		return nil, err
	}

	if width.Valid {
		w := int(width.Int64)
		rec.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		rec.Height = &h
	}

	return &rec, nil
}
