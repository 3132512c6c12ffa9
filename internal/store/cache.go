package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"menu-admin/internal/model"
	"menu-admin/internal/tree"

	_ "modernc.org/sqlite"
)

// Cache keeps a read-only copy of the last fetched menus in a local SQLite file.
// The remote API stays the source of truth; nothing here is ever written back.
type Cache struct {
	Path string
}

// DefaultCache returns the cache in the config dir.
func DefaultCache() (Cache, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Cache{}, err
	}
	return Cache{Path: filepath.Join(dir, "cache.sqlite")}, nil
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	if c.Path == "" {
		return nil, errors.New("cache: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS menus (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pos INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT NOT NULL,
			menu_id TEXT NOT NULL,
			parent_id TEXT,
			name TEXT NOT NULL,
			depth INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			pos INTEGER NOT NULL,
			PRIMARY KEY (menu_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS menu_items_menu ON menu_items(menu_id, pos);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// SaveMenus replaces the cached snapshot with menus.
func (c Cache) SaveMenus(ctx context.Context, menus []model.Menu) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace-all: snapshots are small and always complete.
	for _, t := range []string{"menus", "menu_items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}
	for mi, m := range menus {
		if _, err := tx.ExecContext(ctx, `INSERT INTO menus(id, name, pos) VALUES(?, ?, ?)`, m.ID, m.Name, mi); err != nil {
			return err
		}
		for ii, it := range tree.Flatten(m.Items) {
			var parent any
			if pid := it.ParentIDValue(); pid != "" {
				parent = pid
			}
			menuID := it.MenuID
			if menuID == "" {
				menuID = m.ID
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO menu_items(id, menu_id, parent_id, name, depth, ord, pos) VALUES(?, ?, ?, ?, ?, ?, ?)`,
				it.ID, menuID, parent, it.Name, it.Depth, it.Order, ii,
			); err != nil {
				return err
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(k, v) VALUES('fetched_at', ?)`, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadMenus returns the cached menus with flat items, in the order they were saved.
func (c Cache) LoadMenus(ctx context.Context) ([]model.Menu, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM menus ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	menus := []model.Menu{}
	index := map[string]int{}
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		m.Items = []model.MenuItem{}
		index[m.ID] = len(menus)
		menus = append(menus, m)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	itemRows, err := db.QueryContext(ctx, `SELECT id, menu_id, parent_id, name, depth, ord FROM menu_items ORDER BY menu_id, pos`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it model.MenuItem
		var parent sql.NullString
		if err := itemRows.Scan(&it.ID, &it.MenuID, &parent, &it.Name, &it.Depth, &it.Order); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := parent.String
			it.ParentID = &p
		}
		it.Children = []model.MenuItem{}
		if i, ok := index[it.MenuID]; ok {
			menus[i].Items = append(menus[i].Items, it)
		}
	}
	return menus, itemRows.Err()
}

// FetchedAt reports when the snapshot was saved; zero when there is none.
func (c Cache) FetchedAt(ctx context.Context) (time.Time, error) {
	db, err := c.open(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM cache_meta WHERE k = 'fetched_at'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, v)
}
