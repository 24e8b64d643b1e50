package database

import (
	"database/sql"
	"fmt"
	"time"

	"imagereader/logging"
	"imagereader/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create table if it doesn't exist
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS image_shapes (
		cache_key TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		height INTEGER,
		width INTEGER,
		channels INTEGER,
		recorded_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_shapes_path ON image_shapes(path);`

	_, err = db.Exec(createTableSQL)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// Ledger persists the reader's shape table in SQLite so that cache
// bookkeeping survives process restarts. It satisfies
// imagereader.ShapeTable.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the ledger at dbPath
func OpenLedger(dbPath string) (*Ledger, error) {
	db, err := InitDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open shape ledger %s: %v", dbPath, err)
	}
	// SQLite allows one writer; concurrent readers share this connection
	db.SetMaxOpenConns(1)
	return &Ledger{db: db}, nil
}

// Seen reports whether key has been recorded. Database errors count as not
// seen, which sends the read down the disk path.
func (l *Ledger) Seen(key string) bool {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM image_shapes WHERE cache_key = ?", key).Scan(&count)
	if err != nil {
		logging.LogError("shape ledger lookup failed for %s: %v", key, err)
		return false
	}
	return count > 0
}

// Record stores the shape for key, replacing an older entry
func (l *Ledger) Record(key, path string, shape types.Shape) error {
	now := time.Now().Format(time.RFC3339)

	stmt, err := l.db.Prepare(`
		INSERT OR REPLACE INTO image_shapes (
			cache_key, path, height, width, channels, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %v", path, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(key, path, shape.Height, shape.Width, shape.Channels, now)
	if err != nil {
		return fmt.Errorf("cannot insert shape for %s: %v", path, err)
	}

	logging.DebugLog("Recorded shape %s for %s", shape, path)
	return nil
}

// Lookup returns the recorded shape for key
func (l *Ledger) Lookup(key string) (types.Shape, bool) {
	var shape types.Shape
	err := l.db.QueryRow("SELECT height, width, channels FROM image_shapes WHERE cache_key = ?", key).
		Scan(&shape.Height, &shape.Width, &shape.Channels)
	if err == sql.ErrNoRows {
		return types.Shape{}, false
	}
	if err != nil {
		logging.LogError("shape ledger lookup failed for %s: %v", key, err)
		return types.Shape{}, false
	}
	return shape, true
}

// Close closes the underlying database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// LedgerStats contains statistics about recorded shapes
type LedgerStats struct {
	TotalImages    int
	DistinctShapes int
}

// GetLedgerStats retrieves statistics about recorded shapes
func (l *Ledger) GetLedgerStats() (*LedgerStats, error) {
	var stats LedgerStats

	err := l.db.QueryRow("SELECT COUNT(*) FROM image_shapes").Scan(&stats.TotalImages)
	if err != nil {
		return nil, fmt.Errorf("failed to get total images: %v", err)
	}

	err = l.db.QueryRow(`SELECT COUNT(*) FROM (
		SELECT DISTINCT height, width, channels FROM image_shapes
	)`).Scan(&stats.DistinctShapes)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct shapes: %v", err)
	}

	return &stats, nil
}
