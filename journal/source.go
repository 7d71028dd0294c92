package journal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Source produces a trade table.
type Source interface {
	Load(ctx context.Context) (*Table, error)
}

// CSVSource reads trades from a CSV file.
type CSVSource struct {
	Path string
}

func (s CSVSource) Load(ctx context.Context) (*Table, error) {
	return LoadCSV(s.Path)
}

func (s CSVSource) String() string {
	return "csv:" + s.Path
}

// SQLiteSource reads trades from a SQLite journal written by Import.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) Load(ctx context.Context) (*Table, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	j, err := NewSQLite(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, s.Path, err)
	}
	defer j.Close()

	recs, err := j.ListTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, s.Path, err)
	}

	t := NewTable(s.Path, RequiredColumns, recs)
	if err := Validate(t); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return t, nil
}

func (s SQLiteSource) String() string {
	return "sqlite:" + s.Path
}

// Import copies every trade in src into the SQLite journal at dbPath and
// returns the number of trades written.
func Import(ctx context.Context, src Source, dbPath string) (int, error) {
	t, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}

	j, err := NewSQLite(dbPath)
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	if err := j.RecordTable(ctx, t); err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// Cache memoizes the table produced by a Source. The first Get loads it;
// later calls return the same snapshot until Reload succeeds. Snapshots
// are never mutated, so readers need no locking.
type Cache struct {
	src Source

	mu   sync.Mutex
	snap atomic.Pointer[Table]
}

func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Source returns the underlying source.
func (c *Cache) Source() Source {
	return c.src
}

// Get returns the cached table, loading it on first use. A failed load is
// not cached.
func (c *Cache) Get(ctx context.Context) (*Table, error) {
	if t := c.snap.Load(); t != nil {
		return t, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t := c.snap.Load(); t != nil {
		return t, nil
	}
	t, err := c.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.snap.Store(t)
	return t, nil
}

// Reload loads the source again. The new table replaces the snapshot only
// on success; on failure the previous snapshot stays in place.
func (c *Cache) Reload(ctx context.Context) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.snap.Store(t)
	return t, nil
}

// Snapshot returns the current table without loading, or nil.
func (c *Cache) Snapshot() *Table {
	return c.snap.Load()
}
