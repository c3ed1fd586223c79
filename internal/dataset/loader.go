// Package dataset loads the holdings table from its spreadsheet source and
// caches it for the configured TTL. The cached table is immutable: readers
// receive copies, and refreshes swap in a complete new table under the lock
// so a reader never observes a partially loaded dataset.
package dataset

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

// SnapshotRecorder persists an audit record for each successful fetch.
// The loader treats recording failures as non-fatal.
type SnapshotRecorder interface {
	RecordSnapshot(snapshot model.DatasetSnapshot) error
}

type entry struct {
	table     model.HoldingsTable
	fetchedAt time.Time
}

// Loader fetches and caches holdings tables keyed by source reference.
type Loader struct {
	client    sheets.Client
	ttl       time.Duration
	snapshots SnapshotRecorder

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group

	now func() time.Time // overridable for tests
}

// NewLoader creates a Loader backed by the given sheet client.
// snapshots may be nil when no audit trail is wanted.
func NewLoader(client sheets.Client, ttl time.Duration, snapshots SnapshotRecorder) *Loader {
	return &Loader{
		client:    client,
		ttl:       ttl,
		snapshots: snapshots,
		entries:   make(map[string]*entry),
		now:       time.Now,
	}
}

// Load returns the holdings table for ref, fetching it from the source when
// the cache has no entry or the entry has outlived the TTL. The returned
// table is a copy; mutating it never affects the cache. Concurrent cache
// misses for the same reference are collapsed into a single fetch.
//
// A fetch failure is surfaced to the caller as-is and is not retried.
func (l *Loader) Load(ctx context.Context, ref sheets.SourceRef) (model.HoldingsTable, error) {
	key := ref.Key()

	if table, ok := l.cached(key); ok {
		return table, nil
	}

	result, err, _ := l.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have refreshed while we waited on the group.
		if table, ok := l.cached(key); ok {
			return table, nil
		}
		return l.refresh(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	return result.(model.HoldingsTable).Clone(), nil
}

// Refresh unconditionally refetches the table for ref and replaces the cache
// entry. Used by the background refresh job and the manual refresh endpoint.
func (l *Loader) Refresh(ctx context.Context, ref sheets.SourceRef) (model.HoldingsTable, error) {
	table, err, _ := l.group.Do(ref.Key()+"#refresh", func() (interface{}, error) {
		return l.refresh(ctx, ref)
	})
	if err != nil {
		return nil, err
	}
	return table.(model.HoldingsTable).Clone(), nil
}

// Invalidate drops every cache entry. The next Load will refetch.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.entries = make(map[string]*entry)
	l.mu.Unlock()
}

// LastFetchedAt returns when the cached table for ref was fetched, or false
// when nothing is cached.
func (l *Loader) LastFetchedAt(ref sheets.SourceRef) (time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[ref.Key()]
	if !ok {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}

func (l *Loader) cached(key string) (model.HoldingsTable, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[key]
	if !ok || l.now().Sub(e.fetchedAt) >= l.ttl {
		return nil, false
	}
	return e.table.Clone(), true
}

func (l *Loader) refresh(ctx context.Context, ref sheets.SourceRef) (model.HoldingsTable, error) {
	rows, err := l.client.FetchTable(ctx, ref)
	if err != nil {
		return nil, err
	}

	table, err := ParseTable(rows)
	if err != nil {
		return nil, err
	}

	fetchedAt := l.now()

	l.mu.Lock()
	l.entries[ref.Key()] = &entry{table: table, fetchedAt: fetchedAt}
	l.mu.Unlock()

	if l.snapshots != nil {
		snapshot := model.DatasetSnapshot{
			SourceRef:   ref.Key(),
			RowCount:    len(table),
			ClientCount: countClients(table),
			FetchedAt:   fetchedAt,
		}
		if err := l.snapshots.RecordSnapshot(snapshot); err != nil {
			log.Printf("failed to record dataset snapshot: %v", err)
		}
	}

	return table, nil
}

func countClients(table model.HoldingsTable) int {
	seen := make(map[string]struct{}, len(table))
	for _, record := range table {
		seen[record.ClientName] = struct{}{}
	}
	return len(seen)
}
