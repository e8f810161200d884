// Package items caches the display state of every work item referenced
// during the process lifetime and refreshes it through the live session.
package items

import (
	"context"
	"sort"
	"sync"

	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/johanforsgren/vsoitems/internal/scanner"
)

// SessionSource is the part of the connection manager the registry uses.
type SessionSource interface {
	ActiveSession(ctx context.Context) domain.Session
	Connect(ctx context.Context, promptIfMissing bool) bool
	InFlight() bool
	Connected() bool
}

// Registry maps ids to items. Entries are never evicted.
type Registry struct {
	sessions SessionSource
	onChange func()

	mu    sync.Mutex
	items map[int]*Item

	pending sync.WaitGroup
}

func NewRegistry(sessions SessionSource, onChange func()) *Registry {
	if onChange == nil {
		onChange = func() {}
	}
	return &Registry{
		sessions: sessions,
		onChange: onChange,
		items:    make(map[int]*Item),
	}
}

// GetOrCreate returns the cached item for id, creating and refreshing it on
// first reference.
func (r *Registry) GetOrCreate(ctx context.Context, id int) *Item {
	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		item = &Item{id: id, registry: r}
		r.items[id] = item
	}
	r.mu.Unlock()

	if !ok {
		item.Refresh(ctx)
	}
	return item
}

// Items returns the items referenced in text, in order of first reference.
func (r *Registry) Items(ctx context.Context, text string) []*Item {
	ids := scanner.Scan(text)
	result := make([]*Item, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.GetOrCreate(ctx, id))
	}
	return result
}

// RefreshAll refreshes every cached item and notifies the view. With
// reconnect set it also starts an interactive connect, after which the
// items are refreshed again.
func (r *Registry) RefreshAll(ctx context.Context, reconnect bool) {
	if reconnect && !r.sessions.InFlight() {
		wasConnected := r.sessions.Connected()
		r.pending.Add(1)
		go func() {
			defer r.pending.Done()
			if r.sessions.Connect(ctx, true) && !wasConnected {
				logger.Log("Reconnected, refreshing %d items", r.Len())
				r.refreshItems(ctx)
				r.NotifyChanged()
			}
		}()
	}

	r.refreshItems(ctx)
	r.NotifyChanged()
}

func (r *Registry) NotifyChanged() {
	r.onChange()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Wait blocks until item fetches and reconnects started by RefreshAll have
// finished. Background connects started by the session source on its own are
// not tracked.
func (r *Registry) Wait() {
	r.pending.Wait()
}

func (r *Registry) refreshItems(ctx context.Context) {
	for _, item := range r.snapshot() {
		item.Refresh(ctx)
	}
}

func (r *Registry) snapshot() []*Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].id < items[b].id })
	return items
}
