package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
)

const (
	PendingTitle = "..."
	UnknownTitle = "[Unknown] VSO Item"
)

var ErrConnectionInactive = errors.New("VSO Items: Connection is not active. Use refresh to reconnect.")

type Opener interface {
	Open(url string) error
}

// Item is the display state of one referenced work item. Fields are only
// written by Refresh.
type Item struct {
	id       int
	registry *Registry

	mu        sync.RWMutex
	title     string
	itemType  string
	state     string
	link      string
	connected bool
}

func (i *Item) ID() int { return i.id }

func (i *Item) Label() string { return strconv.Itoa(i.id) }

func (i *Item) Title() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.title
}

func (i *Item) Type() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.itemType
}

func (i *Item) State() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state
}

func (i *Item) Link() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.link
}

func (i *Item) Connected() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.connected
}

func (i *Item) Description() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.state != "" {
		return fmt.Sprintf("[%s] %s", i.state, i.title)
	}
	return i.title
}

func (i *Item) Tooltip() string {
	return fmt.Sprintf("%d: %s", i.id, i.Title())
}

func (i *Item) Icon() string {
	return IconFor(i.Type())
}

// Refresh re-reads the item through the live session. Without a session
// the item is only marked disconnected. With one, the fetch runs in the
// background and overlapping fetches resolve last-write-wins.
func (i *Item) Refresh(ctx context.Context) {
	session := i.registry.sessions.ActiveSession(ctx)
	if session == nil {
		i.mu.Lock()
		i.connected = false
		i.mu.Unlock()
		return
	}

	i.mu.Lock()
	i.connected = true
	placeholder := i.title == ""
	if placeholder {
		i.title = PendingTitle
	}
	i.mu.Unlock()

	if placeholder {
		i.registry.NotifyChanged()
	}

	i.registry.pending.Add(1)
	go func() {
		defer i.registry.pending.Done()
		i.fetch(ctx, session)
	}()
}

func (i *Item) fetch(ctx context.Context, session domain.Session) {
	workItem, err := session.GetWorkItem(ctx, i.id, domain.DisplayFields)
	if err != nil {
		logger.LogError("FETCH", fmt.Sprintf("#%d", i.id), err)
		return
	}

	i.mu.Lock()
	if workItem == nil {
		i.title = UnknownTitle
		logger.LogFetch(i.id, "not found")
	} else {
		i.title = workItem.Title
		i.itemType = workItem.Type
		i.state = workItem.State
		i.link = workItem.Link
		logger.LogFetch(i.id, fmt.Sprintf("%s [%s]", workItem.Type, workItem.State))
	}
	i.mu.Unlock()

	i.registry.NotifyChanged()
}

// Open navigates to the item's link. Without a link it fails only when the
// item has no connection; a connected item still loading is a no-op.
func (i *Item) Open(opener Opener) error {
	i.mu.RLock()
	link, connected := i.link, i.connected
	i.mu.RUnlock()

	if link != "" {
		return opener.Open(link)
	}
	if !connected {
		return ErrConnectionInactive
	}
	return nil
}
