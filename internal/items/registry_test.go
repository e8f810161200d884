package items

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/johanforsgren/vsoitems/internal/domain"
)

type mockSession struct {
	items  map[int]*domain.WorkItem
	err    error
	calls  int32
	fields []string
	mu     sync.Mutex
}

func (s *mockSession) ID() uuid.UUID { return uuid.Nil }

func (s *mockSession) GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.fields = fields
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.items[id], nil
}

func (s *mockSession) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

type mockSessions struct {
	session      domain.Session
	connectTo    domain.Session
	connectCalls int32
	prompted     bool
	inFlight     bool
	mu           sync.Mutex
}

func (m *mockSessions) ActiveSession(ctx context.Context) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *mockSessions) Connect(ctx context.Context, promptIfMissing bool) bool {
	atomic.AddInt32(&m.connectCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompted = promptIfMissing
	if m.connectTo != nil {
		m.session = m.connectTo
	}
	return m.session != nil
}

func (m *mockSessions) InFlight() bool { return m.inFlight }

func (m *mockSessions) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

type recordingOpener struct {
	opened []string
}

func (o *recordingOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

type changeCounter struct {
	n int32
}

func (c *changeCounter) notify() { atomic.AddInt32(&c.n, 1) }

func (c *changeCounter) count() int { return int(atomic.LoadInt32(&c.n)) }

func bugSession() *mockSession {
	return &mockSession{items: map[int]*domain.WorkItem{
		42: {ID: 42, Title: "Fix bug", Type: "Bug", State: "Active", Link: "https://dev.azure.com/contoso/_workitems/edit/42"},
	}}
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	r := NewRegistry(&mockSessions{}, nil)

	first := r.GetOrCreate(context.Background(), 42)
	second := r.GetOrCreate(context.Background(), 42)

	if first != second {
		t.Error("GetOrCreate() returned different items for the same id")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRefresh_SessionAbsent(t *testing.T) {
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{}, changes.notify)

	item := r.GetOrCreate(context.Background(), 42)
	r.Wait()

	if item.Connected() {
		t.Error("Connected() = true without a session")
	}
	if item.Title() != "" {
		t.Errorf("Title() = %q, want empty", item.Title())
	}
	if changes.count() != 0 {
		t.Errorf("change notifications = %d, want 0", changes.count())
	}
}

func TestRefresh_ResolvesItem(t *testing.T) {
	session := bugSession()
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{session: session}, changes.notify)

	item := r.GetOrCreate(context.Background(), 42)
	r.Wait()

	if !item.Connected() {
		t.Error("Connected() = false with a live session")
	}
	if got := item.Description(); got != "[Active] Fix bug" {
		t.Errorf("Description() = %q, want %q", got, "[Active] Fix bug")
	}
	if got := item.Icon(); got != "icon_bug.svg" {
		t.Errorf("Icon() = %q, want %q", got, "icon_bug.svg")
	}
	if got := item.Tooltip(); got != "42: Fix bug" {
		t.Errorf("Tooltip() = %q, want %q", got, "42: Fix bug")
	}
	if got := item.Label(); got != "42" {
		t.Errorf("Label() = %q, want %q", got, "42")
	}
	if changes.count() != 2 {
		t.Errorf("change notifications = %d, want 2 (placeholder + result)", changes.count())
	}

	session.mu.Lock()
	fields := session.fields
	session.mu.Unlock()
	if len(fields) != 3 || fields[0] != domain.FieldTitle || fields[1] != domain.FieldType || fields[2] != domain.FieldState {
		t.Errorf("requested fields = %v", fields)
	}
}

func TestRefresh_NotFound(t *testing.T) {
	r := NewRegistry(&mockSessions{session: &mockSession{}}, nil)

	item := r.GetOrCreate(context.Background(), 7)
	r.Wait()

	if item.Title() != UnknownTitle {
		t.Errorf("Title() = %q, want %q", item.Title(), UnknownTitle)
	}
	if item.Description() != UnknownTitle {
		t.Errorf("Description() = %q, want %q", item.Description(), UnknownTitle)
	}
	if item.Icon() != "" {
		t.Errorf("Icon() = %q, want none", item.Icon())
	}
}

func TestRefresh_FetchErrorKeepsPlaceholder(t *testing.T) {
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{session: &mockSession{err: errors.New("timeout")}}, changes.notify)

	item := r.GetOrCreate(context.Background(), 9)
	r.Wait()

	if item.Title() != PendingTitle {
		t.Errorf("Title() = %q, want %q", item.Title(), PendingTitle)
	}
	if !item.Connected() {
		t.Error("Connected() should be true once a fetch was issued")
	}
	if changes.count() != 1 {
		t.Errorf("change notifications = %d, want 1 (placeholder only)", changes.count())
	}
}

func TestRefresh_DisconnectKeepsTitle(t *testing.T) {
	sessions := &mockSessions{session: bugSession()}
	r := NewRegistry(sessions, nil)

	item := r.GetOrCreate(context.Background(), 42)
	r.Wait()

	sessions.mu.Lock()
	sessions.session = nil
	sessions.mu.Unlock()

	item.Refresh(context.Background())
	r.Wait()

	if item.Connected() {
		t.Error("Connected() = true after refresh without a session")
	}
	if item.Title() != "Fix bug" {
		t.Errorf("Title() = %q, want previous title kept", item.Title())
	}
}

func TestRefresh_PlaceholderOnlyOnce(t *testing.T) {
	session := bugSession()
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{session: session}, changes.notify)

	item := r.GetOrCreate(context.Background(), 42)
	r.Wait()
	item.Refresh(context.Background())
	r.Wait()

	if changes.count() != 3 {
		t.Errorf("change notifications = %d, want 3 (no second placeholder)", changes.count())
	}
	if session.Calls() != 2 {
		t.Errorf("fetches = %d, want 2", session.Calls())
	}
}

func TestItems_ScansAndCaches(t *testing.T) {
	r := NewRegistry(&mockSessions{}, nil)

	items := r.Items(context.Background(), "see VSO-42 and vso_42 again, VSO7")
	if len(items) != 2 {
		t.Fatalf("Items() returned %d items, want 2", len(items))
	}
	if items[0].ID() != 42 || items[1].ID() != 7 {
		t.Errorf("Items() ids = [%d %d], want [42 7]", items[0].ID(), items[1].ID())
	}

	again := r.Items(context.Background(), "VSO7")
	if again[0] != items[1] {
		t.Error("Items() should reuse cached items")
	}

	r.Items(context.Background(), "no references")
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (cache is never evicted)", r.Len())
	}
}

func TestRefreshAll_RefreshesAndNotifies(t *testing.T) {
	session := bugSession()
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{session: session}, changes.notify)

	r.GetOrCreate(context.Background(), 42)
	r.GetOrCreate(context.Background(), 43)
	r.Wait()
	before := session.Calls()

	r.RefreshAll(context.Background(), false)
	r.Wait()

	if session.Calls()-before != 2 {
		t.Errorf("fetches during RefreshAll = %d, want 2", session.Calls()-before)
	}
	if changes.count() == 0 {
		t.Error("RefreshAll should fire a change notification")
	}
}

func TestRefreshAll_EmptyRegistryStillNotifies(t *testing.T) {
	changes := &changeCounter{}
	r := NewRegistry(&mockSessions{}, changes.notify)

	r.RefreshAll(context.Background(), false)
	r.Wait()

	if changes.count() != 1 {
		t.Errorf("change notifications = %d, want 1", changes.count())
	}
}

func TestRefreshAll_ReconnectPromptsAndRefreshes(t *testing.T) {
	session := bugSession()
	sessions := &mockSessions{connectTo: session}
	r := NewRegistry(sessions, nil)

	item := r.GetOrCreate(context.Background(), 42)
	r.Wait()
	if item.Connected() {
		t.Fatal("item should start disconnected")
	}

	r.RefreshAll(context.Background(), true)
	r.Wait()

	if atomic.LoadInt32(&sessions.connectCalls) != 1 {
		t.Errorf("connect calls = %d, want 1", sessions.connectCalls)
	}
	if !sessions.prompted {
		t.Error("reconnect should allow prompting")
	}
	if item.Description() != "[Active] Fix bug" {
		t.Errorf("Description() after reconnect = %q", item.Description())
	}
}

func TestRefreshAll_NoReconnectWhileInFlight(t *testing.T) {
	sessions := &mockSessions{inFlight: true}
	r := NewRegistry(sessions, nil)

	r.RefreshAll(context.Background(), true)
	r.Wait()

	if atomic.LoadInt32(&sessions.connectCalls) != 0 {
		t.Errorf("connect calls = %d, want 0 while an attempt is in flight", sessions.connectCalls)
	}
}

func TestOpen(t *testing.T) {
	t.Run("with link navigates", func(t *testing.T) {
		r := NewRegistry(&mockSessions{session: bugSession()}, nil)
		item := r.GetOrCreate(context.Background(), 42)
		r.Wait()

		opener := &recordingOpener{}
		if err := item.Open(opener); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if len(opener.opened) != 1 || opener.opened[0] != "https://dev.azure.com/contoso/_workitems/edit/42" {
			t.Errorf("opened = %v", opener.opened)
		}
	})

	t.Run("disconnected without link fails", func(t *testing.T) {
		r := NewRegistry(&mockSessions{}, nil)
		item := r.GetOrCreate(context.Background(), 42)

		opener := &recordingOpener{}
		err := item.Open(opener)
		if !errors.Is(err, ErrConnectionInactive) {
			t.Errorf("Open() error = %v, want ErrConnectionInactive", err)
		}
		if len(opener.opened) != 0 {
			t.Errorf("Open() should not navigate, opened %v", opener.opened)
		}
	})

	t.Run("connected without link is a no-op", func(t *testing.T) {
		r := NewRegistry(&mockSessions{session: &mockSession{err: errors.New("slow")}}, nil)
		item := r.GetOrCreate(context.Background(), 42)
		r.Wait()

		opener := &recordingOpener{}
		if err := item.Open(opener); err != nil {
			t.Errorf("Open() error = %v, want nil", err)
		}
		if len(opener.opened) != 0 {
			t.Errorf("Open() should not navigate, opened %v", opener.opened)
		}
	})
}

func TestIconFor(t *testing.T) {
	tests := []struct {
		workItemType string
		want         string
	}{
		{"Bug", "icon_bug.svg"},
		{"Task", "icon_task.svg"},
		{"Task Group", "icon_task_group.svg"},
		{"Product Backlog Item", "icon_backlog_item.svg"},
		{"Feature", "icon_feature.svg"},
		{"Initiative", "icon_initiative.svg"},
		{"User Story", "icon_user_story.svg"},
		{"Epic", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.workItemType, func(t *testing.T) {
			if got := IconFor(tt.workItemType); got != tt.want {
				t.Errorf("IconFor(%q) = %q, want %q", tt.workItemType, got, tt.want)
			}
		})
	}
}
