package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/johanforsgren/vsoitems/internal/logger"
)

var (
	ErrNotOpen     = errors.New("document is not open")
	ErrNoDocument  = errors.New("no active document")
	ErrNotAFolder  = errors.New("not a directory")
	ErrInvalidPath = errors.New("invalid path")
)

type EventKind int

const (
	Opened EventKind = iota
	Saved
	Closed
	ActiveChanged
	FolderChanged
)

func (k EventKind) String() string {
	switch k {
	case Opened:
		return "opened"
	case Saved:
		return "saved"
	case Closed:
		return "closed"
	case ActiveChanged:
		return "active changed"
	case FolderChanged:
		return "folder changed"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
	Path string
}

type document struct {
	text    string
	modTime time.Time
}

// Workspace is the set of open text documents, one of which is active, plus
// the folder whose settings apply to them.
type Workspace struct {
	mu     sync.Mutex
	folder string
	docs   map[string]*document
	order  []string
	active string
}

func NewWorkspace(folder string) *Workspace {
	if folder != "" {
		if abs, err := filepath.Abs(folder); err == nil {
			folder = abs
		}
	}
	return &Workspace{
		folder: folder,
		docs:   make(map[string]*document),
	}
}

func (w *Workspace) resolve(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath
	}
	if !filepath.IsAbs(path) && w.folder != "" {
		path = filepath.Join(w.folder, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return abs, nil
}

func read(path string) (*document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger.LogFileOpen(path)
	return &document{text: string(content), modTime: info.ModTime()}, nil
}

func (w *Workspace) Open(path string) (Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, err := w.resolve(path)
	if err != nil {
		return Event{}, err
	}

	doc, err := read(abs)
	if err != nil {
		return Event{}, fmt.Errorf("failed to open %s: %w", abs, err)
	}

	w.docs[abs] = doc
	w.removeFromOrder(abs)
	w.order = append(w.order, abs)
	w.active = abs

	return Event{Kind: Opened, Path: abs}, nil
}

// Close forgets path, or the active document when path is empty.
func (w *Workspace) Close(path string) (Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var abs string
	if path == "" {
		if w.active == "" {
			return Event{}, ErrNoDocument
		}
		abs = w.active
	} else {
		resolved, err := w.resolve(path)
		if err != nil {
			return Event{}, err
		}
		abs = resolved
	}

	if _, ok := w.docs[abs]; !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrNotOpen, abs)
	}

	delete(w.docs, abs)
	w.removeFromOrder(abs)
	if w.active == abs {
		w.active = ""
		if len(w.order) > 0 {
			w.active = w.order[len(w.order)-1]
		}
	}

	return Event{Kind: Closed, Path: abs}, nil
}

func (w *Workspace) Activate(path string) (Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, err := w.resolve(path)
	if err != nil {
		return Event{}, err
	}
	if _, ok := w.docs[abs]; !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrNotOpen, abs)
	}

	w.active = abs
	return Event{Kind: ActiveChanged, Path: abs}, nil
}

// Next activates the document opened after the active one, wrapping around.
// It reports false when fewer than two documents are open.
func (w *Workspace) Next() (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.order) < 2 {
		return Event{}, false
	}

	next := 0
	for i, p := range w.order {
		if p == w.active {
			next = (i + 1) % len(w.order)
			break
		}
	}
	w.active = w.order[next]
	return Event{Kind: ActiveChanged, Path: w.active}, true
}

func (w *Workspace) SetFolder(dir string) (Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == "" {
		return Event{}, ErrInvalidPath
	}
	if !filepath.IsAbs(dir) && w.folder != "" {
		dir = filepath.Join(w.folder, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Event{}, fmt.Errorf("failed to change folder: %w", err)
	}
	if !info.IsDir() {
		return Event{}, fmt.Errorf("%w: %s", ErrNotAFolder, abs)
	}

	w.folder = abs
	return Event{Kind: FolderChanged, Path: abs}, nil
}

// Poll re-reads every open document whose modification time changed and
// reports each as Saved.
func (w *Workspace) Poll() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []Event
	for _, path := range w.order {
		doc := w.docs[path]

		info, err := os.Stat(path)
		if err != nil {
			logger.LogError("POLL", path, err)
			continue
		}
		if info.ModTime().Equal(doc.modTime) {
			continue
		}

		updated, err := read(path)
		if err != nil {
			logger.LogError("POLL", path, err)
			continue
		}
		w.docs[path] = updated
		events = append(events, Event{Kind: Saved, Path: path})
	}
	return events
}

func (w *Workspace) ActiveText() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[w.active]
	if !ok {
		return "", false
	}
	return doc.text, true
}

func (w *Workspace) ActivePath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Workspace) Folder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.folder
}

func (w *Workspace) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, len(w.order))
	copy(paths, w.order)
	return paths
}

func (w *Workspace) removeFromOrder(path string) {
	for i, p := range w.order {
		if p == path {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}
