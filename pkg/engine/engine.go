package engine

import (
	"sync"

	"github.com/matzehuels/panelboard/pkg/geom"
)

// Kind identifies an event type.
type Kind int

const (
	SelectionChanged Kind = iota
	PartMoved
	PartResized
	ExternalDrop
	DragCancelled
)

var kindNames = map[Kind]string{
	SelectionChanged: "selection-changed",
	PartMoved:        "part-moved",
	PartResized:      "part-resized",
	ExternalDrop:     "external-drop",
	DragCancelled:    "drag-cancelled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is delivered to subscribed handlers.
type Event struct {
	Kind Kind
	// Key is the part that moved or was resized.
	Key string
	// Selected lists the selected part keys after a selection change.
	Selected []string
	// Pos is the proposed document position of a moved part, or the view
	// position of an external drop.
	Pos geom.Point
	// Size is the proposed size of a resized part.
	Size geom.Size
	// Data holds an external drop's payloads keyed by MIME type.
	Data map[string]string
}

// Handler reacts to one event.
type Handler func(Event)

// Unsubscribe removes a handler. Calling it more than once is a no-op.
type Unsubscribe func()

// Part is a rendered node or group.
type Part struct {
	Key     string
	IsGroup bool
	Group   string    // Containing group key, empty when top-level
	Bounds  geom.Rect // Zero when not laid out
	LaidOut bool
}

// Engine is the diagram engine collaborator.
type Engine interface {
	// ViewToDoc converts a view (pixel) point to document coordinates.
	ViewToDoc(p geom.Point) geom.Point
	// Nodes returns every non-group part.
	Nodes() []Part
	// Groups returns every group part.
	Groups() []Part
	// StartTransaction opens a (possibly nested) transaction.
	StartTransaction(name string)
	// CommitTransaction closes the innermost transaction. Closing the
	// outermost one triggers exactly one re-render. It reports false when
	// no transaction is open.
	CommitTransaction(name string) bool
	// RollbackTransaction discards every change since the outermost
	// transaction opened and closes all open transactions.
	RollbackTransaction(name string) bool
	// Subscribe registers h for events of the given kind.
	Subscribe(kind Kind, h Handler) Unsubscribe
	// Emit dispatches ev synchronously to its subscribers.
	Emit(ev Event)
}

// Transact runs fn inside a transaction, rolling back when it fails.
func Transact(eng Engine, name string, fn func() error) error {
	eng.StartTransaction(name)
	if err := fn(); err != nil {
		eng.RollbackTransaction(name)
		return err
	}
	eng.CommitTransaction(name)
	return nil
}

// Scope collects unsubscribe functions and releases them together.
// The zero value is ready to use.
type Scope struct {
	mu     sync.Mutex
	unsubs []Unsubscribe
}

// Subscribe registers h on eng and tracks the subscription.
func (s *Scope) Subscribe(eng Engine, kind Kind, h Handler) {
	s.Add(eng.Subscribe(kind, h))
}

// Add tracks an existing subscription.
func (s *Scope) Add(u Unsubscribe) {
	if u == nil {
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, u)
	s.mu.Unlock()
}

// Len returns the number of live subscriptions.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsubs)
}

// Close releases every tracked subscription, newest first.
func (s *Scope) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for i := len(unsubs) - 1; i >= 0; i-- {
		unsubs[i]()
	}
}
