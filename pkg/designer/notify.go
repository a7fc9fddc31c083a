package designer

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelboard/pkg/errors"
)

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a user-visible message.
type Notification struct {
	Level   Level
	Title   string
	Message string
	Code    errors.Code // Set for errors
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
func LogNotifier(logger *log.Logger) Notifier {
	return NotifierFunc(func(n Notification) {
		switch n.Level {
		case LevelError:
			logger.Error(n.Message, "title", n.Title, "code", n.Code)
		default:
			logger.Info(n.Message)
		}
	})
}

// Recorder keeps every notification. Hosts poll it; tests inspect it.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the newest notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Drain returns and forgets the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all
	r.all = nil
	return out
}
