// Package notify holds the single transient notification shown to the user.
//
// At most one notification is visible. A new one replaces the current one
// immediately; replaced notifications are dropped, never queued. Every
// notification is dismissed automatically after the configured duration
// unless it was replaced first.
package notify

import (
	"sync"
	"time"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Severity of a notification.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	Message  string
	Severity Severity
	Shown    time.Time

	id uint64
}

// Notifier is the display-only sink used by the client and the upload machine.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Notify(message string, severity Severity) { f(message, severity) }

// ChangeFunc is called after the visible notification changes. visible is
// false when the slot was cleared.
type ChangeFunc func(n Notification, visible bool)

type stopper interface{ Stop() bool }

// Service is the process-wide notification slot.
type Service struct {
	mu        sync.Mutex
	duration  time.Duration
	current   *Notification
	seq       uint64
	timer     stopper
	onChange  ChangeFunc
	afterFunc func(time.Duration, func()) stopper
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDuration overrides DefaultDuration. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithOnChange registers the repaint hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Service) { s.onChange = fn }
}

// NewService creates an empty notification slot.
func NewService(opts ...Option) *Service {
	s := &Service{
		duration: DefaultDuration,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOnChange replaces the repaint hook. Used by front ends that are created
// after the service.
func (s *Service) SetOnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Notify replaces the visible notification and schedules its dismissal.
func (s *Service) Notify(message string, severity Severity) {
	s.mu.Lock()
	s.seq++
	n := Notification{Message: message, Severity: severity, Shown: s.now(), id: s.seq}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.current = &n
	id := n.id
	s.timer = s.afterFunc(s.duration, func() { s.expire(id) })
	cb := s.onChange
	s.mu.Unlock()

	logf(string(severity), "%s", message)
	if cb != nil {
		cb(n, true)
	}
}

// expire clears the slot only if it still holds notification id.
func (s *Service) expire(id uint64) {
	s.mu.Lock()
	if s.current == nil || s.current.id != id {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.timer = nil
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(Notification{}, false)
	}
}

// Current returns the visible notification, if any.
func (s *Service) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notification{}, false
	}
	return *s.current, true
}

// Dismiss clears the slot immediately.
func (s *Service) Dismiss() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	id := s.current.id
	s.mu.Unlock()
	s.expire(id)
}

// Stop cancels the pending dismissal timer. The visible notification, if
// any, stays in the slot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
