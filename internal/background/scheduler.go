package background

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RubnSanchz/interval-timer/internal/events"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Scheduler posts notifications now or after a delay
type Scheduler interface {
	// Display shows n immediately, replacing any notification with the same ID
	Display(n Notification) error
	// Schedule shows n once after has elapsed and returns its ID
	Schedule(n Notification, after time.Duration) (string, error)
	// Cancel withdraws a pending or displayed notification
	Cancel(id string) error
}

// Delivery is what a LocalScheduler hands to its listeners
type Delivery struct {
	Notification Notification
	Removed      bool // the notification was cancelled and should disappear
}

// LocalScheduler delivers notifications inside the process, using
// time.AfterFunc for the delayed ones.
type LocalScheduler struct {
	logger     *log.Logger
	deliveries *events.CallbackEvent[Delivery]

	mu        sync.Mutex
	pending   map[string]*time.Timer
	displayed map[string]Notification
}

var _ Scheduler = (*LocalScheduler)(nil)

func NewLocalScheduler(logger *log.Logger) *LocalScheduler {
	if logger == nil {
		panic("LocalScheduler: logger cannot be nil")
	}
	return &LocalScheduler{
		logger:     logger,
		deliveries: events.NewCallbackEvent[Delivery](false),
		pending:    make(map[string]*time.Timer),
		displayed:  make(map[string]Notification),
	}
}

// Listen registers fn for every delivery and removal
func (s *LocalScheduler) Listen(fn func(Delivery)) func() {
	return s.deliveries.Listen(fn)
}

func (s *LocalScheduler) Display(n Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.displayed[n.ID] = n
	s.mu.Unlock()

	s.deliveries.Notify(Delivery{Notification: n})
	return nil
}

func (s *LocalScheduler) Schedule(n Notification, after time.Duration) (string, error) {
	if after < 0 {
		return "", fmt.Errorf("schedule %q: negative delay %s", n.Title, after)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	id := n.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[id]; ok {
		old.Stop()
	}
	s.pending[id] = time.AfterFunc(after, func() { s.fire(n) })
	return id, nil
}

func (s *LocalScheduler) fire(n Notification) {
	s.mu.Lock()
	if _, ok := s.pending[n.ID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, n.ID)
	s.mu.Unlock()

	if err := s.Display(n); err != nil {
		s.logger.Printf("LocalScheduler: Failed to display %s: %v", n.ID, err)
	}
}

func (s *LocalScheduler) Cancel(id string) error {
	s.mu.Lock()
	timer, isPending := s.pending[id]
	if isPending {
		timer.Stop()
		delete(s.pending, id)
	}
	n, isDisplayed := s.displayed[id]
	delete(s.displayed, id)
	s.mu.Unlock()

	if isDisplayed {
		s.deliveries.Notify(Delivery{Notification: n, Removed: true})
	}
	if !isPending && !isDisplayed {
		return fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}
	return nil
}

// PendingCount is the number of scheduled notifications not yet delivered
func (s *LocalScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Displayed returns the notifications currently shown, ordered by ID
func (s *LocalScheduler) Displayed() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, 0, len(s.displayed))
	for _, n := range s.displayed {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LogSink writes every delivery to logger
func LogSink(logger *log.Logger) func(Delivery) {
	return func(d Delivery) {
		if d.Removed {
			logger.Printf("Notification: Dismissed %s", d.Notification.ID)
			return
		}
		logger.Printf("Notification: [%s] %s", d.Notification.Title, d.Notification.Body)
	}
}
