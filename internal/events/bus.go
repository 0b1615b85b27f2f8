// Package events carries change notifications from the stores to interested
// listeners. Delivery is synchronous with Publish, best-effort and without
// replay: a subscriber whose buffer is full misses the event.
package events

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Topics published by the stores.
const (
	TopicWatchlist  = "watchlist"
	TopicFriends    = "friends"
	TopicActivities = "activities"
	TopicHistory    = "history"
	TopicReviews    = "reviews"
	// TopicStorage accompanies every watchlist change for listeners that only
	// care that something in the namespace moved.
	TopicStorage = "storage"
)

// Event names what changed and for whom. An empty UserID reaches every
// subscriber.
type Event struct {
	Topic  string `json:"type"`
	UserID string `json:"-"`
}

var (
	published = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_events_published_total",
		Help: "Change notifications published, by topic.",
	}, []string{"topic"})
	dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_events_dropped_total",
		Help: "Change notifications dropped because a subscriber buffer was full.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(published, dropped)
}

// Subscription receives events matching its user and topics.
type Subscription struct {
	userID string
	topics []string
	ch     chan Event
	once   sync.Once
}

// C returns the receive channel. It is closed by Unsubscribe or Close.
func (s *Subscription) C() <-chan Event { return s.ch }

func (s *Subscription) wants(e Event) bool {
	if e.UserID != "" && s.userID != "" && e.UserID != s.userID {
		return false
	}
	return len(s.topics) == 0 || slices.Contains(s.topics, e.Topic)
}

// Bus fans events out to subscribers. The zero value is not usable; call New.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

// New returns a bus whose subscriptions buffer up to buffer events.
func New(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscribe registers interest in topics for userID. An empty userID listens
// to every user; no topics means every topic. Subscribing to a closed bus
// returns an already closed subscription.
func (b *Bus) Subscribe(userID string, topics ...string) *Subscription {
	s := &Subscription{userID: userID, topics: topics, ch: make(chan Event, b.buffer)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Unsubscribe removes s and closes its channel. It is safe to call twice.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}

// Publish delivers e to every matching subscriber without blocking.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	published.WithLabelValues(e.Topic).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		if !s.wants(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			dropped.WithLabelValues(e.Topic).Inc()
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close unsubscribes everyone. Later publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[*Subscription]struct{})
	b.closed = true
	b.mu.Unlock()
	for s := range subs {
		s.once.Do(func() { close(s.ch) })
	}
}
