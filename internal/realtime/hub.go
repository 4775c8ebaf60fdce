package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const DefaultBufferSize = 64

// Subscription receives the events of one question, or of every question
// when created with SubscribeAll.
type Subscription struct {
	ch         chan Event
	questionID uint
	all        bool
	hub        *Hub
	dropped    atomic.Int64
	once       sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Dropped is the number of events discarded because the buffer was full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is the in-process fan-out. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	topics map[uint]map[*Subscription]struct{}
	all    map[*Subscription]struct{}
	buffer int
	logger *zap.SugaredLogger
}

func NewHub(buffer int, logger *zap.SugaredLogger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Hub{
		topics: make(map[uint]map[*Subscription]struct{}),
		all:    make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *Hub) Publish(_ context.Context, event Event) error {
	h.deliver(event)
	return nil
}

func (h *Hub) Subscribe(questionID uint) *Subscription {
	sub := &Subscription{
		ch:         make(chan Event, h.buffer),
		questionID: questionID,
		hub:        h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[questionID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[questionID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

func (h *Hub) SubscribeAll() *Subscription {
	sub := &Subscription{
		ch:  make(chan Event, h.buffer),
		all: true,
		hub: h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[sub] = struct{}{}
	return sub
}

// Subscribers reports the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.all)
	for _, subs := range h.topics {
		n += len(subs)
	}
	return n
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[event.QuestionID] {
		h.send(sub, event)
	}
	for sub := range h.all {
		h.send(sub, event)
	}
}

func (h *Hub) send(sub *Subscription, event Event) {
	select {
	case sub.ch <- event:
	default:
		sub.dropped.Add(1)
		h.logger.Warnw("subscriber buffer full, dropping event",
			"question_id", event.QuestionID,
			"kind", event.Kind,
		)
	}
}

// remove holds the write lock while closing, so deliver can never send on
// a closed channel.
func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.all {
		delete(h.all, sub)
	} else if subs, ok := h.topics[sub.questionID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, sub.questionID)
		}
	}
	close(sub.ch)
}
