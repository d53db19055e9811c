package achievement

import (
	"sync"

	"github.com/fastygo/focusflow/domain"
)

// DefaultQueueSize bounds pending unlock notifications.
const DefaultQueueSize = 8

// Queue buffers unlock events for one-at-a-time presentation. When full the
// oldest pending event is dropped; the unlock itself is already recorded.
type Queue struct {
	mu      sync.Mutex
	size    int
	pending []domain.AchievementUnlockedEvent
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{size: size}
}

// Push appends events and reports how many older events were dropped.
func (q *Queue) Push(events ...domain.AchievementUnlockedEvent) (dropped int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, events...)
	if over := len(q.pending) - q.size; over > 0 {
		q.pending = append(q.pending[:0:0], q.pending[over:]...)
		dropped = over
	}
	return dropped
}

// Pop removes the oldest pending event.
func (q *Queue) Pop() (domain.AchievementUnlockedEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return domain.AchievementUnlockedEvent{}, false
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return ev, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Reset discards every pending event.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}
