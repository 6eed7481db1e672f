package bot

import "sync"

// Queue holds the pending decisions of one bot turn in execution order.
// At most one EndTurn is pending at a time.
type Queue struct {
	mu    sync.Mutex
	items []Decision
}

// Push appends decisions and reports how many were accepted.
func (q *Queue) Push(ds ...Decision) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, d := range ds {
		if d.Type == EndTurn && q.hasLocked(EndTurn) {
			continue
		}
		q.items = append(q.items, d)
		added++
	}
	return added
}

// Pop removes the next decision.
func (q *Queue) Pop() (Decision, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Decision{}, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

// Len returns the number of pending decisions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns a copy of the pending decisions.
func (q *Queue) Pending() []Decision {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Decision(nil), q.items...)
}

// Clear drops every pending decision and returns them.
func (q *Queue) Clear() []Decision {
	q.mu.Lock()
	defer q.mu.Unlock()
	dropped := q.items
	q.items = nil
	return dropped
}

func (q *Queue) hasLocked(t DecisionType) bool {
	for _, d := range q.items {
		if d.Type == t {
			return true
		}
	}
	return false
}
