package voronoi

// EventQueue holds pending events in firing order.
type EventQueue struct {
	tree  eventTree
	head  *eventNode
	size  int
	issue uint64
}

func (q *EventQueue) Len() int {
	return q.size
}

// Peek returns the next event without removing it.
func (q *EventQueue) Peek() (Event, bool) {
	if q.head == nil {
		return Event{}, false
	}
	return q.head.event, true
}

// Pop removes and returns the next event.
func (q *EventQueue) Pop() (Event, bool) {
	if q.head == nil {
		return Event{}, false
	}
	ev := q.head.event
	q.remove(q.head)
	return ev, true
}

// Push inserts ev at its position. Events comparing equal keep insertion order.
func (q *EventQueue) Push(ev Event) {
	q.issue++
	ev.seq = q.issue

	predecessor := q.tree.predecessorOf(ev)
	node := q.tree.insertAfter(predecessor, ev)
	if predecessor == nil {
		q.head = node
	}
	q.size++
}

// Cancel removes the first event firing exactly at y for which match is true.
// It reports whether an event was removed.
func (q *EventQueue) Cancel(y float64, match func(Event) bool) bool {
	for node := q.tree.lowerBound(y); node != nil && node.event.Y == y; node = node.next {
		if match(node.event) {
			q.remove(node)
			return true
		}
	}
	return false
}

// Events returns the pending events in firing order.
func (q *EventQueue) Events() []Event {
	out := make([]Event, 0, q.size)
	for node := q.head; node != nil; node = node.next {
		out = append(out, node.event)
	}
	return out
}

func (q *EventQueue) remove(node *eventNode) {
	if node == q.head {
		q.head = node.next
	}
	q.tree.remove(node)
	q.size--
}
