package signal

// Queue buffers signals so work done off the owning goroutine can be
// delivered later in a fixed order.
type Queue struct {
	pending []Signal
}

var _ Sink = &Queue{}

// Dispatch appends sig to the queue.
func (q *Queue) Dispatch(sig Signal) {
	q.pending = append(q.pending, sig)
}

// Len returns the number of buffered signals.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush delivers every buffered signal to sink in arrival order and empties
// the queue. A nil sink just empties it.
//
// Parameters:
//   - sink: the destination
//
// Returns:
//   - int: the number of signals delivered
func (q *Queue) Flush(sink Sink) int {
	n := len(q.pending)
	if sink != nil {
		for _, sig := range q.pending {
			sink.Dispatch(sig)
		}
	}
	clear(q.pending)
	q.pending = q.pending[:0]
	return n
}
