package game

// SubmissionQueue is a FIFO of not-yet-evaluated ciphertext
// submissions. Evaluation always consumes the oldest entry.
type SubmissionQueue struct {
	entries [][]byte
}

// Push appends a ciphertext to the tail of the queue. The queue keeps
// its own copy of the data.
func (q *SubmissionQueue) Push(ciphertext []byte) {
	entry := make([]byte, len(ciphertext))
	copy(entry, ciphertext)
	q.entries = append(q.entries, entry)
}

// Pop removes and returns the oldest entry. Popping an empty queue is
// a no-op reporting false.
func (q *SubmissionQueue) Pop() ([]byte, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head, true
}

// pushFront restores an entry to the head of the queue. Used to undo a
// Pop when a transition aborts.
func (q *SubmissionQueue) pushFront(entry []byte) {
	q.entries = append([][]byte{entry}, q.entries...)
}

// Head returns a copy of the oldest entry without consuming it.
func (q *SubmissionQueue) Head() ([]byte, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	head := make([]byte, len(q.entries[0]))
	copy(head, q.entries[0])
	return head, true
}

// Len reports the number of pending submissions.
func (q *SubmissionQueue) Len() int {
	return len(q.entries)
}

func (q *SubmissionQueue) snapshot() [][]byte {
	out := make([][]byte, len(q.entries))
	for i, e := range q.entries {
		entry := make([]byte, len(e))
		copy(entry, e)
		out[i] = entry
	}
	return out
}
