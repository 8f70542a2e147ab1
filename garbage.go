package main

import "fmt"

// GarbageEntry is one pending incoming-garbage shipment (spec section 3).
type GarbageEntry struct {
	Lines         int
	BufferPieces  int
	Sender        string
}

// GarbageQueue is the ordered incoming-garbage buffer (spec section 4.7).
// squava has no analogous structure, but uses plain slices as queues
// throughout (GetValidMoves builds its move list the same way); GarbageQueue
// follows that idiom rather than reaching for container/list.
type GarbageQueue struct {
	entries  []GarbageEntry
	Messages []string
}

// Enqueue appends a fresh entry with the standard buffer delay and posts a
// renderer message.
func (q *GarbageQueue) Enqueue(lines int, sender string) {
	q.entries = append(q.entries, GarbageEntry{
		Lines:        lines,
		BufferPieces: GarbageBufferPieces,
		Sender:       sender,
	})
	q.Messages = append(q.Messages, messageForIncoming(lines, sender))
}

func messageForIncoming(lines int, sender string) string {
	if lines == 1 {
		return sender + " sent 1 line"
	}
	return fmt.Sprintf("%s sent %d lines", sender, lines)
}

// OnPieceLocked decrements every entry's buffer by one piece placement,
// then drains any entry whose buffer has run out into a single injection
// count, per spec section 4.7.
func (q *GarbageQueue) OnPieceLocked() int {
	for i := range q.entries {
		q.entries[i].BufferPieces--
	}
	return q.drainReady()
}

func (q *GarbageQueue) drainReady() int {
	total := 0
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.BufferPieces <= 0 {
			total += e.Lines
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	return total
}

// Cancel subtracts clearedLines from the front of the queue, then extends
// every remaining entry's buffer by clearedLines pieces — the "defensive
// buffer extension" of spec section 4.7.
func (q *GarbageQueue) Cancel(clearedLines int) {
	if clearedLines <= 0 {
		return
	}
	remaining := clearedLines
	i := 0
	for i < len(q.entries) && remaining > 0 {
		if q.entries[i].Lines <= remaining {
			remaining -= q.entries[i].Lines
			i++
			continue
		}
		q.entries[i].Lines -= remaining
		remaining = 0
	}
	q.entries = q.entries[i:]
	for j := range q.entries {
		q.entries[j].BufferPieces += clearedLines
	}
}

// Pending returns the queue contents for rendering (spec section 4.11:
// "queued-garbage indicators coloured by buffer_pieces remaining").
func (q *GarbageQueue) Pending() []GarbageEntry {
	return q.entries
}

// TotalLines sums the lines across all queued entries.
func (q *GarbageQueue) TotalLines() int {
	n := 0
	for _, e := range q.entries {
		n += e.Lines
	}
	return n
}
