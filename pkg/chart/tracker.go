package chart

import "sync"

// Ticket identifies one asynchronous data request
type Ticket struct {
	Anchor string
	Seq    uint64
}

// Tracker tells whether a completed request still matches the current anchor.
// A response is current when its anchor is the latest one issued and no newer
// request for the same anchor has been applied.
type Tracker struct {
	sync.Mutex
	anchor  string
	seq     uint64
	applied uint64
}

// Issue records anchor as current and returns the request ticket
func (t *Tracker) Issue(anchor string) Ticket {
	t.Lock()
	defer t.Unlock()

	t.seq++
	t.anchor = anchor
	return Ticket{Anchor: anchor, Seq: t.seq}
}

// Current reports whether a response for ticket may still be applied
func (t *Tracker) Current(ticket Ticket) bool {
	t.Lock()
	defer t.Unlock()
	return ticket.Anchor == t.anchor && ticket.Seq > t.applied
}

// Applied marks ticket as applied so that older responses become stale
func (t *Tracker) Applied(ticket Ticket) {
	t.Lock()
	defer t.Unlock()
	if ticket.Seq > t.applied {
		t.applied = ticket.Seq
	}
}

// Anchor returns the latest issued anchor
func (t *Tracker) Anchor() string {
	t.Lock()
	defer t.Unlock()
	return t.anchor
}
