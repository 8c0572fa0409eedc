// Package journal keeps an in-memory record of sale attempts for the
// lifetime of the process.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one sale attempt.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Recipe  string    `json:"recipe"`
	Outcome string    `json:"outcome"`
	Missing string    `json:"missing,omitempty"`
	Price   int       `json:"price"`
	At      time.Time `json:"at"`
}

// Summary aggregates the journal.
type Summary struct {
	Attempts int `json:"attempts"`
	Sold     int `json:"sold"`
	Revenue  int `json:"revenue"`
}

// SoldOutcome is the outcome label that counts toward Summary.Sold and Revenue.
const SoldOutcome = "sold"

// Journal is not safe for concurrent use; the machine service owns it.
type Journal struct {
	entries []Entry
	limit   int
	now     func() time.Time
	summary Summary
}

// New creates a journal that keeps at most limit entries. A limit <= 0 keeps everything.
// The summary always covers every recorded attempt.
func New(limit int) *Journal {
	return &Journal{limit: limit, now: time.Now}
}

// Record stamps the entry with an ID and time and stores it.
func (j *Journal) Record(e Entry) Entry {
	e.ID = uuid.New()
	e.At = j.now().UTC()
	j.entries = append(j.entries, e)
	if j.limit > 0 && len(j.entries) > j.limit {
		j.entries = append([]Entry(nil), j.entries[len(j.entries)-j.limit:]...)
	}

	j.summary.Attempts++
	if e.Outcome == SoldOutcome {
		j.summary.Sold++
		j.summary.Revenue += e.Price
	}
	return e
}

// List returns a copy of the retained entries, newest first.
func (j *Journal) List() []Entry {
	out := make([]Entry, len(j.entries))
	for i, e := range j.entries {
		out[len(j.entries)-1-i] = e
	}
	return out
}

// Summary returns totals over every recorded attempt.
func (j *Journal) Summary() Summary {
	return j.summary
}
