// Package listing implements the ticket list pipeline used by the admin
// dashboard: filter, sort, paginate, plus the patch-in-place view that keeps
// row positions stable across single-ticket edits.
package listing

import (
	"time"

	"github.com/oms-support/ticketdesk/internal/model"
)

// Criteria is one filter set. An empty field matches everything for that
// column; the time bounds are inclusive and arrive as strings straight from
// the query layer.
type Criteria struct {
	Operator  string `form:"operator" json:"operator"`
	Priority  string `form:"priority" json:"priority"`
	Status    string `form:"status" json:"status"`
	StartFrom string `form:"start_from" json:"start_from"`
	StartTo   string `form:"start_to" json:"start_to"`
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return c != Criteria{}
}

// timeLayouts accepted for the start-time bounds. The second form is what an
// HTML datetime-local input submits.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseBound(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter is a compiled Criteria. Compiling once keeps bound parsing out of
// the per-ticket predicate.
type Filter struct {
	criteria Criteria
	from, to time.Time
	hasFrom  bool
	hasTo    bool
	// A bound that is set but unparsable can never bracket a real start
	// time, so the whole predicate turns into "match nothing".
	invalid bool
}

// NewFilter compiles criteria into a reusable predicate.
func NewFilter(c Criteria) *Filter {
	f := &Filter{criteria: c}
	if c.StartFrom != "" {
		f.from, f.hasFrom = parseBound(c.StartFrom)
		f.invalid = f.invalid || !f.hasFrom
	}
	if c.StartTo != "" {
		f.to, f.hasTo = parseBound(c.StartTo)
		f.invalid = f.invalid || !f.hasTo
	}
	return f
}

// Match decides inclusion: every set criterion must hold.
func (f *Filter) Match(t *model.Ticket) bool {
	if f.invalid {
		return false
	}
	if f.criteria.Operator != "" && t.Operator != f.criteria.Operator {
		return false
	}
	if f.criteria.Priority != "" && string(t.Priority) != f.criteria.Priority {
		return false
	}
	if f.criteria.Status != "" && string(t.Status) != f.criteria.Status {
		return false
	}
	if f.hasFrom && t.StartTime.Before(f.from) {
		return false
	}
	if f.hasTo && t.StartTime.After(f.to) {
		return false
	}
	return true
}

// Apply returns the tickets matching the filter, preserving input order.
func (f *Filter) Apply(tickets []model.Ticket) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	for i := range tickets {
		if f.Match(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out
}
