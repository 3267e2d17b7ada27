package listing

import (
	"testing"
	"time"

	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTicket(id, operator string, p model.Priority, s model.Status, start time.Time) model.Ticket {
	return model.Ticket{
		ID:        id,
		Operator:  operator,
		Priority:  p,
		Status:    s,
		StartTime: start,
	}
}

func sampleTickets() []model.Ticket {
	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	return []model.Ticket{
		mkTicket("t1", "Bitel", model.PriorityUrgent, model.StatusInprocess, base),
		mkTicket("t2", "Movitel", model.PriorityNormal, model.StatusAccepted, base.AddDate(0, 0, 1)),
		mkTicket("t3", "Bitel", model.PriorityNormal, model.StatusClosed, base.AddDate(0, 0, 2)),
		mkTicket("t4", "Halotel", model.PriorityUrgent, model.StatusWithdrawn, base.AddDate(0, 0, 3)),
	}
}

func ids(tickets []model.Ticket) []string {
	out := make([]string, len(tickets))
	for i := range tickets {
		out[i] = tickets[i].ID
	}
	return out
}

func TestFilterEmptyCriteriaMatchesEverything(t *testing.T) {
	in := sampleTickets()
	out := NewFilter(Criteria{}).Apply(in)
	assert.Equal(t, ids(in), ids(out))
}

func TestFilterByOperator(t *testing.T) {
	out := NewFilter(Criteria{Operator: "Bitel"}).Apply(sampleTickets())
	assert.Equal(t, []string{"t1", "t3"}, ids(out))
}

func TestFilterCriteriaAreConjunctive(t *testing.T) {
	out := NewFilter(Criteria{Operator: "Bitel", Priority: "Urgent"}).Apply(sampleTickets())
	assert.Equal(t, []string{"t1"}, ids(out))
}

func TestFilterTimeBoundsInclusive(t *testing.T) {
	out := NewFilter(Criteria{
		StartFrom: "2024-10-02T12:00",
		StartTo:   "2024-10-03T12:00",
	}).Apply(sampleTickets())
	assert.Equal(t, []string{"t2", "t3"}, ids(out))
}

func TestFilterMalformedBoundMatchesNothing(t *testing.T) {
	in := sampleTickets()
	out := NewFilter(Criteria{StartFrom: "not-a-date"}).Apply(in)
	assert.Empty(t, out)

	// The other criteria do not rescue a broken bound.
	out = NewFilter(Criteria{Operator: "Bitel", StartTo: "13/13/2024"}).Apply(in)
	assert.Empty(t, out)
}

func TestFilterIsIdempotent(t *testing.T) {
	f := NewFilter(Criteria{Status: "Inprocess"})
	once := f.Apply(sampleTickets())
	twice := f.Apply(once)
	assert.Equal(t, ids(once), ids(twice))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	in := sampleTickets()
	// Reverse the input and expect reversed output, not re-sorted output.
	rev := make([]model.Ticket, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		rev = append(rev, in[i])
	}
	out := NewFilter(Criteria{Operator: "Bitel"}).Apply(rev)
	assert.Equal(t, []string{"t3", "t1"}, ids(out))
}

func TestCriteriaActive(t *testing.T) {
	assert.False(t, Criteria{}.Active())
	assert.True(t, Criteria{Status: "Closed"}.Active())
}

func TestParseBoundLayouts(t *testing.T) {
	for _, s := range []string{"2024-10-01T12:00:00Z", "2024-10-01T12:00", "2024-10-01"} {
		_, ok := parseBound(s)
		require.True(t, ok, s)
	}
	_, ok := parseBound("October 1st")
	require.False(t, ok)
}
