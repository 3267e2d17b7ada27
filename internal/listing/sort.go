package listing

import (
	"sort"

	"github.com/oms-support/ticketdesk/internal/model"
)

// statusRank orders the admin review queue: open work first, closed last,
// anything unrecognized (Withdrawn included) after that.
func statusRank(s model.Status) int {
	switch s {
	case model.StatusInprocess:
		return 0
	case model.StatusAccepted:
		return 1
	case model.StatusClosed:
		return 2
	}
	return 3
}

func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityUrgent:
		return 0
	case model.PriorityNormal:
		return 1
	}
	return 2
}

// Less is the admin-view comparator: status, then priority, then newest
// created_at first.
func Less(a, b *model.Ticket) bool {
	if sa, sb := statusRank(a.Status), statusRank(b.Status); sa != sb {
		return sa < sb
	}
	if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
		return pa < pb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// SortAdmin orders tickets for administrative review, in place. The sort is
// stable; created_at is unique enough in practice that ties below it do not
// matter.
func SortAdmin(tickets []model.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return Less(&tickets[i], &tickets[j])
	})
}
