package listing

import "github.com/oms-support/ticketdesk/internal/model"

// PageSize is fixed for every paged ticket view.
const PageSize = 20

// Page is one visible slice of an ordered collection plus the navigation
// metadata the dashboard renders.
type Page struct {
	Items      []model.Ticket `json:"items"`
	Number     int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalItems int            `json:"total_items"`
	// Start and End are 1-based display indexes ("Showing 21 to 40 of 45").
	Start int `json:"start"`
	End   int `json:"end"`
}

// TotalPages returns ceil(n / PageSize). An empty collection has zero pages.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// ClampPage forces a requested page into [1, totalPages]. Page 1 is the floor
// even when there are no pages, so navigation on an empty list stays sane.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices the ordered collection into the requested page. Out-of-range
// requests clamp instead of failing.
func Paginate(tickets []model.Ticket, page int) Page {
	total := TotalPages(len(tickets))
	page = ClampPage(page, total)

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(tickets) {
		start = len(tickets)
	}
	if end > len(tickets) {
		end = len(tickets)
	}

	p := Page{
		Items:      tickets[start:end],
		Number:     page,
		TotalPages: total,
		TotalItems: len(tickets),
	}
	if len(p.Items) > 0 {
		p.Start = start + 1
		p.End = end
	}
	return p
}
