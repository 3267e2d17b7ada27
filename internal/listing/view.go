package listing

import "github.com/oms-support/ticketdesk/internal/model"

// Counts are the dashboard stat cards, computed over the filtered set.
type Counts struct {
	Total     int `json:"total"`
	Inprocess int `json:"inprocess"`
	Accepted  int `json:"accepted"`
	Closed    int `json:"closed"`
	Withdrawn int `json:"withdrawn"`
}

// View owns one fetched ticket collection and its processed (filtered +
// sorted) projection. Single-ticket mutations are patched into both copies
// without re-running the pipeline, so a row an admin just edited keeps its
// position until the next full refresh. The rendered order can therefore
// drift from a fresh sort; that staleness is accepted, not a defect.
type View struct {
	all     []model.Ticket
	visible []model.Ticket

	criteria Criteria
	page     int
}

// NewView builds a view over a freshly fetched collection with no filters.
func NewView(tickets []model.Ticket) *View {
	v := &View{page: 1}
	v.Refresh(tickets)
	return v
}

// Refresh replaces the backing collection with a fresh fetch, re-runs the
// pipeline under the current criteria and clamps the page to the new extent.
func (v *View) Refresh(tickets []model.Ticket) {
	v.all = tickets
	v.rebuild()
	v.page = ClampPage(v.page, TotalPages(len(v.visible)))
}

// SetCriteria re-filters and re-sorts, and always returns to page 1: a
// criteria change invalidates the reader's position, a sub-edit does not.
func (v *View) SetCriteria(c Criteria) {
	v.criteria = c
	v.rebuild()
	v.page = 1
}

func (v *View) rebuild() {
	v.visible = NewFilter(v.criteria).Apply(v.all)
	SortAdmin(v.visible)
}

// Patch applies the same field delta to the ticket in the full collection and
// in the processed projection, deliberately skipping the filter and sort
// stages. Reports whether the ticket was found at all.
func (v *View) Patch(id string, apply func(*model.Ticket)) bool {
	found := false
	for i := range v.all {
		if v.all[i].ID == id {
			apply(&v.all[i])
			found = true
			break
		}
	}
	for i := range v.visible {
		if v.visible[i].ID == id {
			apply(&v.visible[i])
			break
		}
	}
	return found
}

// Remove drops a deleted ticket from both copies and re-clamps the page.
func (v *View) Remove(id string) bool {
	found := false
	for i := range v.all {
		if v.all[i].ID == id {
			v.all = append(v.all[:i], v.all[i+1:]...)
			found = true
			break
		}
	}
	for i := range v.visible {
		if v.visible[i].ID == id {
			v.visible = append(v.visible[:i], v.visible[i+1:]...)
			break
		}
	}
	v.page = ClampPage(v.page, TotalPages(len(v.visible)))
	return found
}

// Page returns the current page. Items are copied out of the projection:
// callers hold pages past the view's lock scope, and a later Patch must not
// mutate rows a caller is still reading.
func (v *View) Page() Page {
	p := Paginate(v.visible, v.page)
	p.Items = append([]model.Ticket(nil), p.Items...)
	return p
}

// SetPage jumps to a page, clamped into range.
func (v *View) SetPage(n int) {
	v.page = ClampPage(n, TotalPages(len(v.visible)))
}

// Next advances one page; a no-op on the last page.
func (v *View) Next() { v.SetPage(v.page + 1) }

// Prev goes back one page; a no-op on page 1.
func (v *View) Prev() { v.SetPage(v.page - 1) }

// Criteria returns the active filter set.
func (v *View) Criteria() Criteria { return v.criteria }

// Len is the size of the filtered set; TotalLen the size of the full fetch.
func (v *View) Len() int      { return len(v.visible) }
func (v *View) TotalLen() int { return len(v.all) }

// Counts tallies the stat cards over the filtered set.
func (v *View) Counts() Counts {
	c := Counts{Total: len(v.visible)}
	for i := range v.visible {
		switch v.visible[i].Status {
		case model.StatusInprocess:
			c.Inprocess++
		case model.StatusAccepted:
			c.Accepted++
		case model.StatusClosed:
			c.Closed++
		case model.StatusWithdrawn:
			c.Withdrawn++
		}
	}
	return c
}
