package service

import (
	"context"
	"sync"
	"time"

	"github.com/oms-support/ticketdesk/internal/listing"
	"github.com/oms-support/ticketdesk/internal/model"
)

// Dashboard serves the admin review list from an in-memory listing.View.
// After a mutation the handlers patch the cached view in place instead of
// refetching, so the row an admin just edited keeps its position; the cache
// is rebuilt from the store once it ages past ttl or on an explicit refresh.
type Dashboard struct {
	tickets *TicketService
	ttl     time.Duration

	mu        sync.Mutex
	view      *listing.View
	fetchedAt time.Time
}

func NewDashboard(tickets *TicketService, ttl time.Duration) *Dashboard {
	return &Dashboard{tickets: tickets, ttl: ttl}
}

// Snapshot returns one dashboard page under the given criteria. A criteria
// change resets to page 1; page<=0 keeps the current page. refresh forces a
// refetch before processing.
func (d *Dashboard) Snapshot(ctx context.Context, c listing.Criteria, page int, refresh bool) (listing.Page, listing.Counts, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if refresh || d.view == nil || time.Since(d.fetchedAt) > d.ttl {
		all, err := d.tickets.ListAll(ctx)
		if err != nil {
			return listing.Page{}, listing.Counts{}, err
		}
		if d.view == nil {
			d.view = listing.NewView(all)
		} else {
			d.view.Refresh(all)
		}
		d.fetchedAt = time.Now()
	}

	if c != d.view.Criteria() {
		d.view.SetCriteria(c)
	} else if page > 0 {
		d.view.SetPage(page)
	}
	return d.view.Page(), d.view.Counts(), nil
}

// Patch applies a single-ticket delta to the cached view without re-sorting.
// No-op when nothing is cached yet.
func (d *Dashboard) Patch(id string, apply func(*model.Ticket)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view != nil {
		d.view.Patch(id, apply)
	}
}

// Remove drops a deleted ticket from the cached view.
func (d *Dashboard) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view != nil {
		d.view.Remove(id)
	}
}

// Invalidate forces the next Snapshot to refetch.
func (d *Dashboard) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchedAt = time.Time{}
}
