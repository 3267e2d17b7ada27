package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oms-support/ticketdesk/internal/errs"
	"github.com/oms-support/ticketdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// Create validates the submission, derives the country from the operator,
// assigns the id and human-readable code and stores the ticket as Inprocess.
func (s *TicketService) Create(ctx context.Context, t *model.Ticket) error {
	country, ok := model.CountryFor(t.Operator)
	if !ok {
		return errs.ErrUnknownOperator
	}
	if !model.ValidPriority(t.Priority) {
		return errs.ErrInvalidPriority
	}
	t.ID = uuid.NewString()
	t.Country = country
	t.Code = model.NewCode(country, time.Now())
	t.Status = model.StatusInprocess
	t.EndTime = nil
	t.AccepterID = nil
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).Preload("Accepter").First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByCreator returns one submitter's tickets in store order, newest first.
// The admin comparator is deliberately not applied here.
func (s *TicketService) ListByCreator(ctx context.Context, creator string) ([]model.Ticket, error) {
	var items []model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Accepter").
		Where("creator = ?", creator).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ListAll returns every ticket, newest first.
func (s *TicketService) ListAll(ctx context.Context) ([]model.Ticket, error) {
	var items []model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Accepter").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *TicketService) save(ctx context.Context, t *model.Ticket) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

// UpdateStatus applies a workflow transition:
//   - to Closed: end_time is stamped, an existing accepter is preserved;
//   - to Accepted: only valid when an accepter is already assigned
//     (use AssignAccepter otherwise);
//   - to Inprocess or Withdrawn: the accepter reference is cleared.
//
// Reopening a closed ticket does not clear its end_time; the stale value is a
// known trait of the workflow.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Ticket, error) {
	if !model.ValidStatus(status) {
		return nil, errs.ErrInvalidStatus
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch status {
	case model.StatusClosed:
		now := time.Now()
		t.EndTime = &now
	case model.StatusAccepted:
		if t.AccepterID == nil {
			return nil, errs.ErrAccepterRequired
		}
	default:
		t.AccepterID = nil
		t.Accepter = nil
	}
	t.Status = status
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AssignAccepter hands the ticket to a staff member and moves it to Accepted
// in one step.
func (s *TicketService) AssignAccepter(ctx context.Context, id, accepterID string) (*model.Ticket, error) {
	var a model.Accepter
	if err := s.db.WithContext(ctx).First(&a, "id = ?", accepterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccepterNotFound
		}
		return nil, err
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.AccepterID = &a.ID
	t.Accepter = &a
	t.Status = model.StatusAccepted
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Withdraw is the creator-initiated soft cancel. Not a deletion.
func (s *TicketService) Withdraw(ctx context.Context, id, creator string) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Creator != creator {
		return nil, errs.ErrNotCreator
	}
	t.Status = model.StatusWithdrawn
	t.AccepterID = nil
	t.Accepter = nil
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a ticket permanently. Admin only; stored attachments are
// not garbage-collected.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Ticket{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrTicketNotFound
	}
	return nil
}

// SaveResponse upserts the accepter's progress response. Writing always
// resets the read flag; created_at is kept from the first write.
func (s *TicketService) SaveResponse(ctx context.Context, id, text string, images, files []string) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if t.ResponseCreatedAt == nil {
		t.ResponseCreatedAt = &now
	}
	t.Response = &text
	t.ResponseUpdatedAt = &now
	t.ResponseImages = images
	t.ResponseFiles = files
	t.ResponseRead = false
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteResponse clears the response sub-record entirely.
func (s *TicketService) DeleteResponse(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.HasResponse() {
		return nil, errs.ErrNoResponse
	}
	t.Response = nil
	t.ResponseCreatedAt = nil
	t.ResponseUpdatedAt = nil
	t.ResponseImages = nil
	t.ResponseFiles = nil
	t.ResponseRead = false
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveSolution upserts the final resolution record, same shape as the
// response but tracked separately.
func (s *TicketService) SaveSolution(ctx context.Context, id, text string, images, files []string) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if t.SolutionCreatedAt == nil {
		t.SolutionCreatedAt = &now
	}
	t.Solution = &text
	t.SolutionUpdatedAt = &now
	t.SolutionImages = images
	t.SolutionFiles = files
	t.SolutionRead = false
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TicketService) DeleteSolution(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.HasSolution() {
		return nil, errs.ErrNoSolution
	}
	t.Solution = nil
	t.SolutionCreatedAt = nil
	t.SolutionUpdatedAt = nil
	t.SolutionImages = nil
	t.SolutionFiles = nil
	t.SolutionRead = false
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkResponseRead flips the read flag once the creator opens the response.
func (s *TicketService) MarkResponseRead(ctx context.Context, id string) error {
	return s.markRead(ctx, id, "response_read")
}

// MarkSolutionRead flips the read flag once the creator opens the solution.
func (s *TicketService) MarkSolutionRead(ctx context.Context, id string) error {
	return s.markRead(ctx, id, "solution_read")
}

func (s *TicketService) markRead(ctx context.Context, id, column string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ?", id).
		Update(column, true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrTicketNotFound
	}
	return nil
}
