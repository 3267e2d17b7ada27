package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/oms-support/ticketdesk/internal/model"
	"gorm.io/gorm"
)

type AccepterService struct {
	db *gorm.DB
}

func NewAccepterService(db *gorm.DB) *AccepterService {
	return &AccepterService{db: db}
}

// List returns the staff directory ordered by name.
func (s *AccepterService) List(ctx context.Context) ([]model.Accepter, error) {
	var items []model.Accepter
	err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// Create adds a staff member; used by the seed command.
func (s *AccepterService) Create(ctx context.Context, a *model.Accepter) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(a).Error
}
