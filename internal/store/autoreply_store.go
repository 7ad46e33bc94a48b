package store

import (
	"errors"

	"ticketdesk-gateway/internal/models"

	"gorm.io/gorm"
)

type AutoReplyStore struct {
	db *gorm.DB
}

func NewAutoReplyStore(db *gorm.DB) *AutoReplyStore {
	return &AutoReplyStore{db: db}
}

// FindWelcome returns the tenant's enabled welcome rule, or nil when the
// tenant has none configured.
func (s *AutoReplyStore) FindWelcome(tenantID uint) (*models.AutoReply, error) {
	var rule models.AutoReply
	err := s.db.
		Where("tenant_id = ? AND trigger_type = ? AND enabled = ?", tenantID, "welcome", true).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
