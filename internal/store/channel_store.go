package store

import (
	"errors"

	"ticketdesk-gateway/internal/models"

	"gorm.io/gorm"
)

type ChannelStore struct {
	db *gorm.DB
}

func NewChannelStore(db *gorm.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

// FindByPhoneNumberID maps a Cloud API phone number ID to the connected
// channel (and thereby the tenant), or nil for unknown endpoints.
func (s *ChannelStore) FindByPhoneNumberID(phoneNumberID string) (*models.Channel, error) {
	var channel models.Channel
	err := s.db.Where("phone_number_id = ?", phoneNumberID).First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}
