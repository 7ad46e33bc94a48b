package store

import (
	"errors"

	"ticketdesk-gateway/internal/models"

	"gorm.io/gorm"
)

type ContactStore struct {
	db *gorm.DB
}

func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) Get(tenantID, id uint) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.
		Preload("ExtraInfo").
		Preload("Tags").
		Where("tenant_id = ?", tenantID).
		First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindByNumber returns the tenant's contact with the given number, or nil.
func (s *ContactStore) FindByNumber(tenantID uint, number string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Upsert finds the tenant's contact by number or creates it. An existing
// contact keeps its name unless it was empty.
func (s *ContactStore) Upsert(tenantID uint, number, name string) (*models.Contact, error) {
	contact, err := s.FindByNumber(tenantID, number)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		contact = &models.Contact{TenantID: tenantID, Number: number, Name: name}
		if err := s.db.Create(contact).Error; err != nil {
			return nil, err
		}
		return contact, nil
	}
	if contact.Name == "" && name != "" {
		if err := s.db.Model(contact).Update("name", name).Error; err != nil {
			return nil, err
		}
		contact.Name = name
	}
	return contact, nil
}

func (s *ContactStore) List(tenantID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.
		Preload("Tags").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *ContactStore) Update(tenantID, id uint, name string) error {
	return s.db.Model(&models.Contact{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("name", name).Error
}

func (s *ContactStore) Delete(tenantID, id uint) (int64, error) {
	result := s.db.Where("tenant_id = ?", tenantID).Delete(&models.Contact{}, id)
	return result.RowsAffected, result.Error
}
