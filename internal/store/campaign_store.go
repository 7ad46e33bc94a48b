package store

import (
	"errors"

	"ticketdesk-gateway/internal/models"

	"gorm.io/gorm"
)

type CampaignStore struct {
	db *gorm.DB
}

func NewCampaignStore(db *gorm.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

func (s *CampaignStore) Create(campaign *models.Campaign) error {
	return s.db.Create(campaign).Error
}

func (s *CampaignStore) Get(tenantID, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.Where("tenant_id = ?", tenantID).First(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListWithContactCounts returns the tenant's campaigns ordered by start date,
// each annotated with its recipient count.
func (s *CampaignStore) ListWithContactCounts(tenantID uint) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := s.db.Where("tenant_id = ?", tenantID).Order("start ASC").Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		var count int64
		err := s.db.Model(&models.CampaignContact{}).
			Where("campaign_id = ?", campaigns[i].ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		campaigns[i].ContactsCount = count
	}
	return campaigns, nil
}

// Update rewrites the editable campaign fields; status and timestamps are
// managed elsewhere.
func (s *CampaignStore) Update(campaign *models.Campaign) error {
	return s.db.Model(campaign).
		Where("tenant_id = ?", campaign.TenantID).
		Select("name", "start", "end", "message1", "message2", "message3", "message4",
			"media_url", "user_id", "whatsapp_id").
		Updates(campaign).Error
}

func (s *CampaignStore) SetStatus(campaign *models.Campaign, status string) error {
	if err := s.db.Model(campaign).Update("status", status).Error; err != nil {
		return err
	}
	campaign.Status = status
	return nil
}

func (s *CampaignStore) Delete(tenantID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.CampaignContact{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ?", tenantID).Delete(&models.Campaign{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CampaignContactStore persists campaign/recipient pairings and the message
// IDs assigned at send time.
type CampaignContactStore struct {
	db *gorm.DB
}

func NewCampaignContactStore(db *gorm.DB) *CampaignContactStore {
	return &CampaignContactStore{db: db}
}

func (s *CampaignContactStore) Create(cc *models.CampaignContact) error {
	return s.db.Create(cc).Error
}

// FindByMessage returns the campaign-contact row matching a contact and a
// channel message ID, or nil. A hit means the message was a campaign send.
func (s *CampaignContactStore) FindByMessage(contactID uint, messageID string) (*models.CampaignContact, error) {
	var cc models.CampaignContact
	err := s.db.
		Where("contact_id = ? AND message_id = ?", contactID, messageID).
		First(&cc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (s *CampaignContactStore) ListByCampaign(campaignID uint) ([]models.CampaignContact, error) {
	var ccs []models.CampaignContact
	if err := s.db.Where("campaign_id = ?", campaignID).Find(&ccs).Error; err != nil {
		return nil, err
	}
	return ccs, nil
}

// MarkSent records the channel-assigned message ID after a successful send.
func (s *CampaignContactStore) MarkSent(cc *models.CampaignContact, messageID, body string) error {
	err := s.db.Model(cc).Updates(map[string]interface{}{
		"message_id": messageID,
		"body":       body,
	}).Error
	if err != nil {
		return err
	}
	cc.MessageID = messageID
	cc.Body = body
	return nil
}
