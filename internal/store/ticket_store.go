package store

import (
	"errors"
	"fmt"

	"ticketdesk-gateway/internal/models"

	"gorm.io/gorm"
)

// TicketStore wraps all ticket persistence. Every query filters by tenant ID;
// tenant isolation is enforced here by construction, not by a separate layer.
type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db}
}

// withAssociations preloads the payload shape every resolved ticket carries:
// the contact with its extra info, tags and wallet users (id/name only), and
// the owning user (id/name only).
func (s *TicketStore) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Contact").
		Preload("Contact.ExtraInfo").
		Preload("Contact.Tags").
		Preload("Contact.Wallets", func(db *gorm.DB) *gorm.DB {
			return db.Select("users.id", "users.name")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}

// FindActive returns the open or pending ticket for the contact, or nil when
// none exists.
func (s *TicketStore) FindActive(tenantID, contactID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.withAssociations(s.db).
		Where("status IN ?", []string{models.TicketStatusOpen, models.TicketStatusPending}).
		Where("tenant_id = ? AND contact_id = ?", tenantID, contactID).
		First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindLatestForGroup returns the most recently updated ticket for a group
// contact regardless of status, or nil when the group has no history.
func (s *TicketStore) FindLatestForGroup(tenantID, contactID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.withAssociations(s.db).
		Where("tenant_id = ? AND contact_id = ?", tenantID, contactID).
		Order("updated_at DESC").
		First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindLatestParked returns the most recently updated open/pending ticket
// owned by ownerID for the contact, or nil. Used only for the stale-owner
// sentinel reclamation rule.
func (s *TicketStore) FindLatestParked(tenantID, contactID, ownerID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.withAssociations(s.db).
		Where("status IN ?", []string{models.TicketStatusOpen, models.TicketStatusPending}).
		Where("tenant_id = ? AND contact_id = ? AND user_id = ?", tenantID, contactID, ownerID).
		Order("updated_at DESC").
		First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) Create(ticket *models.Ticket) error {
	return s.db.Create(ticket).Error
}

// SetUnread updates only the unread counter; status and owner are untouched.
func (s *TicketStore) SetUnread(ticket *models.Ticket, unread int) error {
	if err := s.db.Model(ticket).Update("unread_messages", unread).Error; err != nil {
		return err
	}
	ticket.UnreadMessages = unread
	return nil
}

// Reclaim returns a ticket to the unassigned queue: status becomes pending,
// the owner is cleared, and the unread counter is set.
func (s *TicketStore) Reclaim(ticket *models.Ticket, unread int) error {
	err := s.db.Model(ticket).Updates(map[string]interface{}{
		"status":          models.TicketStatusPending,
		"user_id":         nil,
		"unread_messages": unread,
	}).Error
	if err != nil {
		return err
	}
	ticket.Status = models.TicketStatusPending
	ticket.UserID = nil
	ticket.User = nil
	ticket.UnreadMessages = unread
	return nil
}

// Show loads a ticket with its full association payload. Unlike the Find
// methods it fails when the ticket does not exist.
func (s *TicketStore) Show(tenantID, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.withAssociations(s.db).
		Where("tenant_id = ?", tenantID).
		First(&ticket, id).Error
	if err != nil {
		return nil, fmt.Errorf("show ticket %d: %w", id, err)
	}
	return &ticket, nil
}

// List returns the tenant's tickets, optionally filtered by status, newest
// activity first.
func (s *TicketStore) List(tenantID uint, status string) ([]models.Ticket, error) {
	query := s.withAssociations(s.db).Where("tenant_id = ?", tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var tickets []models.Ticket
	if err := query.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// LogCreated records the audit entry for a freshly created ticket.
func (s *TicketStore) LogCreated(ticketID uint) error {
	return s.db.Create(&models.TicketLog{TicketID: ticketID, Type: "create"}).Error
}
