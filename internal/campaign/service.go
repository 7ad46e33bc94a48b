package campaign

import (
	"fmt"
	"log"
	"time"

	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"

	"github.com/google/uuid"
)

// Sender is the outbound channel client.
type Sender interface {
	SendMessage(to, body string) (string, error)
}

// Service manages campaign lifecycle: creation with a recipient list,
// listing with recipient counts, and the background send loop. The send
// loop is a plain sequential walk with a fixed inter-send delay; proper
// scheduling and throttling live elsewhere.
type Service struct {
	campaigns        *store.CampaignStore
	campaignContacts *store.CampaignContactStore
	contacts         *store.ContactStore
	client           Sender
	sendDelay        time.Duration
}

func NewService(campaigns *store.CampaignStore, campaignContacts *store.CampaignContactStore, contacts *store.ContactStore, client Sender, sendDelay time.Duration) *Service {
	return &Service{
		campaigns:        campaigns,
		campaignContacts: campaignContacts,
		contacts:         contacts,
		client:           client,
		sendDelay:        sendDelay,
	}
}

// Create stores the campaign and one campaign-contact row per recipient.
// Message IDs stay empty until the send loop fills them in.
func (s *Service) Create(campaign *models.Campaign, contactIDs []uint) error {
	if err := s.campaigns.Create(campaign); err != nil {
		return err
	}
	for _, contactID := range contactIDs {
		cc := &models.CampaignContact{
			CampaignID:    campaign.ID,
			ContactID:     contactID,
			MessageRandom: uuid.NewString(),
		}
		if err := s.campaignContacts.Create(cc); err != nil {
			return fmt.Errorf("adding contact %d to campaign %d: %w", contactID, campaign.ID, err)
		}
	}
	return nil
}

func (s *Service) List(tenantID uint) ([]models.Campaign, error) {
	return s.campaigns.ListWithContactCounts(tenantID)
}

func (s *Service) Update(campaign *models.Campaign) error {
	return s.campaigns.Update(campaign)
}

func (s *Service) Delete(tenantID, id uint) error {
	return s.campaigns.Delete(tenantID, id)
}

// Start transitions the campaign to scheduled and launches the background
// send loop.
func (s *Service) Start(tenantID, id uint) error {
	campaign, err := s.campaigns.Get(tenantID, id)
	if err != nil {
		return err
	}
	if campaign.Status == models.CampaignStatusProcessing {
		return fmt.Errorf("campaign %d is already running", id)
	}
	if err := s.campaigns.SetStatus(campaign, models.CampaignStatusScheduled); err != nil {
		return err
	}

	go func() {
		if err := s.run(campaign); err != nil {
			log.Printf("Error running campaign %d: %v", campaign.ID, err)
		}
	}()

	return nil
}

// run walks the recipient list, rotating over the four message variants,
// and records the channel message ID of every send. Those IDs are what the
// ticket resolver later matches to suppress campaign echoes.
func (s *Service) run(campaign *models.Campaign) error {
	if err := s.campaigns.SetStatus(campaign, models.CampaignStatusProcessing); err != nil {
		return err
	}

	recipients, err := s.campaignContacts.ListByCampaign(campaign.ID)
	if err != nil {
		return err
	}

	messages := []string{campaign.Message1, campaign.Message2, campaign.Message3, campaign.Message4}

	for i := range recipients {
		cc := &recipients[i]
		if cc.MessageID != "" {
			continue // already sent on a previous run
		}

		contact, err := s.contacts.Get(campaign.TenantID, cc.ContactID)
		if err != nil {
			log.Printf("Campaign %d: skipping contact %d: %v", campaign.ID, cc.ContactID, err)
			continue
		}

		body := messages[i%len(messages)]
		messageID, err := s.client.SendMessage(contact.Number, body)
		if err != nil {
			log.Printf("Campaign %d: send to %s failed: %v", campaign.ID, contact.Number, err)
			continue
		}

		if err := s.campaignContacts.MarkSent(cc, messageID, body); err != nil {
			return fmt.Errorf("recording send for contact %d: %w", cc.ContactID, err)
		}

		if s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}
	}

	return s.campaigns.SetStatus(campaign, models.CampaignStatusFinished)
}
