package ticket

import (
	"ticketdesk-gateway/internal/store"
)

// Message is the channel identity of the raw message behind a resolve event.
type Message struct {
	ID     string
	FromMe bool
}

// CampaignMessageFilter detects campaign echoes: self-originated messages
// whose channel message ID matches a campaign send to the same contact.
// Without it every campaign blast would open a ticket per recipient.
type CampaignMessageFilter struct {
	campaignContacts *store.CampaignContactStore
}

func NewCampaignMessageFilter(campaignContacts *store.CampaignContactStore) *CampaignMessageFilter {
	return &CampaignMessageFilter{campaignContacts: campaignContacts}
}

// IsCampaignEcho reports whether the message is an artifact of an outbound
// campaign send. Messages that are absent or not self-originated are never
// echoes; the store is not consulted for them.
func (f *CampaignMessageFilter) IsCampaignEcho(contactID uint, msg *Message) (bool, error) {
	if msg == nil || !msg.FromMe {
		return false, nil
	}
	cc, err := f.campaignContacts.FindByMessage(contactID, msg.ID)
	if err != nil {
		return false, err
	}
	return cc != nil, nil
}
