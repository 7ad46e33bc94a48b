package ticket

import (
	"fmt"
	"log"

	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"
)

// Notifier publishes tenant-scoped real-time events. Satisfied by the
// websocket hub.
type Notifier interface {
	PublishTicket(tenantID uint, ticket *models.Ticket)
}

// WelcomeBot sends the automated welcome response for a newly created
// ticket.
type WelcomeBot interface {
	TriggerWelcome(ticket *models.Ticket) error
}

// Request is one resolve event: an inbound or outbound message touching a
// contact.
type Request struct {
	Contact        *models.Contact
	WhatsappID     uint
	UnreadMessages int
	TenantID       uint
	GroupContact   *models.Contact
	Msg            *Message
	IsSync         bool
}

// Resolution is the outcome of a resolve call. Exactly one of two shapes:
// CampaignEcho true with no ticket, or a ticket (Created marks tickets
// minted by this call).
type Resolution struct {
	CampaignEcho bool
	Created      bool
	Ticket       *models.Ticket
}

// Resolver routes a message event to a ticket: it short-circuits campaign
// echoes, reuses or reclaims an existing ticket per the lookup policy, and
// otherwise creates one. Store failures propagate to the caller; the
// notification, audit log and welcome trigger are best-effort side effects.
type Resolver struct {
	tickets  *store.TicketStore
	filter   *CampaignMessageFilter
	lookup   *LookupPolicy
	notifier Notifier
	bot      WelcomeBot
}

func NewResolver(tickets *store.TicketStore, campaignContacts *store.CampaignContactStore, notifier Notifier, bot WelcomeBot, staleOwnerID uint) *Resolver {
	return &Resolver{
		tickets:  tickets,
		filter:   NewCampaignMessageFilter(campaignContacts),
		lookup:   NewLookupPolicy(tickets, staleOwnerID),
		notifier: notifier,
		bot:      bot,
	}
}

// Resolve attaches the event to an existing ticket or creates a new one.
// Concurrent calls for the same contact are not serialized here; the
// at-most-one-active-ticket invariant is best effort under races (see
// DESIGN.md).
func (r *Resolver) Resolve(req Request) (Resolution, error) {
	if req.Contact == nil {
		return Resolution{}, fmt.Errorf("resolve: contact is required")
	}

	echo, err := r.filter.IsCampaignEcho(req.Contact.ID, req.Msg)
	if err != nil {
		return Resolution{}, err
	}
	if echo {
		return Resolution{CampaignEcho: true}, nil
	}

	contactID := req.Contact.ID
	isGroup := false
	if req.GroupContact != nil {
		contactID = req.GroupContact.ID
		isGroup = true
	}

	ticket, err := r.lookup.Find(req.TenantID, contactID, isGroup, req.UnreadMessages)
	if err != nil {
		return Resolution{}, err
	}
	if ticket != nil {
		r.notifier.PublishTicket(req.TenantID, ticket)
		return Resolution{Ticket: ticket}, nil
	}

	created := &models.Ticket{
		TenantID:       req.TenantID,
		ContactID:      contactID,
		WhatsappID:     req.WhatsappID,
		Status:         models.TicketStatusPending,
		IsGroup:        isGroup,
		UnreadMessages: req.UnreadMessages,
	}
	if err := r.tickets.Create(created); err != nil {
		return Resolution{}, err
	}

	if err := r.tickets.LogCreated(created.ID); err != nil {
		log.Printf("Error recording create log for ticket %d: %v", created.ID, err)
	}

	// Self-originated messages are the tenant's own outbound traffic and do
	// not get a welcome response, unless the event is a sync replay.
	selfOriginated := req.Msg != nil && req.Msg.FromMe
	if r.bot != nil && (!selfOriginated || req.IsSync) {
		if err := r.bot.TriggerWelcome(created); err != nil {
			log.Printf("Error triggering welcome bot for ticket %d: %v", created.ID, err)
		}
	}

	ticket, err = r.tickets.Show(req.TenantID, created.ID)
	if err != nil {
		return Resolution{}, err
	}
	ticket.IsCreated = true

	r.notifier.PublishTicket(req.TenantID, ticket)
	return Resolution{Created: true, Ticket: ticket}, nil
}
