package webhook

import (
	"log"
	"net/http"

	"ticketdesk-gateway/internal/config"
	"ticketdesk-gateway/internal/store"
	"ticketdesk-gateway/internal/ticket"

	"github.com/gin-gonic/gin"
)

// Handler receives Cloud API webhook deliveries and routes each inbound
// message through the ticket resolver.
type Handler struct {
	Config   *config.Config
	Channels *store.ChannelStore
	Contacts *store.ContactStore
	Resolver *ticket.Resolver
}

func NewHandler(cfg *config.Config, channels *store.ChannelStore, contacts *store.ContactStore, resolver *ticket.Resolver) *Handler {
	return &Handler{
		Config:   cfg,
		Channels: channels,
		Contacts: contacts,
		Resolver: resolver,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == h.Config.VerifyToken {
			log.Println("Webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

func (h *Handler) HandleMessage(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			channel, err := h.Channels.FindByPhoneNumberID(value.Metadata.PhoneNumberID)
			if err != nil {
				log.Printf("Error resolving channel %s: %v", value.Metadata.PhoneNumberID, err)
				continue
			}
			if channel == nil {
				log.Printf("Webhook for unknown phone number ID %s, skipping", value.Metadata.PhoneNumberID)
				continue
			}

			for _, message := range value.Messages {
				name := message.From
				for _, wc := range value.Contacts {
					if wc.WaID == message.From && wc.Profile.Name != "" {
						name = wc.Profile.Name
					}
				}
				h.processMessage(channel.TenantID, channel.ID, message, name)
			}
		}
	}

	c.Status(http.StatusOK)
}

func (h *Handler) processMessage(tenantID, channelID uint, message InboundMessage, name string) {
	contact, err := h.Contacts.Upsert(tenantID, message.From, name)
	if err != nil {
		log.Printf("Error saving contact %s: %v", message.From, err)
		return
	}

	unread := 1
	if message.FromMe {
		unread = 0
	}

	resolution, err := h.Resolver.Resolve(ticket.Request{
		Contact:        contact,
		WhatsappID:     channelID,
		UnreadMessages: unread,
		TenantID:       tenantID,
		Msg:            &ticket.Message{ID: message.ID, FromMe: message.FromMe},
	})
	if err != nil {
		log.Printf("Error resolving ticket for contact %s: %v", message.From, err)
		return
	}

	switch {
	case resolution.CampaignEcho:
		log.Printf("Campaign echo from %s, no ticket touched", message.From)
	case resolution.Created:
		log.Printf("Created ticket %d for contact %s", resolution.Ticket.ID, message.From)
	default:
		log.Printf("Routed message from %s to ticket %d", message.From, resolution.Ticket.ID)
	}
}
