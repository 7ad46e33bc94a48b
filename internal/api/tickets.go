package api

import (
	"net/http"
	"strconv"

	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"
	"ticketdesk-gateway/internal/ticket"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	Tickets  *store.TicketStore
	Contacts *store.ContactStore
	Resolver *ticket.Resolver
}

func NewTicketHandler(tickets *store.TicketStore, contacts *store.ContactStore, resolver *ticket.Resolver) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Contacts: contacts, Resolver: resolver}
}

// GetTickets lists a tenant's tickets, optionally filtered by status.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	tickets, err := h.Tickets.List(tenantID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if tickets == nil {
		tickets = []models.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicket returns one ticket with its full association payload.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	t, err := h.Tickets.Show(tenantID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

type ResolveRequest struct {
	TenantID       uint  `json:"tenant_id" binding:"required"`
	ContactID      uint  `json:"contact_id" binding:"required"`
	WhatsappID     uint  `json:"whatsapp_id" binding:"required"`
	UnreadMessages int   `json:"unread_messages"`
	GroupContactID *uint `json:"group_contact_id"`
	IsSync         bool  `json:"is_sync"`
}

// ResolveTicket drives the resolution engine directly, used for manual
// ticket opening and history synchronization.
func (h *TicketHandler) ResolveTicket(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.Contacts.Get(req.TenantID, req.ContactID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	var groupContact *models.Contact
	if req.GroupContactID != nil {
		groupContact, err = h.Contacts.Get(req.TenantID, *req.GroupContactID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group contact not found"})
			return
		}
	}

	resolution, err := h.Resolver.Resolve(ticket.Request{
		Contact:        contact,
		WhatsappID:     req.WhatsappID,
		UnreadMessages: req.UnreadMessages,
		TenantID:       req.TenantID,
		GroupContact:   groupContact,
		IsSync:         req.IsSync,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if resolution.CampaignEcho {
		c.JSON(http.StatusOK, gin.H{"campaign_echo": true})
		return
	}
	c.JSON(http.StatusOK, resolution.Ticket)
}

// tenantParam reads the mandatory tenantId query parameter.
func tenantParam(c *gin.Context) (uint, bool) {
	tenantID, err := strconv.ParseUint(c.Query("tenantId"), 10, 32)
	if err != nil || tenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenantId query parameter required"})
		return 0, false
	}
	return uint(tenantID), true
}
