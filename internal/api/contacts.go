package api

import (
	"net/http"
	"strconv"

	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	Contacts *store.ContactStore
}

func NewContactHandler(contacts *store.ContactStore) *ContactHandler {
	return &ContactHandler{Contacts: contacts}
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	contacts, err := h.Contacts.List(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Return empty array instead of null
	if contacts == nil {
		contacts = []models.Contact{}
	}
	c.JSON(http.StatusOK, contacts)
}

type CreateContactRequest struct {
	TenantID uint   `json:"tenant_id" binding:"required"`
	Number   string `json:"number" binding:"required"`
	Name     string `json:"name"`
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.Contacts.Upsert(req.TenantID, req.Number, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

type UpdateContactRequest struct {
	Name string `json:"name"`
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Contacts.Update(tenantID, uint(id), req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Contact updated"})
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	affected, err := h.Contacts.Delete(tenantID, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Contact deleted"})
}
