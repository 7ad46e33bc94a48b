package webhook

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"ticketdesk-gateway/internal/config"
	"ticketdesk-gateway/internal/database"
	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"
	"ticketdesk-gateway/internal/ticket"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopNotifier struct{}

func (noopNotifier) PublishTicket(uint, *models.Ticket) {}

func newTestHandler(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	cfg := &config.Config{VerifyToken: "secret", StaleOwnerSentinelID: 1212}
	resolver := ticket.NewResolver(
		store.NewTicketStore(db),
		store.NewCampaignContactStore(db),
		noopNotifier{},
		nil, // no welcome bot in webhook tests
		cfg.StaleOwnerSentinelID,
	)
	handler := NewHandler(cfg, store.NewChannelStore(db), store.NewContactStore(db), resolver)

	r := gin.New()
	r.GET("/webhook", handler.VerifyWebhook)
	r.POST("/webhook", handler.HandleMessage)
	return r, db
}

func inboundPayload(phoneNumberID, from, messageID string) string {
	return fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "551140000000", "phone_number_id": %q},
					"contacts": [{"wa_id": %q, "profile": {"name": "Eve"}}],
					"messages": [{"from": %q, "id": %q, "timestamp": "1700000000", "type": "text", "text": {"body": "hello"}}]
				}
			}]
		}]
	}`, phoneNumberID, from, from, messageID)
}

func TestVerifyWebhook(t *testing.T) {
	r, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "12345" {
		t.Errorf("expected challenge echo, got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a bad token, got %d", w.Code)
	}
}

func TestHandleMessageCreatesTicket(t *testing.T) {
	r, db := newTestHandler(t)

	channel := &models.Channel{TenantID: 3, PhoneNumberID: "111222333"}
	if err := db.Create(channel).Error; err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(inboundPayload("111222333", "5511999990040", "wamid.IN1")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var contact models.Contact
	if err := db.Where("tenant_id = ? AND number = ?", 3, "5511999990040").First(&contact).Error; err != nil {
		t.Fatalf("expected contact to be upserted: %v", err)
	}
	if contact.Name != "Eve" {
		t.Errorf("expected profile name, got %q", contact.Name)
	}

	var tickets []models.Ticket
	if err := db.Where("tenant_id = ?", 3).Find(&tickets).Error; err != nil {
		t.Fatal(err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].ContactID != contact.ID || tickets[0].WhatsappID != channel.ID {
		t.Errorf("ticket not linked correctly: %+v", tickets[0])
	}
	if tickets[0].UnreadMessages != 1 {
		t.Errorf("expected 1 unread message, got %d", tickets[0].UnreadMessages)
	}
}

func TestHandleMessageUnknownChannelIsIgnored(t *testing.T) {
	r, db := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(inboundPayload("999999999", "5511999990041", "wamid.IN2")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Unknown endpoints are acknowledged but produce nothing.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var count int64
	if err := db.Model(&models.Ticket{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no tickets, got %d", count)
	}
}

func TestHandleMessageMalformedBody(t *testing.T) {
	r, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
