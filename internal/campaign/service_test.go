package campaign

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ticketdesk-gateway/internal/database"
	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to   string
	body string
}

func (f *fakeSender) SendMessage(to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return fmt.Sprintf("wamid.SENT%d", len(f.sent)), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeSender) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	sender := &fakeSender{}
	service := NewService(
		store.NewCampaignStore(db),
		store.NewCampaignContactStore(db),
		store.NewContactStore(db),
		sender,
		0, // no inter-send delay in tests
	)
	return service, db, sender
}

func seedContacts(t *testing.T, db *gorm.DB, tenantID uint, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		contact := &models.Contact{
			TenantID: tenantID,
			Name:     fmt.Sprintf("Contact %d", i+1),
			Number:   fmt.Sprintf("55119999%04d", i+1),
		}
		if err := db.Create(contact).Error; err != nil {
			t.Fatal(err)
		}
		ids = append(ids, contact.ID)
	}
	return ids
}

func testCampaign(tenantID uint) *models.Campaign {
	return &models.Campaign{
		TenantID: tenantID,
		Name:     "Spring Promo",
		Start:    time.Now(),
		End:      time.Now().Add(24 * time.Hour),
		Message1: "Hello!",
		Message2: "Hi there!",
		Message3: "Good day!",
		Message4: "Greetings!",
		UserID:   1,
		Status:   models.CampaignStatusPending,
	}
}

func TestCreateAddsRecipients(t *testing.T) {
	service, db, _ := newTestService(t)
	ids := seedContacts(t, db, 1, 3)

	campaign := testCampaign(1)
	if err := service.Create(campaign, ids); err != nil {
		t.Fatal(err)
	}

	var recipients []models.CampaignContact
	if err := db.Where("campaign_id = ?", campaign.ID).Find(&recipients).Error; err != nil {
		t.Fatal(err)
	}
	if len(recipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(recipients))
	}
	for _, cc := range recipients {
		if cc.MessageID != "" {
			t.Error("message ID must stay empty until the send loop runs")
		}
		if cc.MessageRandom == "" {
			t.Error("expected a message random token")
		}
	}
}

func TestListAnnotatesContactCounts(t *testing.T) {
	service, db, _ := newTestService(t)
	ids := seedContacts(t, db, 1, 2)

	withRecipients := testCampaign(1)
	if err := service.Create(withRecipients, ids); err != nil {
		t.Fatal(err)
	}
	empty := testCampaign(1)
	empty.Name = "Empty"
	if err := service.Create(empty, nil); err != nil {
		t.Fatal(err)
	}
	foreign := testCampaign(2)
	if err := service.Create(foreign, nil); err != nil {
		t.Fatal(err)
	}

	campaigns, err := service.List(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("expected 2 campaigns for tenant 1, got %d", len(campaigns))
	}

	counts := map[string]int64{}
	for _, c := range campaigns {
		counts[c.Name] = c.ContactsCount
	}
	if counts["Spring Promo"] != 2 {
		t.Errorf("expected 2 recipients, got %d", counts["Spring Promo"])
	}
	if counts["Empty"] != 0 {
		t.Errorf("expected 0 recipients, got %d", counts["Empty"])
	}
}

func TestRunRecordsMessageIDs(t *testing.T) {
	service, db, sender := newTestService(t)
	ids := seedContacts(t, db, 1, 5)

	campaign := testCampaign(1)
	if err := service.Create(campaign, ids); err != nil {
		t.Fatal(err)
	}

	if err := service.run(campaign); err != nil {
		t.Fatal(err)
	}

	if len(sender.sent) != 5 {
		t.Fatalf("expected 5 sends, got %d", len(sender.sent))
	}
	// The four message variants rotate across recipients.
	if sender.sent[0].body != "Hello!" || sender.sent[3].body != "Greetings!" || sender.sent[4].body != "Hello!" {
		t.Errorf("unexpected message rotation: %+v", sender.sent)
	}

	var recipients []models.CampaignContact
	if err := db.Where("campaign_id = ?", campaign.ID).Find(&recipients).Error; err != nil {
		t.Fatal(err)
	}
	for _, cc := range recipients {
		if cc.MessageID == "" {
			t.Errorf("recipient %d has no message ID recorded", cc.ContactID)
		}
		if cc.Body == "" {
			t.Errorf("recipient %d has no body recorded", cc.ContactID)
		}
	}

	var reloaded models.Campaign
	if err := db.First(&reloaded, campaign.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.CampaignStatusFinished {
		t.Errorf("expected finished campaign, got %q", reloaded.Status)
	}
}

func TestRunSkipsAlreadySentRecipients(t *testing.T) {
	service, db, sender := newTestService(t)
	ids := seedContacts(t, db, 1, 2)

	campaign := testCampaign(1)
	if err := service.Create(campaign, ids); err != nil {
		t.Fatal(err)
	}

	// Mark the first recipient as already sent on a previous run.
	err := db.Model(&models.CampaignContact{}).
		Where("campaign_id = ? AND contact_id = ?", campaign.ID, ids[0]).
		Update("message_id", "wamid.PREVIOUS").Error
	if err != nil {
		t.Fatal(err)
	}

	if err := service.run(campaign); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}
}

func TestRunContinuesAfterSendFailure(t *testing.T) {
	service, db, sender := newTestService(t)
	ids := seedContacts(t, db, 1, 2)

	campaign := testCampaign(1)
	if err := service.Create(campaign, ids); err != nil {
		t.Fatal(err)
	}

	sender.err = errors.New("channel down")
	if err := service.run(campaign); err != nil {
		t.Fatal(err)
	}

	var reloaded models.Campaign
	if err := db.First(&reloaded, campaign.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.CampaignStatusFinished {
		t.Errorf("failed sends must not wedge the campaign, got %q", reloaded.Status)
	}

	var sent int64
	err := db.Model(&models.CampaignContact{}).
		Where("campaign_id = ? AND message_id <> ''", campaign.ID).
		Count(&sent).Error
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 {
		t.Errorf("expected no recorded sends, got %d", sent)
	}
}

func TestStartRejectsRunningCampaign(t *testing.T) {
	service, db, _ := newTestService(t)

	campaign := testCampaign(1)
	if err := service.Create(campaign, nil); err != nil {
		t.Fatal(err)
	}
	err := db.Model(campaign).Update("status", models.CampaignStatusProcessing).Error
	if err != nil {
		t.Fatal(err)
	}

	if err := service.Start(1, campaign.ID); err == nil {
		t.Fatal("expected an error for an already running campaign")
	}
}
