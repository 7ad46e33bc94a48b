package bot

import (
	"errors"
	"path/filepath"
	"testing"

	"ticketdesk-gateway/internal/database"
	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSender struct {
	to   []string
	body []string
	err  error
}

func (f *fakeSender) SendMessage(to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return "wamid.WELCOME", nil
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB, *fakeSender) {
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
	engine := NewEngine(store.NewAutoReplyStore(db), store.NewContactStore(db), sender)
	return engine, db, sender
}

func TestTriggerWelcomeSendsConfiguredMessage(t *testing.T) {
	engine, db, sender := newTestEngine(t)

	contact := &models.Contact{TenantID: 1, Name: "Dana", Number: "5511999990030"}
	if err := db.Create(contact).Error; err != nil {
		t.Fatal(err)
	}
	rule := &models.AutoReply{TenantID: 1, TriggerType: "welcome", Enabled: true, Message: "Hi {{contact_name}}, welcome!"}
	if err := db.Create(rule).Error; err != nil {
		t.Fatal(err)
	}

	ticket := &models.Ticket{ID: 10, TenantID: 1, ContactID: contact.ID}
	if err := engine.TriggerWelcome(ticket); err != nil {
		t.Fatal(err)
	}

	if len(sender.to) != 1 || sender.to[0] != "5511999990030" {
		t.Fatalf("expected one send to the contact, got %v", sender.to)
	}
	if sender.body[0] != "Hi Dana, welcome!" {
		t.Errorf("expected name substitution, got %q", sender.body[0])
	}
}

func TestTriggerWelcomeNoRuleIsNoop(t *testing.T) {
	engine, db, sender := newTestEngine(t)

	contact := &models.Contact{TenantID: 1, Number: "5511999990031"}
	if err := db.Create(contact).Error; err != nil {
		t.Fatal(err)
	}
	// A disabled rule does not count.
	rule := &models.AutoReply{TenantID: 1, TriggerType: "welcome", Enabled: true, Message: "never"}
	if err := db.Create(rule).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(rule).Update("enabled", false).Error; err != nil {
		t.Fatal(err)
	}

	ticket := &models.Ticket{ID: 11, TenantID: 1, ContactID: contact.ID}
	if err := engine.TriggerWelcome(ticket); err != nil {
		t.Fatal(err)
	}
	if len(sender.to) != 0 {
		t.Errorf("expected no sends, got %v", sender.to)
	}
}

func TestTriggerWelcomeSendFailurePropagates(t *testing.T) {
	engine, db, sender := newTestEngine(t)
	sender.err = errors.New("channel down")

	contact := &models.Contact{TenantID: 1, Number: "5511999990032"}
	if err := db.Create(contact).Error; err != nil {
		t.Fatal(err)
	}
	rule := &models.AutoReply{TenantID: 1, TriggerType: "welcome", Enabled: true, Message: "hello"}
	if err := db.Create(rule).Error; err != nil {
		t.Fatal(err)
	}

	ticket := &models.Ticket{ID: 12, TenantID: 1, ContactID: contact.ID}
	if err := engine.TriggerWelcome(ticket); err == nil {
		t.Fatal("expected the send failure to propagate")
	}
}
