package bot

import (
	"fmt"
	"log"
	"strings"

	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"
)

// Sender is the outbound channel client.
type Sender interface {
	SendMessage(to, body string) (string, error)
}

// Engine sends automated responses. Only the welcome trigger lives here:
// the first organic inbound message on a new ticket gets the tenant's
// configured welcome message. Conversational flows are another service's
// concern.
type Engine struct {
	rules    *store.AutoReplyStore
	contacts *store.ContactStore
	client   Sender
}

func NewEngine(rules *store.AutoReplyStore, contacts *store.ContactStore, client Sender) *Engine {
	return &Engine{rules: rules, contacts: contacts, client: client}
}

// TriggerWelcome sends the tenant's welcome message for a newly created
// ticket. A tenant without an enabled welcome rule is a no-op.
func (e *Engine) TriggerWelcome(ticket *models.Ticket) error {
	rule, err := e.rules.FindWelcome(ticket.TenantID)
	if err != nil {
		return fmt.Errorf("loading welcome rule: %w", err)
	}
	if rule == nil {
		return nil
	}

	contact, err := e.contacts.Get(ticket.TenantID, ticket.ContactID)
	if err != nil {
		return fmt.Errorf("loading contact %d: %w", ticket.ContactID, err)
	}

	message := strings.ReplaceAll(rule.Message, "{{contact_name}}", contact.Name)

	if _, err := e.client.SendMessage(contact.Number, message); err != nil {
		return fmt.Errorf("sending welcome message: %w", err)
	}

	log.Printf("Welcome message sent for ticket %d to %s", ticket.ID, contact.Number)
	return nil
}
