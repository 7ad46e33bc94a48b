package ticket

import (
	"ticketdesk-gateway/internal/models"
	"ticketdesk-gateway/internal/store"
)

// LookupPolicy finds the single reusable ticket for a contact, applying the
// mutation each precedence step prescribes:
//
//  1. An open/pending ticket is authoritative. It keeps its owner and status;
//     only the unread counter changes.
//  2. For group contacts with no active ticket, the most recently updated
//     ticket of any status is reclaimed to the unassigned queue.
//  3. For individual contacts with no active ticket, the most recently
//     updated open/pending ticket parked under the stale-owner sentinel is
//     reclaimed the same way. Tickets parked under any other owner are not
//     touched.
type LookupPolicy struct {
	tickets      *store.TicketStore
	staleOwnerID uint
}

func NewLookupPolicy(tickets *store.TicketStore, staleOwnerID uint) *LookupPolicy {
	return &LookupPolicy{tickets: tickets, staleOwnerID: staleOwnerID}
}

// Find returns the reusable ticket with its mutation already persisted, or
// nil when a new ticket must be created.
func (p *LookupPolicy) Find(tenantID, contactID uint, isGroup bool, unread int) (*models.Ticket, error) {
	ticket, err := p.tickets.FindActive(tenantID, contactID)
	if err != nil {
		return nil, err
	}
	if ticket != nil {
		if err := p.tickets.SetUnread(ticket, unread); err != nil {
			return nil, err
		}
		return ticket, nil
	}

	if isGroup {
		ticket, err = p.tickets.FindLatestForGroup(tenantID, contactID)
	} else {
		ticket, err = p.tickets.FindLatestParked(tenantID, contactID, p.staleOwnerID)
	}
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, nil
	}
	if err := p.tickets.Reclaim(ticket, unread); err != nil {
		return nil, err
	}
	return ticket, nil
}
