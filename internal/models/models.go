package models

import (
	"time"
)

// Ticket statuses. "pending" means returned to the queue and unassigned,
// "open" means actively owned by a user.
const (
	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"
)

// Campaign statuses.
const (
	CampaignStatusPending    = "pending"
	CampaignStatusScheduled  = "scheduled"
	CampaignStatusProcessing = "processing"
	CampaignStatusFinished   = "finished"
	CampaignStatusCanceled   = "canceled"
)

// Tenant is an isolated customer account. All other records are partitioned
// by TenantID.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// User is an agent identity within a tenant.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Profile   string    `gorm:"type:varchar(20);default:'user'" json:"profile,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Channel is a connected WhatsApp endpoint (one Cloud API phone number).
// Tickets record which channel a conversation arrived on.
type Channel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"index;not null" json:"tenant_id"`
	Name          string    `gorm:"type:varchar(255)" json:"name"`
	PhoneNumberID string    `gorm:"type:varchar(50);uniqueIndex" json:"phone_number_id"`
	Status        string    `gorm:"type:varchar(20);default:'connected'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Channel) TableName() string {
	return "channels"
}

// Contact is a WhatsApp counterpart, individual or group.
type Contact struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	TenantID      uint                 `gorm:"index;not null" json:"tenant_id"`
	Name          string               `gorm:"type:varchar(255)" json:"name"`
	Number        string               `gorm:"type:varchar(50);index" json:"number"`
	ProfilePicURL string               `gorm:"type:text" json:"profile_pic_url,omitempty"`
	IsGroup       bool                 `gorm:"default:false" json:"is_group"`
	ExtraInfo     []ContactCustomField `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE;" json:"extra_info"`
	Tags          []Tag                `gorm:"many2many:contact_tags;" json:"tags"`
	Wallets       []User               `gorm:"many2many:contact_wallets;" json:"wallets"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ContactCustomField is one key/value entry of a contact's extra info.
type ContactCustomField struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ContactID uint   `gorm:"index;not null" json:"contact_id"`
	Name      string `gorm:"type:varchar(255)" json:"name"`
	Value     string `gorm:"type:text" json:"value"`
}

func (ContactCustomField) TableName() string {
	return "contact_custom_fields"
}

// Tag is a tenant-scoped label attachable to contacts.
type Tag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Tag      string `gorm:"type:varchar(255);not null" json:"tag"`
	Color    string `gorm:"type:varchar(20)" json:"color,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ticket is the unit of conversation ownership between a tenant's agents and
// a contact. At most one open/pending ticket should exist per (tenant,
// contact) for non-group contacts; the resolver upholds that via
// find-before-create.
type Ticket struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       uint      `gorm:"index;not null" json:"tenant_id"`
	ContactID      uint      `gorm:"index;not null" json:"contact_id"`
	Contact        *Contact  `json:"contact,omitempty"`
	WhatsappID     uint      `json:"whatsapp_id"`
	Status         string    `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	UserID         *uint     `gorm:"index" json:"user_id"`
	User           *User     `json:"user,omitempty"`
	IsGroup        bool      `gorm:"default:false" json:"is_group"`
	UnreadMessages int       `gorm:"default:0" json:"unread_messages"`
	LastMessage    string    `gorm:"type:text" json:"last_message,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// IsCreated marks tickets minted by the current resolve call. Transient,
	// never persisted.
	IsCreated bool `gorm:"-" json:"is_created,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// TicketLog is the audit trail of ticket lifecycle events.
type TicketLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"index;not null" json:"ticket_id"`
	UserID    *uint     `json:"user_id,omitempty"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TicketLog) TableName() string {
	return "ticket_logs"
}

// AutoReply is a tenant's automated response rule. Only the "welcome"
// trigger is acted on by this service: it fires once when a ticket is
// created for an organic inbound message.
type AutoReply struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"index;not null" json:"tenant_id"`
	TriggerType string    `gorm:"type:varchar(50);not null" json:"trigger_type"`
	Enabled     bool      `gorm:"default:true" json:"enabled"`
	Message     string    `gorm:"type:text" json:"message"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AutoReply) TableName() string {
	return "auto_replies"
}

// Campaign is an outbound bulk-send definition.
type Campaign struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Message1   string    `gorm:"type:text" json:"message1"`
	Message2   string    `gorm:"type:text" json:"message2"`
	Message3   string    `gorm:"type:text" json:"message3"`
	Message4   string    `gorm:"type:text" json:"message4"`
	MediaURL   string    `gorm:"type:text" json:"media_url,omitempty"`
	UserID     uint      `json:"user_id"`
	WhatsappID uint      `json:"whatsapp_id"`
	Status     string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// ContactsCount is filled by the list query, not stored.
	ContactsCount int64 `gorm:"-" json:"contacts_count"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignContact links a campaign to one recipient and, once sent, to the
// channel-assigned message ID. The resolver matches inbound self-originated
// messages against MessageID to keep campaign echoes from opening tickets.
type CampaignContact struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CampaignID    uint      `gorm:"index;not null" json:"campaign_id"`
	ContactID     uint      `gorm:"index;not null" json:"contact_id"`
	MessageID     string    `gorm:"type:varchar(255);index" json:"message_id"`
	MessageRandom string    `gorm:"type:varchar(255)" json:"message_random"`
	Body          string    `gorm:"type:text" json:"body,omitempty"`
	ACK           int       `gorm:"default:0" json:"ack"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CampaignContact) TableName() string {
	return "campaign_contacts"
}
