package main

import (
	"log"

	"ticketdesk-gateway/internal/config"
	"ticketdesk-gateway/internal/database"
	"ticketdesk-gateway/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// One-shot copy of a sqlite dev database into PostgreSQL. Run with
// DB_DRIVER=postgres so the destination connection points at Postgres;
// DB_PATH selects the sqlite source.
func main() {
	cfg := config.LoadConfig()

	// 1. Connect to SQLite (Source)
	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	// 2. Connect to PostgreSQL (Destination)
	database.InitGorm(cfg)
	pgDB := database.GormDB

	log.Println("Starting data migration...")

	migrateTable := func(tableName string, source interface{}) {
		log.Printf("Migrating table: %s", tableName)

		if err := sqliteDB.Find(source).Error; err != nil {
			log.Printf("Error reading %s from SQLite: %v", tableName, err)
			return
		}

		err := pgDB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(source).Error
		})

		if err != nil {
			log.Printf("Error writing %s to Postgres: %v", tableName, err)
		} else {
			log.Printf("Successfully migrated %s", tableName)
		}
	}

	// Migrate in dependency order: tenants first, then everything keyed to them.

	var tenants []models.Tenant
	migrateTable("tenants", &tenants)

	var users []models.User
	migrateTable("users", &users)

	var channels []models.Channel
	migrateTable("channels", &channels)

	var contacts []models.Contact
	migrateTable("contacts", &contacts)

	var customFields []models.ContactCustomField
	migrateTable("contact_custom_fields", &customFields)

	var tags []models.Tag
	migrateTable("tags", &tags)

	var tickets []models.Ticket
	migrateTable("tickets", &tickets)

	var ticketLogs []models.TicketLog
	migrateTable("ticket_logs", &ticketLogs)

	var autoReplies []models.AutoReply
	migrateTable("auto_replies", &autoReplies)

	var campaigns []models.Campaign
	migrateTable("campaigns", &campaigns)

	var campaignContacts []models.CampaignContact
	migrateTable("campaign_contacts", &campaignContacts)

	log.Println("Migration completed!")
}
