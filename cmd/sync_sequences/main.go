package main

import (
	"log"

	"ticketdesk-gateway/internal/config"
	"ticketdesk-gateway/internal/database"
)

// Resets PostgreSQL identity sequences after a bulk data import (the
// migrate_data tool inserts rows with explicit IDs, which leaves the
// sequences behind).
func main() {
	cfg := config.LoadConfig()
	database.InitGorm(cfg)
	db := database.GormDB

	tables := []string{
		"tenants",
		"users",
		"channels",
		"contacts",
		"contact_custom_fields",
		"tags",
		"tickets",
		"ticket_logs",
		"auto_replies",
		"campaigns",
		"campaign_contacts",
	}

	log.Println("Syncing PostgreSQL sequences...")

	for _, table := range tables {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			log.Printf("Error syncing sequence for %s: %v", table, err)
		} else {
			log.Printf("Successfully synced sequence for %s", table)
		}
	}

	log.Println("DONE!")
}
