package main

import (
	"log"
	"time"

	"ticketdesk-gateway/internal/api"
	"ticketdesk-gateway/internal/bot"
	"ticketdesk-gateway/internal/campaign"
	"ticketdesk-gateway/internal/config"
	"ticketdesk-gateway/internal/database"
	"ticketdesk-gateway/internal/store"
	"ticketdesk-gateway/internal/ticket"
	"ticketdesk-gateway/internal/webhook"
	"ticketdesk-gateway/internal/whatsapp"
	"ticketdesk-gateway/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	database.InitGorm(cfg)
	db := database.GormDB

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-Profile")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	ticketStore := store.NewTicketStore(db)
	contactStore := store.NewContactStore(db)
	channelStore := store.NewChannelStore(db)
	campaignStore := store.NewCampaignStore(db)
	campaignContactStore := store.NewCampaignContactStore(db)
	autoReplyStore := store.NewAutoReplyStore(db)

	hub := ws.NewHub()
	go hub.Run()

	whatsappClient := whatsapp.NewClient(cfg)
	welcomeBot := bot.NewEngine(autoReplyStore, contactStore, whatsappClient)
	resolver := ticket.NewResolver(ticketStore, campaignContactStore, hub, welcomeBot, cfg.StaleOwnerSentinelID)

	sendDelay := time.Duration(cfg.CampaignSendDelayMS) * time.Millisecond
	campaignService := campaign.NewService(campaignStore, campaignContactStore, contactStore, whatsappClient, sendDelay)

	webhookHandler := webhook.NewHandler(cfg, channelStore, contactStore, resolver)
	ticketHandler := api.NewTicketHandler(ticketStore, contactStore, resolver)
	contactHandler := api.NewContactHandler(contactStore)
	campaignHandler := api.NewCampaignHandler(campaignService)

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleMessage)

	// Real-time updates
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWs(c.Writer, c.Request)
	})

	apiGroup := r.Group("/api")
	{
		// Ticket Routes
		apiGroup.GET("/tickets", ticketHandler.GetTickets)
		apiGroup.GET("/tickets/:id", ticketHandler.GetTicket)
		apiGroup.POST("/tickets/resolve", ticketHandler.ResolveTicket)

		// CRM Routes
		apiGroup.GET("/contacts", contactHandler.GetContacts)
		apiGroup.POST("/contacts", contactHandler.CreateContact)
		apiGroup.PUT("/contacts/:id", contactHandler.UpdateContact)
		apiGroup.DELETE("/contacts/:id", contactHandler.DeleteContact)

		// Campaign Routes
		apiGroup.GET("/campaigns", campaignHandler.GetCampaigns)
		apiGroup.POST("/campaigns", campaignHandler.CreateCampaign)
		apiGroup.PUT("/campaigns/:id", campaignHandler.UpdateCampaign)
		apiGroup.DELETE("/campaigns/:id", campaignHandler.DeleteCampaign)
		apiGroup.POST("/campaigns/:id/start", campaignHandler.StartCampaign)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
