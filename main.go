package main

import (
	"lms/config"
	"lms/database"
	"lms/routers"
	"lms/utils"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	utils.SetupLogger(cfg.LogLevel, cfg.IsProduction())

	database.ConnectDb()

	utils.Video = utils.NewMuxClient(cfg.MuxBaseURL, cfg.MuxTokenID, cfg.MuxTokenSecret)
	utils.Payments = utils.NewStripeGateway(cfg.StripeApiKey, cfg.StripeWebhookSecret)
	if cfg.SendgridApiKey != "" {
		utils.Mailer = utils.NewSendgridEmailService(cfg.SendgridApiKey, cfg.EmailSenderName, cfg.EmailSender)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set. Emails are written to the log.")
	}

	if cfg.SchedulerEnabled {
		scheduler := utils.InitializeSchedulers(time.Duration(cfg.CheckoutExpiryHours) * time.Hour)
		defer scheduler.Stop()
	}

	app := routers.SetupApp()

	log.Info().Str("port", cfg.Port).Msg("Server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
