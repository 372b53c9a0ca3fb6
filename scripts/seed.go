package main

import (
	"lms/config"
	"lms/database"
	"lms/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	// Load config and connect to database
	config.LoadConfig()
	utils.SetupLogger(config.AppConfig.LogLevel, config.AppConfig.IsProduction())
	database.ConnectDb()

	added, err := database.SeedCategories(database.Database.Db, database.DefaultCategories)
	if err != nil {
		log.Fatal().Err(err).Msg("Error seeding the database categories")
	}

	log.Info().Int64("added", added).Int("total", len(database.DefaultCategories)).Msg("Success")
}
