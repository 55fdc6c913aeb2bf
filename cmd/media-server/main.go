package main

import (
	"context"
	"log"
	"net/http"

	"mediacms/internal/config"
	"mediacms/internal/dbmongo"
	"mediacms/internal/dbmysql"
	"mediacms/internal/media"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Connect to MongoDB (media metadata collections)
	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Close(context.Background())

	// Connect to MySQL (media reference table); the server runs without it
	var refs dbmysql.MediaRefRepository
	if db, err := dbmysql.NewMySQL(cfg); err != nil {
		log.Printf("MySQL unavailable, media references disabled: %v", err)
	} else {
		refs = dbmysql.NewMediaRefRepository(db)
	}

	// Assemble the ingestion pipeline
	store := dbmongo.NewMediaRecordStore(mongoClient)
	resolver := media.NewLocationResolver(cfg)
	derivatives := media.NewDerivativeGenerator(cfg, resolver)
	service := media.NewIngestionService(store, resolver, derivatives)

	mediaServer := media.NewHTTPServer(service, refs, cfg.Media.RootDir)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("🚀 Media server starting on %s", addr)
	log.Printf("📂 Media root: %s", cfg.Media.RootDir)

	if err := http.ListenAndServe(addr, mediaServer); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
