package main

import (
	"context"
	"log"
	"net/http"

	"burrow-server/api"
	"burrow-server/config"
	"burrow-server/game"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg := api.LoadConfig()
	db, err := api.ConnectMongo(context.Background(), cfg)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	// Seed default data
	if err := api.SeedLevels(context.Background(), cfg, db); err != nil {
		log.Printf("level seed error: %v", err)
	}

	level := loadLevel(cfg, db)

	// Core game server
	s := game.NewGameServer(level.parsed)
	if level.doc != nil {
		s.SetHazardDurations(level.doc.HoleOpenMs, level.doc.GuardStunMs)
	}
	s.Run()

	r := chi.NewRouter()

	// Mount REST API under /api
	r.Mount("/api", api.NewAPIRouter(cfg, db, s))
	// Websocket endpoint for game clients
	r.HandleFunc("/ws", s.HandleConnections)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Println("Server started on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ListenAndServe:", err)
	}
}

type loadedLevel struct {
	parsed *game.Level
	doc    *api.LevelDoc
}

// loadLevel fetches the configured level from Mongo, falling back to the
// built-in default when the document is missing or unparseable.
func loadLevel(cfg api.Config, db *api.DB) loadedLevel {
	name := cfg.LevelName
	if name == "" {
		name = config.DefaultLevelName
	}
	doc, err := api.FetchLevel(context.Background(), db, name)
	if err != nil {
		log.Printf("level %q not loadable from db (%v), using built-in level", name, err)
		return loadedLevel{parsed: game.DefaultLevel()}
	}
	parsed, err := game.ParseLevel(doc.Name, doc.Rows)
	if err != nil {
		log.Printf("level %q invalid (%v), using built-in level", name, err)
		return loadedLevel{parsed: game.DefaultLevel()}
	}
	return loadedLevel{parsed: parsed, doc: doc}
}
