package api

import (
	"context"
	"errors"
	"log"
	"time"

	"burrow-server/config"
	"burrow-server/game"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedLevels ensures the default level document exists so a fresh database
// boots straight into a playable level.
func SeedLevels(ctx context.Context, cfg Config, db *DB) error {
	if !cfg.SeedLevels {
		return nil
	}
	col := db.Collection("levels")
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var existing LevelDoc
	err := col.FindOne(ctx, bson.M{"name": config.DefaultLevelName}).Decode(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	doc := LevelDoc{
		Name:        config.DefaultLevelName,
		Rows:        game.DefaultLevelRows,
		HoleOpenMs:  config.DefaultHoleOpenMs,
		GuardStunMs: config.DefaultGuardStunMs,
		UpdatedAt:   time.Now(),
	}
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return err
	}
	log.Printf("[INFO] Seeded default level %q", config.DefaultLevelName)
	return nil
}
