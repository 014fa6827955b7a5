package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"burrow-server/game"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LevelDoc is the MongoDB model for a level. Rows use the game package's
// level text format; zero durations mean "use the configured defaults".
type LevelDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Rows        []string           `bson:"rows" json:"rows"`
	HoleOpenMs  int64              `bson:"hole_open_ms" json:"hole_open_ms"`
	GuardStunMs int64              `bson:"guard_stun_ms" json:"guard_stun_ms"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ValidateLevelDoc rejects documents the game could not load.
func ValidateLevelDoc(doc *LevelDoc) error {
	if doc.Name == "" {
		return errors.New("level name required")
	}
	if doc.HoleOpenMs < 0 || doc.GuardStunMs < 0 {
		return errors.New("durations must be non-negative")
	}
	if _, err := game.ParseLevel(doc.Name, doc.Rows); err != nil {
		return fmt.Errorf("invalid level rows: %w", err)
	}
	return nil
}

// LevelHandler groups dependencies.
type LevelHandler struct {
	cfg Config
	col *mongo.Collection
}

func NewLevelHandler(cfg Config, db *DB) *LevelHandler {
	return &LevelHandler{cfg: cfg, col: db.Collection("levels")}
}

// Routes registers level routes. Reads are public, writes admin-only.
func (h *LevelHandler) Routes(r chi.Router) {
	r.Get("/levels", h.List)
	r.Get("/levels/{name}", h.Get)
	r.With(RequireAdmin(h.cfg)).Put("/levels/{name}", h.Upsert)
	r.With(RequireAdmin(h.cfg)).Delete("/levels/{name}", h.Delete)
}

// List GET /levels?page=1&page_size=20
func (h *LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	page := clamp(parseInt(r.URL.Query().Get("page"), 1), 1, 1000000)
	pageSize := clamp(parseInt(r.URL.Query().Get("page_size"), 20), 1, 100)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	opts := options.Find().SetSkip(int64((page - 1) * pageSize)).SetLimit(int64(pageSize)).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := h.col.Find(ctx, filter, opts)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)
	var items []LevelDoc
	if err := cur.All(ctx, &items); err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := h.col.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(items))
	}
	writeJSON(w, http.StatusOK, apiListResponse[LevelDoc]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	})
}

// Get GET /levels/{name}
func (h *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	var doc LevelDoc
	if err := h.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			errorJSON(w, http.StatusNotFound, "not found")
			return
		}
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Upsert PUT /levels/{name}
func (h *LevelHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var doc LevelDoc
	if err := decodeJSONStrict(r, &doc); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	doc.Name = name
	doc.UpdatedAt = time.Now()
	if err := ValidateLevelDoc(&doc); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"name":          doc.Name,
		"rows":          doc.Rows,
		"hole_open_ms":  doc.HoleOpenMs,
		"guard_stun_ms": doc.GuardStunMs,
		"updated_at":    doc.UpdatedAt,
	}}
	res, err := h.col.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if res.UpsertedCount > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, bson.M{"name": name, "upserted": res.UpsertedCount > 0})
}

// Delete DELETE /levels/{name}
func (h *LevelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	res, err := h.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		errorJSON(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FetchLevel loads one level document by name, for server startup.
func FetchLevel(ctx context.Context, db *DB, name string) (*LevelDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	var doc LevelDoc
	if err := db.Collection("levels").FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
