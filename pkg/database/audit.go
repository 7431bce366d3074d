package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
)

// AuditCollection holds one document per command invocation.
const AuditCollection = "audit"

// AuditLog stores command invocations in MongoDB.
type AuditLog struct {
	db *Database
}

// NewAuditLog creates a new AuditLog
func NewAuditLog(db *Database) *AuditLog {
	return &AuditLog{db: db}
}

// Record stores entry, queueing it when the database is offline.
func (a *AuditLog) Record(entry models.AuditEntry) {
	col := a.db.GetCollection(AuditCollection)
	if !a.db.Connected() || col == nil {
		a.db.AddToWriteQueue(QueuedOperation{CollectionName: AuditCollection, Document: entry})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := col.InsertOne(ctx, entry); err != nil {
		logger.Error(fmt.Sprintf("Audit insert failed, queued: %v", err), "Audit")
		a.db.AddToWriteQueue(QueuedOperation{CollectionName: AuditCollection, Document: entry})
	}
}

// Recent returns the latest entries, newest first.
func (a *AuditLog) Recent(ctx context.Context, limit int64) ([]models.AuditEntry, error) {
	col := a.db.GetCollection(AuditCollection)
	if !a.db.Connected() || col == nil {
		return nil, fmt.Errorf("database not connected")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	entries := make([]models.AuditEntry, 0, limit)
	for cursor.Next(ctx) {
		var e models.AuditEntry
		if err := cursor.Decode(&e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, cursor.Err()
}
