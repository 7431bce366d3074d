// Package database provides the MongoDB connection used for the audit log.
// Writes made while the database is unreachable are queued and flushed on
// reconnect.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

const reconnectInterval = 15 * time.Second

// QueuedOperation represents a pending database write
type QueuedOperation struct {
	CollectionName string
	Document       interface{}
}

// Database manages the MongoDB connection
type Database struct {
	client        *mongo.Client
	db            *mongo.Database
	url           string
	name          string
	connected     bool
	reconnecting  bool
	writeQueue    []QueuedOperation
	stopReconnect chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
	queueMu       sync.Mutex
	collections   map[string]*mongo.Collection
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		writeQueue:    make([]QueuedOperation, 0),
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB. On failure the database
// stays in offline mode and keeps retrying in the background.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}
	d.url, d.name = mongoURL, dbName

	logger.System("Connecting to the database...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Failed to connect to the database: %v", err), "DB")
		d.scheduleReconnect()
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical(fmt.Sprintf("Failed to verify the database connection: %v", err), "DB")
		_ = client.Disconnect(context.Background())
		d.scheduleReconnect()
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.connected = true

	logger.Success("Connected to the database.", "DB")

	go d.syncOfflineWrites()

	return nil
}

// scheduleReconnect starts the retry loop once. Callers hold d.mu.
func (d *Database) scheduleReconnect() {
	if d.reconnecting {
		return
	}
	d.reconnecting = true
	logger.Warn("Database unreachable. Running in offline mode.", "DB")

	// A failed Connect schedules the next attempt itself.
	go func() {
		timer := time.NewTimer(reconnectInterval)
		defer timer.Stop()
		select {
		case <-timer.C:
			d.mu.Lock()
			d.reconnecting = false
			url, name := d.url, d.name
			d.mu.Unlock()

			logger.Info("Retrying database connection...", "DB")
			_ = d.Connect(url, name)
		case <-d.stopReconnect:
		}
	}()
}

// Connected reports whether the last connection attempt succeeded.
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.Disconnect(ctx); err != nil {
			return err
		}
		d.connected = false
		logger.Warn("Database disconnected", "DB")
	}
	return nil
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil {
		return "offline", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return "offline", false
	}
	return "online", true
}

// GetCollection returns a MongoDB collection, or nil while offline.
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// AddToWriteQueue adds an operation to the offline write queue
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	d.writeQueue = append(d.writeQueue, op)
}

// QueueLen returns the number of writes waiting for a connection.
func (d *Database) QueueLen() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites flushes queued operations to the database
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Flushing %d queued writes...", len(d.writeQueue)), "DB-Sync")

	operations := make([]QueuedOperation, len(d.writeQueue))
	copy(operations, d.writeQueue)
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := col.InsertOne(ctx, op.Document)
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Could not flush write for '%s', re-queued.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.queueMu.Lock()
		d.writeQueue = append(d.writeQueue, failedOps...)
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d writes could not be flushed and will be retried.", len(failedOps)), "DB-Sync")
	} else {
		logger.Success("Offline writes flushed.", "DB-Sync")
	}
}
