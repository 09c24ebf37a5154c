// Package backend builds the process-wide persistence context: the
// repository contracts wired to whichever concrete backend is live.
// When the remote document store is unreachable or unconfigured, every
// contract transparently redirects to the local file store with
// identical merge semantics, so nothing above this package branches on
// the backend.
package backend

import (
	"context"
	"log"
	"time"

	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/config"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository/local"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository/mongo"
)

// Context is the live persistence handle, constructed once at startup
// and injected into everything that reads or writes user data.
type Context struct {
	Profiles repository.ProfileRepository
	Logs     repository.LogRepository
	Users    repository.UserRepository

	// Offline reports which backend is live; informational only, no
	// caller changes behavior on it.
	Offline bool

	client *driver.Client
}

// New connects the remote document store when a URI is configured and
// reachable, and otherwise falls back to the local file store. Fallback
// is not an error: the application must come up either way.
func New(cfg config.Config) (*Context, error) {
	if cfg.Database.URI == "" {
		log.Println("No database URI configured. Running in offline mode.")
		return newLocal(cfg)
	}

	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Printf("WARN: Could not connect to MongoDB (%v). Falling back to local store.", err)
		return newLocal(cfg)
	}

	db := client.Database(cfg.Database.Name)

	// Index creation runs in the background; startup does not wait on it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, db)
		mongo.EnsureLogIndexes(ctx, db)
	}()

	return &Context{
		Profiles: mongo.NewMongoProfileRepository(db),
		Logs:     mongo.NewMongoLogRepository(db),
		Users:    mongo.NewMongoUserRepository(db),
		client:   client,
	}, nil
}

func newLocal(cfg config.Config) (*Context, error) {
	store, err := local.NewStore(cfg.Local.Dir)
	if err != nil {
		return nil, err
	}
	return &Context{
		Profiles: local.NewLocalProfileRepository(store),
		Logs:     local.NewLocalLogRepository(store),
		Users:    local.NewLocalUserRepository(store),
		Offline:  true,
	}, nil
}

// Close disconnects the remote client, if one is live.
func (c *Context) Close() error {
	if c.client == nil {
		return nil
	}
	return mongo.DisconnectDB(c.client)
}
