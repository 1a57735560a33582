package app

import (
	"context"
	"fmt"
	"log"

	"github.com/sahilchouksey/sage-api/api"
	"github.com/sahilchouksey/sage-api/config"
	"github.com/sahilchouksey/sage-api/database"
	"github.com/sahilchouksey/sage-api/router"
	"github.com/sahilchouksey/sage-api/services/backup"
	"github.com/sahilchouksey/sage-api/services/cron"
	"github.com/sahilchouksey/sage-api/store"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Open the storage backend
	kv, err := openBackend(getEnv)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the document store (migrates legacy data on first run)
	st, err := store.New(ctx, kv)
	if err != nil {
		kv.Close()
		return err
	}
	defer st.Close()

	// Relay cross-process change broadcasts (Redis backend only)
	st.ListenBroadcasts(ctx)

	// Backup service, only when a Spaces target is configured
	var backupService *backup.Service
	if getEnv.BackupConfigured() {
		backupService, err = backup.NewService(backup.SpacesConfig{
			AccessKey: getEnv.DO_SPACES_KEY,
			SecretKey: getEnv.DO_SPACES_SECRET,
			Bucket:    getEnv.DO_SPACES_BUCKET,
			Region:    getEnv.DO_SPACES_REGION,
			Endpoint:  getEnv.DO_SPACES_ENDPOINT,
		}, st)
		if err != nil {
			log.Println("Warning: backup target unavailable:", err)
			backupService = nil
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(st, backupService)
		if err := cronManager.Start(); err != nil {
			log.Println("Warning: failed to start cron jobs:", err)
			cronManager = nil
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is applied inside)
	router.SetupRoutes(app, st, getEnv, backupService)

	// Get the PORT & Start the Server
	return server.Run()
}

// openBackend picks the key-value backend from configuration.
func openBackend(env *config.EnviornmentVariable) (database.KeyValue, error) {
	switch env.STORAGE_BACKEND {
	case "redis":
		return database.NewRedisKV(env.REDIS_URL)
	case "memory":
		return database.NewMemoryKV(), nil
	case "file":
		return database.NewFileKV(env.DATA_DIR)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", env.STORAGE_BACKEND)
	}
}
