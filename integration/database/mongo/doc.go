// Package mongo provides MongoDB client initialization with retry logic plus
// the caller profile store for the command runtime.
//
// The package wraps the official MongoDB Go driver with application-level
// retry logic optimized for managed deployments, particularly MongoDB Atlas.
// Both New and NewWithDatabase retry failed connections to absorb cluster
// cold starts (5-8 seconds) and brief network interruptions that would
// otherwise fail application startup. A connection is verified with a ping
// before either function returns.
//
// On top of the client the package implements the UserStore, which upserts a
// profile document per caller, and a Recorder adapter that plugs the store
// into the dispatcher's caller hook.
//
// Basic usage:
//
//	import (
//		"context"
//		"log"
//
//		"github.com/bunnys/nexus/core/config"
//		"github.com/bunnys/nexus/core/dispatch"
//		"github.com/bunnys/nexus/integration/database/mongo"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		var cfg mongo.Config
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal("Failed to load config:", err)
//		}
//
//		db, err := mongo.NewWithDatabase(ctx, cfg, "nexus")
//		if err != nil {
//			log.Fatal("Failed to connect to database:", err)
//		}
//		defer db.Client().Disconnect(ctx)
//
//		users := mongo.NewUserStore(db)
//		if err := users.EnsureIndexes(ctx); err != nil {
//			log.Fatal("Failed to create indexes:", err)
//		}
//
//		// Record every command caller through the dispatcher hook.
//		_ = dispatch.WithCallerRecorder(mongo.NewRecorder(users))
//	}
//
// # Configuration
//
// Configuration is handled through environment variables via the Config
// struct. The default values are optimized for MongoDB Atlas deployments:
//
//	MONGODB_URL                 (required)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//
// # Caller Profiles
//
// UserStore keys documents by the platform user id, not the Mongo document
// id. CreateOrUpdate is an upsert: the first use of any command inserts the
// profile with a created_at stamp, later uses refresh updated_at and the
// username when one is known. EnsureIndexes creates the unique user_id index
// that the upsert relies on under concurrent writers.
//
// # Health Checking
//
// The package provides a health check function for Kubernetes probes or HTTP
// endpoints:
//
//	healthCheck := mongo.Healthcheck(client)
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//	ErrFailedToConnectToMongo - all retry attempts exhausted
//	ErrEmptyConnectionURL     - no connection URL provided
//	ErrEmptyDatabaseName      - NewWithDatabase called without a database name
//	ErrHealthcheckFailed      - health check ping failed
//	ErrUserNotFound           - FindByID found no profile
//	ErrEmptyCallerID          - CreateOrUpdate called without a caller id
package mongo
