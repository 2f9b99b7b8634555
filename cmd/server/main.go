package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "kupu/internal/adapters/email"
	web "kupu/internal/adapters/http"
	"kupu/internal/adapters/http/perf"
	"kupu/internal/adapters/images"
	"kupu/internal/adapters/storage"
	accountStore "kupu/internal/adapters/storage/account"
	categoryStore "kupu/internal/adapters/storage/category"
	entryStore "kupu/internal/adapters/storage/entry"
	"kupu/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("KUPU_DB", "kupu.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		EntryStore:    entryStore.NewSQLiteStore(timedDB),
		CategoryStore: categoryStore.NewSQLiteStore(timedDB),
		AccountStore:  acctStore,
	}

	// Seed roles, then a default admin account if no accounts exist
	seedDeps := orchestrators.SeedDeps{
		AccountStore: acctStore,
		GenerateID:   uuid.NewString,
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteSeedRoles(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	adminEmail := envOrDefault("KUPU_ADMIN_EMAIL", "kaiako@papakupu.nz")
	adminPassword := envOrDefault("KUPU_ADMIN_PASSWORD", "He kupu huna")
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("KUPU_RESEND_KEY")
	emailFrom := envOrDefault("KUPU_RESEND_FROM", "Te Papakupu <noreply@papakupu.nz>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("KUPU_ENV") == "production" {
			log.Println("WARNING: KUPU_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set KUPU_RESEND_KEY for real delivery)")
		}
	}

	// Word images are matched by headword against the image directory
	imagesDir := envOrDefault("KUPU_IMAGES_DIR", "static/images")
	web.SetImageLookup(images.NewDirLookup(imagesDir))

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector)

	// Start server
	addr := envOrDefault("KUPU_ADDR", ":8080")
	log.Printf("Kupu %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("KUPU_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
