package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"kupu/internal/adapters/email"
	"kupu/internal/adapters/http/middleware"
	"kupu/internal/adapters/http/perf"
	"kupu/internal/adapters/images"
	accountStore "kupu/internal/adapters/storage/account"
	categoryStore "kupu/internal/adapters/storage/category"
	entryStore "kupu/internal/adapters/storage/entry"
	"kupu/internal/application/authz"
)

// Stores holds all storage dependencies.
type Stores struct {
	EntryStore    entryStore.Store
	CategoryStore categoryStore.Store
	AccountStore  accountStore.Store
}

// loadCSRFKey reads the CSRF secret from KUPU_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("KUPU_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("KUPU_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("KUPU_ENV") == "production" {
		log.Fatal("KUPU_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set KUPU_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global permission gate (set by NewMux, backed by the account store)
var gate *authz.Gate

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global image lookup instance (set by SetImageLookup, noop by default)
var imageLookup images.Lookup = images.NoopLookup{}

// SetImageLookup sets the image lookup used by the word pages.
func SetImageLookup(l images.Lookup) {
	imageLookup = l
}

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the email sender used for welcome emails.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	gate = authz.NewGate(s.AccountStore)
	production := os.Getenv("KUPU_ENV") == "production"
	middleware.SecureCookies = production

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, production),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
