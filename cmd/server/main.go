package main

import (
	"context"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"gymmate/internal/adapters/cache"
	emailPkg "gymmate/internal/adapters/email"
	"gymmate/internal/adapters/gateway"
	web "gymmate/internal/adapters/http"
	"gymmate/internal/adapters/notify"
	"gymmate/internal/adapters/push"
	"gymmate/internal/adapters/storage"
	firedalarmStore "gymmate/internal/adapters/storage/firedalarm"
	kvStore "gymmate/internal/adapters/storage/kv"
	"gymmate/internal/application/orchestrators"
	"gymmate/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// kvTokenSource resolves the API bearer token: the GYMMATE_API_TOKEN
// environment variable wins, otherwise the persisted value is used.
type kvTokenSource struct {
	kv kvStore.Store
}

func (s kvTokenSource) Token(ctx context.Context) string {
	if tok := os.Getenv("GYMMATE_API_TOKEN"); tok != "" {
		return tok
	}
	return s.kv.Get(ctx, kvStore.KeyBearerToken)
}

func main() {
	// .env is a development convenience; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(envOrDefault("GYMMATE_CONFIG", "gymmate.yaml"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	// WAL mode with a busy timeout so the poller and the dashboard can
	// share the database.
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	kv := kvStore.NewSQLiteStore(db)
	fired := firedalarmStore.NewSQLiteStore(db)

	client := gateway.NewClient(cfg.APIBaseURL, kvTokenSource{kv: kv}, loc)
	events := cache.NewEvents()

	hub := push.NewHub()

	var player notify.Player = notify.NoopPlayer{}
	if p := notify.NewExecPlayer(cfg.AudioCommand); p != nil {
		player = p
	}
	audio := notify.NewAudioQueue(player)
	audio.Start()
	defer audio.Stop()

	banner := notify.NewBannerSink(hub, audio)
	sinks := notify.Multi{banner}
	if cfg.Email.To != "" {
		var sender emailPkg.Sender = emailPkg.NewNoopSender()
		if cfg.Email.APIKey != "" {
			sender = emailPkg.NewResendSender(cfg.Email.APIKey, cfg.Email.From)
			log.Println("Email notifications configured (Resend)")
		} else {
			log.Println("Email notifications configured (noop — set email.api_key for real delivery)")
		}
		sinks = append(sinks, notify.NewEmailSink(sender, cfg.Email.To))
	}

	poller := orchestrators.NewReminderPoller(orchestrators.ReminderPollerDeps{
		Events: events,
		Fired:  fired,
		Sink:   sinks,
	})
	poller.Start()
	defer poller.Stop()

	refreshDeps := orchestrators.RefreshEventsDeps{Gateway: client, Cache: events}
	orchestrators.ExecuteRefreshEvents(context.Background(), refreshDeps)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		orchestrators.ExecuteRefreshEvents(context.Background(), refreshDeps)
	}); err != nil {
		log.Fatalf("invalid refresh schedule %q: %v", cfg.RefreshSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.PushChannelURL != "" {
		sub := push.NewSubscriber(cfg.PushChannelURL, sinks)
		sub.Start()
		defer sub.Stop()
	}

	router := web.NewRouter(web.Deps{
		Events:   events,
		Gateway:  client,
		Banner:   banner,
		Hub:      hub,
		Location: loc,
	}, web.Auth{User: cfg.BasicAuthUser, Hash: cfg.BasicAuthHash}, loadCSRFKey(cfg.CSRFKey))

	log.Printf("GymMate %s listening on %s (schema=%d)", version, cfg.ListenAddr, storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// loadCSRFKey decodes the configured hex key. Empty means a random
// per-startup key, which only costs form tokens across restarts.
func loadCSRFKey(keyHex string) []byte {
	if keyHex == "" {
		return nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		log.Fatal("csrf_key must be 64 hex characters (32 bytes)")
	}
	return key
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
