package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gestionale/internal/calendar"
	"gestionale/internal/rest"
	"gestionale/internal/telegram"
	"gestionale/pkg/config"
	"gestionale/pkg/logger"
	"gestionale/pkg/notifier"
	"gestionale/pkg/pgstore"
	"gestionale/pkg/service"
	"gestionale/pkg/worker"
)

const version = "0.1.0"

func main() {
	log := logger.NewLogger()
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using system environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := pgstore.NewStore(ctx, log, cfg.PGDSN)
	if err != nil {
		log.Panicf("err connecting to store: %v", err)
	}
	if err = store.Migrate(migrate.Up); err != nil {
		log.Panicf("err running migrations: %v", err)
	}

	var notify service.Notifier = notifier.NewDummyNotifier(log)
	if cfg.TGToken != "" {
		bot, errBot := telegram.NewBot(cfg.TGToken)
		if errBot != nil {
			log.Panic(errBot)
		}
		notify = telegram.NewNotifier(log, bot)
	}

	var cal service.CalendarPublisher
	if cfg.GoogleCreds != "" && cfg.GoogleCalendar != "" {
		cal, err = calendar.New(ctx, log, cfg.GoogleCreds, cfg.GoogleCalendar)
		if err != nil {
			log.Panic(err)
		}
	}

	app := service.NewGestionaleService(log, store, notify, cal)

	privateKey, publicKey := loadKeys(log, cfg)
	server := rest.NewServer(log, app, cfg.Address, version, privateKey, publicKey)
	reminders := worker.New(log, store, notify, time.Duration(cfg.ReminderWindow)*time.Hour)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
		<-sigCh
		log.Info("Received signal, shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reminders.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err = server.Run(ctx); err != nil {
			log.Panic(err)
		}
	}()
	wg.Wait()
	log.Info("Server stopped")
}

// loadKeys reads the signing key pair from PEM files. Without them an
// ephemeral pair is generated, which is fine locally but invalidates every
// token on restart.
func loadKeys(log *logrus.Logger, cfg config.Config) (*rsa.PrivateKey, *rsa.PublicKey) {
	raw, err := os.ReadFile(cfg.JWTPrivateKey)
	if err != nil {
		log.Warnf("err reading %s, generating ephemeral key: %v", cfg.JWTPrivateKey, err)
		key, errGen := rsa.GenerateKey(rand.Reader, 2048)
		if errGen != nil {
			log.Panic(errGen)
		}
		return key, &key.PublicKey
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		log.Panicf("err parsing private key: %v", err)
	}
	rawPub, err := os.ReadFile(cfg.JWTPublicKey)
	if err != nil {
		log.Panicf("err reading public key: %v", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(rawPub)
	if err != nil {
		log.Panicf("err parsing public key: %v", err)
	}
	return privateKey, publicKey
}
