// Package main initializes and starts the authentication server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers. It also provides an adduser subcommand for
// provisioning accounts.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/dkoval/authkit/internal/config"
	"github.com/dkoval/authkit/internal/db"
	"github.com/dkoval/authkit/internal/logger"
	"github.com/dkoval/authkit/internal/repository"
	"github.com/dkoval/authkit/internal/server/handler/http"
	"github.com/dkoval/authkit/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	command := flag.String("cmd", "serve", "command to run: serve or adduser")
	username := flag.String("user", "", "username for adduser")
	password := flag.String("pass", "", "password for adduser")
	enableTOTP := flag.Bool("totp", false, "enable one-time passcodes for adduser")

	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.TokenSecret == "" {
		zapLogger.Fatal("no token secret configured")
	}
	secret := []byte(options.TokenSecret)

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories and business-logic services.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	authService := service.NewAuthenticator(userRepo, secret,
		time.Duration(options.TokenTTLMinutes)*time.Minute, zapLogger)

	if *command == "adduser" {
		if *username == "" || *password == "" {
			zapLogger.Fatal("adduser requires -user and -pass")
		}
		url, err := authService.CreateUser(context.Background(), *username, *password, *enableTOTP)
		if err != nil {
			zapLogger.Fatal("cannot create user", zap.Error(err))
		}
		fmt.Printf("created user %s\n", *username)
		if url != "" {
			fmt.Printf("passcode provisioning URL: %s\n", url)
		}
		return
	}

	// Expire stale lockouts in the background.
	db.StartLockoutResetter(context.Background(), postgresDB,
		time.Minute, // interval
		zapLogger,
	)

	// Create HTTP handlers for auth and privilege endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	privilegesHandler := &http.PrivilegesHandler{PrivilegeService: authService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, privilegesHandler, secret, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
