package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"tourism-backend/config"
	"tourism-backend/controllers"
	"tourism-backend/migrations"
	"tourism-backend/routes"
	"tourism-backend/services"
)

const usage = `usage: tourism-backend [command]

commands:
  serve           run the HTTP server (default)
  migrate         apply pending database migrations
  rollback        undo the last migration
  create-admin    create an admin account (-email, -name, -surname; password from ADMIN_PASSWORD)
`

func main() {
	cmd := "serve"
	args := []string{}
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established")

	switch cmd {
	case "serve":
		err = serve(cfg, db)
	case "migrate":
		err = migrations.Run(db)
	case "rollback":
		err = migrations.RollbackLast(db)
	case "create-admin":
		err = createAdmin(cfg, db, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("❌ %s: %v", cmd, err)
	}
}

func createAdmin(cfg config.Config, db *gorm.DB, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	name := fs.String("name", "Admin", "first name")
	surname := fs.String("surname", "User", "surname")
	gender := fs.String("gender", "unspecified", "gender")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if *email == "" || password == "" {
		return errors.New("-email and ADMIN_PASSWORD are required")
	}

	accounts := services.NewAccountService(db, cfg.DBTimeout)
	account, err := accounts.CreateAdmin(context.Background(), services.RegisterInput{
		Name:     *name,
		Surname:  *surname,
		Email:    *email,
		Gender:   *gender,
		Password: password,
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Admin %s created (id %d)", account.Email, account.ID)
	return nil
}

func serve(cfg config.Config, db *gorm.DB) error {
	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	notifier := services.NewAvailabilityNotifier(32)
	mailer := services.NewMailer(cfg.SMTP, 128)
	mailer.Start()
	if !cfg.SMTP.Enabled() {
		log.Println("⚠️  SMTP not configured; confirmation emails are only logged")
	}

	// Initialize services
	accountService := services.NewAccountService(db, cfg.DBTimeout)
	sessionService := services.NewSessionService(db, cfg.JWTSecret, cfg.SessionTTL, cfg.DBTimeout)
	placeService := services.NewPlaceService(db, cfg.DBTimeout)
	bookingService := services.NewBookingService(db, cfg.DBTimeout, notifier, mailer)

	// Initialize controllers
	authController := controllers.NewAuthController(accountService, sessionService, cfg.CookieSecure)
	placeController := controllers.NewPlaceController(placeService)
	bookingController := controllers.NewBookingController(bookingService)
	availabilityController := controllers.NewAvailabilityController(notifier)
	adminController := controllers.NewAdminController(accountService)

	router := routes.SetupRouter(
		cfg.CORSOrigins,
		sessionService,
		authController,
		placeController,
		bookingController,
		availabilityController,
		adminController,
	)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	// Open streams only end when their subscription does.
	notifier.Close()
	if dropped := notifier.Dropped(); dropped > 0 {
		log.Printf("⚠️  %d availability events were dropped for slow subscribers", dropped)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	mailer.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server stopped gracefully")
	return nil
}
