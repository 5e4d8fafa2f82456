package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-tracker/controllers"
	"attendance-tracker/initializers"
	"attendance-tracker/routes"
	"attendance-tracker/utils"
)

func main() {
	cfg := initializers.LoadConfig()

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("register validators: ", err)
	}

	db, err := initializers.ConnectToDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := initializers.SeedAdmin(db, cfg); err != nil {
		log.Fatal(err)
	}

	mailer := utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword)
	r, err := routes.SetupRouter(controllers.New(db, cfg, mailer))
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[INFO] listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
