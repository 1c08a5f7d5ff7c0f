package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"retroforum/internal/auth"
	"retroforum/internal/database"

	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	db        database.Service
	sessions  auth.Service
	uploadDir string
}

func New(db database.Service, sessions auth.Service, uploadDir string) *Server {
	return &Server{
		db:        db,
		sessions:  sessions,
		uploadDir: uploadDir,
	}
}

func NewServer() *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	ctx := context.Background()

	db, err := database.New(ctx)
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	if err := db.SeedCategories(ctx); err != nil {
		log.Fatalf("category seed error: %v", err)
	}

	sessionStore := auth.NewCookieStore(auth.SessionOptions{
		CookiesKey: os.Getenv("SESSION_SECRET"),
		MaxAge:     86400 * 30,
		Secure:     false,
		HttpOnly:   true,
	})

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("upload dir error: %v", err)
	}

	srv := New(db, auth.New(sessionStore, db), uploadDir)

	// Expired session rows pile up otherwise.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.CleanExpiredSessions(context.Background()); err != nil {
				log.Println("session cleanup error:", err)
			}
		}
	}()

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
