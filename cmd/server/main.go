package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gamepal/internal/config"
	"gamepal/internal/database"
	"gamepal/internal/handlers"
	"gamepal/internal/repository"
	"gamepal/internal/security"
	"gamepal/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Repositories
	guardianRepo := repository.NewGuardianRepository(db)
	childRepo := repository.NewChildRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	likeFeed := service.NewLikeFeed()
	authService := service.NewAuthService(guardianRepo, cfg.SessionDuration)
	guardianService := service.NewGuardianService(guardianRepo)
	childService := service.NewChildService(childRepo, taxonomyRepo)
	matchService := service.NewMatchService(childRepo, likeRepo)
	likeService := service.NewLikeService(likeRepo, childRepo, guardianRepo, likeFeed, emailService)
	meetingService := service.NewMeetingService(meetingRepo, likeService, guardianRepo, emailService)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, templates, oauthProviders, cfg.OAuthRedirectBaseURL)
	parentHandler := handlers.NewParentHandler(guardianService, childService, likeService, middleware, templates)
	childHandler := handlers.NewChildHandler(childService, middleware, templates)
	matchHandler := handlers.NewMatchHandler(matchService, childService, likeService, middleware, templates)
	likeHandler := handlers.NewLikeHandler(likeService, meetingService, middleware, templates)
	eventsHandler := handlers.NewEventsHandler(likeFeed)

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticPath))))

	// Public routes
	mux.HandleFunc("GET /{$}", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/forgot-password", authHandler.ShowForgotPassword)
	mux.HandleFunc("POST /auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("GET /auth/reset-password", authHandler.ShowResetPassword)
	mux.HandleFunc("POST /auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Guardian routes
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(parentHandler.Dashboard))
	mux.HandleFunc("GET /settings", middleware.RequireAuth(parentHandler.ShowSettings))
	mux.HandleFunc("POST /settings/profile", middleware.RequireAuth(middleware.CSRFProtect(parentHandler.UpdateProfile)))
	mux.HandleFunc("POST /settings/password", middleware.RequireAuth(middleware.CSRFProtect(parentHandler.ChangePassword)))
	mux.HandleFunc("POST /settings/delete-account", middleware.RequireAuth(middleware.CSRFProtect(parentHandler.DeleteAccount)))

	// Kids manager
	mux.HandleFunc("GET /kids", middleware.RequireAuth(childHandler.ShowKids))
	mux.HandleFunc("POST /kids/create", middleware.RequireAuth(middleware.CSRFProtect(childHandler.CreateChild)))
	mux.HandleFunc("POST /kids/{id}/update", middleware.RequireAuth(middleware.CSRFProtect(childHandler.UpdateChild)))
	mux.HandleFunc("POST /kids/{id}/delete", middleware.RequireAuth(middleware.CSRFProtect(childHandler.DeleteChild)))

	// Matchmaking and likes
	mux.HandleFunc("GET /matchmaking", middleware.RequireAuth(matchHandler.ShowMatchmaking))
	mux.HandleFunc("POST /likes", middleware.RequireAuth(middleware.CSRFProtect(matchHandler.SendLike)))
	mux.HandleFunc("POST /likes/{id}/withdraw", middleware.RequireAuth(middleware.CSRFProtect(matchHandler.WithdrawLike)))
	mux.HandleFunc("GET /matches", middleware.RequireAuth(likeHandler.ShowPendingMatches))
	mux.HandleFunc("POST /likes/{id}/approve", middleware.RequireAuth(middleware.CSRFProtect(likeHandler.Approve)))
	mux.HandleFunc("POST /likes/{id}/decline", middleware.RequireAuth(middleware.CSRFProtect(likeHandler.Decline)))
	mux.HandleFunc("GET /matches/approved", middleware.RequireAuth(likeHandler.ShowApprovedMatches))
	mux.HandleFunc("GET /notifications", middleware.RequireAuth(likeHandler.ShowNotifications))
	mux.HandleFunc("POST /matches/{id}/meetings", middleware.RequireAuth(middleware.CSRFProtect(likeHandler.ScheduleMeeting)))
	mux.HandleFunc("POST /meetings/{id}/cancel", middleware.RequireAuth(middleware.CSRFProtect(likeHandler.CancelMeeting)))

	// Realtime like feed
	mux.HandleFunc("GET /events", middleware.RequireAuth(eventsHandler.Stream))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpired(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "*.tmpl"),
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "parent/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"containsID": func(ids []int64, id int64) bool {
			for _, item := range ids {
				if item == id {
					return true
				}
			}
			return false
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpired periodically removes expired sessions and reset tokens
func cleanupExpired(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		}
	}
}
