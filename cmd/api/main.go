// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/gorilla/mux"
    "github.com/jmoiron/sqlx"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/go-redis/redis/v8"

    // Internal packages
    "github.com/coha-app/coha-backend/internal/auth"
    "github.com/coha-app/coha-backend/internal/common/database"
    "github.com/coha-app/coha-backend/internal/config"
    "github.com/coha-app/coha-backend/internal/matching"
    "github.com/coha-app/coha-backend/internal/messaging"
    "github.com/coha-app/coha-backend/internal/notifications"
    "github.com/coha-app/coha-backend/internal/profile"
)

var startTime = time.Now()

func main() {
    log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

    log.Println("========================================")
    log.Println("🚀 Starting Coha Roommate Matching API")
    log.Println("========================================")

    // 1. Load environment variables
    log.Println("📁 Step 1: Loading .env file...")
    if err := godotenv.Load(); err != nil {
        log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
    } else {
        log.Println("✅ .env file loaded successfully")
    }

    // 2. Load and validate configuration
    log.Println("\n📋 Step 2: Loading configuration...")
    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal("❌ Configuration validation failed:", err)
    }
    log.Println("✅ Configuration loaded and valid")

    // 3. Connect to PostgreSQL
    log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
    db, err := database.NewPostgresDB(database.DefaultPostgresConfig(cfg.DatabaseURL))
    if err != nil {
        log.Fatal("❌ Failed to connect to PostgreSQL:", err)
    }
    defer db.Close()
    log.Println("✅ Connected to PostgreSQL successfully")

    // 4. Connect to Redis (optional)
    log.Println("\n📮 Step 4: Connecting to Redis...")
    var redisClient *redis.Client
    if cfg.RedisURL != "" {
        redisClient, err = database.NewRedisClient(cfg.RedisURL)
        if err != nil {
            log.Printf("⚠️  Redis unavailable (%v), continuing without token revocation", err)
            redisClient = nil
        } else {
            defer redisClient.Close()
            log.Println("✅ Connected to Redis successfully")
        }
    } else {
        log.Println("⚠️  Redis URL not configured, skipping Redis connection")
    }

    // 5. Run database migrations
    log.Println("\n🔨 Step 5: Running database migrations...")
    if err := runMigrations(db); err != nil {
        log.Fatal("❌ Failed to run migrations: ", err)
    }
    log.Println("✅ Database migrations completed")

    sqlxDB := sqlx.NewDb(db, "postgres")

    // 6. Initialize Auth system
    log.Println("\n🔐 Step 6: Initializing authentication system...")

    authRepo := auth.NewPostgresRepository(db)
    authService := auth.NewService(authRepo, redisClient, &auth.Config{
        JWTSecret:          cfg.JWTSecret,
        AccessTokenExpiry:  cfg.AccessTokenExpiry,
        RefreshTokenExpiry: cfg.RefreshTokenExpiry,
        BCryptCost:         cfg.BCryptCost,
        GoogleClientID:     cfg.GoogleClientID,
    })
    authHandler := auth.NewHandler(authService)
    authMiddleware := auth.NewMiddleware(authService)
    log.Println("✅ Authentication system initialized")

    // 7. Initialize Profile system
    log.Println("\n👤 Step 7: Initializing Profile system...")

    profileRepo := profile.NewPostgresRepository(sqlxDB)

    var uploadService profile.UploadService
    if cfg.UseS3 {
        uploadService, err = profile.NewS3UploadService(cfg.S3BucketName, cfg.AWSRegion)
        if err != nil {
            log.Printf("⚠️  Failed to init S3, falling back to local storage: %v", err)
            uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL)
        } else {
            log.Println("   ✅ Using S3 for avatar uploads")
        }
    } else {
        uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL)
        log.Println("   ✅ Using local storage for avatar uploads")
    }

    profileService := profile.NewService(profileRepo, uploadService, cfg.MaxAvatarSizeMB)
    profileHandler := profile.NewHandler(profileService)
    log.Println("✅ Profile system initialized")

    // 8. Initialize Notifications module
    log.Println("\n🔔 Step 8: Initializing Notifications module...")

    notificationsRepo := notifications.NewPostgresRepository(sqlxDB)

    var emailProvider notifications.EmailProvider
    switch cfg.EmailProvider {
    case "sendgrid":
        emailProvider, err = notifications.NewSendGridProvider(cfg.SendGridAPIKey, cfg.EmailFrom, "Coha")
        if err != nil {
            log.Fatal("❌ Failed to init SendGrid:", err)
        }
        log.Println("   ✅ Using SendGrid for emails")
    case "smtp":
        emailProvider, err = notifications.NewSMTPProvider(
            cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, "Coha")
        if err != nil {
            log.Fatal("❌ Failed to init SMTP:", err)
        }
        log.Println("   ✅ Using SMTP for emails")
    default:
        emailProvider = notifications.NewMockEmailProvider()
        log.Println("   ⚠️  Using mock email provider (development mode)")
    }

    var smsProvider notifications.SMSProvider
    switch cfg.SMSProvider {
    case "twilio":
        smsProvider, err = notifications.NewTwilioProvider(
            cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
        if err != nil {
            log.Fatal("❌ Failed to init Twilio:", err)
        }
        log.Println("   ✅ Using Twilio for SMS")
    default:
        smsProvider = notifications.NewMockSMSProvider()
        log.Println("   ⚠️  Using mock SMS provider (development mode)")
    }

    notificationsService := notifications.NewService(notificationsRepo, emailProvider, smsProvider, notifications.Config{
        EmailEnabled: cfg.EnableEmailNotifications,
        SMSEnabled:   cfg.EnableSMSNotifications,
    })
    notificationsHandler := notifications.NewHandler(notificationsService)
    log.Println("✅ Notifications module initialized")

    // 9. Initialize Matching module
    log.Println("\n🤝 Step 9: Initializing Matching module...")

    matchingRepo := matching.NewPostgresRepository(sqlxDB)
    matchingService := matching.NewService(matchingRepo, notificationsService, cfg.MatchingTopN)
    matchingHandler := matching.NewHandler(matchingService)
    log.Println("✅ Matching module initialized")

    // 10. Initialize Messaging module
    log.Println("\n💬 Step 10: Initializing Messaging module...")

    messagingRepo := messaging.NewPostgresRepository(sqlxDB)
    messagingService := messaging.NewService(messagingRepo, matchingService)

    messagingHub := messaging.NewHub()
    messagingService.SetHub(messagingHub)
    go messagingHub.Run()
    log.Println("   ✅ WebSocket hub started")

    messagingHandler := messaging.NewHandler(messagingService)
    log.Println("✅ Messaging module initialized")

    // 11. Set up routes
    log.Println("\n🛣️  Step 11: Setting up routes...")
    router := mux.NewRouter()

    // Static files for local avatar uploads
    if !cfg.UseS3 {
        router.PathPrefix("/uploads/").Handler(
            http.StripPrefix("/uploads/",
                http.FileServer(http.Dir(cfg.LocalUploadDir))))
        log.Println("   ✅ Static file server configured")
    }

    router.HandleFunc("/health", healthCheck).Methods("GET")
    router.Handle("/metrics", promhttp.Handler()).Methods("GET")

    authHandler.RegisterRoutes(router, authMiddleware)
    profile.RegisterRoutes(router, profileHandler, authMiddleware)
    matching.RegisterRoutes(router, matchingHandler, authMiddleware)
    messaging.RegisterRoutes(router, messagingHandler, messagingHub, messagingService, authMiddleware)
    notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
    log.Println("   ✅ All routes registered")

    router.Use(loggingMiddleware)
    router.Use(corsMiddleware)

    // Periodic purge of old read notifications
    go startNotificationCleanup(notificationsRepo)

    // 12. Create and start HTTP server
    srv := &http.Server{
        Addr:         fmt.Sprintf(":%s", cfg.Port),
        Handler:      router,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Println("\n========================================")
        log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
        log.Printf("🌍 Environment: %s", cfg.Environment)
        log.Println("========================================")

        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal("❌ Failed to start server:", err)
        }
    }()

    // Wait for interrupt signal
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Println("\n⚠️  Shutdown signal received...")

    log.Println("   - Shutting down messaging hub...")
    messagingHub.Shutdown()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatal("❌ Server forced to shutdown:", err)
    }

    log.Println("✅ Server exited gracefully")
}

// startNotificationCleanup deletes read notifications older than 30 days,
// once a day.
func startNotificationCleanup(repo notifications.Repository) {
    ticker := time.NewTicker(24 * time.Hour)
    defer ticker.Stop()

    for range ticker.C {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
        deleted, err := repo.DeleteOldNotifications(ctx, time.Now().Add(-30*24*time.Hour))
        if err != nil {
            log.Printf("Failed to clean up old notifications: %v", err)
        } else if deleted > 0 {
            log.Printf("Cleaned up %d old notifications", deleted)
        }
        cancel()
    }
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
    response := map[string]interface{}{
        "status":    "healthy",
        "timestamp": time.Now().Format(time.RFC3339),
        "uptime":    time.Since(startTime).String(),
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

        wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
        next.ServeHTTP(wrapped, r)

        duration := time.Since(start)
        log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
    })
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
    http.ResponseWriter
    statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.statusCode = code
    rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }

        next.ServeHTTP(w, r)
    })
}

// runMigrations executes database migrations
func runMigrations(db *sql.DB) error {
    migrations := []string{
        // Users table
        `CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE NOT NULL,
            password_hash VARCHAR(255),
            provider VARCHAR(50) DEFAULT 'local',
            provider_id VARCHAR(255),
            is_verified BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Sessions table
        `CREATE TABLE IF NOT EXISTS sessions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            token TEXT NOT NULL UNIQUE,
            refresh_token TEXT NOT NULL UNIQUE,
            device_info TEXT,
            ip_address VARCHAR(45),
            expires_at TIMESTAMP NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Universities table
        `CREATE TABLE IF NOT EXISTS universities (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) UNIQUE NOT NULL,
            domain VARCHAR(255),
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Profiles table
        `CREATE TABLE IF NOT EXISTS profiles (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            first_name VARCHAR(100) NOT NULL,
            last_name VARCHAR(100) NOT NULL,
            university_id BIGINT REFERENCES universities(id),
            year VARCHAR(20),
            major VARCHAR(100),
            gender VARCHAR(20),
            bio TEXT,
            phone VARCHAR(20),
            instagram VARCHAR(100),
            avatar_url TEXT,
            privacy_settings JSONB DEFAULT '{}',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Questionnaire preference vectors, one row per user
        `CREATE TABLE IF NOT EXISTS user_preferences (
            user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            sleep_schedule VARCHAR(30) NOT NULL,
            social_room_preference VARCHAR(30) NOT NULL,
            overnight_guests VARCHAR(30) NOT NULL,
            sharing_comfort VARCHAR(30) NOT NULL,
            cleanliness VARCHAR(30) NOT NULL,
            temperature_preference VARCHAR(30) NOT NULL,
            eating_in_room VARCHAR(30) NOT NULL,
            noise_tolerance VARCHAR(30) NOT NULL,
            mbti_personality VARCHAR(10) NOT NULL,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Matches are stored with the lower user id first so the pair is unique
        `CREATE TABLE IF NOT EXISTS matches (
            id BIGSERIAL PRIMARY KEY,
            user_a_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user_b_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            compatibility_score INTEGER NOT NULL,
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            action_a VARCHAR(20) NOT NULL DEFAULT '',
            action_b VARCHAR(20) NOT NULL DEFAULT '',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT matches_ordered_pair CHECK (user_a_id < user_b_id),
            CONSTRAINT matches_unique_pair UNIQUE (user_a_id, user_b_id)
        )`,

        // Messages table
        `CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
            sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            read_at TIMESTAMP,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Notifications table
        `CREATE TABLE IF NOT EXISTS notifications (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type VARCHAR(50) NOT NULL,
            title VARCHAR(200) NOT NULL,
            message TEXT NOT NULL,
            data JSONB DEFAULT '{}',
            is_read BOOLEAN DEFAULT FALSE,
            read_at TIMESTAMP,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Indexes
        `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
        `CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token)`,
        `CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
        `CREATE INDEX IF NOT EXISTS idx_profiles_university_id ON profiles(university_id)`,
        `CREATE INDEX IF NOT EXISTS idx_matches_user_a ON matches(user_a_id)`,
        `CREATE INDEX IF NOT EXISTS idx_matches_user_b ON matches(user_b_id)`,
        `CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status)`,
        `CREATE INDEX IF NOT EXISTS idx_messages_match_id ON messages(match_id, id DESC)`,
        `CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id, id DESC)`,

        // Seed universities for development
        `INSERT INTO universities (name, domain) VALUES
            ('Stanford University', 'stanford.edu'),
            ('University of California, Berkeley', 'berkeley.edu'),
            ('University of Michigan', 'umich.edu'),
            ('New York University', 'nyu.edu'),
            ('University of Texas at Austin', 'utexas.edu')
        ON CONFLICT (name) DO NOTHING`,
    }

    for i, migration := range migrations {
        if _, err := db.Exec(migration); err != nil {
            if strings.Contains(err.Error(), "already exists") {
                continue
            }
            return fmt.Errorf("migration %d failed: %w", i+1, err)
        }
    }

    return nil
}
