package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"faceattend/internal/attendance"
	"faceattend/internal/auth"
	"faceattend/internal/config"
	"faceattend/internal/facerec"
	"faceattend/internal/handler"
	"faceattend/internal/httpmiddleware"
	"faceattend/internal/metrics"
	"faceattend/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var locker attendance.Locker
	if cfg.LockBackend == "memory" {
		locker = attendance.NewKeyedMutex()
	} else {
		locker = store.NewRedisLocker(redisClient.Client, "faceattend:submit:")
	}

	engine, err := facerec.NewDlibEngine(cfg.FaceModelsDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	gallery := facerec.NewGallery(cfg.DatasetDir, engine)
	if err := gallery.Reload(); err != nil {
		// Empty or missing dataset dir is fine on first boot; everyone is
		// Unknown until a registration happens.
		log.Printf("warning: initial gallery load: %v", err)
	}
	metrics.GallerySize.Set(float64(gallery.Size()))
	log.Printf("gallery loaded with %d known face(s)", gallery.Size())

	recognizer := facerec.NewRecognizer(gallery, engine, cfg.MatchThreshold)

	repo := attendance.NewRepository(db.Client)
	svc := attendance.NewService(repo, locker)
	h := handler.New(repo, svc, gallery, recognizer)

	// Photos dropped into the dataset dir out-of-band get picked up on a
	// schedule, not only on registration.
	scheduler := gocron.NewScheduler(time.Local)
	if cfg.ReloadInterval > 0 {
		if _, err := scheduler.Every(cfg.ReloadInterval).Do(func() {
			if err := gallery.Reload(); err != nil {
				log.Printf("scheduled gallery reload failed: %v", err)
				return
			}
			metrics.GallerySize.Set(float64(gallery.Size()))
		}); err != nil {
			return err
		}
		scheduler.StartAsync()
		defer scheduler.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy, "gallery": gallery.Size()})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AI Attendance System Backend is Running"})
	})

	r.POST("/api/devices/register", func(c *gin.Context) {
		var req struct {
			DeviceID string `json:"device_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tokens, err := auth.Issue(req.DeviceID, "device", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
		})
	})

	api := r.Group("/api", auth.DeviceAuth(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.AuthRequired))
	api.POST("/add-user", h.AddUser)
	api.POST("/mark-attendance", h.MarkAttendance)
	api.GET("/get-attendance", h.GetAttendance)
	api.GET("/get-weekly-attendance", h.GetWeeklyAttendance)
	api.GET("/get-monthly-attendance", h.GetMonthlyAttendance)
	api.GET("/get-yearly-attendance", h.GetYearlyAttendance)
	api.GET("/get-total-hours", h.GetTotalHours)
	api.GET("/employees", h.ListEmployees)
	api.GET("/export-attendance", h.ExportAttendance)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
