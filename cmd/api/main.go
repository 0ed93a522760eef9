package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/agendaplus/salon-scheduler/internal/cache"
	"github.com/agendaplus/salon-scheduler/internal/config"
	dbpkg "github.com/agendaplus/salon-scheduler/internal/db"
	"github.com/agendaplus/salon-scheduler/internal/middleware"
	"github.com/agendaplus/salon-scheduler/internal/routes"
	"github.com/agendaplus/salon-scheduler/internal/storage"
	ucAppointment "github.com/agendaplus/salon-scheduler/internal/usecase/appointment"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	var slotCache ucAppointment.SlotCache = ucAppointment.NopSlotCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		slotCache = cache.NewAvailabilityCache(rdb, cfg.AvailabilityTTL)
	}

	avatars := storage.NewAvatarStore(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		SlotCache: slotCache,
		Avatars:   avatars,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
