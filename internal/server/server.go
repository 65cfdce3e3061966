package server

import (
	"time"

	"backend-nexus/internal/auth"
	"backend-nexus/internal/calendar"
	"backend-nexus/internal/config"
	"backend-nexus/internal/connection"
	"backend-nexus/internal/media"
	"backend-nexus/internal/post"
	"backend-nexus/internal/queue"
	"backend-nexus/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Queue  *queue.Queue
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Queue:  queue.New(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	publisherMiddleware := auth.PublisherMiddleware(s.Cfg.PublisherToken)

	connections := connection.NewService(s.DB)
	posts := post.NewService(s.DB, connections, s.Queue, s.Stream)

	post.RegisterRoutes(s.App.Group("/posts"), posts, jwtMiddleware, publisherMiddleware)
	calendar.RegisterRoutes(s.App.Group("/calendar"), posts, jwtMiddleware)
	connection.RegisterRoutes(s.App.Group("/connections"), connections, jwtMiddleware)
	media.RegisterRoutes(s.App.Group("/media"), media.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	// publisher worker polls here for posts whose scheduled_at has passed
	s.App.Get("/queue/due", publisherMiddleware, func(c *fiber.Ctx) error {
		ids, err := s.Queue.Due(c.Context(), time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if ids == nil {
			ids = []string{}
		}
		return c.JSON(fiber.Map{"post_ids": ids})
	})
}
