package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/workhive-id/workhive_be/internal/config"
	"github.com/workhive-id/workhive_be/internal/db"
	"github.com/workhive-id/workhive_be/internal/handlers"
	"github.com/workhive-id/workhive_be/internal/identity"
	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/objectstore"
	"github.com/workhive-id/workhive_be/internal/realtime"
	"github.com/workhive-id/workhive_be/internal/repository"
	"github.com/workhive-id/workhive_be/internal/session"
	"github.com/workhive-id/workhive_be/internal/workers"

	st "github.com/workhive-id/workhive_be/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.FreelancerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Review{},
		&models.FileRecord{},
		&models.Conversation{},
		&models.Message{},
	); err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis not reachable:", err)
	}

	objects, err := objectstore.New(objectstore.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := objects.EnsureBucket(context.Background()); err != nil {
		log.Fatal(err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	gs := st.NewGorm(gdb)

	provider := identity.NewUserProvider(gs, identity.NewRedisLimiter(rdb))
	tracker := session.NewTracker(provider)
	defer tracker.Close()

	projectRepo := repository.NewProjectRepo(gs)
	proposalRepo := repository.NewProposalRepo(gs, gs)
	profileRepo := repository.NewProfileRepo(gs)
	reviewRepo := repository.NewReviewRepo(gs, gs, profileRepo)
	fileRepo := repository.NewFileRepo(gs, objects)

	workers.StartOrphanCleanup(fileRepo, time.Hour)

	authH := &handlers.AuthHandler{
		Tracker:   tracker,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		Users:           gs,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	guardH := &handlers.GuardHandler{Profiles: gs, Projects: gs}
	projectH := handlers.NewProjectHandler(projectRepo)
	proposalH := handlers.NewProposalHandler(proposalRepo)
	profileH := handlers.NewProfileHandler(profileRepo)
	reviewH := handlers.NewReviewHandler(reviewRepo)
	fileH := handlers.NewFileHandler(fileRepo)
	chatH := handlers.NewChatHandler(gs, gs, hub, rdb, cfg.JWTSecret)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/reset-password", authH.ResetPassword)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	api.Get("/projects", projectH.ListPublished)
	api.Get("/projects/featured", projectH.ListFeatured)
	api.Get("/profiles/freelancer/:userId", profileH.GetFreelancer)
	api.Get("/profiles/freelancer/:userId/reviews", reviewH.ByFreelancer)

	// protected (session cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachPrincipal(gs),
	)

	protected.Get("/me", authH.Me)
	protected.Get("/guards/home", guardH.Home)
	protected.Get("/guards/:name", guardH.Check)

	// projects
	protected.Post("/projects",
		middleware.RequireRoles(models.RoleClient),
		projectH.Create,
	)
	protected.Get("/projects/mine",
		middleware.RequireRoles(models.RoleClient),
		projectH.Mine,
	)
	protected.Get("/projects/:id", projectH.Get)
	protected.Put("/projects/:id", projectH.Update)
	protected.Delete("/projects/:id", projectH.Delete)
	protected.Patch("/projects/:id/status", projectH.UpdateStatus)
	protected.Get("/projects/:id/files", fileH.ByProject)
	protected.Post("/projects/:id/reviews",
		middleware.RequireRoles(models.RoleClient, models.RoleAdmin),
		reviewH.Submit,
	)

	// proposals
	protected.Post("/projects/:id/proposals",
		middleware.RequireRoles(models.RoleFreelancer),
		proposalH.Submit,
	)
	protected.Get("/projects/:id/proposals", proposalH.ByProject)
	protected.Get("/proposals/mine",
		middleware.RequireRoles(models.RoleFreelancer),
		proposalH.Mine,
	)
	protected.Get("/proposals/stats",
		middleware.RequireRoles(models.RoleFreelancer),
		proposalH.Stats,
	)
	protected.Get("/proposals/:id", proposalH.Get)
	protected.Patch("/proposals/:id/status", proposalH.UpdateStatus)

	// profiles
	protected.Post("/profiles/client",
		middleware.RequireRoles(models.RoleClient),
		profileH.CreateClient,
	)
	protected.Post("/profiles/freelancer",
		middleware.RequireRoles(models.RoleFreelancer),
		profileH.CreateFreelancer,
	)
	protected.Get("/profiles/client/:userId", profileH.GetClient)
	protected.Put("/profiles/client",
		middleware.RequireRoles(models.RoleClient),
		profileH.UpdateClient,
	)
	protected.Put("/profiles/freelancer",
		middleware.RequireRoles(models.RoleFreelancer),
		profileH.UpdateFreelancer,
	)
	protected.Get("/profiles/completion", profileH.Completion)

	// files
	protected.Post("/files", fileH.Upload)
	protected.Get("/files/mine", fileH.Mine)
	protected.Get("/files/:id", fileH.Get)
	protected.Delete("/files/:id", fileH.Delete)

	// chat
	chat := protected.Group("/chat")
	chat.Post("/conversations", chatH.CreateOrGetConversation)
	chat.Get("/conversations", chatH.GetConversations)
	chat.Get("/conversations/:id/messages", chatH.GetMessages)
	chat.Post("/conversations/:id/messages", chatH.SendMessage)
	chat.Patch("/conversations/:id/read", chatH.MarkAsRead)
	chat.Get("/unread", chatH.GetUnreadTotal)

	// websocket, authenticated via the session cookie
	app.Get("/ws/chat", websocket.New(chatH.WebSocketHandler))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
