package bootstrap

import (
	"context"
	"log"
	"time"

	"gymflow-be/internal/config"
	"gymflow-be/internal/controller"
	"gymflow-be/internal/handler"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/pkg/mailer"
	"gymflow-be/internal/pkg/serverutils"
	"gymflow-be/internal/pkg/validator"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/internal/service"
	"gymflow-be/internal/websocket"
	"gymflow-be/pkg/lifecycle"
	pktNats "gymflow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	PlanController    controller.PlanController
	MemberController  controller.IMemberController
	CheckinController controller.ICheckinController

	// Auth middleware per principal
	OwnerAuth  fiber.Handler
	MemberAuth fiber.Handler

	// Background workers, started by main
	FeedConsumer    service.IFeedConsumerService
	ActivityService *service.ActivityService

	// WebSockets
	CheckinFeedHandler *handler.CheckinFeedHandler
	WebSocketHub       *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	v := validator.New()

	engine := lifecycle.NewEngine(cfg.Lifecycle.Location(), cfg.Lifecycle.TrialDays)

	ownerCache := memory.NewOwnerCache(30 * time.Minute)
	loginLimiter := memory.NewLoginLimiter(cfg.Auth.LoginAttemptsMin)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
		sysLogger,
	)

	c := &Container{Logger: sysLogger}

	// 2. In-process feed bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure. NATS and Redis are optional: without them events are dropped and the
	// feed stays local to this instance.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, feedLogger)

	// 4. Services
	var publisher service.EventPublisher
	if natsPub != nil {
		publisher = natsPub
	}

	authService := service.NewAuthService(uowFactory, engine, loginLimiter, ownerCache, cfg.Auth, sysLogger)
	planService := service.NewPlanService(uowFactory, sysLogger)
	memberService := service.NewMemberService(uowFactory, engine, emailService, publisher, ownerCache, sysLogger)
	renewalService := service.NewRenewalService(uowFactory, engine, publisher, sysLogger)
	checkinService := service.NewCheckinService(uowFactory, engine, pubSub, publisher, sysLogger)

	c.FeedConsumer = service.NewFeedConsumerService(pubSub, service.CheckinFeedTopic, c.WebSocketHub, feedLogger)
	if natsSub != nil {
		c.ActivityService = service.NewActivityService(natsSub, c.WebSocketHub, feedLogger)
	}

	// 5. Controllers
	c.OwnerAuth = serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret, serverutils.RoleOwner)
	c.MemberAuth = serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret, serverutils.RoleMember)

	c.AuthController = controller.NewAuthController(authService, v)
	c.PlanController = controller.NewPlanController(planService, v)
	c.MemberController = controller.NewMemberController(memberService, renewalService, v)
	c.CheckinController = controller.NewCheckinController(checkinService, v)
	c.CheckinFeedHandler = handler.NewCheckinFeedHandler(c.WebSocketHub, feedLogger)

	return c
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, feed stays local: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
