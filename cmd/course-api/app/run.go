package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/coursely/course-api/configs"
	"github.com/coursely/course-api/internal/adapter/blob"
	"github.com/coursely/course-api/internal/adapter/cache"
	httpadapter "github.com/coursely/course-api/internal/adapter/http"
	"github.com/coursely/course-api/internal/adapter/http/middleware"
	"github.com/coursely/course-api/internal/adapter/kafka"
	"github.com/coursely/course-api/internal/adapter/queue"
	"github.com/coursely/course-api/internal/adapter/repo"
	"github.com/coursely/course-api/internal/cart"
	"github.com/coursely/course-api/internal/logging"
	"github.com/coursely/course-api/internal/pricing"
	"github.com/coursely/course-api/internal/security"
	"github.com/coursely/course-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	l := logging.New("startup")

	// database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("ping mysql: %w", err)
	}

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	// rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}

	// crypto material seals password-reset tokens
	cm, err := security.NewCryptoMaterial(cfg)
	if err != nil {
		return nil, nil, err
	}
	cs, err := security.NewCryptoService(cm)
	if err != nil {
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	enrollRepo := repo.NewMySQLEnrollmentRepo(db)
	courseRepo := repo.NewMySQLCourseRepo(db)
	postRepo := repo.NewMySQLPostRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)

	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	catalogCache := cache.NewRedisCatalogCache(rdb, cfg.Cache.TTL)
	cartStore := cache.NewRedisCartStore(rdb, cfg.Cart.TTL)

	blobs, err := blob.NewFSStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("uploads dir: %w", err)
	}

	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbit producer: %w", err)
	}

	// usecases
	coupons := pricing.NewEvaluator(cfg.Coupons)
	checkoutUC := usecase.NewCheckout(orderRepo, enrollRepo, idem, coupons, producer)
	coursesUC := usecase.NewCourses(courseRepo, catalogCache, blobs)
	postsUC := usecase.NewPosts(postRepo, catalogCache)
	catalogUC := usecase.NewCatalog(courseRepo, postRepo, catalogCache)
	enrollmentsUC := usecase.NewEnrollments(enrollRepo, catalogCache)
	authUC := usecase.NewAuth(userRepo, security.NewBcryptHasher(), security.NewJWTIssuer(cfg),
		security.NewResetSealer(cs), cfg.Security.ResetTTL)

	carts := cart.NewManager(cartStore, cfg.Cart.NotificationHide)
	idle := cfg.Cart.IdleEviction
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	stopEvictor := carts.StartEvictor(idle, idle)

	// queue-handler: completed orders refresh the buyer's course list
	if err := setupQueue(ch, catalogCache); err != nil {
		return nil, nil, fmt.Errorf("amqp consumer: %w", err)
	}

	// kafka-listener: lesson progress events
	if err := setupKafkaListener(cfg, enrollmentsUC); err != nil {
		return nil, nil, fmt.Errorf("kafka consumer: %w", err)
	}

	// handlers + router + middleware
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Auth:       httpadapter.NewAuthHandler(authUC),
		Catalog:    httpadapter.NewCatalogHandler(catalogUC),
		Cart:       httpadapter.NewCartHandler(carts, catalogUC),
		Checkout:   httpadapter.NewCheckoutHandler(checkoutUC, orderRepo, enrollmentsUC, carts),
		Admin:      httpadapter.NewAdminHandler(coursesUC, postsUC),
		Authz:      authz,
		UploadsDir: cfg.Uploads.Dir,
	})

	l.Info("startup complete", "addr", cfg.App.HTTPAddr)

	cleanup := func() {
		stopEvictor()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, views queue.EnrollmentViews) error {
	h := queue.NewOrderCompletedHandler(views)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register("order.completed.q", queue.JSONHandler[usecase.OrderCompletedMsg]{HandleFunc: h.HandleCompleted})

	return router.Start()
}

func setupKafkaListener(cfg configs.Config, enrollments *usecase.Enrollments) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return err
	}

	h := kafka.NewProgressHandler(enrollments)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TopicProgress}, h.Handle)
	consumer.Logger = logging.New("kafka-progress")

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.New("kafka-progress").Error("consumer stopped", "err", err)
		}
	}()
	return nil
}
