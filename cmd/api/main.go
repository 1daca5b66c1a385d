package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/config"
	apphttp "github.com/sinahmd/ecommerce/internal/http"
	"github.com/sinahmd/ecommerce/internal/http/cartcookie"
	"github.com/sinahmd/ecommerce/internal/http/handlers"
	adminhandlers "github.com/sinahmd/ecommerce/internal/http/handlers/admin"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/jobs"
	"github.com/sinahmd/ecommerce/internal/mailer"
	"github.com/sinahmd/ecommerce/internal/modules/blog"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/modules/dashboard"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/modules/payments"
	"github.com/sinahmd/ecommerce/internal/modules/users"
	"github.com/sinahmd/ecommerce/internal/storage"
)

func main() {
	// .env is a development convenience; prod uses real env vars.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	ctx := context.Background()
	store, err := storage.FromEnv(ctx)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage ready", "driver", store.Driver)

	var mail mailer.Service
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn("SMTP_HOST not set, outgoing email disabled")
		mail = &mailer.Mock{}
	}

	usersRepo := users.NewRepo(db)
	catalogRepo := catalog.NewRepo(db)
	catalogCache := catalog.NewCache(rdb, 0)
	ordersRepo := orders.NewRepo(db)
	ordersSvc := orders.NewService(db)
	adminSvc := orders.NewAdminService(db)
	blogRepo := blog.NewRepo(db)
	dashRepo := dashboard.NewRepo(db)

	gateway := payments.NewZarinPal(cfg.ZarinPal)
	notifier := mailer.NewOrderNotifier(mail, cfg.SMTP)
	callbackURL := cfg.HTTP.BaseURL + "/zarinpal/callback"
	paySvc := payments.NewService(db, gateway, callbackURL, notifier, logger)

	cartCodec := cartcookie.New(cfg.Auth.JWTSecret, "cart", cfg.HTTP.SecureCookies)
	limiter := middleware.NewLoginLimiter(rdb, 5, 0)

	uploadsDir := ""
	if store.Driver == "local" {
		uploadsDir = os.Getenv("LOCAL_UPLOAD_DIR")
		if uploadsDir == "" {
			uploadsDir = "./storage/uploads"
		}
	}

	r := apphttp.NewRouter(apphttp.RouterDeps{
		Cfg:     cfg,
		Log:     logger,
		Limiter: limiter,

		Auth:     handlers.NewAuthHandler(usersRepo, cfg.Auth, cfg.HTTP.SecureCookies),
		Account:  handlers.NewAccountHandler(usersRepo),
		Store:    handlers.NewStoreHandler(catalogRepo, catalogCache),
		Cart:     handlers.NewCartHandler(catalogRepo, cartCodec),
		Checkout: handlers.NewCheckoutHandler(ordersSvc, cartCodec, cfg.Shop.ShippingCents),
		Orders:   handlers.NewOrdersHandler(ordersRepo),
		Payment:  handlers.NewPaymentHandler(paySvc, cfg.HTTP.FrontendBaseURL),
		Blog:     handlers.NewBlogHandler(blogRepo),

		AdminCatalog:   adminhandlers.NewCatalogHandler(catalogRepo, catalogCache),
		AdminOrders:    adminhandlers.NewOrdersHandler(ordersRepo, adminSvc, paySvc),
		AdminUsers:     adminhandlers.NewUsersHandler(usersRepo),
		AdminDashboard: adminhandlers.NewDashboardHandler(dashRepo),
		AdminBlog:      adminhandlers.NewBlogHandler(blogRepo),
		AdminUploads:   adminhandlers.NewUploadsHandler(store.Storage),

		UploadsDir: uploadsDir,
	})

	cronRunner, err := jobs.Schedule(cfg.Jobs, db, logger)
	if err != nil {
		log.Fatalf("jobs: %v", err)
	}
	if cronRunner != nil {
		defer cronRunner.Stop()
	}

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := r.Run(cfg.HTTP.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
