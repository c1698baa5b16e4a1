package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/MikeMC777/prompt-store/docs"
	"github.com/MikeMC777/prompt-store/internal/cart"
	"github.com/MikeMC777/prompt-store/internal/config"
	"github.com/MikeMC777/prompt-store/internal/entitlement"
	"github.com/MikeMC777/prompt-store/internal/httpx"
	"github.com/MikeMC777/prompt-store/internal/order"
	"github.com/MikeMC777/prompt-store/internal/payment"
	"github.com/MikeMC777/prompt-store/internal/profile"
	"github.com/MikeMC777/prompt-store/internal/prompt"
	"github.com/MikeMC777/prompt-store/internal/purchase"
)

// app bundles the services the HTTP handlers are built from.
type app struct {
	prompts   *prompt.Service
	carts     *cart.Service
	assembler *order.Assembler
	orders    order.Repository
	payments  *payment.Service
	recorder  *purchase.Recorder
	profiles  *profile.Service
	webhook   *profile.Webhook
	owners    prompt.Ownership
	auth      *httpx.Authenticator
	adminHash string
	devRoutes bool
}

// storage holds the repositories of one backend.
type storage struct {
	prompts   prompt.Repository
	orders    order.Repository
	purchases purchase.Repository
	profiles  profile.Repository
}

func memoryStorage() storage {
	prompts := prompt.NewMemRepo()
	return storage{
		prompts:   prompts,
		orders:    order.NewMemRepo(),
		purchases: purchase.NewMemRepo(prompts),
		profiles:  profile.NewMemRepo(),
	}
}

func postgresStorage(db *pgxpool.Pool) storage {
	return storage{
		prompts:   prompt.NewPGRepo(db),
		orders:    order.NewPGRepo(db),
		purchases: purchase.NewPGRepo(db),
		profiles:  profile.NewPGRepo(db),
	}
}

// newApp wires the services. owners may be a remote entitlement client; nil
// means ownership is read from the local purchase repository.
func newApp(cfg config.Config, st storage, store cart.Store, gateway payment.Gateway, owners prompt.Ownership) *app {
	if owners == nil {
		owners = st.purchases
	}
	prompts := prompt.NewService(st.prompts, owners)
	carts := cart.NewService(store, st.prompts, owners)
	return &app{
		prompts:   prompts,
		carts:     carts,
		assembler: order.NewAssembler(st.prompts, st.orders, owners),
		orders:    st.orders,
		payments: payment.NewService(gateway, st.orders, payment.Options{
			ClientKey:  cfg.Payment.ClientKey,
			SuccessURL: cfg.App.SuccessURL(),
			FailURL:    cfg.App.FailURL(),
		}),
		recorder:  purchase.NewRecorder(st.purchases, st.prompts, st.orders, carts),
		profiles:  profile.NewService(st.profiles),
		webhook:   profile.NewWebhook(cfg.Identity.WebhookSecret, st.profiles),
		owners:    owners,
		auth:      httpx.NewAuthenticator(cfg.Identity.JWTKey),
		adminHash: cfg.Admin.KeyHash,
		devRoutes: cfg.App.IsDevelopment(),
	}
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), gin.Recovery())
	r.NoRoute(httpx.NotFound())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/prompts", listPromptsHandler(a.prompts))
	api.GET("/prompts/:id", a.auth.OptionalUser(), getPromptHandler(a.prompts))
	api.POST("/webhooks/clerk", clerkWebhookHandler(a.webhook))

	user := api.Group("", a.auth.RequireUser())
	user.GET("/cart", getCartHandler(a.carts))
	user.POST("/cart", addToCartHandler(a.carts))
	user.DELETE("/cart", removeFromCartHandler(a.carts))
	user.DELETE("/cart/all", clearCartHandler(a.carts))
	user.POST("/cart/merge", mergeCartHandler(a.carts))
	user.POST("/checkout", checkoutHandler(a.carts, a.assembler, a.payments))
	user.POST("/payment/confirm", confirmPaymentHandler(a.payments))
	user.POST("/payment/fail", failPaymentHandler(a.payments))
	user.POST("/payment/save-purchase", savePurchaseHandler(a.recorder))
	user.GET("/orders", listOrdersHandler(a.orders))
	user.GET("/purchases", listPurchasesHandler(a.recorder))
	user.GET("/profile", getProfileHandler(a.profiles))
	user.PUT("/profile", updateProfileHandler(a.profiles))

	admin := api.Group("/admin", httpx.AdminKey(a.adminHash), a.auth.RequireUser())
	admin.GET("/prompts", adminListPromptsHandler(a.prompts))
	admin.POST("/prompts", adminCreatePromptHandler(a.prompts))
	admin.GET("/prompts/:id", adminGetPromptHandler(a.prompts))
	admin.PUT("/prompts/:id", adminUpdatePromptHandler(a.prompts))
	admin.DELETE("/prompts/:id", adminDeletePromptHandler(a.prompts))

	if a.devRoutes {
		user.POST("/dev/purchases", devPurchasesHandler(a.prompts, a.owners, a.recorder))
	}
	return r
}

// @title           Prompt Store API
// @version         1.0
// @description     Catalog, cart, checkout and purchase API of the prompt store.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	cfg := config.MustLoad()
	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db *pgxpool.Pool
		st storage
	)
	if cfg.Database.Backend == "postgres" || cfg.Cart.Backend == "postgres" {
		var err error
		db, err = pgxpool.New(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.Fatalf("[db] connect: %v", err)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatalf("[db] ping: %v", err)
		}
		log.Printf("[db] connected")
	}
	switch cfg.Database.Backend {
	case "postgres":
		st = postgresStorage(db)
	case "memory":
		st = memoryStorage()
	default:
		log.Fatalf("[config] unknown STORAGE_BACKEND %q", cfg.Database.Backend)
	}

	var store cart.Store
	switch cfg.Cart.Backend {
	case "postgres":
		store = cart.NewPGStore(db)
	case "redis":
		rcfg := cart.RedisConfig{
			Addr:     cfg.Cart.RedisAddr,
			Password: cfg.Cart.RedisPassword,
			DB:       cfg.Cart.RedisDB,
			TTL:      cfg.Cart.TTL,
		}
		client, err := cart.NewRedisClient(ctx, rcfg)
		if err != nil {
			log.Fatalf("[cart] redis: %v", err)
		}
		defer client.Close()
		store = cart.NewRedisStore(client, rcfg)
	case "memory":
		store = cart.NewMemoryStore()
	default:
		log.Fatalf("[config] unknown CART_BACKEND %q", cfg.Cart.Backend)
	}

	var owners prompt.Ownership
	if cfg.EntitlementAddr != "" {
		client, conn, err := entitlement.Dial(cfg.EntitlementAddr)
		if err != nil {
			log.Fatalf("[grpc] dial entitlement service: %v", err)
		}
		defer conn.Close()
		owners = client
		log.Printf("[grpc] ownership checks via %s", cfg.EntitlementAddr)
	}

	gateway := payment.NewClient(cfg.Payment.APIBaseURL, cfg.Payment.SecretKey, cfg.Payment.Timeout)
	router := newRouter(newApp(cfg, st, store, gateway, owners))

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(router)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("storefront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Printf("storefront shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}
