package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/prompt-store/internal/config"
	"github.com/MikeMC777/prompt-store/internal/entitlement"
	"github.com/MikeMC777/prompt-store/internal/prompt"
	"github.com/MikeMC777/prompt-store/internal/purchase"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var purchases purchase.Repository
	switch cfg.Database.Backend {
	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.PostgresDSN)
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
		purchases = purchase.NewPGRepo(db)
	case "memory":
		log.Printf("[db] memory backend: entitlements start empty")
		purchases = purchase.NewMemRepo(prompt.NewMemRepo())
	default:
		log.Fatalf("[config] unknown STORAGE_BACKEND %q", cfg.Database.Backend)
	}

	l, err := net.Listen("tcp", cfg.Server.GRPCAddress())
	if err != nil {
		log.Fatal(err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(entitlement.LoggingInterceptor))
	entitlement.Register(s, entitlement.NewServer(purchases))
	hs := health.NewServer()
	hs.SetServingStatus(entitlement.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("entitlement-service listening on %s", l.Addr())
		return s.Serve(l)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("entitlement-service shutting down")
		hs.Shutdown()
		s.GracefulStop()
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("entitlement-service: %v", err)
	}
}
