package entitlement

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func init() {
	log.SetOutput(io.Discard)
}

type ownedSet struct {
	owned map[string]bool
	err   error
}

func (o ownedSet) HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error) {
	return o.owned[buyerID+"/"+promptID], o.err
}

func startServer(t *testing.T, checker Checker) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor))
	Register(s, NewServer(checker))
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHasPurchased_RoundTrip(t *testing.T) {
	conn := startServer(t, ownedSet{owned: map[string]bool{"u1/p1": true}})
	c := NewClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := c.HasPurchased(ctx, "u1", "p1")
	if err != nil || !ok {
		t.Fatalf("owned: ok=%v err=%v", ok, err)
	}
	ok, err = c.HasPurchased(ctx, "u1", "p2")
	if err != nil || ok {
		t.Fatalf("not owned: ok=%v err=%v", ok, err)
	}
}

func TestHasPurchased_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewClient(startServer(t, ownedSet{}))
	if _, err := c.HasPurchased(ctx, "", "p1"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("missing buyer: %v", err)
	}

	broken := NewClient(startServer(t, ownedSet{err: errors.New("db down")}))
	if _, err := broken.HasPurchased(ctx, "u1", "p1"); status.Code(err) != codes.Internal {
		t.Fatalf("storage failure: %v", err)
	}
}

func TestHealthServing(t *testing.T) {
	conn := startServer(t, ownedSet{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil || res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("health=%v err=%v", res, err)
	}
}

func TestHasPurchased_DownServiceFailsFast(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lis.Addr().String()
	_ = lis.Close()

	c, conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	start := time.Now()
	_, err = c.HasPurchased(context.Background(), "u1", "p1")
	if code := status.Code(err); code != codes.Unavailable && code != codes.DeadlineExceeded {
		t.Fatalf("want unavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > callTimeout+time.Second {
		t.Fatalf("call blocked for %s", elapsed)
	}
}
