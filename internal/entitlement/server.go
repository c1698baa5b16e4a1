// Package entitlement exposes purchase ownership over gRPC so other back ends can
// ask whether a buyer owns a prompt.
package entitlement

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName        = "promptstore.entitlement.v1.Entitlements"
	hasPurchasedMethod = "/" + ServiceName + "/HasPurchased"
)

// EntitlementsServer is the server API. Requests are Structs carrying
// buyer_id and prompt_id.
type EntitlementsServer interface {
	HasPurchased(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error)
}

func hasPurchasedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EntitlementsServer).HasPurchased(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: hasPurchasedMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EntitlementsServer).HasPurchased(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes the Entitlements service for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EntitlementsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HasPurchased", Handler: hasPurchasedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "promptstore/entitlement/v1/entitlements.proto",
}

func Register(s grpc.ServiceRegistrar, srv EntitlementsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Checker is the ownership lookup backing the server.
type Checker interface {
	HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error)
}

type Server struct {
	purchases Checker
}

func NewServer(purchases Checker) *Server {
	return &Server{purchases: purchases}
}

func (s *Server) HasPurchased(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error) {
	buyerID := in.GetFields()["buyer_id"].GetStringValue()
	promptID := in.GetFields()["prompt_id"].GetStringValue()
	if buyerID == "" || promptID == "" {
		return nil, status.Error(codes.InvalidArgument, "buyer_id and prompt_id are required")
	}
	ok, err := s.purchases.HasPurchased(ctx, buyerID, promptID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "lookup error: %v", err)
	}
	return wrapperspb.Bool(ok), nil
}

// LoggingInterceptor writes one access line per unary call.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("[grpc] %s code=%s dur=%s", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}

var _ EntitlementsServer = (*Server)(nil)
