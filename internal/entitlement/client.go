package entitlement

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// callTimeout bounds one ownership lookup; a down service fails the call
// instead of holding the HTTP request open.
const callTimeout = 5 * time.Second

// Client calls a remote Entitlements service. It satisfies the ownership
// interfaces used by the catalog and cart.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial creates a lazily connecting client for addr.
func Dial(addr string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return NewClient(conn), conn, nil
}

func (c *Client) HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error) {
	in, err := structpb.NewStruct(map[string]any{"buyer_id": buyerID, "prompt_id": promptID})
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, hasPurchasedMethod, in, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}
