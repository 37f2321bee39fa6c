package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
)

// #region client-struct
// Client is a provider.Provider backed by a remote Segmenter service.
type Client struct {
	conn   *grpc.ClientConn
	client SegmenterClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to a Segmenter gRPC server.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewSegmenterClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc SegmenterClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region segment
// Segment implements provider.Provider.
func (c *Client) Segment(ctx context.Context, topic, text string) ([]provider.Segment, error) {
	req, err := EncodeRequest(topic, text)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Segment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("segment rpc: %w", err)
	}
	segments, err := DecodeSegments(resp)
	if err != nil {
		return nil, err
	}
	return provider.Filter(segments), nil
}

// #endregion segment

// #region segmenter-client
// SegmentMethod is the full RPC name.
const SegmentMethod = "/lmc.v1.Segmenter/Segment"

// SegmenterClient is the client API of the Segmenter service.
type SegmenterClient interface {
	Segment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type segmenterClient struct {
	cc grpc.ClientConnInterface
}

// NewSegmenterClient wraps a connection.
func NewSegmenterClient(cc grpc.ClientConnInterface) SegmenterClient {
	return &segmenterClient{cc: cc}
}

func (c *segmenterClient) Segment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SegmentMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion segmenter-client
