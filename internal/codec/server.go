package codec

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
)

// #region server-api
// SegmenterServer is the server API of the Segmenter service.
type SegmenterServer interface {
	Segment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSegmenterServer attaches srv to s.
func RegisterSegmenterServer(s grpc.ServiceRegistrar, srv SegmenterServer) {
	s.RegisterService(&segmenterServiceDesc, srv)
}

func segmentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SegmenterServer).Segment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SegmentMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SegmenterServer).Segment(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var segmenterServiceDesc = grpc.ServiceDesc{
	ServiceName: "lmc.v1.Segmenter",
	HandlerType: (*SegmenterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Segment", Handler: segmentHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lmc/v1/segmenter.proto",
}

// #endregion server-api

// #region server
// Server exposes a provider.Provider as a Segmenter service.
type Server struct {
	provider provider.Provider
	log      *zap.Logger
}

// NewServer wraps p. log may be nil.
func NewServer(p provider.Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{provider: p, log: log}
}

// Segment implements SegmenterServer.
func (s *Server) Segment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	topic, text := DecodeRequest(in)
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(text) == "" {
		return nil, status.Error(codes.InvalidArgument, "topic and text are required")
	}
	segments, err := s.provider.Segment(ctx, topic, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		s.log.Error("segment failed", zap.Error(err))
		return nil, status.Error(codes.Internal, "segmentation failed")
	}
	out, err := EncodeSegments(segments)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.log.Debug("segmented", zap.Int("segments", len(segments)))
	return out, nil
}

// #endregion server
