// internal/core/server/interceptor.go
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"github.com/solatis/remap/internal/types"
)

// Interceptors holds the settings shared by the unary interceptors.
type Interceptors struct {
	Logger         *slog.Logger
	MaxPayloadSize int
	RequestTimeout time.Duration
}

// Logging logs every call with its status code and duration.
func (i *Interceptors) Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelDebug
		if code != codes.OK {
			level = slog.LevelWarn
		}
		i.Logger.Log(ctx, level, "grpc call",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// PayloadLimit rejects requests whose encoded size exceeds MaxPayloadSize.
func (i *Interceptors) PayloadLimit() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if msg, ok := req.(proto.Message); ok {
			if size := proto.Size(msg); size > i.MaxPayloadSize {
				err := fmt.Errorf("%w: %d bytes, limit %d", types.ErrPayloadTooLarge, size, i.MaxPayloadSize)
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
		}
		return handler(ctx, req)
	}
}

// Timeout bounds each call by RequestTimeout. A zero timeout disables it.
func (i *Interceptors) Timeout() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if i.RequestTimeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, i.RequestTimeout)
		defer cancel()
		return handler(ctx, req)
	}
}
