package interceptors

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// UnaryServerInterceptor copies the request id and idempotency key from the
// incoming metadata into the context. A missing request id is generated.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := GetMetadataValue(ctx, constants.HeaderXRequestId)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = constants.WithRequestID(ctx, requestID)

		if key := GetMetadataValue(ctx, constants.HeaderXIdempotencyKey); key != "" {
			ctx = constants.WithIdempotencyKey(ctx, key)
		}

		_ = grpc.SetHeader(ctx, metadata.Pairs(constants.HeaderXRequestId, requestID))
		return handler(ctx, req)
	}
}

// GetMetadataValue returns the first value of key from the incoming gRPC
// metadata, or "".
func GetMetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
