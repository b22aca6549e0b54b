package checkoutkit

import (
	"context"
	"strings"
)

// APIVersion is sent with every gateway request.
const APIVersion = "2026-06-01"

// RequestMetadata carries the header set attached to outgoing gateway calls.
// Hosts may stash overrides in the context; the client fills in whatever is
// left blank.
type RequestMetadata struct {
	// Key used to ensure requests are idempotent
	//
	// Example: idempotency_key_123
	IdempotencyKey string
	// Unique key for each request for tracing purposes
	//
	// Example: request_id_123
	RequestID string
	// The preferred locale for gateway-rendered messages and errors
	//
	// Example: id-ID
	AcceptLanguage string
	// Information about the client making this request
	//
	// Example: checkoutkit/1.0 (iOS 19.2; arm64)
	UserAgent string
}

// headers renders the metadata as gateway header values, skipping blanks.
func (m RequestMetadata) headers() map[string]string {
	out := make(map[string]string, 5)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	set("Idempotency-Key", m.IdempotencyKey)
	set("Request-Id", m.RequestID)
	set("Accept-Language", m.AcceptLanguage)
	set("User-Agent", m.UserAgent)
	out["API-Version"] = APIVersion
	return out
}

type requestMetadataKey struct{}

// ContextWithRequestMetadata stores per-call header overrides for the next
// gateway request issued with this context.
func ContextWithRequestMetadata(ctx context.Context, metadata *RequestMetadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if metadata == nil {
		return ctx
	}
	return context.WithValue(ctx, requestMetadataKey{}, metadata)
}

// RequestMetadataFromContext extracts header overrides previously stored in
// the context.
func RequestMetadataFromContext(ctx context.Context) *RequestMetadata {
	if ctx == nil {
		return nil
	}
	if metadata, ok := ctx.Value(requestMetadataKey{}).(*RequestMetadata); ok {
		return metadata
	}
	return nil
}
