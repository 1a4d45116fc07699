package imageurl

import "context"

type contextKey string

const imageTypeKey contextKey = "imageurl_type"

// WithImageType attaches the image type being resolved to the context so
// checkers can label their probes.
func WithImageType(ctx context.Context, t ImageType) context.Context {
	return context.WithValue(ctx, imageTypeKey, t)
}

// ImageTypeFrom extracts the image type from the context.
func ImageTypeFrom(ctx context.Context) ImageType {
	if v, ok := ctx.Value(imageTypeKey).(ImageType); ok {
		return v
	}
	return "unknown"
}
