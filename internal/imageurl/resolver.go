package imageurl

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Extensions are tried in this order for every wear-period variant.
var Extensions = []string{".jpg", ".JPG", ".jpeg", ".JPEG"}

// Product identifies the image of a catalog item.
type Product struct {
	OriginalCode string
	Brand        string
	ColorName    string
	WearPeriod   string
}

// Resolver maps products to image URLs on the configured host, absorbing
// case differences in the wear period and in the file extension.
type Resolver struct {
	cfg     Config
	checker Checker
	logger  *zap.Logger
}

// NewResolver creates a Resolver. A nil checker finds nothing, so every
// product resolves to its fallback URL.
func NewResolver(cfg Config, checker Checker, logger *zap.Logger) *Resolver {
	if checker == nil {
		checker = NotFound
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cfg: cfg, checker: checker, logger: logger}
}

// Config returns the resolver's host configuration.
func (r *Resolver) Config() Config {
	return r.cfg
}

// periodVariants returns the original, lower- and upper-case forms of the
// wear period with duplicates removed, order preserved.
func periodVariants(period string) []string {
	out := make([]string, 0, 3)
	seen := make(map[string]bool, 3)
	for _, v := range []string{period, strings.ToLower(period), strings.ToUpper(period)} {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (r *Resolver) candidateURL(p Product, t ImageType, period, ext string) string {
	stem := strings.Join([]string{p.OriginalCode, p.Brand, p.ColorName, period, r.cfg.suffixFor(t)}, "_")
	return r.cfg.BaseURL() + r.cfg.pathFor(t) + EscapeComponent(SoftSanitize(stem)+ext)
}

// Candidates returns every URL Resolve may probe, in probe order.
func (r *Resolver) Candidates(p Product, t ImageType) []string {
	periods := periodVariants(p.WearPeriod)
	out := make([]string, 0, len(periods)*len(Extensions))
	for _, period := range periods {
		for _, ext := range Extensions {
			out = append(out, r.candidateURL(p, t, period, ext))
		}
	}
	return out
}

// Fallback returns the URL Resolve answers with when no candidate exists:
// the original wear period with ".jpg", unchecked.
func (r *Resolver) Fallback(p Product, t ImageType) string {
	return r.candidateURL(p, t, p.WearPeriod, Extensions[0])
}

// Resolve probes the candidates in order and returns the first one the
// checker finds. It never fails; when nothing is found it returns Fallback.
func (r *Resolver) Resolve(ctx context.Context, p Product, t ImageType) string {
	ctx = WithImageType(ctx, t)
	for _, period := range periodVariants(p.WearPeriod) {
		for _, ext := range Extensions {
			u := r.candidateURL(p, t, period, ext)
			if r.checker.Exists(ctx, u) {
				return u
			}
		}
	}

	fallback := r.Fallback(p, t)
	r.logger.Debug("image not found, using fallback",
		zap.String("code", p.OriginalCode),
		zap.String("type", string(t)),
		zap.String("url", fallback),
	)
	return fallback
}
