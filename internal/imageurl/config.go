package imageurl

import (
	"errors"
	"fmt"
	"strings"
)

// ImageType selects which image of a product to resolve.
type ImageType string

const (
	Lens      ImageType = "lens"
	Thumbnail ImageType = "thumbnail"
)

// ParseImageType accepts "lens", "thumbnail" and the host's own "samune".
func ParseImageType(s string) (ImageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lens", "":
		return Lens, nil
	case "thumbnail", "samune":
		return Thumbnail, nil
	default:
		return "", fmt.Errorf("unknown image type %q", s)
	}
}

// Config describes where product images live.
type Config struct {
	// Host serves raw repository files. Default: "raw.githubusercontent.com".
	Host   string
	User   string
	Repo   string
	Branch string // Default: "main"

	// LensPath and ThumbnailPath are joined directly with the filename,
	// so they normally end in "/".
	LensPath      string
	ThumbnailPath string

	// Filename suffixes. Defaults: "lens" and "samune".
	LensSuffix      string
	ThumbnailSuffix string
}

// DefaultConfig returns a Config with the host's naming conventions.
// User and Repo have no sensible default and must be set.
func DefaultConfig() Config {
	return Config{
		Host:            "raw.githubusercontent.com",
		Branch:          "main",
		LensPath:        "lens/",
		ThumbnailPath:   "samune/",
		LensSuffix:      "lens",
		ThumbnailSuffix: "samune",
	}
}

// Validate checks that every URL component is present.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("image host is required"))
	}
	if c.User == "" {
		errs = append(errs, errors.New("image repository user is required"))
	}
	if c.Repo == "" {
		errs = append(errs, errors.New("image repository name is required"))
	}
	if c.Branch == "" {
		errs = append(errs, errors.New("image repository branch is required"))
	}
	return errors.Join(errs...)
}

// BaseURL returns "https://{host}/{user}/{repo}/{branch}/".
func (c Config) BaseURL() string {
	return fmt.Sprintf("https://%s/%s/%s/%s/", c.Host, c.User, c.Repo, c.Branch)
}

func (c Config) pathFor(t ImageType) string {
	if t == Thumbnail {
		return c.ThumbnailPath
	}
	return c.LensPath
}

func (c Config) suffixFor(t ImageType) string {
	if t == Thumbnail {
		return c.ThumbnailSuffix
	}
	return c.LensSuffix
}
