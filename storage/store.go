// Package storage persists uploaded files and reports the public path each
// one is served from.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/rpupo63/ailabs-portal-backend/config"
	"github.com/rpupo63/ailabs-portal-backend/errs"
)

// DefaultPublicPrefix is where the local store's files are served.
const DefaultPublicPrefix = "/static/uploads"

// Store writes an object under key ("projects/20240101120000_a.png") and
// returns the path or URL clients should use to fetch it.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// New picks a backend from UPLOAD_BACKEND ("local" or "s3").
func New(ctx context.Context, cfg map[string]string) (Store, error) {
	backend := config.GetString(cfg, "UPLOAD_BACKEND", "local")
	switch backend {
	case "local":
		return NewLocalStore(
			config.GetString(cfg, "UPLOAD_DIR", "static/uploads"),
			config.GetString(cfg, "UPLOAD_PUBLIC_PREFIX", DefaultPublicPrefix),
		), nil
	case "s3":
		bucket := config.GetString(cfg, "S3_BUCKET", "")
		if bucket == "" {
			return nil, errs.NewEnvironmentVariableError("S3_BUCKET")
		}
		return NewS3Store(ctx, S3Options{
			Bucket:       bucket,
			Region:       config.GetString(cfg, "S3_REGION", ""),
			Endpoint:     config.GetString(cfg, "S3_ENDPOINT", ""),
			PublicPrefix: config.GetString(cfg, "UPLOAD_PUBLIC_PREFIX", ""),
		})
	default:
		return nil, errs.NewInvalidConfigError("UPLOAD_BACKEND", backend)
	}
}

func publicPath(prefix, key string) string {
	if strings.Contains(prefix, "://") {
		return strings.TrimSuffix(prefix, "/") + "/" + key
	}
	return path.Join("/", prefix, key)
}
