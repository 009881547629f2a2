// internal/adapters/out/gcs/product_image_resolver.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const defaultSignedURLTTL = 15 * time.Minute

// ProductImageResolver turns product image refs into servable URLs.
//
// Supported refs:
//   - "gs://bucket/object"            -> V4 signed GET URL
//   - "object/path.png" (no scheme)   -> signed GET URL in the default bucket
//   - "https://..." (anything else)   -> passed through untouched
type ProductImageResolver struct {
	Client *storage.Client
	Bucket string

	// SignerEmail is the service account used for V4 signing
	// (GCS_SIGNER_EMAIL). Empty means signing is unavailable; refs pass
	// through so catalog browsing still works.
	SignerEmail string

	SignedURLTTL time.Duration
}

func NewProductImageResolver(client *storage.Client, bucket string) *ProductImageResolver {
	ttl := defaultSignedURLTTL
	if v := strings.TrimSpace(os.Getenv("PRODUCT_IMAGE_SIGNED_URL_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}

	return &ProductImageResolver{
		Client:       client,
		Bucket:       strings.TrimSpace(bucket),
		SignerEmail:  strings.TrimSpace(os.Getenv("GCS_SIGNER_EMAIL")),
		SignedURLTTL: ttl,
	}
}

func (r *ProductImageResolver) ttl() time.Duration {
	if r == nil || r.SignedURLTTL <= 0 {
		return defaultSignedURLTTL
	}
	return r.SignedURLTTL
}

// ResolveImageURL implements usecase.ImageURLResolver.
func (r *ProductImageResolver) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("product_image_resolver: storage client is nil")
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("product_image_resolver: ref is empty")
	}

	var bucket, object string
	switch {
	case strings.HasPrefix(ref, "gs://"):
		rest := strings.TrimPrefix(ref, "gs://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", fmt.Errorf("product_image_resolver: malformed gs ref %q", ref)
		}
		bucket, object = parts[0], parts[1]

	case strings.Contains(ref, "://"):
		// Already an absolute URL; nothing to sign.
		return ref, nil

	default:
		if r.Bucket == "" {
			// No default bucket configured; treat as opaque.
			return ref, nil
		}
		bucket, object = r.Bucket, strings.TrimLeft(ref, "/")
	}

	if r.SignerEmail == "" {
		// Signing unavailable; fall back to the public URL form.
		return "https://storage.googleapis.com/" + bucket + "/" + object, nil
	}

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		GoogleAccessID: r.SignerEmail,
		Expires:        time.Now().Add(r.ttl()),
	}
	u, err := r.Client.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("product_image_resolver: sign %s/%s: %w", bucket, object, err)
	}
	return u, nil
}
