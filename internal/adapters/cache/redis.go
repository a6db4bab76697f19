package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"careerhub-api/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const verificationPrefix = "certificate_verify:"

// CertificateCache keeps public certificate verifications in redis
type CertificateCache struct {
	client *redis.Client
}

// NewCertificateCache wraps a redis client
func NewCertificateCache(client *redis.Client) *CertificateCache {
	return &CertificateCache{client: client}
}

// Get returns nil, nil on a miss
func (c *CertificateCache) Get(ctx context.Context, certificateID string) (*domain.CertificateVerification, error) {
	raw, err := c.client.Get(ctx, verificationPrefix+certificateID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var v domain.CertificateVerification
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *CertificateCache) Set(ctx context.Context, v *domain.CertificateVerification, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, verificationPrefix+v.CertificateID, raw, ttl).Err()
}

func (c *CertificateCache) Delete(ctx context.Context, certificateID string) error {
	return c.client.Del(ctx, verificationPrefix+certificateID).Err()
}

// Nop is used when no redis address is configured
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.CertificateVerification, error) { return nil, nil }

func (Nop) Set(context.Context, *domain.CertificateVerification, time.Duration) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }
