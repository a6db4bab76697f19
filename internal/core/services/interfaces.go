package services

import (
	"context"
	"time"

	"careerhub-api/internal/core/domain"
)

// Publisher delivers notification events to an outbound channel (log, RabbitMQ, Kafka)
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// Notifier is what the issuer and the referral linker call after a successful write.
// Implementations swallow delivery failures.
type Notifier interface {
	CertificateIssued(ctx context.Context, userID uint, email, courseTitle, certificateID, certificateURL string)
	ReferralCreated(ctx context.Context, referrerID uint, email, referredName string)
	ReferralApproved(ctx context.Context, referrerID uint, email string, points int)
}

// CompletionDispatcher hands a (user, course) pair to the completion evaluator
// without waiting for the result.
type CompletionDispatcher interface {
	Dispatch(userID, courseID uint)
}

// VerificationCache caches public certificate lookups
type VerificationCache interface {
	Get(ctx context.Context, certificateID string) (*domain.CertificateVerification, error)
	Set(ctx context.Context, v *domain.CertificateVerification, ttl time.Duration) error
	Delete(ctx context.Context, certificateID string) error
}

// CodeGenerator produces unused referral codes and certificate ids
type CodeGenerator interface {
	Generate(ctx context.Context, kind CodeKind) (string, error)
}

// TokenSigner issues access tokens
type TokenSigner interface {
	Sign(userID uint, email, role string) (string, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Clock returns the current time; tests pin it
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
