package services

import (
	"context"
	"fmt"

	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CodeKind selects the identifier format
type CodeKind int

const (
	// KindReferral is 8 uppercase hex characters
	KindReferral CodeKind = iota
	// KindCertificate is "CERT-" followed by 16 uppercase hex characters
	KindCertificate
)

const (
	hexAlphabet         = "0123456789ABCDEF"
	referralCodeLength  = 8
	certificateIDLength = 16
	certificatePrefix   = "CERT-"

	// MaxCodeAttempts bounds the retries spent looking for an unused code
	MaxCodeAttempts = 10
)

type codeExistsFunc func(ctx context.Context, code string) (bool, error)

// IdentifierGenerator produces random human-readable codes that are not yet in storage
type IdentifierGenerator struct {
	random func(alphabet string, size int) (string, error)
	exists map[CodeKind]codeExistsFunc
}

// NewIdentifierGenerator creates a generator backed by the user and certificate stores
func NewIdentifierGenerator(userRepo repositories.UserRepository, certRepo repositories.CertificateRepository) *IdentifierGenerator {
	return &IdentifierGenerator{
		random: gonanoid.Generate,
		exists: map[CodeKind]codeExistsFunc{
			KindReferral:    userRepo.ExistsByReferralCode,
			KindCertificate: certRepo.ExistsByCertificateID,
		},
	}
}

// Generate returns a code of the given kind that no stored row uses yet.
// The storage check is advisory; callers still rely on the unique index.
func (g *IdentifierGenerator) Generate(ctx context.Context, kind CodeKind) (string, error) {
	exists, ok := g.exists[kind]
	if !ok {
		return "", fmt.Errorf("unknown code kind %d", kind)
	}

	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code, err := g.candidate(kind)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", domain.ErrGenerationExhausted
}

func (g *IdentifierGenerator) candidate(kind CodeKind) (string, error) {
	switch kind {
	case KindReferral:
		return g.random(hexAlphabet, referralCodeLength)
	default:
		id, err := g.random(hexAlphabet, certificateIDLength)
		if err != nil {
			return "", err
		}
		return certificatePrefix + id, nil
	}
}
