package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"careerhub-api/internal/core/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	referralCodePattern  = regexp.MustCompile(`^[0-9A-F]{8}$`)
	certificateIDPattern = regexp.MustCompile(`^CERT-[0-9A-F]{16}$`)
)

// memoryCodes is a code store that remembers everything handed out
type memoryCodes struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

func (m *memoryCodes) exists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.codes[code]
	return ok, nil
}

func (m *memoryCodes) add(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[code] = struct{}{}
}

func newMemoryGenerator(store *memoryCodes) *IdentifierGenerator {
	return &IdentifierGenerator{
		random: gonanoid.Generate,
		exists: map[CodeKind]codeExistsFunc{
			KindReferral:    store.exists,
			KindCertificate: store.exists,
		},
	}
}

func TestIdentifierGenerator_Format(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	code, err := f.ids.Generate(ctx, KindReferral)
	require.NoError(t, err)
	assert.Regexp(t, referralCodePattern, code)

	id, err := f.ids.Generate(ctx, KindCertificate)
	require.NoError(t, err)
	assert.Regexp(t, certificateIDPattern, id)
}

func TestIdentifierGenerator_UniqueAcrossTenThousand(t *testing.T) {
	for _, kind := range []CodeKind{KindReferral, KindCertificate} {
		store := &memoryCodes{codes: map[string]struct{}{}}
		gen := newMemoryGenerator(store)

		for i := 0; i < 10000; i++ {
			code, err := gen.Generate(context.Background(), kind)
			require.NoError(t, err)

			taken, _ := store.exists(context.Background(), code)
			require.False(t, taken, "duplicate code %s returned", code)
			store.add(code)
		}
		assert.Len(t, store.codes, 10000)
	}
}

func TestIdentifierGenerator_Exhausted(t *testing.T) {
	calls := 0
	gen := &IdentifierGenerator{
		random: func(string, int) (string, error) { return "AAAAAAAA", nil },
		exists: map[CodeKind]codeExistsFunc{
			KindReferral: func(context.Context, string) (bool, error) {
				calls++
				return true, nil
			},
		},
	}

	_, err := gen.Generate(context.Background(), KindReferral)
	assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
	assert.Equal(t, MaxCodeAttempts, calls)
}

func TestIdentifierGenerator_RetriesThenSucceeds(t *testing.T) {
	candidates := []string{"11111111", "22222222", "33333333"}
	next := 0
	gen := &IdentifierGenerator{
		random: func(string, int) (string, error) {
			c := candidates[next]
			next++
			return c, nil
		},
		exists: map[CodeKind]codeExistsFunc{
			KindReferral: func(_ context.Context, code string) (bool, error) {
				return code != "33333333", nil
			},
		},
	}

	code, err := gen.Generate(context.Background(), KindReferral)
	require.NoError(t, err)
	assert.Equal(t, "33333333", code)
}

func TestIdentifierGenerator_StorageError(t *testing.T) {
	boom := errors.New("db down")
	gen := &IdentifierGenerator{
		random: gonanoid.Generate,
		exists: map[CodeKind]codeExistsFunc{
			KindCertificate: func(context.Context, string) (bool, error) { return false, boom },
		},
	}

	_, err := gen.Generate(context.Background(), KindCertificate)
	assert.ErrorIs(t, err, boom)
}
