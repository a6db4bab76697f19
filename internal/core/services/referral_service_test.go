package services

import (
	"context"
	"sync"
	"testing"

	"careerhub-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReferral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	referrer := f.createUserWithCode(t, "pat", "AB12CD34")
	referred := f.createUser(t, "quin")

	referral, err := f.referralSvc.CreateReferral(ctx, referred.ID, " ab12cd34 ")
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, referral.ReferrerID)
	assert.Equal(t, referred.ID, referral.ReferredUserID)
	assert.Equal(t, "AB12CD34", referral.ReferralCode)
	assert.Equal(t, domain.ReferralPending, referral.Status)

	reloaded, err := f.users.GetByID(ctx, referred.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ReferredBy)
	assert.Equal(t, "AB12CD34", *reloaded.ReferredBy)
	assert.Equal(t, 1, f.notifier.count(domain.EventReferralCreated))

	_, err = f.referralSvc.CreateReferral(ctx, referred.ID, "AB12CD34")
	assert.ErrorIs(t, err, domain.ErrAlreadyReferred)
}

func TestCreateReferral_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	referrer := f.createUserWithCode(t, "rae", "0000AAAA")

	_, err := f.referralSvc.CreateReferral(ctx, referrer.ID, "FFFFFFFF")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)

	_, err = f.referralSvc.CreateReferral(ctx, referrer.ID, "")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)

	_, err = f.referralSvc.CreateReferral(ctx, 9999, "0000AAAA")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.referralSvc.CreateReferral(ctx, referrer.ID, "0000AAAA")
	assert.ErrorIs(t, err, domain.ErrSelfReferral)
}

func TestCreateReferral_ConcurrentSameUser(t *testing.T) {
	f := newFixture(t)
	f.createUserWithCode(t, "sam", "11112222")
	f.createUserWithCode(t, "tia", "33334444")
	referred := f.createUser(t, "uma")

	codes := []string{"11112222", "33334444", "11112222", "33334444"}
	var wg sync.WaitGroup
	errs := make([]error, len(codes))
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			_, errs[i] = f.referralSvc.CreateReferral(context.Background(), referred.ID, code)
		}(i, code)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyReferred)
	}
	assert.Equal(t, 1, succeeded)

	exists, err := f.referrals.ExistsByReferredUser(context.Background(), referred.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateStatus_RewardsOncePerTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	referrer := f.createUserWithCode(t, "val", "CAFEBABE")
	referred := f.createUser(t, "wes")

	referral, err := f.referralSvc.CreateReferral(ctx, referred.ID, "CAFEBABE")
	require.NoError(t, err)

	points := func() int {
		u, err := f.users.GetByID(ctx, referrer.ID)
		require.NoError(t, err)
		return u.Points
	}

	updated, err := f.referralSvc.UpdateStatus(ctx, referral.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralApproved, updated.Status)
	assert.NotNil(t, updated.ApprovedAt)
	assert.Equal(t, 10, points())

	_, err = f.referralSvc.UpdateStatus(ctx, referral.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, 10, points())
	assert.Equal(t, 1, f.notifier.count(domain.EventReferralApproved))

	// leaving approved and coming back is a new transition
	_, err = f.referralSvc.UpdateStatus(ctx, referral.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, 10, points())

	_, err = f.referralSvc.UpdateStatus(ctx, referral.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, 20, points())
}

func TestUpdateStatus_ConcurrentApprovals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	referrer := f.createUserWithCode(t, "xan", "DEADBEEF")
	referred := f.createUser(t, "yul")

	referral, err := f.referralSvc.CreateReferral(ctx, referred.ID, "DEADBEEF")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.referralSvc.UpdateStatus(context.Background(), referral.ID, "approved")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := f.users.GetByID(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.Points)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.referralSvc.UpdateStatus(ctx, 1, "paid")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.referralSvc.UpdateStatus(ctx, 9999, "approved")
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrCreateReferralCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "zed")

	code, err := f.referralSvc.GetOrCreateReferralCode(ctx, user.ID)
	require.NoError(t, err)
	assert.Regexp(t, referralCodePattern, code)

	again, err := f.referralSvc.GetOrCreateReferralCode(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)

	_, err = f.referralSvc.GetOrCreateReferralCode(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetOrCreateReferralCode_Concurrent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "amy")

	const callers = 6
	var wg sync.WaitGroup
	codes := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := f.referralSvc.GetOrCreateReferralCode(context.Background(), user.ID)
			assert.NoError(t, err)
			codes[i] = code
		}(i)
	}
	wg.Wait()

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReferralCode)
	for _, code := range codes {
		assert.Equal(t, *stored.ReferralCode, code)
	}
}

func TestGetOrCreateReferralCode_SkipsTakenCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUserWithCode(t, "ben", "AAAA0000")
	user := f.createUser(t, "cat")

	// a generator that ignores storage and proposes a taken code first
	f.referralSvc.ids = &scriptedCodes{codes: []string{"AAAA0000", "BBBB1111"}}

	code, err := f.referralSvc.GetOrCreateReferralCode(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "BBBB1111", code)
}
