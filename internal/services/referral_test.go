package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOwnCodeIssuedOnce(t *testing.T) {
	env := newTestEnv(t)

	referral, err := env.referral(t).Referral()
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^DRIP-[0-9A-Z]{6}$`), referral.OwnCode)
	require.Nil(t, referral.EnteredCode)

	// a second boot keeps the stored code
	require.NoError(t, env.state(t).Load(context.Background()))
	require.NoError(t, env.state(t).Init(context.Background()))
	again, err := env.referral(t).Referral()
	require.NoError(t, err)
	require.Equal(t, referral.OwnCode, again.OwnCode)
}

func TestEnterCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accepted, err := env.referral(t).EnterCode(ctx, " drip-abc123 ")
	require.NoError(t, err)
	require.True(t, accepted)

	referral, err := env.referral(t).Referral()
	require.NoError(t, err)
	require.NotNil(t, referral.EnteredCode)
	require.Equal(t, "DRIP-ABC123", *referral.EnteredCode)
	require.NotNil(t, referral.EnteredAt)

	select {
	case snapshot := <-env.backend.pushed:
		require.Equal(t, referral.OwnCode, snapshot.OwnCode)
		require.Equal(t, "DRIP-ABC123", *snapshot.EnteredCode)
	case <-time.After(2 * time.Second):
		t.Fatal("referral was not pushed to the backend")
	}

	// write-once
	accepted, err = env.referral(t).EnterCode(ctx, "DRIP-ZZZ999")
	require.NoError(t, err)
	require.False(t, accepted)

	referral, err = env.referral(t).Referral()
	require.NoError(t, err)
	require.Equal(t, "DRIP-ABC123", *referral.EnteredCode)
}

func TestEnterCodeRejectsOwnAndMalformed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	own, err := env.referral(t).Referral()
	require.NoError(t, err)

	for _, code := range []string{own.OwnCode, "", "DRIP-12", "FOO-ABC123", "DRIPABC123"} {
		accepted, err := env.referral(t).EnterCode(ctx, code)
		require.NoError(t, err)
		require.False(t, accepted, "code %q", code)
	}

	referral, err := env.referral(t).Referral()
	require.NoError(t, err)
	require.Nil(t, referral.EnteredCode)
}

func TestGenerateReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode("DRIP")
		require.NoError(t, err)
		require.True(t, ValidReferralCode("DRIP", code))
		seen[code] = true
	}
	require.Greater(t, len(seen), 45)
}
