package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-service/internal/auth"
)

func TestPasswordVerifier(t *testing.T) {
	verifier := auth.NewPasswordVerifier(4)

	hash, err := verifier.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)

	require.True(t, verifier.Verify("secret", hash))
	require.False(t, verifier.Verify("wrong", hash))
	require.False(t, verifier.Verify("secret", "not-a-hash"))
}

func TestPasswordVerifierClampsBadCost(t *testing.T) {
	verifier := auth.NewPasswordVerifier(99)

	hash, err := verifier.Hash("secret")
	require.NoError(t, err)
	require.True(t, verifier.Verify("secret", hash))
}
