package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testIssuer = "gatehouse-test"

func newTestSigner(t *testing.T, kid string) Signer {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func newTestVerifier(t *testing.T, signers ...Signer) Verifier {
	t.Helper()

	keys := NewKeySet()
	for _, s := range signers {
		require.NoError(t, keys.AddSigner(s))
	}
	return NewCommonEdDSA(keys, testIssuer)
}

func TestSignVerify_RoundTripsClaims(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	now := time.Now().UTC()
	claims := NewAccessClaims(42, []string{"AuthFeatures", "GetBlogs"}, time.Hour, testIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3, "compact JWT has three segments")

	got, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, int64(42), got.UID)
	require.Equal(t, "42", got.Subject)
	require.Equal(t, []string{"AuthFeatures", "GetBlogs"}, got.Permissions)
	require.Equal(t, testIssuer, got.Issuer)
	require.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt.Time, time.Second)
}

func TestVerify_ExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	claims := NewAccessClaims(7, []string{"UserBasic"}, time.Hour, testIssuer,
		time.Now().UTC().Add(-2*time.Hour))

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrExpired, "expired token must fail with the expiry sentinel, never silently succeed")
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	token, err := signer.Sign(NewAccessClaims(7, nil, time.Hour, testIssuer, time.Now().UTC()))
	require.NoError(t, err)

	// Corrupt one byte of the signature segment.
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	tampered := token[:len(token)-1] + string(replacement)

	_, err = verifier.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	token, err := signer.Sign(NewAccessClaims(7, nil, time.Hour, testIssuer, time.Now().UTC()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Swap the payload for a different well-formed one; the signature no
	// longer matches.
	other, err := signer.Sign(NewAccessClaims(8, nil, time.Hour, testIssuer, time.Now().UTC()))
	require.NoError(t, err)
	otherParts := strings.Split(other, ".")

	frankenstein := parts[0] + "." + otherParts[1] + "." + parts[2]
	_, err = verifier.Verify(frankenstein)
	require.Error(t, err)
}

func TestVerify_MalformedToken(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, newTestSigner(t, "key-1"))

	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := verifier.Verify(tok)
		require.Error(t, err)
	}
}

func TestVerify_UnknownKID(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	stranger := newTestSigner(t, "key-2")

	// Verifier only knows key-1.
	verifier := newTestVerifier(t, signer)

	token, err := stranger.Sign(NewAccessClaims(7, nil, time.Hour, testIssuer, time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrUnknownKID)
}

func TestVerify_IssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	token, err := signer.Sign(NewAccessClaims(7, nil, time.Hour, "someone-else", time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerify_MissingSubjectRejected(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	verifier := newTestVerifier(t, signer)

	claims := NewAccessClaims(9, nil, time.Hour, testIssuer, time.Now().UTC())
	claims.Subject = ""
	claims.UID = 0

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidClaim)
}

func TestKeySet_IsReady(t *testing.T) {
	t.Parallel()

	keys := NewKeySet()
	require.False(t, keys.IsReady())

	require.NoError(t, keys.AddSigner(newTestSigner(t, "key-1")))
	require.True(t, keys.IsReady())
	require.Len(t, keys.PublicJWKS().Keys, 1)
}
