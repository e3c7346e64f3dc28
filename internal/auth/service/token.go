package service

import (
	"fmt"
	"time"

	"github.com/gatehouselabs/gatehouse/internal/auth/domain"
	"github.com/gatehouselabs/gatehouse/pkg/jwtx"
)

// TokenService mints access tokens for authenticated profiles. Verification
// lives in jwtx so the transport middleware can check tokens without
// reaching back into the service layer.
type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

func NewTokenService(signer jwtx.Signer, issuer string, accessTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	return &TokenService{
		Signer:    signer,
		Issuer:    issuer,
		AccessTTL: accessTTL,
	}
}

// Issue signs an access token carrying the profile's identity and its
// permission snapshot. The snapshot is fixed at this moment; later
// permission changes do not reach tokens already in the wild.
func (s *TokenService) Issue(profile domain.Profile) (string, time.Duration, error) {
	claims := jwtx.NewAccessClaims(profile.UID, profile.Permissions, s.AccessTTL, s.Issuer, time.Now())

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", 0, fmt.Errorf("sign access token: %w", err)
	}

	return token, s.AccessTTL, nil
}
