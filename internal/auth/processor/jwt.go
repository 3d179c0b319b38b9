package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// precheckToken decodes the token without verifying its signature and rejects tokens that can
// never be valid. Signature checks are left to the identity provider lookup.
func (p *AuthProcessor) precheckToken(ctx context.Context, token string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		p.logger.WarnWithError(ctx, "failed to parse token", err)
		return jwt.RegisteredClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(p.now()) {
		p.logger.Warn(ctx, "token expired")
		return jwt.RegisteredClaims{}, ErrExpiredToken
	}

	if claims.Subject == "" {
		p.logger.Warn(ctx, "token has no subject")
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}

	if p.config.FirebaseProjectID != "" && !slices.Contains(claims.Audience, p.config.FirebaseProjectID) {
		p.logger.Warn(ctx, "token audience does not match project")
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}

	return claims, nil
}
