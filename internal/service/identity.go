package service

import (
	"math"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/forumvotes/internal/domain"
)

// Identifier resolves the user a bearer token speaks for.
type Identifier interface {
	UserID(token string) (int64, error)
}

// TokenDecoder reads the subject of a JWT without checking its signature or
// expiry. It trusts whatever the token claims and is therefore only suitable
// for fixtures and local testing; AuthService is the verifying Identifier.
type TokenDecoder struct {
	parser *jwt.Parser
}

func NewTokenDecoder() *TokenDecoder {
	return &TokenDecoder{parser: jwt.NewParser()}
}

// UserID returns the integer in the token's sub claim. Undecodable tokens
// and non-integer subjects yield domain.ErrMalformedToken.
func (d *TokenDecoder) UserID(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return 0, domain.ErrMalformedToken
	}
	return subjectID(claims)
}

// subjectID accepts both the string form ("7") and the numeric form (7).
func subjectID(claims jwt.MapClaims) (int64, error) {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, domain.ErrMalformedToken
		}
		return id, nil
	case float64:
		if sub != math.Trunc(sub) || math.Abs(sub) > 1<<53 {
			return 0, domain.ErrMalformedToken
		}
		return int64(sub), nil
	default:
		return 0, domain.ErrMalformedToken
	}
}
