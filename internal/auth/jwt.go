package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agendaplus/salon-scheduler/internal/access"
)

var ErrInvalidToken = errors.New("invalid token")

const TokenTTL = 24 * time.Hour

// IssueToken signs an HS256 token for a principal. salonId equals sub for
// salon principals.
func IssueToken(secret string, p access.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     p.ID,
		"salonId": p.SalonID,
		"role":    string(p.Role),
		"jti":     uuid.NewString(),
		"exp":     now.Add(TokenTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParsePrincipal validates a bearer token and resolves the caller.
func ParsePrincipal(secret, tokenString string) (access.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return access.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Principal{}, ErrInvalidToken
	}

	sub, ok1 := claims["sub"].(float64)
	salonID, ok2 := claims["salonId"].(float64)
	role, ok3 := claims["role"].(string)
	if !ok1 || !ok2 || !ok3 {
		return access.Principal{}, ErrInvalidToken
	}

	p := access.Principal{
		Role:    access.Role(role),
		ID:      uint(sub),
		SalonID: uint(salonID),
	}

	switch p.Role {
	case access.RoleSalon, access.RoleProfessional, access.RoleClient:
	default:
		return access.Principal{}, ErrInvalidToken
	}

	return p, nil
}
