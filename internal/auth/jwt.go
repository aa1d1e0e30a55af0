package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

// PermissionRingotel gates every softphone provisioning operation.
const PermissionRingotel = "ringotel"

const issuer = "sentiric-pbx"

var ErrInvalidToken = errors.New("invalid token")

// Claims, isteği yapan PBX oturumunun tenant bilgisini taşır.
type Claims struct {
	jwt.RegisteredClaims
	DomainName  string   `json:"domain_name"`
	DomainUUID  string   `json:"domain_uuid"`
	Permissions []string `json:"permissions,omitempty"`
}

func (c *Claims) Tenant() softphone.LocalTenant {
	return softphone.LocalTenant{DomainName: c.DomainName, DomainUUID: c.DomainUUID}
}

func (c *Claims) HasPermission(p string) bool {
	return slices.Contains(c.Permissions, p)
}

// JWTManager signs and validates HS256 session tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

// GenerateToken issues a token for the tenant session.
func (m *JWTManager) GenerateToken(subject string, tenant softphone.LocalTenant, permissions ...string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
		DomainName:  tenant.DomainName,
		DomainUUID:  tenant.DomainUUID,
		Permissions: permissions,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken parses the token and checks that it names a well-formed tenant.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.DomainName == "" {
		return nil, fmt.Errorf("%w: domain_name claim missing", ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.DomainUUID); err != nil {
		return nil, fmt.Errorf("%w: domain_uuid claim is not a uuid", ErrInvalidToken)
	}
	return claims, nil
}
