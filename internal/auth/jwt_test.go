package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	tenant := softphone.LocalTenant{DomainName: "acme.example.com", DomainUUID: uuid.NewString()}

	token, err := m.GenerateToken("admin", tenant, PermissionRingotel)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Tenant() != tenant || !claims.HasPermission(PermissionRingotel) || claims.HasPermission("superadmin") {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	good := softphone.LocalTenant{DomainName: "acme.example.com", DomainUUID: uuid.NewString()}

	other, _ := NewJWTManager("other", time.Minute).GenerateToken("admin", good)
	badUUID, _ := m.GenerateToken("admin", softphone.LocalTenant{DomainName: "acme.example.com", DomainUUID: "not-a-uuid"})
	noDomain, _ := m.GenerateToken("admin", softphone.LocalTenant{DomainUUID: uuid.NewString()})

	for name, token := range map[string]string{
		"wrong secret": other,
		"bad uuid":     badUUID,
		"no domain":    noDomain,
		"garbage":      "not.a.token",
	} {
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: got %v", name, err)
		}
	}
}
