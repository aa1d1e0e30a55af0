// sentiric-softphone-service/internal/service/softphone/repository.go
package softphone

import (
	"context"
	"encoding/json"
)

// ExtensionRepository, yerel PBX dahili numara dizinine salt-okunur erişimi tanımlar.
type ExtensionRepository interface {
	ListExtensions(ctx context.Context, domainUUID string) ([]LocalExtension, error)
	FindExtension(ctx context.Context, domainUUID, extension string) (*LocalExtension, error)
}

// RemoteAPI, barındırılan PBX servisinin (Ringotel) HTTP API'sini soyutlar.
// Mutasyon çağrıları uzak servisin "result" alanını olduğu gibi döndürür.
type RemoteAPI interface {
	GetOrganizations(ctx context.Context) ([]RemoteOrganization, error)
	CreateOrganization(ctx context.Context, p OrganizationCreate) (*RemoteOrganization, error)
	UpdateOrganization(ctx context.Context, p OrganizationUpdate) (json.RawMessage, error)
	DeleteOrganization(ctx context.Context, id string) (json.RawMessage, error)

	GetBranches(ctx context.Context, orgID string) ([]RemoteBranch, error)
	CreateBranch(ctx context.Context, p BranchCreate) (json.RawMessage, error)
	UpdateBranch(ctx context.Context, p BranchUpdate) (json.RawMessage, error)
	DeleteBranch(ctx context.Context, orgID, id string) (json.RawMessage, error)

	GetUsers(ctx context.Context, f UserFilter) ([]RemoteUser, error)
	CreateUsers(ctx context.Context, p UsersCreate) (json.RawMessage, error)
	UpdateUser(ctx context.Context, p UserUpdate) (json.RawMessage, error)
	DeleteUser(ctx context.Context, orgID, id string) (json.RawMessage, error)
	DeactivateUser(ctx context.Context, orgID, id string) (json.RawMessage, error)
	ResetUserPassword(ctx context.Context, orgID, id string) (json.RawMessage, error)

	GetServices(ctx context.Context, orgID string) ([]RemoteService, error)
	CreateIntegration(ctx context.Context, p IntegrationParams) (json.RawMessage, error)
	DeleteIntegration(ctx context.Context, p IntegrationParams) (json.RawMessage, error)

	GetSmsTrunks(ctx context.Context, orgID string) (json.RawMessage, error)
	CreateSmsTrunk(ctx context.Context, t SmsTrunk) (json.RawMessage, error)
	UpdateSmsTrunk(ctx context.Context, t SmsTrunk) (json.RawMessage, error)
	DeleteSmsTrunk(ctx context.Context, orgID, id string) (json.RawMessage, error)
}

// Locker serializes resolve-then-create sequences for one tenant domain.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context), err error)
}

// Publisher receives provisioning events after successful remote mutations.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any)
}
