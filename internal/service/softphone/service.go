// sentiric-softphone-service/internal/service/softphone/service.go
package softphone

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Olay konuları: softphone.<varlık>.<aksiyon>
const (
	SubjectOrganizationCreated = "softphone.organization.created"
	SubjectOrganizationDeleted = "softphone.organization.deleted"
	SubjectOrganizationUpdated = "softphone.organization.updated"
	SubjectBranchCreated       = "softphone.branch.created"
	SubjectBranchUpdated       = "softphone.branch.updated"
	SubjectBranchDeleted       = "softphone.branch.deleted"
	SubjectUsersCreated        = "softphone.users.created"
	SubjectUserUpdated         = "softphone.user.updated"
	SubjectUserDeleted         = "softphone.user.deleted"
	SubjectIntegrationChanged  = "softphone.integration.changed"
	SubjectTrunkChanged        = "softphone.trunk.changed"
)

// Service, softphone provizyon operasyonlarının tamamını yürütür.
type Service struct {
	// Yerel dahili numara dizini
	repo ExtensionRepository
	// Ringotel API istemcisi
	api RemoteAPI
	// Tenant bazlı kilit (organizasyon oluşturma)
	locker Locker
	// Provizyon olayları
	events Publisher

	rec      *Reconciler
	settings Settings
	log      zerolog.Logger
}

func NewService(repo ExtensionRepository, api RemoteAPI, locker Locker, events Publisher, settings Settings, log zerolog.Logger) *Service {
	if locker == nil {
		locker = noopLocker{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &Service{
		repo:     repo,
		api:      api,
		locker:   locker,
		events:   events,
		rec:      NewReconciler(settings),
		settings: settings,
		log:      log,
	}
}

// Reconciler exposes the payload builders used by the service.
func (s *Service) Reconciler() *Reconciler { return s.rec }

// resolveOrganization lists remote organizations and selects the one for domain.
func (s *Service) resolveOrganization(ctx context.Context, domain string) (*RemoteOrganization, error) {
	if domain == "" {
		return nil, invalidArgument("tenant domain is required")
	}
	orgs, err := s.api.GetOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	res, ok := ResolveOrganization(domain, orgs, s.settings.resolveOptions())
	if !ok {
		s.log.Debug().Str("domain", domain).Int("candidates", len(orgs)).Msg("Uzak organizasyon eşleşmedi")
		return nil, ErrNotFound
	}
	s.log.Debug().
		Str("domain", domain).
		Str("orgid", res.Organization.ID).
		Stringer("rule", res.Rule).
		Msg("Uzak organizasyon çözümlendi")
	org := res.Organization
	return &org, nil
}

// findExtension returns ErrNotFound when the tenant has no such extension. The number
// is tried as given, then digits only.
func (s *Service) findExtension(ctx context.Context, tenant LocalTenant, number string) (*LocalExtension, error) {
	if tenant.DomainUUID == "" {
		return nil, invalidArgument("tenant domain_uuid is required")
	}
	digits := digitsOnly(number)
	if digits == "" {
		return nil, ErrNotFound
	}
	ext, err := s.repo.FindExtension(ctx, tenant.DomainUUID, number)
	if errors.Is(err, ErrNotFound) && digits != number {
		// "(101)" gibi biçimlendirilmiş numaralar yalın rakamlarla tekrar aranır.
		return s.repo.FindExtension(ctx, tenant.DomainUUID, digits)
	}
	return ext, err
}

func (s *Service) directory(ctx context.Context, tenant LocalTenant) (*Directory, error) {
	if tenant.DomainUUID == "" {
		return nil, invalidArgument("tenant domain_uuid is required")
	}
	exts, err := s.repo.ListExtensions(ctx, tenant.DomainUUID)
	if err != nil {
		return nil, err
	}
	return NewDirectory(exts), nil
}

func (s *Service) publish(ctx context.Context, subject string, payload any) {
	s.events.Publish(ctx, subject, payload)
}

func tenantLockKey(domain string) string {
	return "softphone:tenant:" + strings.ToLower(domain)
}

// required checks name/value pairs and reports the first empty one.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalidArgument("%s is required", pairs[i])
		}
	}
	return nil
}

// emptyOnNotFound turns a missing local or remote record into an empty result.
func emptyOnNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(context.Context), error) {
	return func(context.Context) {}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) {}
