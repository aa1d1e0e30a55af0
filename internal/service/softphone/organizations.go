package softphone

import (
	"context"
	"encoding/json"
	"errors"
)

// GetOrganization returns the remote organization of the tenant, or nil when the
// tenant is not provisioned yet. DomainName overrides the tenant domain when set.
func (s *Service) GetOrganization(ctx context.Context, tenant LocalTenant, req OrganizationLookup) (*RemoteOrganization, error) {
	domain := tenant.DomainName
	if req.DomainName != "" {
		domain = req.DomainName
	}
	org, err := s.resolveOrganization(ctx, domain)
	if err != nil {
		return nil, emptyOnNotFound(err)
	}
	return org, nil
}

// CreateOrganization creates the tenant's remote organization unless one already
// resolves. Resolution and creation run under the tenant lock.
func (s *Service) CreateOrganization(ctx context.Context, tenant LocalTenant, req CreateOrganizationRequest) (*RemoteOrganization, error) {
	if err := required("domain_name", tenant.DomainName); err != nil {
		return nil, err
	}
	release, err := s.locker.Acquire(ctx, tenantLockKey(tenant.DomainName))
	if err != nil {
		return nil, err
	}
	defer release(context.WithoutCancel(ctx))

	existing, err := s.resolveOrganization(ctx, tenant.DomainName)
	switch {
	case err == nil:
		s.log.Info().Str("domain", tenant.DomainName).Str("orgid", existing.ID).Msg("Organizasyon zaten mevcut, oluşturma atlandı")
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	payload := s.rec.NewOrganization(tenant, req)
	org, err := s.api.CreateOrganization(ctx, payload)
	if err != nil {
		s.log.Error().Err(err).Str("domain", payload.Domain).Msg("Organizasyon oluşturulamadı")
		return nil, err
	}
	s.log.Info().Str("domain", payload.Domain).Str("orgid", org.ID).Msg("✅ Organizasyon oluşturuldu")
	s.publish(ctx, SubjectOrganizationCreated, org)
	return org, nil
}

func (s *Service) DeleteOrganization(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("id", req.ID); err != nil {
		return nil, err
	}
	out, err := s.api.DeleteOrganization(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectOrganizationDeleted, req)
	return out, nil
}

func (s *Service) UpdateOrganizationWithDefaultSettings(ctx context.Context, req OrganizationDefaultsRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	payload := s.rec.OrganizationDefaults(req)
	out, err := s.api.UpdateOrganization(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectOrganizationUpdated, payload)
	return out, nil
}

// ModeSwitchResult holds the organization update and one result per reissued branch.
type ModeSwitchResult struct {
	Switch   json.RawMessage   `json:"switch"`
	Branches []json.RawMessage `json:"branches"`
}

// SwitchOrganizationMode applies the organization defaults, then reissues every
// branch's prior maxregs. Branches are read before the switch so their limits are
// captured as they were.
func (s *Service) SwitchOrganizationMode(ctx context.Context, req OrganizationDefaultsRequest) (*ModeSwitchResult, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	branches, err := s.api.GetBranches(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}

	result := &ModeSwitchResult{Branches: make([]json.RawMessage, 0, len(branches))}
	result.Switch, err = s.UpdateOrganizationWithDefaultSettings(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, update := range s.rec.PostSwitchBranchUpdates(req.OrgID, branches) {
		out, err := s.api.UpdateBranch(ctx, update)
		if err != nil {
			s.log.Error().Err(err).Str("orgid", req.OrgID).Str("branchid", update.ID).Msg("Mod değişikliği sonrası branch güncellenemedi")
			return nil, err
		}
		result.Branches = append(result.Branches, out)
	}
	s.log.Info().Str("orgid", req.OrgID).Int("branches", len(branches)).Msg("Organizasyon modu değiştirildi")
	return result, nil
}
