package softphone

import (
	"context"
	"encoding/json"
)

func (s *Service) CreateIntegration(ctx context.Context, req IntegrationRequest) (json.RawMessage, error) {
	if err := required("profileid", req.ProfileID); err != nil {
		return nil, err
	}
	out, err := s.api.CreateIntegration(ctx, s.rec.Integration(req))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectIntegrationChanged, map[string]any{"profileid": req.ProfileID, "enabled": true})
	return out, nil
}

func (s *Service) DeleteIntegration(ctx context.Context, req IntegrationRequest) (json.RawMessage, error) {
	if err := required("profileid", req.ProfileID); err != nil {
		return nil, err
	}
	out, err := s.api.DeleteIntegration(ctx, s.rec.Integration(req))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectIntegrationChanged, map[string]any{"profileid": req.ProfileID, "enabled": false})
	return out, nil
}

// GetIntegration returns the organization's enabled services that match a configured provider.
func (s *Service) GetIntegration(ctx context.Context, req OrgRef) ([]RemoteService, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	services, err := s.api.GetServices(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}
	return s.rec.ActiveIntegrations(services), nil
}

func (s *Service) GetSmsTrunk(ctx context.Context, req OrgRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	return s.api.GetSmsTrunks(ctx, req.OrgID)
}

func (s *Service) CreateSmsTrunk(ctx context.Context, req TrunkRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	trunk, err := s.rec.Trunk(req)
	if err != nil {
		return nil, err
	}
	trunk.ID = ""
	out, err := s.api.CreateSmsTrunk(ctx, trunk)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectTrunkChanged, trunk)
	return out, nil
}

// UpdateSmsTrunk replaces every stored field of the trunk.
func (s *Service) UpdateSmsTrunk(ctx context.Context, req TrunkRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	trunk, err := s.rec.Trunk(req)
	if err != nil {
		return nil, err
	}
	out, err := s.api.UpdateSmsTrunk(ctx, trunk)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectTrunkChanged, trunk)
	return out, nil
}

func (s *Service) DeleteSmsTrunk(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	out, err := s.api.DeleteSmsTrunk(ctx, req.OrgID, req.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectTrunkChanged, req)
	return out, nil
}
