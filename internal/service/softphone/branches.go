package softphone

import (
	"context"
	"encoding/json"
)

func (s *Service) GetBranches(ctx context.Context, req OrgRef) ([]RemoteBranch, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	return s.api.GetBranches(ctx, req.OrgID)
}

func (s *Service) CreateBranch(ctx context.Context, tenant LocalTenant, req CreateBranchRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	payload := s.rec.NewBranch(tenant, req)
	if err := required("name", payload.Name, "address", payload.Address); err != nil {
		return nil, err
	}
	out, err := s.api.CreateBranch(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("orgid", payload.OrgID).Str("address", payload.Address).Int("maxregs", payload.MaxRegs).Msg("Branch oluşturuldu")
	s.publish(ctx, SubjectBranchCreated, payload)
	return out, nil
}

func (s *Service) DeleteBranch(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	out, err := s.api.DeleteBranch(ctx, req.OrgID, req.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectBranchDeleted, req)
	return out, nil
}

func (s *Service) UpdateBranchWithDefaultSettings(ctx context.Context, req BranchRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "branchid", req.BranchID); err != nil {
		return nil, err
	}
	return s.updateBranch(ctx, s.rec.DefaultBranchUpdate(req))
}

func (s *Service) UpdateBranchWithUpdatedSettings(ctx context.Context, req BranchSettingsRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	update, err := s.rec.BranchSettingsUpdate(req)
	if err != nil {
		return nil, err
	}
	return s.updateBranch(ctx, update)
}

func (s *Service) UpdateParksWithUpdatedSettings(ctx context.Context, req ParkSlotsRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	update, err := s.rec.ParkSlotsUpdate(req)
	if err != nil {
		return nil, err
	}
	if _, ok := req.MaxRegs.Get(); !ok {
		current, err := s.currentMaxRegs(ctx, req.OrgID, req.ID)
		if err != nil {
			return nil, err
		}
		if patch, ok := update.Provision.(*ProvisionPatch); ok && current > 0 {
			patch.MaxRegs = current
		}
	}
	return s.updateBranch(ctx, update)
}

// currentMaxRegs reads the branch's registration limit so that a park update
// without maxregs does not reset it. Zero means unknown.
func (s *Service) currentMaxRegs(ctx context.Context, orgID, branchID string) (int, error) {
	branches, err := s.api.GetBranches(ctx, orgID)
	if err != nil {
		return 0, err
	}
	for i := range branches {
		if branches[i].ID == branchID {
			return branches[i].Provision.MaxRegistrations(), nil
		}
	}
	return 0, nil
}

func (s *Service) updateBranch(ctx context.Context, update BranchUpdate) (json.RawMessage, error) {
	out, err := s.api.UpdateBranch(ctx, update)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectBranchUpdated, update)
	return out, nil
}
