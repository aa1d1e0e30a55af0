package softphone

import (
	"context"
	"encoding/json"
	"errors"
)

// GetUsers lists remote users and flags each one whose extension exists locally.
// Without an orgid the tenant's organization is resolved first.
func (s *Service) GetUsers(ctx context.Context, tenant LocalTenant, req UsersQuery) ([]UserRow, error) {
	orgID := req.OrgID
	if orgID == "" {
		org, err := s.resolveOrganization(ctx, tenant.DomainName)
		if err != nil {
			return nil, emptyOnNotFound(err)
		}
		orgID = org.ID
	}
	users, err := s.api.GetUsers(ctx, UserFilter{OrgID: orgID, BranchID: req.BranchID})
	if err != nil {
		return nil, err
	}
	dir, err := s.directory(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return dir.Annotate(users), nil
}

// UsersState projects remote users onto their registration state.
func (s *Service) UsersState(ctx context.Context, req UsersQuery) ([]UserState, error) {
	if err := required("orgid", req.OrgID); err != nil {
		return nil, err
	}
	users, err := s.api.GetUsers(ctx, UserFilter{OrgID: req.OrgID, BranchID: req.BranchID})
	if err != nil {
		return nil, err
	}
	states := make([]UserState, 0, len(users))
	for _, u := range users {
		states = append(states, UserState{ID: u.ID, State: u.State})
	}
	return states, nil
}

// CreateUsers provisions the selected local extensions on a branch. When no selection
// resolves, no remote call is made and the result is empty.
func (s *Service) CreateUsers(ctx context.Context, tenant LocalTenant, req CreateUsersRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "branchid", req.BranchID); err != nil {
		return nil, err
	}
	dir, err := s.directory(ctx, tenant)
	if err != nil {
		return nil, err
	}
	payload, skipped := s.rec.UsersCreate(req, dir)
	if len(skipped) > 0 {
		s.log.Warn().Strs("extension_uuids", skipped).Str("domain", tenant.DomainName).Msg("Yerel dizinde bulunamayan dahililer atlandı")
	}
	if len(payload.Users) == 0 {
		return nil, nil
	}
	out, err := s.api.CreateUsers(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("orgid", req.OrgID).Int("users", len(payload.Users)).Msg("✅ Kullanıcılar oluşturuldu")
	s.publish(ctx, SubjectUsersCreated, payload.Users)
	return out, nil
}

// UpdateUser sends a sparse update for a remote user whose extension exists locally.
func (s *Service) UpdateUser(ctx context.Context, tenant LocalTenant, req UpdateUserRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	number, _ := req.Extension.Get()
	if _, err := s.findExtension(ctx, tenant, string(number)); err != nil {
		return nil, emptyOnNotFound(err)
	}
	return s.updateUser(ctx, s.rec.UserUpdate(req))
}

// UpdateExtensionName pushes a new display name to the remote user mirroring the
// extension. The user's current status is preserved.
func (s *Service) UpdateExtensionName(ctx context.Context, tenant LocalTenant, req ExtensionNameRequest) (json.RawMessage, error) {
	if req.Name == "" || req.Extension == "" {
		return nil, nil
	}
	org, err := s.resolveOrganization(ctx, tenant.DomainName)
	if err != nil {
		return nil, emptyOnNotFound(err)
	}
	users, err := s.api.GetUsers(ctx, UserFilter{OrgID: org.ID})
	if err != nil {
		return nil, err
	}
	var target *RemoteUser
	for i := range users {
		if SameExtension(users[i].Extension, string(req.Extension)) {
			target = &users[i]
		}
	}
	if target == nil {
		return nil, nil
	}
	return s.updateUser(ctx, UserUpdate{
		OrgID:  org.ID,
		ID:     target.ID,
		Name:   ptr(req.Name),
		Status: ptr(target.Status),
	})
}

func (s *Service) ResyncNames(ctx context.Context, tenant LocalTenant, req ResyncRequest) (json.RawMessage, error) {
	return s.resync(ctx, tenant, req, s.rec.ResyncName)
}

func (s *Service) ResyncPassword(ctx context.Context, tenant LocalTenant, req ResyncRequest) (json.RawMessage, error) {
	return s.resync(ctx, tenant, req, s.rec.ResyncPassword)
}

func (s *Service) resync(ctx context.Context, tenant LocalTenant, req ResyncRequest, build func(ResyncRequest, LocalExtension) UserUpdate) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	ext, err := s.findExtension(ctx, tenant, string(req.Extension))
	if err != nil {
		return nil, emptyOnNotFound(err)
	}
	return s.updateUser(ctx, build(req, *ext))
}

// ActivateUser re-enables a remote user from its local extension record.
func (s *Service) ActivateUser(ctx context.Context, tenant LocalTenant, req ActivateUserRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	ext, err := s.findExtension(ctx, tenant, string(req.Extension))
	if err != nil {
		return nil, emptyOnNotFound(err)
	}
	return s.updateUser(ctx, s.rec.Activate(req, *ext))
}

func (s *Service) DeactivateUser(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	out, err := s.api.DeactivateUser(ctx, req.OrgID, req.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectUserUpdated, req)
	return out, nil
}

// DetachUser unbinds the remote user from its app account.
func (s *Service) DetachUser(ctx context.Context, req DetachUserRequest) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	return s.updateUser(ctx, UserUpdate{OrgID: req.OrgID, ID: req.ID, UserID: req.UserID})
}

func (s *Service) DeleteUser(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	out, err := s.api.DeleteUser(ctx, req.OrgID, req.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, SubjectUserDeleted, req)
	return out, nil
}

func (s *Service) ResetUserPassword(ctx context.Context, req EntityRef) (json.RawMessage, error) {
	if err := required("orgid", req.OrgID, "id", req.ID); err != nil {
		return nil, err
	}
	return s.api.ResetUserPassword(ctx, req.OrgID, req.ID)
}

func (s *Service) updateUser(ctx context.Context, update UserUpdate) (json.RawMessage, error) {
	out, err := s.api.UpdateUser(ctx, update)
	if err != nil {
		var fault *RemoteFault
		if errors.As(err, &fault) {
			s.log.Warn().Err(err).Str("orgid", update.OrgID).Str("id", update.ID).Msg("Kullanıcı güncellemesi reddedildi")
		}
		return nil, err
	}
	s.publish(ctx, SubjectUserUpdated, UserEvent{OrgID: update.OrgID, ID: update.ID, State: update.Status})
	return out, nil
}

// UserEvent is published after a user update. State is absent when the update
// did not touch the user's status.
type UserEvent struct {
	OrgID string `json:"orgid"`
	ID    string `json:"id"`
	State *int   `json:"state,omitempty"`
}
