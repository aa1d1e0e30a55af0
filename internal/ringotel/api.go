package ringotel

import (
	"context"
	"encoding/json"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

// Ringotel API method adları.
const (
	MethodGetOrganizations   = "getOrganizations"
	MethodCreateOrganization = "createOrganization"
	MethodUpdateOrganization = "updateOrganization"
	MethodDeleteOrganization = "deleteOrganization"
	MethodGetBranches        = "getBranches"
	MethodCreateBranch       = "createBranch"
	MethodUpdateBranch       = "updateBranch"
	MethodDeleteBranch       = "deleteBranch"
	MethodGetUsers           = "getUsers"
	MethodCreateUsers        = "createUsers"
	MethodUpdateUser         = "updateUser"
	MethodDeleteUser         = "deleteUser"
	MethodDeactivateUser     = "deactivateUser"
	MethodResetUserPassword  = "resetUserPassword"
	MethodGetServices        = "getServices"
	MethodCreateIntegration  = "createIntegration"
	MethodDeleteIntegration  = "deleteIntegration"
	MethodGetSmsTrunks       = "getSMSTrunks"
	MethodCreateSmsTrunk     = "createSMSTrunk"
	MethodUpdateSmsTrunk     = "updateSMSTrunk"
	MethodDeleteSmsTrunk     = "deleteSMSTrunk"
)

var _ softphone.RemoteAPI = (*Client)(nil)

type idParams struct {
	OrgID string `json:"orgid,omitempty"`
	ID    string `json:"id,omitempty"`
}

func (c *Client) GetOrganizations(ctx context.Context) ([]softphone.RemoteOrganization, error) {
	var orgs []softphone.RemoteOrganization
	if _, err := c.call(ctx, MethodGetOrganizations, nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (c *Client) CreateOrganization(ctx context.Context, p softphone.OrganizationCreate) (*softphone.RemoteOrganization, error) {
	org := &softphone.RemoteOrganization{}
	if _, err := c.call(ctx, MethodCreateOrganization, p, org); err != nil {
		return nil, err
	}
	if org.Domain == "" {
		org.Domain = p.Domain
	}
	if org.Name == "" {
		org.Name = p.Name
	}
	return org, nil
}

func (c *Client) UpdateOrganization(ctx context.Context, p softphone.OrganizationUpdate) (json.RawMessage, error) {
	return c.call(ctx, MethodUpdateOrganization, p, nil)
}

func (c *Client) DeleteOrganization(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodDeleteOrganization, idParams{ID: id}, nil)
}

func (c *Client) GetBranches(ctx context.Context, orgID string) ([]softphone.RemoteBranch, error) {
	var branches []softphone.RemoteBranch
	if _, err := c.call(ctx, MethodGetBranches, idParams{OrgID: orgID}, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

func (c *Client) CreateBranch(ctx context.Context, p softphone.BranchCreate) (json.RawMessage, error) {
	return c.call(ctx, MethodCreateBranch, p, nil)
}

func (c *Client) UpdateBranch(ctx context.Context, p softphone.BranchUpdate) (json.RawMessage, error) {
	return c.call(ctx, MethodUpdateBranch, p, nil)
}

func (c *Client) DeleteBranch(ctx context.Context, orgID, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodDeleteBranch, idParams{OrgID: orgID, ID: id}, nil)
}

func (c *Client) GetUsers(ctx context.Context, f softphone.UserFilter) ([]softphone.RemoteUser, error) {
	var users []softphone.RemoteUser
	if _, err := c.call(ctx, MethodGetUsers, f, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUsers(ctx context.Context, p softphone.UsersCreate) (json.RawMessage, error) {
	return c.call(ctx, MethodCreateUsers, p, nil)
}

func (c *Client) UpdateUser(ctx context.Context, p softphone.UserUpdate) (json.RawMessage, error) {
	return c.call(ctx, MethodUpdateUser, p, nil)
}

func (c *Client) DeleteUser(ctx context.Context, orgID, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodDeleteUser, idParams{OrgID: orgID, ID: id}, nil)
}

func (c *Client) DeactivateUser(ctx context.Context, orgID, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodDeactivateUser, idParams{OrgID: orgID, ID: id}, nil)
}

func (c *Client) ResetUserPassword(ctx context.Context, orgID, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodResetUserPassword, idParams{OrgID: orgID, ID: id}, nil)
}

func (c *Client) GetServices(ctx context.Context, orgID string) ([]softphone.RemoteService, error) {
	var services []softphone.RemoteService
	if _, err := c.call(ctx, MethodGetServices, idParams{OrgID: orgID}, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) CreateIntegration(ctx context.Context, p softphone.IntegrationParams) (json.RawMessage, error) {
	return c.call(ctx, MethodCreateIntegration, p, nil)
}

func (c *Client) DeleteIntegration(ctx context.Context, p softphone.IntegrationParams) (json.RawMessage, error) {
	return c.call(ctx, MethodDeleteIntegration, p, nil)
}

func (c *Client) GetSmsTrunks(ctx context.Context, orgID string) (json.RawMessage, error) {
	return c.call(ctx, MethodGetSmsTrunks, idParams{OrgID: orgID}, nil)
}

func (c *Client) CreateSmsTrunk(ctx context.Context, t softphone.SmsTrunk) (json.RawMessage, error) {
	return c.call(ctx, MethodCreateSmsTrunk, t, nil)
}

func (c *Client) UpdateSmsTrunk(ctx context.Context, t softphone.SmsTrunk) (json.RawMessage, error) {
	return c.call(ctx, MethodUpdateSmsTrunk, t, nil)
}

func (c *Client) DeleteSmsTrunk(ctx context.Context, orgID, id string) (json.RawMessage, error) {
	return c.call(ctx, MethodDeleteSmsTrunk, idParams{OrgID: orgID, ID: id}, nil)
}
