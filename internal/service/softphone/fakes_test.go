package softphone

import (
	"context"
	"encoding/json"
	"sync"
)

type memExtensionRepo struct {
	byDomain map[string][]LocalExtension
}

func newMemExtensionRepo(domainUUID string, exts ...LocalExtension) *memExtensionRepo {
	return &memExtensionRepo{byDomain: map[string][]LocalExtension{domainUUID: exts}}
}

func (m *memExtensionRepo) ListExtensions(_ context.Context, domainUUID string) ([]LocalExtension, error) {
	return m.byDomain[domainUUID], nil
}

func (m *memExtensionRepo) FindExtension(_ context.Context, domainUUID, extension string) (*LocalExtension, error) {
	for _, e := range m.byDomain[domainUUID] {
		if e.Extension == extension {
			e := e
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

// fakeRemote records every call and answers from in-memory state.
type fakeRemote struct {
	mu sync.Mutex

	orgs     []RemoteOrganization
	branches map[string][]RemoteBranch
	users    []RemoteUser
	services []RemoteService

	calls         []string
	createdOrgs   []OrganizationCreate
	orgUpdates    []OrganizationUpdate
	branchUpdates []BranchUpdate
	userUpdates   []UserUpdate
	usersCreated  []UsersCreate
	integrations  []IntegrationParams
	trunks        []SmsTrunk
	failWith      error
	failOn        string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{branches: map[string][]RemoteBranch{}}
}

var okResult = json.RawMessage(`{"ok":true}`)

func (f *fakeRemote) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	if f.failWith != nil && (f.failOn == "" || f.failOn == method) {
		return f.failWith
	}
	return nil
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) GetOrganizations(context.Context) ([]RemoteOrganization, error) {
	if err := f.record("getOrganizations"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RemoteOrganization(nil), f.orgs...), nil
}

func (f *fakeRemote) CreateOrganization(_ context.Context, p OrganizationCreate) (*RemoteOrganization, error) {
	if err := f.record("createOrganization"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	org := RemoteOrganization{ID: "org-" + p.Domain, Name: p.Name, Domain: p.Domain, Region: p.Region}
	f.orgs = append(f.orgs, org)
	f.createdOrgs = append(f.createdOrgs, p)
	return &org, nil
}

func (f *fakeRemote) UpdateOrganization(_ context.Context, p OrganizationUpdate) (json.RawMessage, error) {
	if err := f.record("updateOrganization"); err != nil {
		return nil, err
	}
	f.orgUpdates = append(f.orgUpdates, p)
	return okResult, nil
}

func (f *fakeRemote) DeleteOrganization(context.Context, string) (json.RawMessage, error) {
	if err := f.record("deleteOrganization"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) GetBranches(_ context.Context, orgID string) ([]RemoteBranch, error) {
	if err := f.record("getBranches"); err != nil {
		return nil, err
	}
	return f.branches[orgID], nil
}

func (f *fakeRemote) CreateBranch(context.Context, BranchCreate) (json.RawMessage, error) {
	if err := f.record("createBranch"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) UpdateBranch(_ context.Context, p BranchUpdate) (json.RawMessage, error) {
	if err := f.record("updateBranch"); err != nil {
		return nil, err
	}
	f.branchUpdates = append(f.branchUpdates, p)
	return okResult, nil
}

func (f *fakeRemote) DeleteBranch(context.Context, string, string) (json.RawMessage, error) {
	if err := f.record("deleteBranch"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) GetUsers(context.Context, UserFilter) ([]RemoteUser, error) {
	if err := f.record("getUsers"); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeRemote) CreateUsers(_ context.Context, p UsersCreate) (json.RawMessage, error) {
	if err := f.record("createUsers"); err != nil {
		return nil, err
	}
	f.usersCreated = append(f.usersCreated, p)
	return okResult, nil
}

func (f *fakeRemote) UpdateUser(_ context.Context, p UserUpdate) (json.RawMessage, error) {
	if err := f.record("updateUser"); err != nil {
		return nil, err
	}
	f.userUpdates = append(f.userUpdates, p)
	return okResult, nil
}

func (f *fakeRemote) DeleteUser(context.Context, string, string) (json.RawMessage, error) {
	if err := f.record("deleteUser"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) DeactivateUser(context.Context, string, string) (json.RawMessage, error) {
	if err := f.record("deactivateUser"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) ResetUserPassword(context.Context, string, string) (json.RawMessage, error) {
	if err := f.record("resetUserPassword"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) GetServices(context.Context, string) ([]RemoteService, error) {
	if err := f.record("getServices"); err != nil {
		return nil, err
	}
	return f.services, nil
}

func (f *fakeRemote) CreateIntegration(_ context.Context, p IntegrationParams) (json.RawMessage, error) {
	if err := f.record("createIntegration"); err != nil {
		return nil, err
	}
	f.integrations = append(f.integrations, p)
	return okResult, nil
}

func (f *fakeRemote) DeleteIntegration(context.Context, IntegrationParams) (json.RawMessage, error) {
	if err := f.record("deleteIntegration"); err != nil {
		return nil, err
	}
	return okResult, nil
}

func (f *fakeRemote) GetSmsTrunks(context.Context, string) (json.RawMessage, error) {
	if err := f.record("getSmsTrunks"); err != nil {
		return nil, err
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeRemote) CreateSmsTrunk(_ context.Context, t SmsTrunk) (json.RawMessage, error) {
	if err := f.record("createSmsTrunk"); err != nil {
		return nil, err
	}
	f.trunks = append(f.trunks, t)
	return okResult, nil
}

func (f *fakeRemote) UpdateSmsTrunk(_ context.Context, t SmsTrunk) (json.RawMessage, error) {
	if err := f.record("updateSmsTrunk"); err != nil {
		return nil, err
	}
	f.trunks = append(f.trunks, t)
	return okResult, nil
}

func (f *fakeRemote) DeleteSmsTrunk(context.Context, string, string) (json.RawMessage, error) {
	if err := f.record("deleteSmsTrunk"); err != nil {
		return nil, err
	}
	return okResult, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, payload)
}

// countingLocker serializes callers like the redis lock does.
type countingLocker struct {
	mu       sync.Mutex
	acquired int
}

func (l *countingLocker) Acquire(context.Context, string) (func(context.Context), error) {
	l.mu.Lock()
	l.acquired++
	return func(context.Context) { l.mu.Unlock() }, nil
}
