package softphone

import (
	"encoding/json"
	"strconv"
	"strings"
)

const parkFeatureCode = "park+*"

// MaxParkSlots bounds one branch's call-park block.
const MaxParkSlots = 100

// Reconciler builds remote payloads from local state and request parameters.
// It performs no I/O, so every payload it returns can be re-issued as is.
type Reconciler struct {
	settings Settings
}

func NewReconciler(settings Settings) *Reconciler {
	return &Reconciler{settings: settings}
}

func (r *Reconciler) NewOrganization(tenant LocalTenant, req CreateOrganizationRequest) OrganizationCreate {
	domain := r.OrganizationDomain(tenant.DomainName)
	if req.Domain != "" {
		domain = Compact(req.Domain, r.settings.DomainSuffix)
	}
	region := req.Region
	if region == "" {
		region = r.settings.Region
	}
	name := req.Name
	if name == "" {
		name = tenant.DomainName
	}
	return OrganizationCreate{
		Name:          name,
		Domain:        domain,
		Region:        region,
		AdminLogin:    req.AdminLogin,
		AdminPassword: req.AdminPassword,
	}
}

// OrganizationDomain is the remote domain a new organization gets for a local domain.
func (r *Reconciler) OrganizationDomain(localDomain string) string {
	return Compact(firstLabel(localDomain, "."), r.settings.DomainSuffix)
}

func (r *Reconciler) NewBranch(tenant LocalTenant, req CreateBranchRequest) BranchCreate {
	b := BranchCreate{
		OrgID:    req.OrgID,
		MaxRegs:  int(req.MaxRegs.Or(FlexInt(r.settings.maxRegistration()))),
		Name:     req.ConnectionName,
		Address:  req.ConnectionDomain,
		Protocol: req.Protocol,
	}
	if b.Name == "" {
		b.Name = tenant.DomainName
	}
	if b.Address == "" {
		b.Address = tenant.DomainName
	}
	if b.Protocol == "" {
		b.Protocol = r.settings.DefaultProtocol
	}
	return b
}

// DefaultProfile is the provisioning profile applied to a freshly created branch.
func (r *Reconciler) DefaultProfile() *ProvisioningProfile {
	return &ProvisioningProfile{
		NoOptions: true,
		MaxRegs:   FlexInt(r.settings.maxRegistration()),
		SMS:       3,
		SMS2Email: true,
		CallDelay: 10,
		VMail:     Voicemail{Ext: "*97", SPref: "*97", Message: "You have a new message", Name: "Voicemail"},
		CallPark: CallPark{
			Park:      parkFeatureCode,
			Retrieve:  parkFeatureCode,
			Subscribe: parkFeatureCode,
			Slots: []ParkSlot{
				{Alias: "Park 1", Slot: "5901"},
				{Alias: "Park 2", Slot: "5902"},
				{Alias: "Park 3", Slot: "5903"},
			},
		},
		Features:    "pbx",
		BLFs:        []json.RawMessage{},
		SpeedDial:   []json.RawMessage{},
		CustomPages: []json.RawMessage{},
	}
}

func (r *Reconciler) DefaultBranchUpdate(ref BranchRef) BranchUpdate {
	return BranchUpdate{OrgID: ref.OrgID, ID: ref.BranchID, Provision: r.DefaultProfile()}
}

// BranchSettingsUpdate merges the connection settings form onto the branch. Only fields
// present in the request are sent; maxregs is mandatory.
func (r *Reconciler) BranchSettingsUpdate(req BranchSettingsRequest) (BranchUpdate, error) {
	maxRegs, ok := req.MaxRegs.Get()
	if !ok {
		return BranchUpdate{}, invalidArgument("maxregs is required")
	}
	if maxRegs < 1 {
		return BranchUpdate{}, invalidArgument("maxregs must be positive, got %d", maxRegs)
	}

	patch := &ProvisionPatch{MaxRegs: int(maxRegs)}
	if v, ok := req.Multitenant.Get(); ok {
		patch.Multitenant = ptr(bool(v))
	}
	if req.InboundFormat.IsSet() {
		// Boş gönderilen format, uzak taraftaki formatı temizler.
		patch.InboundFormat = ptr(req.InboundFormat.Or(""))
	}
	if v, ok := req.Protocol.Get(); ok {
		patch.Protocol = ptr(v)
	}
	if v, ok := req.NoSRTP.Get(); ok {
		patch.NoSRTP = ptr(bool(v))
	}
	if v, ok := req.NoVerify.Get(); ok {
		patch.NoVerify = ptr(bool(v))
	}

	u := BranchUpdate{
		OrgID:     req.OrgID,
		ID:        req.ID,
		Name:      req.Name,
		Address:   joinHostPort(req.Address, string(req.Port)),
		Provision: patch,
	}
	if v, ok := req.Country.Get(); ok {
		u.Country = ptr(v)
	}
	return u, nil
}

func joinHostPort(address, port string) string {
	if address == "" || port == "" {
		return address
	}
	return address + ":" + port
}

// ParkSlots maps park numbers to slots in the given order. The alias carries the
// last two characters of the number.
func ParkSlots(numbers []string) []ParkSlot {
	slots := make([]ParkSlot, 0, len(numbers))
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		suffix := n
		if len(n) > 2 {
			suffix = n[len(n)-2:]
		}
		slots = append(slots, ParkSlot{Alias: "Park " + suffix, Slot: n})
	}
	return slots
}

// ParkSlotsUpdate replaces the whole callpark block of a branch.
func (r *Reconciler) ParkSlotsUpdate(req ParkSlotsRequest) (BranchUpdate, error) {
	numbers := make([]string, 0, len(req.Parks))
	for _, p := range req.Parks {
		if s := strings.TrimSpace(string(p)); s != "" {
			numbers = append(numbers, s)
		}
	}
	if len(numbers) > MaxParkSlots {
		return BranchUpdate{}, invalidArgument("park_array has %d numbers, at most %d allowed", len(numbers), MaxParkSlots)
	}
	if len(numbers) == 0 {
		from, okFrom := req.From.Get()
		to, okTo := req.To.Get()
		if !okFrom || !okTo {
			return BranchUpdate{}, invalidArgument("park_array or from_park_number/to_park_number is required")
		}
		if to < from {
			return BranchUpdate{}, invalidArgument("park range %d..%d is empty", from, to)
		}
		if int64(to)-int64(from) >= MaxParkSlots {
			return BranchUpdate{}, invalidArgument("park range %d..%d exceeds %d slots", from, to, MaxParkSlots)
		}
		for n := from; n <= to; n++ {
			numbers = append(numbers, strconv.Itoa(int(n)))
		}
	}

	patch := &ProvisionPatch{
		CallPark: &CallPark{
			Park:      parkFeatureCode,
			Retrieve:  parkFeatureCode,
			Subscribe: parkFeatureCode,
			Slots:     ParkSlots(numbers),
		},
		MaxRegs: int(req.MaxRegs.Or(FlexInt(r.settings.maxRegistration()))),
	}
	return BranchUpdate{OrgID: req.OrgID, ID: req.ID, Name: req.Name, Provision: patch}, nil
}

// UsersCreate builds one user per selection marked for creation. Selections whose
// extension is not in the directory are skipped and returned separately.
func (r *Reconciler) UsersCreate(req CreateUsersRequest, dir *Directory) (UsersCreate, []string) {
	payload := UsersCreate{
		OrgID:      req.OrgID,
		BranchID:   req.BranchID,
		BranchName: req.BranchName,
		OrgDomain:  req.OrgDomain,
		Users:      []NewUser{},
	}
	var skipped []string
	for _, sel := range req.Selections {
		if !sel.Create {
			continue
		}
		ext, ok := dir.ByUUID(sel.ExtensionUUID)
		if !ok {
			skipped = append(skipped, sel.ExtensionUUID)
			continue
		}
		status := 0
		if sel.Active {
			status = 1
		}
		payload.Users = append(payload.Users, NewUser{
			Name:       ext.EffectiveCallerIDName,
			Domain:     req.OrgDomain,
			BranchName: req.BranchName,
			Status:     status,
			Extension:  ext.Extension,
			Username:   ext.Extension,
			Password:   ext.Password,
			AuthName:   ext.Extension,
			Email:      sel.Email,
		})
	}
	return payload, skipped
}

// UserUpdate keeps only the fields that carry a value. Status is always sent.
func (r *Reconciler) UserUpdate(req UpdateUserRequest) UserUpdate {
	u := UserUpdate{
		OrgID:  req.OrgID,
		ID:     req.ID,
		Status: ptr(int(req.Status.Or(0))),
	}
	u.Name = nonEmpty(req.Name)
	u.Email = nonEmpty(req.Email)
	u.Password = nonEmpty(req.Password)
	u.Extension = nonEmptyFlex(req.Extension)
	u.Username = nonEmptyFlex(req.Username)
	u.AuthName = nonEmptyFlex(req.AuthName)
	u.Mobile = nonEmptyFlex(req.Mobile)
	return u
}

func (r *Reconciler) ResyncName(req ResyncRequest, ext LocalExtension) UserUpdate {
	return UserUpdate{OrgID: req.OrgID, ID: req.ID, Name: ptr(ext.EffectiveCallerIDName)}
}

func (r *Reconciler) ResyncPassword(req ResyncRequest, ext LocalExtension) UserUpdate {
	return UserUpdate{OrgID: req.OrgID, ID: req.ID, Password: ptr(ext.Password)}
}

// Activate re-enables a remote user with the identity of its local extension.
func (r *Reconciler) Activate(req ActivateUserRequest, ext LocalExtension) UserUpdate {
	number := ext.Extension
	if req.Extension != "" {
		number = string(req.Extension)
	}
	u := UserUpdate{
		OrgID:     req.OrgID,
		ID:        req.ID,
		Name:      ptr(ext.EffectiveCallerIDName),
		Extension: ptr(number),
		Username:  ptr(ext.Extension),
		AuthName:  ptr(ext.Extension),
		Status:    ptr(1),
	}
	if req.Email != "" {
		u.Email = ptr(req.Email)
	}
	return u
}

func (r *Reconciler) OrganizationDefaults(req OrganizationDefaultsRequest) OrganizationUpdate {
	u := OrganizationUpdate{
		ID:     req.OrgID,
		Params: OrganizationParams{EmailCC: r.settings.OrganizationEmailCC},
	}
	switch {
	case req.Tag != "":
		u.Params.Tags = []string{req.Tag}
	case r.settings.ServerName != "":
		u.Params.Tags = []string{r.settings.ServerName}
	}
	if id, ok := req.PackageID.Get(); ok && id != 0 {
		u.PackageID = ptr(int(id))
	}
	return u
}

// PostSwitchBranchUpdates reissues each branch's current maxregs after a plan change.
// A branch that reports no limit gets the configured default.
func (r *Reconciler) PostSwitchBranchUpdates(orgID string, branches []RemoteBranch) []BranchUpdate {
	updates := make([]BranchUpdate, 0, len(branches))
	for _, b := range branches {
		maxRegs := b.Provision.MaxRegistrations()
		if maxRegs < 1 {
			maxRegs = r.settings.maxRegistration()
		}
		updates = append(updates, BranchUpdate{
			OrgID:     orgID,
			ID:        b.ID,
			Provision: &ProvisionPatch{MaxRegs: maxRegs},
		})
	}
	return updates
}

func (r *Reconciler) Integration(req IntegrationRequest) IntegrationParams {
	creds := r.settings.Bandwidth
	return IntegrationParams{
		ProfileID:     req.ProfileID,
		Username:      creds.Username,
		Password:      creds.Password,
		AccountID:     creds.AccountID,
		ApplicationID: creds.ApplicationID,
	}
}

// Trunk validates and normalizes an SMS trunk. Users are deduplicated.
func (r *Reconciler) Trunk(req TrunkRequest) (SmsTrunk, error) {
	number := strings.TrimSpace(string(req.Number))
	if number == "" {
		return SmsTrunk{}, invalidArgument("number is required")
	}
	seen := make(map[string]struct{}, len(req.Users))
	users := make([]string, 0, len(req.Users))
	for _, u := range req.Users {
		id := strings.TrimSpace(string(u))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		users = append(users, id)
	}
	if len(users) == 0 {
		return SmsTrunk{}, invalidArgument("at least one user is required")
	}
	name := req.Name
	if name == "" {
		name = number
	}
	return SmsTrunk{ID: req.ID, OrgID: req.OrgID, Name: name, Number: number, Users: users}, nil
}

// ActiveIntegrations keeps enabled services whose id is one of the configured providers.
func (r *Reconciler) ActiveIntegrations(services []RemoteService) []RemoteService {
	active := []RemoteService{}
	for _, s := range services {
		if s.State != 1 {
			continue
		}
		for _, p := range r.settings.IntegrationProviders {
			if s.ID == p {
				active = append(active, s)
				break
			}
		}
	}
	return active
}

func ptr[T any](v T) *T { return &v }

func nonEmpty(o Opt[string]) *string {
	if v, ok := o.Get(); ok && v != "" {
		return &v
	}
	return nil
}

func nonEmptyFlex(o Opt[FlexString]) *string {
	if v, ok := o.Get(); ok && v != "" {
		s := string(v)
		return &s
	}
	return nil
}
