package softphone

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func testSettings() Settings {
	return Settings{
		DomainSuffix:         "-ringotel",
		MaxRegistration:      2,
		DefaultProtocol:      "sip-tcp",
		OrganizationEmailCC:  "ops@example.com",
		Region:               "1",
		ServerName:           "pbx-01",
		IntegrationProviders: []string{"Bandwidth"},
		Bandwidth:            BandwidthCredentials{Username: "bw", Password: "secret", AccountID: "acc", ApplicationID: "app"},
	}
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestParkSlotsPreserveOrder(t *testing.T) {
	numbers := []string{"5912", "5906", "5908", "77", "5"}
	slots := ParkSlots(numbers)
	if len(slots) != len(numbers) {
		t.Fatalf("got %d slots, want %d", len(slots), len(numbers))
	}
	for i, n := range numbers {
		if slots[i].Slot != n {
			t.Errorf("slot %d = %q, want %q", i, slots[i].Slot, n)
		}
		last := n
		if len(n) > 2 {
			last = n[len(n)-2:]
		}
		if slots[i].Alias != "Park "+last {
			t.Errorf("alias %d = %q, want %q", i, slots[i].Alias, "Park "+last)
		}
	}
}

func TestParkSlotsUpdate(t *testing.T) {
	rec := NewReconciler(testSettings())

	u, err := rec.ParkSlotsUpdate(ParkSlotsRequest{OrgID: "o", ID: "b", Parks: []FlexString{"5906", "5901"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	patch := u.Provision.(*ProvisionPatch)
	if patch.MaxRegs != 2 {
		t.Errorf("maxregs = %d, want configured default", patch.MaxRegs)
	}
	if patch.CallPark == nil || len(patch.CallPark.Slots) != 2 || patch.CallPark.Slots[0].Slot != "5906" {
		t.Fatalf("unexpected callpark %+v", patch.CallPark)
	}

	u, err = rec.ParkSlotsUpdate(ParkSlotsRequest{OrgID: "o", ID: "b", From: Some[FlexInt](5901), To: Some[FlexInt](5903)})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if got := len(u.Provision.(*ProvisionPatch).CallPark.Slots); got != 3 {
		t.Errorf("range produced %d slots", got)
	}

	if _, err := rec.ParkSlotsUpdate(ParkSlotsRequest{OrgID: "o", ID: "b"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParkSlotsUpdateRejectsOversizedSets(t *testing.T) {
	rec := NewReconciler(testSettings())

	tests := []struct {
		name string
		req  ParkSlotsRequest
	}{
		{"huge range", ParkSlotsRequest{From: Some[FlexInt](1), To: Some[FlexInt](5000000)}},
		{"one past limit", ParkSlotsRequest{From: Some[FlexInt](5900), To: Some[FlexInt](5900 + MaxParkSlots)}},
		{"long array", ParkSlotsRequest{Parks: make([]FlexString, MaxParkSlots+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.OrgID, req.ID = "o", "b"
			for i := range req.Parks {
				req.Parks[i] = FlexString(strconv.Itoa(5900 + i))
			}
			if _, err := rec.ParkSlotsUpdate(req); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}

	u, err := rec.ParkSlotsUpdate(ParkSlotsRequest{OrgID: "o", ID: "b", From: Some[FlexInt](5900), To: Some[FlexInt](5900 + MaxParkSlots - 1)})
	if err != nil {
		t.Fatalf("range at limit: %v", err)
	}
	if got := len(u.Provision.(*ProvisionPatch).CallPark.Slots); got != MaxParkSlots {
		t.Errorf("got %d slots, want %d", got, MaxParkSlots)
	}
}

func TestUserUpdateOmitsEmptyCredentials(t *testing.T) {
	rec := NewReconciler(testSettings())
	req := UpdateUserRequest{
		OrgID:    "o",
		ID:       "u",
		Name:     Some("Alice"),
		Password: Cleared[string](),
		Username: Some[FlexString](""),
		Email:    Some("alice@example.com"),
	}
	m := asMap(t, rec.UserUpdate(req))

	for _, key := range []string{"password", "username", "authname", "mobile", "extension"} {
		if _, ok := m[key]; ok {
			t.Errorf("payload should not carry %q: %v", key, m)
		}
	}
	if m["name"] != "Alice" || m["email"] != "alice@example.com" {
		t.Errorf("unexpected payload %v", m)
	}
	if status, ok := m["status"]; !ok || status != float64(0) {
		t.Errorf("status must default to 0, got %v", m["status"])
	}
}

func TestBranchSettingsUpdate(t *testing.T) {
	rec := NewReconciler(testSettings())

	_, err := rec.BranchSettingsUpdate(BranchSettingsRequest{OrgID: "o", ID: "b"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("missing maxregs: got %v", err)
	}

	u, err := rec.BranchSettingsUpdate(BranchSettingsRequest{
		OrgID:         "o",
		ID:            "b",
		Name:          "acme.example.com",
		Address:       "acme.example.com",
		Port:          "5070",
		Multitenant:   Some(Bool(true)),
		InboundFormat: Cleared[string](),
		MaxRegs:       Some[FlexInt](3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := asMap(t, u)
	if m["address"] != "acme.example.com:5070" {
		t.Errorf("address = %v", m["address"])
	}
	if _, ok := m["country"]; ok {
		t.Errorf("country was not requested")
	}
	prov := m["provision"].(map[string]any)
	if prov["maxregs"] != float64(3) || prov["multitenant"] != true || prov["inboundFormat"] != "" {
		t.Errorf("unexpected provision %v", prov)
	}
	for _, key := range []string{"protocol", "nosrtp", "noverify", "callpark"} {
		if _, ok := prov[key]; ok {
			t.Errorf("provision should not carry %q", key)
		}
	}
}

func TestDefaultBranchUpdate(t *testing.T) {
	rec := NewReconciler(testSettings())
	m := asMap(t, rec.DefaultBranchUpdate(BranchRef{OrgID: "o", BranchID: "b"}))
	if m["id"] != "b" || m["orgid"] != "o" {
		t.Fatalf("unexpected ids %v", m)
	}
	prov := m["provision"].(map[string]any)
	if prov["maxregs"] != float64(2) || prov["features"] != "pbx" || prov["noptions"] != true {
		t.Errorf("unexpected default profile %v", prov)
	}
	park := prov["callpark"].(map[string]any)
	if slots := park["slots"].([]any); len(slots) != 3 {
		t.Errorf("default park slots = %v", slots)
	}
	if blfs, ok := prov["blfs"].([]any); !ok || len(blfs) != 0 {
		t.Errorf("blfs should be an empty list, got %v", prov["blfs"])
	}
}

func TestPostSwitchKeepsBranchMaxRegs(t *testing.T) {
	rec := NewReconciler(testSettings())
	branches := []RemoteBranch{
		{ID: "b1", Provision: ProvisioningProfile{MaxRegs: 5}},
		{ID: "b2", Provision: ProvisioningProfile{MaxRegs: 1}},
		{ID: "b3", Provision: ProvisioningProfile{MaxRegs: 9}},
	}
	updates := rec.PostSwitchBranchUpdates("o", branches)
	if len(updates) != len(branches) {
		t.Fatalf("got %d updates", len(updates))
	}
	for i, u := range updates {
		if u.ID != branches[i].ID || u.Provision.MaxRegistrations() != branches[i].Provision.MaxRegistrations() {
			t.Errorf("branch %s: maxregs %d, want %d", u.ID, u.Provision.MaxRegistrations(), branches[i].Provision.MaxRegistrations())
		}
	}
}

func TestUsersCreate(t *testing.T) {
	rec := NewReconciler(testSettings())
	dir := NewDirectory([]LocalExtension{
		{ExtensionUUID: "e1", Extension: "101", EffectiveCallerIDName: "Alice", Password: "p1"},
		{ExtensionUUID: "e2", Extension: "102", EffectiveCallerIDName: "Bob", Password: "p2"},
	})
	req := CreateUsersRequest{
		OrgID: "o", BranchID: "b", BranchName: "main", OrgDomain: "acme-ringotel",
		Selections: []UserSelection{
			{ExtensionUUID: "e1", Create: true, Active: true, Email: "alice@example.com"},
			{ExtensionUUID: "e2", Create: false, Active: true},
			{ExtensionUUID: "gone", Create: true},
			{ExtensionUUID: "e2", Create: true},
		},
	}
	payload, skipped := rec.UsersCreate(req, dir)
	if len(skipped) != 1 || skipped[0] != "gone" {
		t.Errorf("skipped = %v", skipped)
	}
	if len(payload.Users) != 2 {
		t.Fatalf("got %d users", len(payload.Users))
	}
	alice, bob := payload.Users[0], payload.Users[1]
	if alice.Status != 1 || alice.Username != "101" || alice.AuthName != "101" || alice.Password != "p1" || alice.Email != "alice@example.com" {
		t.Errorf("unexpected alice %+v", alice)
	}
	if bob.Status != 0 || bob.Name != "Bob" || bob.Domain != "acme-ringotel" || bob.BranchName != "main" {
		t.Errorf("unexpected bob %+v", bob)
	}
}

func TestActivate(t *testing.T) {
	rec := NewReconciler(testSettings())
	ext := LocalExtension{ExtensionUUID: "e1", Extension: "101", EffectiveCallerIDName: "Alice"}
	m := asMap(t, rec.Activate(ActivateUserRequest{OrgID: "o", ID: "u"}, ext))
	if m["status"] != float64(1) || m["name"] != "Alice" || m["username"] != "101" || m["authname"] != "101" || m["extension"] != "101" {
		t.Errorf("unexpected activation %v", m)
	}
	if _, ok := m["email"]; ok {
		t.Errorf("email was not requested")
	}
}

func TestOrganizationDefaults(t *testing.T) {
	rec := NewReconciler(testSettings())

	u := rec.OrganizationDefaults(OrganizationDefaultsRequest{OrgID: "o"})
	if u.Params.EmailCC != "ops@example.com" || len(u.Params.Tags) != 1 || u.Params.Tags[0] != "pbx-01" || u.PackageID != nil {
		t.Errorf("unexpected defaults %+v", u)
	}

	u = rec.OrganizationDefaults(OrganizationDefaultsRequest{OrgID: "o", Tag: "trial", PackageID: Some[FlexInt](4)})
	if u.Params.Tags[0] != "trial" || u.PackageID == nil || *u.PackageID != 4 {
		t.Errorf("unexpected defaults %+v", u)
	}
}

func TestTrunk(t *testing.T) {
	rec := NewReconciler(testSettings())

	tr, err := rec.Trunk(TrunkRequest{OrgID: "o", Number: "15550100", Users: []FlexString{"u1", "u2", "u1", ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Name != "15550100" || strings.Join(tr.Users, ",") != "u1,u2" {
		t.Errorf("unexpected trunk %+v", tr)
	}

	if _, err := rec.Trunk(TrunkRequest{OrgID: "o", Number: "15550100"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no users: got %v", err)
	}
	if _, err := rec.Trunk(TrunkRequest{OrgID: "o", Users: []FlexString{"u1"}}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no number: got %v", err)
	}
}

func TestActiveIntegrations(t *testing.T) {
	settings := testSettings()
	settings.IntegrationProviders = []string{"Bandwidth", "Telnyx"}
	rec := NewReconciler(settings)

	got := rec.ActiveIntegrations([]RemoteService{
		{ID: "Bandwidth", State: 1},
		{ID: "Telnyx", State: 0},
		{ID: "Twilio", State: 1},
		{ID: "Telnyx", State: 1},
	})
	if len(got) != 2 || got[0].ID != "Bandwidth" || got[1].ID != "Telnyx" {
		t.Errorf("unexpected integrations %+v", got)
	}
}

func TestNewOrganizationDomain(t *testing.T) {
	rec := NewReconciler(testSettings())
	tenant := LocalTenant{DomainName: "superlongcompanynamehere.example.com"}

	org := rec.NewOrganization(tenant, CreateOrganizationRequest{})
	if org.Domain != "superlongcompan-ringotel" || org.Region != "1" || org.Name != tenant.DomainName {
		t.Errorf("unexpected organization %+v", org)
	}

	org = rec.NewOrganization(tenant, CreateOrganizationRequest{Name: "Acme", Domain: "acme", Region: "2"})
	if org.Domain != "acme-ringotel" || org.Region != "2" || org.Name != "Acme" {
		t.Errorf("unexpected organization %+v", org)
	}
}
