// sentiric-softphone-service/internal/service/softphone/types.go
package softphone

import "encoding/json"

// LocalTenant, isteği yapan PBX tenant'ını temsil eder. Her çağrıya açıkça verilir.
type LocalTenant struct {
	DomainName string `json:"domain_name"`
	DomainUUID string `json:"domain_uuid"`
}

// LocalExtension, yerel PBX dizinindeki bir dahili numara kaydıdır.
type LocalExtension struct {
	ExtensionUUID         string `json:"extension_uuid"`
	Extension             string `json:"extension"`
	EffectiveCallerIDName string `json:"effective_caller_id_name"`
	Password              string `json:"-"`
	Email                 string `json:"email,omitempty"`
}

type RemoteOrganization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Region string `json:"region,omitempty"`
}

// RemoteBranch is a SIP connection scoped to one organization.
type RemoteBranch struct {
	ID        string              `json:"id"`
	OrgID     string              `json:"orgid,omitempty"`
	Name      string              `json:"name"`
	Address   string              `json:"address"`
	Protocol  string              `json:"protocol,omitempty"`
	Provision ProvisioningProfile `json:"provision"`
}

type RemoteUser struct {
	ID        string `json:"id"`
	OrgID     string `json:"orgid,omitempty"`
	BranchID  string `json:"branchid,omitempty"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Username  string `json:"username,omitempty"`
	AuthName  string `json:"authname,omitempty"`
	Password  string `json:"password,omitempty"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Status    int    `json:"status"`
	State     int    `json:"state"`
}

// UserRow is a remote user annotated with whether its extension still exists locally.
type UserRow struct {
	RemoteUser
	ExtensionExists bool `json:"extension_exists"`
}

// UserState is the registration state projection returned by users_state.
type UserState struct {
	ID    string `json:"id"`
	State int    `json:"state"`
}

type SmsTrunk struct {
	ID     string   `json:"id,omitempty"`
	OrgID  string   `json:"orgid"`
	Name   string   `json:"name"`
	Number string   `json:"number"`
	Users  []string `json:"users"`
}

// RemoteService is one entry of the organization's service (integration) list.
type RemoteService struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	State int    `json:"state"`
	Logo  string `json:"logo,omitempty"`
}

// ProvisioningProfile is the full provision block of a branch.
type ProvisioningProfile struct {
	Multitenant bool              `json:"multitenant"`
	NoRec       bool              `json:"norec"`
	NoStates    bool              `json:"nostates"`
	NoChats     bool              `json:"nochats"`
	NoVideo     bool              `json:"novideo"`
	NoOptions   bool              `json:"noptions"`
	NoLogAE     bool              `json:"nologae"`
	MaxRegs     FlexInt           `json:"maxregs"`
	BetaUpdates bool              `json:"beta_updates"`
	SMS         int               `json:"sms"`
	Paging      int               `json:"paging"`
	Private     bool              `json:"private"`
	SMS2Email   bool              `json:"sms2email"`
	NoLogMC     bool              `json:"nologmc"`
	Application string            `json:"application"`
	Popup       int               `json:"popup"`
	CallDelay   int               `json:"calldelay"`
	PCDelay     bool              `json:"pcdelay"`
	DND         Toggle            `json:"dnd"`
	VMail       Voicemail         `json:"vmail"`
	Forwarding  Forwarding        `json:"forwarding"`
	CallWaiting Toggle            `json:"callwaiting"`
	CallPark    CallPark          `json:"callpark"`
	Features    string            `json:"features"`
	BLFs        []json.RawMessage `json:"blfs"`
	SpeedDial   []json.RawMessage `json:"speeddial"`
	CustomPages []json.RawMessage `json:"custompages"`
	Fallback    Fallback          `json:"fallback"`
}

func (p *ProvisioningProfile) MaxRegistrations() int { return int(p.MaxRegs) }

type Toggle struct {
	On  string `json:"on"`
	Off string `json:"off"`
}

type Voicemail struct {
	On      string `json:"on"`
	Off     string `json:"off"`
	Ext     string `json:"ext"`
	SPref   string `json:"spref"`
	Message string `json:"mess"`
	Name    string `json:"name"`
}

// Forwarding holds the feature codes for unconditional, no-answer and busy forwarding.
type Forwarding struct {
	CFOn   string `json:"cfon"`
	CFOff  string `json:"cfoff"`
	CFUOn  string `json:"cfuon"`
	CFUOff string `json:"cfuoff"`
	CFBOn  string `json:"cfbon"`
	CFBOff string `json:"cfboff"`
}

type CallPark struct {
	Park      string     `json:"park"`
	Retrieve  string     `json:"retrieve"`
	Subscribe string     `json:"subscribe"`
	Slots     []ParkSlot `json:"slots"`
}

type ParkSlot struct {
	Alias string `json:"alias"`
	Slot  string `json:"slot"`
}

type Fallback struct {
	Type   string `json:"type"`
	Prefix string `json:"prefix"`
}

// ProvisionPatch is a sparse provision block. MaxRegs is always sent because the
// remote API resets unspecified provisioning when it is missing.
type ProvisionPatch struct {
	Multitenant   *bool     `json:"multitenant,omitempty"`
	InboundFormat *string   `json:"inboundFormat,omitempty"`
	Protocol      *string   `json:"protocol,omitempty"`
	NoSRTP        *bool     `json:"nosrtp,omitempty"`
	NoVerify      *bool     `json:"noverify,omitempty"`
	CallPark      *CallPark `json:"callpark,omitempty"`
	MaxRegs       int       `json:"maxregs"`
}

func (p *ProvisionPatch) MaxRegistrations() int { return p.MaxRegs }

// Provision is either a full profile or a sparse patch.
type Provision interface {
	MaxRegistrations() int
}

// --- outgoing payloads ---

type OrganizationCreate struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	Region        string `json:"region"`
	AdminLogin    string `json:"adminlogin"`
	AdminPassword string `json:"adminpassw"`
}

type OrganizationUpdate struct {
	ID        string             `json:"id"`
	Params    OrganizationParams `json:"params"`
	PackageID *int               `json:"packageid,omitempty"`
}

type OrganizationParams struct {
	EmailCC string   `json:"emailcc"`
	Tags    []string `json:"tags,omitempty"`
}

type BranchCreate struct {
	OrgID    string `json:"orgid"`
	MaxRegs  int    `json:"maxregs"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Protocol string `json:"protocol"`
}

type BranchUpdate struct {
	OrgID     string    `json:"orgid"`
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Address   string    `json:"address,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Provision Provision `json:"provision"`
}

type NewUser struct {
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	BranchName string `json:"branchname"`
	Status     int    `json:"status"`
	Extension  string `json:"extension"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	AuthName   string `json:"authname"`
	Email      string `json:"email,omitempty"`
}

type UsersCreate struct {
	OrgID      string    `json:"orgid"`
	BranchID   string    `json:"branchid"`
	BranchName string    `json:"branchname,omitempty"`
	OrgDomain  string    `json:"orgdomain,omitempty"`
	Users      []NewUser `json:"users"`
}

// UserUpdate carries only the fields that change. Status is always present.
type UserUpdate struct {
	OrgID     string  `json:"orgid"`
	ID        string  `json:"id"`
	UserID    string  `json:"userid,omitempty"`
	Name      *string `json:"name,omitempty"`
	Extension *string `json:"extension,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Username  *string `json:"username,omitempty"`
	AuthName  *string `json:"authname,omitempty"`
	Mobile    *string `json:"mobile,omitempty"`
	Status    *int    `json:"status,omitempty"`
}

type UserFilter struct {
	OrgID    string `json:"orgid"`
	BranchID string `json:"branchid,omitempty"`
}

type IntegrationParams struct {
	ProfileID     string `json:"profileid"`
	Username      string `json:"Username"`
	Password      string `json:"Password"`
	AccountID     string `json:"Account_ID"`
	ApplicationID string `json:"Application_ID"`
}
