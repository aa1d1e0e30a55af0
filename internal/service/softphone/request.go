package softphone

// Her operasyonun kabul ettiği parametreler. Alan adları eski front-end'in gönderdiği
// anahtarlarla aynıdır.

type OrganizationLookup struct {
	DomainName string `json:"domain_name"`
}

type CreateOrganizationRequest struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	Region        string `json:"region"`
	AdminLogin    string `json:"adminlogin"`
	AdminPassword string `json:"adminpassw"`
}

type OrgRef struct {
	OrgID string `json:"orgid"`
}

type EntityRef struct {
	OrgID string `json:"orgid"`
	ID    string `json:"id"`
}

type CreateBranchRequest struct {
	OrgID            string       `json:"orgid"`
	MaxRegs          Opt[FlexInt] `json:"maxregs"`
	ConnectionName   string       `json:"connection_name"`
	ConnectionDomain string       `json:"connection_domain"`
	Protocol         string       `json:"protocol"`
}

type UsersQuery struct {
	OrgID    string `json:"orgid"`
	BranchID string `json:"branchid"`
}

// UserSelection is one row of the "create users" dialog.
type UserSelection struct {
	ExtensionUUID string `json:"extension_uuid"`
	Create        Bool   `json:"create"`
	Active        Bool   `json:"active"`
	Email         string `json:"email"`
}

type CreateUsersRequest struct {
	OrgID      string          `json:"orgid"`
	OrgDomain  string          `json:"orgdomain"`
	BranchID   string          `json:"branchid"`
	BranchName string          `json:"branchname"`
	Selections []UserSelection `json:"preusers"`
}

// UpdateUserRequest is a sparse update; unset and empty fields are left unchanged.
type UpdateUserRequest struct {
	OrgID     string          `json:"orgid"`
	ID        string          `json:"id"`
	Extension Opt[FlexString] `json:"extension"`
	Name      Opt[string]     `json:"name"`
	Email     Opt[string]     `json:"email"`
	Password  Opt[string]     `json:"password"`
	Username  Opt[FlexString] `json:"username"`
	AuthName  Opt[FlexString] `json:"authname"`
	Mobile    Opt[FlexString] `json:"mobile"`
	Status    Opt[FlexInt]    `json:"status"`
}

type ExtensionNameRequest struct {
	Extension FlexString `json:"extension"`
	Name      string     `json:"name"`
}

// ResyncRequest names the remote user and the local extension it mirrors.
type ResyncRequest struct {
	OrgID     string     `json:"orgid"`
	ID        string     `json:"id"`
	Extension FlexString `json:"extension"`
}

type ActivateUserRequest struct {
	OrgID     string     `json:"orgid"`
	ID        string     `json:"id"`
	Extension FlexString `json:"extension"`
	Email     string     `json:"email"`
}

type DetachUserRequest struct {
	OrgID  string `json:"orgid"`
	ID     string `json:"id"`
	UserID string `json:"userid"`
}

type BranchRef struct {
	OrgID    string `json:"orgid"`
	BranchID string `json:"branchid"`
}

// BranchSettingsRequest carries the connection settings form.
type BranchSettingsRequest struct {
	OrgID         string       `json:"orgid"`
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	Port          FlexString   `json:"port"`
	Country       Opt[string]  `json:"country"`
	Multitenant   Opt[Bool]    `json:"multitenant"`
	InboundFormat Opt[string]  `json:"inboundFormat"`
	Protocol      Opt[string]  `json:"protocol"`
	NoSRTP        Opt[Bool]    `json:"nosrtp"`
	NoVerify      Opt[Bool]    `json:"noverify"`
	MaxRegs       Opt[FlexInt] `json:"maxregs"`
}

// ParkSlotsRequest replaces the park slot set. When Parks is empty the inclusive
// From..To range is used instead.
type ParkSlotsRequest struct {
	OrgID   string       `json:"orgid"`
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Parks   []FlexString `json:"park_array"`
	From    Opt[FlexInt] `json:"from_park_number"`
	To      Opt[FlexInt] `json:"to_park_number"`
	MaxRegs Opt[FlexInt] `json:"maxregs"`
}

type OrganizationDefaultsRequest struct {
	OrgID     string       `json:"orgid"`
	Tag       string       `json:"tag"`
	PackageID Opt[FlexInt] `json:"packageid"`
}

type IntegrationRequest struct {
	ProfileID string `json:"profileid"`
}

type TrunkRequest struct {
	OrgID  string       `json:"orgid"`
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Number FlexString   `json:"number"`
	Users  []FlexString `json:"users"`
}
