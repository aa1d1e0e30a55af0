package softphone

// Settings, Ringotel entegrasyonunun tenant'tan bağımsız varsayılanlarıdır.
type Settings struct {
	DomainSuffix         string
	MaxRegistration      int
	DefaultProtocol      string
	OrganizationEmailCC  string
	Region               string
	OverrideDomain       string
	ServerName           string
	IntegrationProviders []string
	Bandwidth            BandwidthCredentials
}

// BandwidthCredentials are attached to every integration enable/disable call.
type BandwidthCredentials struct {
	Username      string
	Password      string
	AccountID     string
	ApplicationID string
}

func (s Settings) resolveOptions() ResolveOptions {
	return ResolveOptions{DomainSuffix: s.DomainSuffix, OverrideDomain: s.OverrideDomain}
}

func (s Settings) maxRegistration() int {
	if s.MaxRegistration < 1 {
		return 1
	}
	return s.MaxRegistration
}
