package softphone

import "strings"

// MatchRule identifies which criterion tied a remote organization to the local domain.
type MatchRule int

const (
	NoMatch MatchRule = iota
	MatchOverride
	MatchCompactedDomain
	MatchName
	MatchDottedDomain
	MatchDottedLabel
	MatchHyphenLabel
)

func (r MatchRule) String() string {
	switch r {
	case MatchOverride:
		return "override_domain"
	case MatchCompactedDomain:
		return "compacted_domain"
	case MatchName:
		return "name"
	case MatchDottedDomain:
		return "dotted_domain"
	case MatchDottedLabel:
		return "dotted_label"
	case MatchHyphenLabel:
		return "hyphen_label"
	default:
		return "none"
	}
}

// ResolveOptions carries the configured suffix and the operator override domain.
type ResolveOptions struct {
	DomainSuffix   string
	OverrideDomain string
}

// Resolution is the organization selected for a local domain and the rule that selected it.
type Resolution struct {
	Organization RemoteOrganization
	Rule         MatchRule
}

// ResolveOrganization picks the remote organization for localDomain. An override match
// wins outright. Otherwise every candidate is tested against the fallback rules and the
// last matching candidate in listing order is returned.
func ResolveOrganization(localDomain string, candidates []RemoteOrganization, opts ResolveOptions) (Resolution, bool) {
	if opts.OverrideDomain != "" {
		for i := len(candidates) - 1; i >= 0; i-- {
			if candidates[i].Domain == opts.OverrideDomain {
				return Resolution{Organization: candidates[i], Rule: MatchOverride}, true
			}
		}
	}

	compacted := Compact(firstLabel(localDomain, "."), opts.DomainSuffix)
	localLabel := firstLabel(localDomain, ".")

	var found Resolution
	ok := false
	for _, c := range candidates {
		if rule := matchCandidate(c, localDomain, localLabel, compacted); rule != NoMatch {
			found = Resolution{Organization: c, Rule: rule}
			ok = true
		}
	}
	return found, ok
}

func matchCandidate(c RemoteOrganization, localDomain, localLabel, compacted string) MatchRule {
	dotted := strings.ReplaceAll(c.Domain, "_", ".")
	switch {
	case compacted == c.Domain:
		return MatchCompactedDomain
	case localDomain == c.Name:
		return MatchName
	case dotted == localDomain:
		return MatchDottedDomain
	case firstLabel(dotted, ".") == localLabel:
		return MatchDottedLabel
	case firstLabel(c.Domain, "-") == localLabel:
		return MatchHyphenLabel
	}
	return NoMatch
}

func firstLabel(s, sep string) string {
	label, _, _ := strings.Cut(s, sep)
	return label
}
