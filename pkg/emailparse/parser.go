package emailparse

import (
	"regexp"
	"strings"
)

// personalDomains lists well-known consumer mail providers. Addresses on
// these domains never produce a Company.
var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"hotmail.fr":     {},
	"hotmail.co.uk":  {},
	"live.com":       {},
	"live.fr":        {},
	"msn.com":        {},
	"yahoo.com":      {},
	"yahoo.fr":       {},
	"yahoo.co.uk":    {},
	"ymail.com":      {},
	"icloud.com":     {},
	"me.com":         {},
	"mac.com":        {},
	"aol.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"zoho.com":       {},
	"mail.com":       {},
	"gmx.com":        {},
	"gmx.fr":         {},
	"free.fr":        {},
	"orange.fr":      {},
	"wanadoo.fr":     {},
	"sfr.fr":         {},
	"laposte.net":    {},
	"bbox.fr":        {},
}

// ParsedAddress is a normalized identity extracted from a raw header value
type ParsedAddress struct {
	Email      string
	Name       string
	Domain     string
	IsPersonal bool
}

var (
	nameAddrRe    = regexp.MustCompile(`^(.+?)\s*<(.+?)>$`)
	tldSuffixRe   = regexp.MustCompile(`(?i)\.(com|org|net|io|co|ai|app|dev|tech|biz|info|edu|gov)(\.[a-z]{2})?$`)
	subdomainRe   = regexp.MustCompile(`^(www|mail|email|smtp|mx|webmail)\.`)
	quoteTrimmers = "\"'"
)

// Parse turns a raw header string ("Display Name" <addr@domain> or a bare
// addr@domain) into a ParsedAddress. Returns nil when the string contains no
// "@" or the domain has no ".".
func Parse(raw string) *ParsedAddress {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var email, name string
	if m := nameAddrRe.FindStringSubmatch(raw); m != nil {
		name = strings.TrimSpace(m[1])
		email = strings.ToLower(strings.TrimSpace(m[2]))

		// Strip surrounding quotes from the display name
		name = strings.TrimSpace(strings.Trim(name, quoteTrimmers))
	} else {
		email = strings.ToLower(raw)
	}

	if !strings.Contains(email, "@") {
		return nil
	}

	domain := ExtractDomain(email)
	if domain == "" {
		return nil
	}

	return &ParsedAddress{
		Email:      email,
		Name:       name,
		Domain:     domain,
		IsPersonal: IsPersonalDomain(domain),
	}
}

// ParseList parses address header values that may each contain several
// comma-separated entries. Entries that fail to parse are dropped.
func ParseList(values []string) []*ParsedAddress {
	var parsed []*ParsedAddress
	for _, value := range values {
		if value == "" {
			continue
		}
		for _, part := range strings.Split(value, ",") {
			if addr := Parse(part); addr != nil {
				parsed = append(parsed, addr)
			}
		}
	}
	return parsed
}

// ExtractDomain returns the lowercased domain of an address, or "" when the
// address is not of the form local@domain with a dotted domain.
func ExtractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(parts[1]))
	if domain == "" || !strings.Contains(domain, ".") {
		return ""
	}
	return domain
}

// IsPersonalDomain reports whether the domain belongs to a consumer mail
// provider
func IsPersonalDomain(domain string) bool {
	if domain == "" {
		return true
	}
	_, ok := personalDomains[strings.ToLower(domain)]
	return ok
}

// CompanyNameFromDomain derives a display name from a company domain,
// e.g. "www.acme.io" -> "Acme"
func CompanyNameFromDomain(domain string) string {
	if domain == "" {
		return domain
	}

	name := tldSuffixRe.ReplaceAllString(domain, "")
	name = subdomainRe.ReplaceAllString(name, "")
	name = capitalize(name)

	// Remaining dots mean a leftover subdomain; keep the last label
	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		name = capitalize(parts[len(parts)-1])
	}

	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
