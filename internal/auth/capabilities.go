package auth

import "catalogapi/internal/model"

// Capability is a single permission checked by route middleware. Capabilities
// are resolved from the user's role once, at token issue time, so handlers
// never compare role strings.
type Capability string

const (
	CapCatalogRead      Capability = "catalog:read"
	CapBooksWrite       Capability = "books:write"
	CapAuthorsWrite     Capability = "authors:write"
	CapAttachmentsRead  Capability = "attachments:read"
	CapAttachmentsWrite Capability = "attachments:write"
	CapReadersWrite     Capability = "readers:write"
	CapRequestsWrite    Capability = "requests:write"
	CapRequestsManage   Capability = "requests:manage"
	CapTicketsWrite     Capability = "tickets:write"
	CapTicketsManage    Capability = "tickets:manage"
	CapReportsExport    Capability = "reports:export"
	CapUsersManage      Capability = "users:manage"
)

// Capabilities is the set resolved for a session.
type Capabilities map[Capability]bool

// Has reports whether the set contains c.
func (s Capabilities) Has(c Capability) bool { return s[c] }

// Strings returns the set as a sorted-enough slice for embedding in claims.
func (s Capabilities) Strings() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	return out
}

// FromStrings rebuilds a capability set from token claims.
func FromStrings(ss []string) Capabilities {
	s := make(Capabilities, len(ss))
	for _, c := range ss {
		s[Capability(c)] = true
	}
	return s
}

var readerCaps = []Capability{CapCatalogRead, CapRequestsWrite, CapTicketsWrite}

var editorCaps = append([]Capability{
	CapBooksWrite, CapAuthorsWrite,
	CapAttachmentsRead, CapAttachmentsWrite,
	CapReadersWrite, CapReportsExport,
	CapRequestsManage, CapTicketsManage,
}, readerCaps...)

var adminCaps = append([]Capability{CapUsersManage}, editorCaps...)

// ForRole resolves the capability set for a role. Administrator is a superset
// of editor, which is a superset of reader.
func ForRole(role model.Role) Capabilities {
	var caps []Capability
	switch role {
	case model.RoleAdministrator:
		caps = adminCaps
	case model.RoleEditor:
		caps = editorCaps
	case model.RoleReader:
		caps = readerCaps
	}
	s := make(Capabilities, len(caps))
	for _, c := range caps {
		s[c] = true
	}
	return s
}
