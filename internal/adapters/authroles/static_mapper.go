package authroles

import (
	"strings"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

// StaticRoleMapper assigns roles from a configured admin email allow-list.
// Everyone not on the list is a regular business user; there is no anonymous
// role here because the mapper only runs after a successful login.
type StaticRoleMapper struct {
	AdminEmails []string
}

// Map returns RoleAdmin when the email is on the allow-list, RoleUser
// otherwise. Comparison is case-insensitive on the whole address.
func (m StaticRoleMapper) Map(email string) domainauth.Role {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, admin := range m.AdminEmails {
		if normalized != "" && normalized == strings.ToLower(strings.TrimSpace(admin)) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
