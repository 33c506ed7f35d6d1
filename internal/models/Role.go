package models

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleSet holds the role labels a member currently has.
type RoleSet map[string]bool

func NewRoleSet(labels ...string) RoleSet {
	rs := make(RoleSet, len(labels))
	for _, l := range labels {
		rs[l] = true
	}
	return rs
}

// HeldLabels reports which of labels the member holds. A label resolves to
// the first guild role with that name; other roles sharing the name do not
// count.
func HeldLabels(memberRoleIDs []string, guildRoles []Role, labels ...string) RoleSet {
	member := make(map[string]bool, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		member[id] = true
	}
	rs := make(RoleSet, len(labels))
	for _, label := range labels {
		if id, ok := RoleIDByName(guildRoles, label); ok && member[id] {
			rs[label] = true
		}
	}
	return rs
}

func (rs RoleSet) Has(label string) bool {
	return rs[label]
}

// RoleIDByName returns the ID of the first guild role named label.
func RoleIDByName(guildRoles []Role, label string) (string, bool) {
	for _, r := range guildRoles {
		if r.Name == label {
			return r.ID, true
		}
	}
	return "", false
}
