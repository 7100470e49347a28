package models

// Regions lists the selectable regions in presentation order.
var Regions = []string{"Demacia", "Noxus", "Ionia", "Piltover", "Zaun", "Freljord", "Shurima", "Bandle City"}

// Roles lists the selectable roles in presentation order.
var Roles = []string{"Mage", "Warrior", "Assassin", "Support", "Tank", "Marksman"}

// IsRegion reports whether v is a known region.
func IsRegion(v string) bool { return contains(Regions, v) }

// IsRole reports whether v is a known role.
func IsRole(v string) bool { return contains(Roles, v) }

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
