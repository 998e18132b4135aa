// Package entity holds the domain objects: accounts, vendor profiles,
// positions, preferences, and the per-pair notification state machine.
package entity

// Role identifies which side of the marketplace an entity reports positions for.
type Role string

const (
	// RoleVendor is a mobile seller whose movement triggers proximity evaluation.
	RoleVendor Role = "vendor"
	// RoleConsumer is a buyer who may receive vendor-nearby notifications.
	RoleConsumer Role = "consumer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleConsumer
}
