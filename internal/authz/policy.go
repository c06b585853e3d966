// Package authz holds the ownership policy applied to user-scoped records.
// It is a pure predicate: callers resolve the record first (and surface not
// found on a miss), then ask the policy whether the acting user may touch it.
package authz

// Owned is any record that stores the id of the user who owns it.
type Owned interface {
	OwnerID() int64
}

type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) CanView(userID int64, resource Owned) bool {
	return userID == resource.OwnerID()
}

func (p *OwnershipPolicy) CanUpdate(userID int64, resource Owned) bool {
	return userID == resource.OwnerID()
}

func (p *OwnershipPolicy) CanDelete(userID int64, resource Owned) bool {
	return userID == resource.OwnerID()
}
