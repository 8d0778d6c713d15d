package domain

// Owner is the tagged ownership variant for values and templates. The zero value
// is the shared global tenant, visible to every caller. The relational schema
// still models this as a nullable column; Column/OwnerOf convert at the edge so
// the rest of the system never branches on nil.
type Owner struct {
	id string
}

// Global returns the shared-tenant owner.
func Global() Owner {
	return Owner{}
}

// OwnedBy returns an owner bound to a user id.
func OwnedBy(userID string) Owner {
	return Owner{id: userID}
}

// OwnerOf converts a nullable owner column into an Owner.
func OwnerOf(col *string) Owner {
	if col == nil || *col == "" {
		return Global()
	}
	return Owner{id: *col}
}

// IsGlobal reports whether the entity belongs to the shared tenant.
func (o Owner) IsGlobal() bool {
	return o.id == ""
}

// UserID returns the owning user id; ok is false for the global tenant.
func (o Owner) UserID() (string, bool) {
	if o.id == "" {
		return "", false
	}
	return o.id, true
}

// Column converts back to the nullable column representation.
func (o Owner) Column() *string {
	if o.id == "" {
		return nil
	}
	id := o.id
	return &id
}

// VisibleTo reports whether a caller may read the entity: global entities are
// visible to everyone, owned entities only to their owner.
func (o Owner) VisibleTo(callerID string) bool {
	return o.id == "" || o.id == callerID
}

// CanMutate reports whether a caller may change the entity's structure. Shared
// global content is structurally read-only for user callers; owned entities are
// mutable by their owner alone.
func (o Owner) CanMutate(callerID string) bool {
	return o.id != "" && o.id == callerID
}

// Name returns the owner label stored alongside cached bundles.
func (o Owner) Name() string {
	if o.id == "" {
		return "global"
	}
	return o.id
}
