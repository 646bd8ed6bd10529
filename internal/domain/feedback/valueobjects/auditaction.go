package valueobjects

type AuditAction string

const (
	ActionStatusChanged   AuditAction = "status_changed"
	ActionPriorityChanged AuditAction = "priority_changed"
	ActionSoftDeleted     AuditAction = "soft_deleted"
	ActionRestored        AuditAction = "restored"
	ActionMigrated        AuditAction = "migrated"
)

var validAuditActions = map[AuditAction]bool{
	ActionStatusChanged:   true,
	ActionPriorityChanged: true,
	ActionSoftDeleted:     true,
	ActionRestored:        true,
	ActionMigrated:        true,
}

func (a AuditAction) String() string {
	return string(a)
}

func (a AuditAction) IsValid() bool {
	return validAuditActions[a]
}

// CarriesValues reports whether entries of this action record previous/new values.
func (a AuditAction) CarriesValues() bool {
	return a == ActionStatusChanged || a == ActionPriorityChanged
}
