package session

// User is the session principal: exactly one of the three variants below.
// A nil User means the session is anonymous.
type User interface {
	isUser()
	RoleName() string
}

// SystemAdmin is the platform operator; no tenant.
type SystemAdmin struct{}

// SchoolAdmin is scoped to a single school (the tenant).
type SchoolAdmin struct {
	SchoolName string
}

// ParentUser is a registered guardian.
type ParentUser struct {
	ParentID string
}

func (SystemAdmin) isUser() {}
func (SchoolAdmin) isUser() {}
func (ParentUser) isUser()  {}

func (SystemAdmin) RoleName() string { return "system_admin" }
func (SchoolAdmin) RoleName() string { return "school_admin" }
func (ParentUser) RoleName() string  { return "parent" }
