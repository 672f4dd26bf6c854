package entity

// Organization is a church the user may administer.
// Membership lives in organization_users; role 1 marks an admin.
type Organization struct {
	ID   int64
	Name string
}
