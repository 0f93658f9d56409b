package domain

// User is a staff or client-facing account. IsStaff is the capability flag
// gating admin actions (approve, checkout, finance writes).
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"` // Unique
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsStaff      bool   `json:"isStaff"`
	AuditFields
}
