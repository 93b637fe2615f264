package model

// User is a read-only account record served by the lookup endpoints.
// Role is optional and currently unused; it serializes as null when absent.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      *string `json:"role"`
}
