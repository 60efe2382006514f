package domain

// Profile mirrors a row of the hosted profiles table. Accounts are owned by
// the external authentication service; this system only reads id/email/name.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Favorite links a user to a brand. At most one row exists per
// (user, brand) pair.
type Favorite struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	BrandID string `json:"esg_id"`
}
