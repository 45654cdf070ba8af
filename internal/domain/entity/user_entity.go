package entity

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash, never the plaintext.
//
// Records are created once and never updated or deleted.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"password"`
	Name     string `db:"name" json:"name"`
	Address  string `db:"address" json:"address"`
}

// UserProfile is the password-free projection of a User used by search.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

// Profile strips the password hash.
func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Name: u.Name, Address: u.Address}
}
