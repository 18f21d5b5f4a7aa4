package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the closed set of authorization tiers. There are exactly two:
// regular users and admins. Anything else parses to RoleUser.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto the enum. Unknown or empty
// values fall back to RoleUser, the same default applied at signup.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// CanManageCatalog reports whether the role may mutate products and list
// user accounts. It is the only privileged capability in the system.
func (r Role) CanManageCatalog() bool { return r == RoleAdmin }

// User is a document in the `users` collection. The password hash is never
// serialized to JSON.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"`
	FirstName    string        `bson:"firstname" json:"firstname"`
	LastName     string        `bson:"lastname" json:"lastname"`
	Role         Role          `bson:"role" json:"role"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// UserUpdate carries the optional fields of a profile update. Nil fields
// are left untouched. PasswordHash must already be hashed by the caller.
type UserUpdate struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

// Empty reports whether the update would touch nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.FirstName == nil &&
		u.LastName == nil && u.PasswordHash == nil
}
