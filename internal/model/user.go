package model

import (
	"encoding/json"
	"reflect"
	"time"
)

// Role controls what a user may manage on the board.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a board account. Email is unique across users; the password is
// stored and compared verbatim.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`

	Extra Extra `json:"-"`
}

var userFields = declaredFields(reflect.TypeOf(User{}))

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	bs, err := json.Marshal(plain(u))
	if err != nil {
		return nil, err
	}
	return appendExtra(bs, u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := undeclared(data, userFields)
	if err != nil {
		return err
	}
	*u = User(p)
	u.Extra = extra
	return nil
}

// UserInput represents data required to create a user.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
