package auth

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role of the caller presenting a bearer token. Participants use the
// enrollment endpoints without a token; admin endpoints need RoleAdmin.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleLevel = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

func NewRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevel[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

func (r Role) AtLeast(other Role) bool {
	have, ok := roleLevel[r]
	want, ok2 := roleLevel[other]
	return ok && ok2 && have >= want
}
