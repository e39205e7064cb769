package session

// Role is the authorization tier carried by a session. It decides which views
// are reachable; it never grants anything the backend has not already granted.
type Role uint8

const (
	// RoleNone marks an unauthenticated session.
	RoleNone Role = iota
	// RoleUser is a standard wallet account.
	RoleUser
	// RoleAdmin may list and delete accounts.
	RoleAdmin
)

// String returns the persisted wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Admin"
	default:
		return "None"
	}
}

// ParseRole maps a persisted role string back to a [Role]. Unknown values
// collapse to [RoleNone]; a corrupt role must never widen authorization.
func ParseRole(s string) Role {
	switch s {
	case "User":
		return RoleUser
	case "Admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

// Identity is the display identity snapshot taken at login. It is immutable
// until the next successful login; the client never re-validates it locally.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	UPIID    string `json:"upiId"`
}

// Session is the client's record of current authentication and role.
//
// Token is the optional bearer marker issued by the gateway at login. An empty
// token degrades to presence-only session semantics.
type Session struct {
	Authenticated bool
	Role          Role
	Identity      *Identity
	Token         string
}

// normalize enforces the session invariants, collapsing any inconsistent
// combination to the nearest safe state.
func (s Session) normalize() Session {
	if !s.Authenticated {
		return Session{}
	}
	if s.Role == RoleNone {
		// Authenticated with no role is unreachable through Login; treat the
		// persisted state as corrupt rather than invent a role.
		return Session{}
	}
	return s
}

// clone returns a copy safe to hand to callers.
func (s Session) clone() Session {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}
