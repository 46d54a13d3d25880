package buffer

import "github.com/google/uuid"

// Origin identifies the party that requested a mutation. Editors sharing a
// buffer each hold their own origin and compare it against ChangeEvent.Origin
// to tell their own edits from everyone else's.
type Origin struct {
	id uuid.UUID
}

// NoOrigin is the origin of mutations that nobody claimed.
var NoOrigin = Origin{}

// NewOrigin returns a fresh, unique origin token.
func NewOrigin() Origin {
	return Origin{id: uuid.New()}
}

// String returns the token's textual form.
func (o Origin) String() string {
	if o.id == uuid.Nil {
		return "none"
	}
	return o.id.String()
}

// IsZero reports whether o is NoOrigin.
func (o Origin) IsZero() bool {
	return o.id == uuid.Nil
}
