package delegations

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant permite que el delegado (DelegateUserID) opere como el dueño (OwnerUserID).
// Solo transita active -> revoked; un grant revocado no vuelve a activarse.
type Grant struct {
	ID string

	OwnerUserID    string // quien concede
	DelegateUserID string // delegado

	CreatedAt time.Time
	RevokedAt *time.Time
}

func (g Grant) Active() bool {
	return g.RevokedAt == nil
}

func (g Grant) Status() Status {
	if g.Active() {
		return StatusActive
	}
	return StatusRevoked
}

// Profile es lo que se muestra de la contraparte (nombre/email).
type Profile struct {
	ID    string
	Name  string
	Email string
}

// GrantWithProfile junta un grant con el perfil de la otra parte:
// el delegado en GrantedBy, el dueño en GrantedTo.
type GrantWithProfile struct {
	Grant
	Counterpart Profile
}

type Listing struct {
	GrantedBy []GrantWithProfile // concedidos por el caller
	GrantedTo []GrantWithProfile // recibidos por el caller
}

// Assumption es lo que el cliente necesita para armar el overlay.
type Assumption struct {
	GrantID       string
	AssumedUserID string
	Owner         Profile
}
