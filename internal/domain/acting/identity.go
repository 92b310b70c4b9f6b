package acting

import "context"

// Identity es la identidad efectiva de un request: el principal autenticado (SelfID)
// y, si el cliente asumió una delegación, el dueño de los datos (ActingAsID) y el grant (GrantID).
// Es un valor inmutable; se pasa explícito por el contexto del request.
type Identity struct {
	SelfID     string
	ActingAsID string
	GrantID    string
}

// Self arma la identidad de alguien operando como sí mismo.
func Self(userID string) Identity {
	return Identity{SelfID: userID, ActingAsID: userID}
}

// Delegated arma la identidad de un delegado operando como el dueño del grant.
func Delegated(selfID, ownerID, grantID string) Identity {
	return Identity{SelfID: selfID, ActingAsID: ownerID, GrantID: grantID}
}

// EffectiveUserID es el id que scopea lecturas y escrituras.
func (i Identity) EffectiveUserID() string {
	if i.ActingAsID != "" {
		return i.ActingAsID
	}
	return i.SelfID
}

func (i Identity) IsDelegated() bool {
	return i.GrantID != "" && i.ActingAsID != i.SelfID
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.SelfID == "" {
		return Identity{}, false
	}
	return id, true
}
