package users

import (
	"strings"
	"time"
)

// Role es el papel del usuario dentro de la app (distinto del role de Supabase).
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	DefaultDailyLimitMg = 300
	DefaultTimezone     = "America/Sao_Paulo"

	MinDailyLimitMg = 1
	MaxDailyLimitMg = 2000
)

// User es el perfil durable de un usuario autenticado.
type User struct {
	ID    string
	Name  string
	Email string
	Role  Role

	DailyLimitMg int    // límite diario de fenilalanina
	Timezone     string // IANA

	ConsentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location devuelve el timezone del usuario (fallback al default si es inválido).
func (u User) Location() *time.Location {
	for _, name := range []string{u.Timezone, DefaultTimezone} {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Profile es la vista pública (nombre/email) que se muestra en delegaciones.
type Profile struct {
	ID    string
	Name  string
	Email string
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email}
}
