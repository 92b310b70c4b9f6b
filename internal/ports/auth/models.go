package auth

// Claims representa la información extraída del token de Supabase.
type Claims struct {
	UserID string
	Email  string
	Role   string // rol de Supabase ("authenticated"), no el papel de la app
}
