package diary

import "time"

// DateLayout es el formato de día que usa la API (?data=YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Entry es un registro de consumo de un alimento.
type Entry struct {
	ID     string
	UserID string

	// Date es el día calendario en el timezone del usuario (medianoche UTC).
	Date time.Time

	Food         string
	QuantityG    float64
	PhePer100gMg float64
	PheMg        float64 // QuantityG * PhePer100gMg / 100

	CreatedAt time.Time
}

// Summary es el consumo de Phe de un día contra el límite del usuario.
type Summary struct {
	Date        time.Time
	TotalMg     float64
	LimitMg     int
	RemainingMg float64 // puede ser negativo
	Percent     float64
	Entries     int
}
