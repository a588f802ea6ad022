package domain

import "time"

// ProfileKey identifica una de las tres areas que el test puede recomendar.
type ProfileKey string

const (
	ProfileHumanas    ProfileKey = "humanas"
	ProfileExatas     ProfileKey = "exatas"
	ProfileBiologicas ProfileKey = "biologicas"
)

// ProfileKeys lista las areas en el orden en que se declaran en el catalogo.
var ProfileKeys = []ProfileKey{ProfileHumanas, ProfileExatas, ProfileBiologicas}

// Valid indica si la clave pertenece a la enumeracion cerrada.
func (k ProfileKey) Valid() bool {
	switch k {
	case ProfileHumanas, ProfileExatas, ProfileBiologicas:
		return true
	}
	return false
}

// ScoreTally acumula los puntos de cada area.
type ScoreTally struct {
	Humanities int `json:"humanities"`
	Exact      int `json:"exact"`
	Biological int `json:"biological"`
}

// Max devuelve la mayor de las tres puntuaciones.
func (t ScoreTally) Max() int {
	return max(t.Exact, t.Humanities, t.Biological)
}

type QuizQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}

type QuizOption struct {
	Label string `json:"label"`
	Value string `json:"value"` // criativo, analitico, social, organizado
}

// QuizResult es la fila persistida por cada test enviado.
type QuizResult struct {
	ID      string     `json:"id"`
	UserID  string     `json:"user_id"`
	Score   int        `json:"score"` // pico de las tres puntuaciones
	Profile ProfileKey `json:"profile"`
	TakenAt time.Time  `json:"taken_at"`
}

// QuizOutcome es lo que recibe el usuario al enviar el test.
type QuizOutcome struct {
	Result         QuizResult     `json:"result"`
	Tally          ScoreTally     `json:"tally"`
	Recommendation Recommendation `json:"recommendation"`
}
