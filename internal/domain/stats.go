package domain

// ProfileCount es una fila del agregado por perfil.
type ProfileCount struct {
	Profile ProfileKey
	Count   int
}

// ChartData es el formato que consume el grafico de distribucion.
type ChartData struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type Overview struct {
	TotalUsers   int       `json:"total_users"`
	TotalTests   int       `json:"total_tests"`
	Distribution ChartData `json:"distribution"`
}

type UserStats struct {
	TotalTests         int `json:"total_testes"`
	TotalFeedbacks     int `json:"total_feedbacks"`
	TotalConversations int `json:"total_conversas"`
}

type Dashboard struct {
	Name           string       `json:"name"`
	TestHistory    []QuizResult `json:"test_history"`
	LatestFeedback []Feedback   `json:"latest_feedback"`
	TotalTests     int          `json:"total_tests"`
	TotalFeedbacks int          `json:"total_feedbacks"`
}
