package domain

type Recommendation struct {
	Key                ProfileKey `json:"key"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Careers            []string   `json:"careers"`
	RecommendedCourses []string   `json:"recommended_courses"`
	Trails             []Trail    `json:"trails"`
}

// Trail es una secuencia ordenada de modulos de estudio.
type Trail struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Duration string        `json:"duration"`
	Modules  []TrailModule `json:"modules"`
}

type TrailModule struct {
	Name string `json:"name"`
	Link string `json:"link"`
}
