package service

import "trilha-futuro/internal/domain"

// recommendations es el catalogo estatico de perfiles. Se construye una vez y
// solo se entregan copias.
var recommendations = map[domain.ProfileKey]domain.Recommendation{
	domain.ProfileHumanas: {
		Key:                domain.ProfileHumanas,
		Name:               "Área de Humanas",
		Description:        "Perfil criativo e social, com forte habilidade de comunicação e interesse por relações humanas.",
		Careers:            []string{"Psicólogo", "Professor", "Jornalista", "Advogado", "RH"},
		RecommendedCourses: []string{"Psicologia", "Letras", "História", "Direito", "Pedagogia"},
		Trails: []domain.Trail{
			{
				ID:       "humanas_comunicacao",
				Title:    "Fundamentos da Comunicação Social",
				Duration: "4 Semanas",
				Modules: []domain.TrailModule{
					{Name: "Introdução à Comunicação", Link: "#"},
					{Name: "Comunicação e Oratória", Link: "#"},
					{Name: "Escrita Criativa", Link: "#"},
				},
			},
			{
				ID:       "humanas_psicologia",
				Title:    "Introdução à Psicologia",
				Duration: "6 Semanas",
				Modules: []domain.TrailModule{
					{Name: "Psicologia Comportamental", Link: "#"},
					{Name: "Processos Cognitivos", Link: "#"},
				},
			},
		},
	},
	domain.ProfileExatas: {
		Key:                domain.ProfileExatas,
		Name:               "Área de Exatas",
		Description:        "Perfil analítico e lógico, com aptidão para números e resolução de problemas complexos.",
		Careers:            []string{"Engenheiro", "Cientista de Dados", "Desenvolvedor", "Matemático"},
		RecommendedCourses: []string{"Engenharia", "Ciência da Computação", "Matemática", "Física"},
		Trails: []domain.Trail{
			{
				ID:       "exatas_programacao",
				Title:    "Fundamentos da Programação",
				Duration: "8 Semanas",
				Modules: []domain.TrailModule{
					{Name: "Lógica de Programação", Link: "#"},
					{Name: "Introdução ao Python", Link: "#"},
					{Name: "Estrutura de Dados", Link: "#"},
				},
			},
			{
				ID:       "exatas_dados",
				Title:    "Introdução à Análise de Dados",
				Duration: "6 Semanas",
				Modules: []domain.TrailModule{
					{Name: "SQL Básico", Link: "#"},
					{Name: "Estatística para Dados", Link: "#"},
					{Name: "Visualização (Power BI/Tableau)", Link: "#"},
				},
			},
		},
	},
	domain.ProfileBiologicas: {
		Key:                domain.ProfileBiologicas,
		Name:               "Área de Biológicas",
		Description:        "Perfil observador e investigativo, com interesse por seres vivos e processos naturais.",
		Careers:            []string{"Médico", "Biólogo", "Enfermeiro", "Pesquisador"},
		RecommendedCourses: []string{"Medicina", "Biologia", "Enfermagem", "Farmácia"},
		Trails: []domain.Trail{
			{
				ID:       "bio_saude",
				Title:    "Fundamentos da Área da Saúde",
				Duration: "10 Semanas",
				Modules: []domain.TrailModule{
					{Name: "Anatomia Humana Básica", Link: "#"},
					{Name: "Bioquímica Celular", Link: "#"},
					{Name: "Saúde Coletiva", Link: "#"},
				},
			},
			{
				ID:       "bio_ambiental",
				Title:    "Ecologia e Ciências Ambientais",
				Duration: "8 Semanas",
				Modules: []domain.TrailModule{
					{Name: "Ecossistemas Brasileiros", Link: "#"},
					{Name: "Gestão Ambiental", Link: "#"},
				},
			},
		},
	},
}

// Recommendation devuelve la recomendacion del perfil, si existe.
func Recommendation(key domain.ProfileKey) (domain.Recommendation, bool) {
	rec, ok := recommendations[key]
	if !ok {
		return domain.Recommendation{}, false
	}
	return cloneRecommendation(rec), true
}

// RecommendationOrDefault usa humanas cuando la clave no existe.
func RecommendationOrDefault(key domain.ProfileKey) domain.Recommendation {
	if rec, ok := Recommendation(key); ok {
		return rec
	}
	rec, _ := Recommendation(domain.ProfileHumanas)
	return rec
}

// FindTrail recorre los perfiles en orden de declaracion y devuelve la
// primera trilha con ese id junto con el perfil que la contiene.
func FindTrail(id string) (domain.Trail, domain.ProfileKey, bool) {
	for _, key := range domain.ProfileKeys {
		for _, trail := range recommendations[key].Trails {
			if trail.ID == id {
				return cloneTrail(trail), key, true
			}
		}
	}
	return domain.Trail{}, "", false
}

func cloneRecommendation(rec domain.Recommendation) domain.Recommendation {
	out := rec
	out.Careers = append([]string(nil), rec.Careers...)
	out.RecommendedCourses = append([]string(nil), rec.RecommendedCourses...)
	out.Trails = make([]domain.Trail, 0, len(rec.Trails))
	for _, t := range rec.Trails {
		out.Trails = append(out.Trails, cloneTrail(t))
	}
	return out
}

func cloneTrail(t domain.Trail) domain.Trail {
	out := t
	out.Modules = append([]domain.TrailModule(nil), t.Modules...)
	return out
}
