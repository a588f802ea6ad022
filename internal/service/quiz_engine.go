package service

import "trilha-futuro/internal/domain"

// Valores de respuesta reconocidos por el test.
const (
	AnswerCriativo   = "criativo"
	AnswerAnalitico  = "analitico"
	AnswerSocial     = "social"
	AnswerOrganizado = "organizado"
)

// answerWeights suma puntos por area segun la opcion elegida.
// Cualquier valor fuera de la tabla se ignora.
var answerWeights = map[string]domain.ScoreTally{
	AnswerCriativo:   {Humanities: 2, Exact: 0, Biological: 1},
	AnswerAnalitico:  {Humanities: 0, Exact: 2, Biological: 1},
	AnswerSocial:     {Humanities: 2, Exact: 0, Biological: 0},
	AnswerOrganizado: {Humanities: 1, Exact: 1, Biological: 0},
}

// ScoreAnswers acumula las tres puntuaciones. El orden del mapa no importa.
func ScoreAnswers(answers map[string]string) domain.ScoreTally {
	var tally domain.ScoreTally
	for _, answer := range answers {
		w, ok := answerWeights[answer]
		if !ok {
			continue
		}
		tally.Humanities += w.Humanities
		tally.Exact += w.Exact
		tally.Biological += w.Biological
	}
	return tally
}

// ClassifyTally elige el perfil evaluando exatas -> biologicas -> humanas y
// quedandose con el primero que sea >= a los otros dos.
// Con empate total gana exatas; humanas es el fallback.
func ClassifyTally(t domain.ScoreTally) domain.ProfileKey {
	if t.Exact >= t.Humanities && t.Exact >= t.Biological {
		return domain.ProfileExatas
	}
	if t.Biological >= t.Humanities && t.Biological >= t.Exact {
		return domain.ProfileBiologicas
	}
	return domain.ProfileHumanas
}

// ScoreAndClassify devuelve el perfil ganador y la puntuacion pico.
// La puntuacion es max(exatas, humanas, biologicas), no la del perfil elegido.
func ScoreAndClassify(answers map[string]string) (domain.ProfileKey, int) {
	tally := ScoreAnswers(answers)
	return ClassifyTally(tally), tally.Max()
}
