package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trilha-futuro/internal/domain"
)

// ChatFallbackReply se devuelve cuando ninguna palabra clave aparece en la pregunta.
const ChatFallbackReply = "Desculpe, não entendi. Pode reformular a pergunta? Posso ajudar com informações sobre UX, Design, Programação, Dados ou Marketing."

// knowledgeBase se recorre en este orden; la primera clave contenida en la
// pregunta gana. Cambiar el orden cambia las respuestas.
var knowledgeBase = []domain.KnowledgeEntry{
	{
		Keyword:  "ux",
		Response: "UX Designer é um profissional que foca na experiência do usuário, criando produtos intuitivos e agradáveis. Trabalha com pesquisa de usuários, prototipagem e testes de usabilidade.",
		Careers:  []string{"UX Designer", "UI Designer", "Product Designer", "UX Researcher"},
		Skills:   []string{"Pesquisa com usuários", "Wireframes", "Testes de usabilidade", "Prototipagem"},
	},
	{
		Keyword:  "design",
		Response: "Design une criatividade e método para comunicar ideias visualmente, seja em interfaces digitais, identidade visual ou produtos.",
		Careers:  []string{"Designer Gráfico", "UI Designer", "Designer de Produto", "Motion Designer"},
		Skills:   []string{"Teoria das cores", "Tipografia", "Ferramentas de design", "Composição visual"},
	},
	{
		Keyword:  "programacao",
		Response: "Programação envolve criar soluções através de código. Desenvolvedores trabalham com diversas linguagens e frameworks para construir aplicações web, mobile e desktop.",
		Careers:  []string{"Desenvolvedor Front-end", "Desenvolvedor Back-end", "Full Stack", "Mobile Developer"},
		Skills:   []string{"Lógica de programação", "Estruturas de dados", "Versionamento", "Resolução de problemas"},
	},
	{
		Keyword:  "dados",
		Response: "Área de dados foca em coletar, processar e analisar informações para gerar insights valiosos para empresas.",
		Careers:  []string{"Cientista de Dados", "Analista de Dados", "Engenheiro de Dados", "BI Analyst"},
		Skills:   []string{"Estatística", "Python/R", "SQL", "Visualização de dados"},
	},
	{
		Keyword:  "marketing",
		Response: "Marketing estuda o comportamento do consumidor para posicionar marcas e produtos, combinando criatividade, comunicação e análise de resultados.",
		Careers:  []string{"Analista de Marketing", "Social Media", "Growth Marketer", "Gestor de Tráfego"},
		Skills:   []string{"Comunicação", "Análise de métricas", "Copywriting", "Planejamento de campanhas"},
	},
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeQuestion baja a minusculas, recorta espacios y quita acentos
// ("Programação" -> "programacao").
func normalizeQuestion(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	folded, _, err := transform.String(accentFolder, q)
	if err != nil {
		return q
	}
	return folded
}

// Respond busca la primera palabra clave contenida en la pregunta.
// El match es por substring, no por palabra completa.
func Respond(question string) domain.ChatReply {
	q := normalizeQuestion(question)
	for _, entry := range knowledgeBase {
		if strings.Contains(q, entry.Keyword) {
			return domain.ChatReply{
				Reply:   entry.Response,
				Topic:   entry.Keyword,
				Careers: append([]string(nil), entry.Careers...),
				Skills:  append([]string(nil), entry.Skills...),
			}
		}
	}
	return domain.ChatReply{
		Reply:   ChatFallbackReply,
		Careers: []string{},
		Skills:  []string{},
	}
}

// KnowledgeTopics devuelve las palabras clave en orden de evaluacion.
func KnowledgeTopics() []string {
	out := make([]string, 0, len(knowledgeBase))
	for _, entry := range knowledgeBase {
		out = append(out, entry.Keyword)
	}
	return out
}
