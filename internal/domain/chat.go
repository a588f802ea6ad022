package domain

import "time"

// KnowledgeEntry es una entrada de la base de conocimiento del chat.
type KnowledgeEntry struct {
	Keyword  string
	Response string
	Careers  []string
	Skills   []string
}

type ChatReply struct {
	Reply   string   `json:"reply"`
	Topic   string   `json:"topic,omitempty"` // vacio cuando no hubo match
	Careers []string `json:"careers"`
	Skills  []string `json:"skills"`
}

// Matched indica si la respuesta salio de la base de conocimiento.
func (r ChatReply) Matched() bool {
	return r.Topic != ""
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}
