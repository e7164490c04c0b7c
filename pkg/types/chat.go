package types

import "time"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat session as the widget keeps it.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is the role/content pair exchanged with clients and the upstream model.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m Message) Turn() Turn {
	return Turn{Role: string(m.Role), Content: m.Content}
}

// Turns converts a history into its wire shape.
func Turns(msgs []Message) []Turn {
	out := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Turn())
	}
	return out
}
