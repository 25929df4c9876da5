package domain

import "fmt"

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one message of the chat history. The pipeline only
// reads history to build a standalone query; it never mutates it.
type ConversationTurn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

func UserTurn(text string) ConversationTurn {
	return ConversationTurn{Role: RoleUser, Text: text}
}

func AssistantTurn(text string) ConversationTurn {
	return ConversationTurn{Role: RoleAssistant, Text: text}
}

func ParseTurnRole(role string) (TurnRole, error) {
	switch TurnRole(role) {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse turn role", fmt.Errorf("unknown role %q", role))
	}
}
