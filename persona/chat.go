package persona

import (
	"context"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/personaforge/llm"
	"github.com/smallnest/personaforge/log"
)

// ChatFallbackMessage is returned to the user whenever a chat turn fails.
const ChatFallbackMessage = "Sorry, I encountered an error. Please try again."

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a persona conversation. The history is owned by
// the caller; the chat itself is stateless.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse reports the outcome of a single chat turn. When Success is
// false, Message holds ChatFallbackMessage and Err the underlying cause.
type ChatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Chat sends one user message to a persona and returns its in-character
// reply. The persona roleplays via a system prompt built from its profile;
// product adds product framing when non-nil. Unknown roles in history are
// passed through as generic messages.
func Chat(ctx context.Context, client *llm.Client, p UserPersona, product *ProductProfile, userMessage string, history []ChatMessage) ChatResponse {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, chatContext(p, product)))
	for _, msg := range history {
		messages = append(messages, llms.TextParts(roleToMessageType(msg.Role), msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))

	reply, err := client.Generate(ctx, messages)
	if err != nil {
		log.Error("chat: persona %q: %v", p.Name, err)
		return ChatResponse{Success: false, Message: ChatFallbackMessage, Err: err}
	}
	return ChatResponse{Success: true, Message: reply}
}

func roleToMessageType(role string) llms.ChatMessageType {
	switch role {
	case RoleUser:
		return llms.ChatMessageTypeHuman
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeGeneric
	}
}
