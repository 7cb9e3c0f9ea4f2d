package tutor

import (
	"strings"

	"classbot.app/tutor/internal/model"
)

// RoleLabel maps a stored role to the speaker name shown to the model.
// Unknown roles read as the student.
func RoleLabel(role model.Role) string {
	switch role {
	case model.RoleAssistant:
		return "도우미"
	case model.RoleSystem:
		return "시스템"
	default:
		return "학생"
	}
}

// Turn is one prior message as the model sees it.
type Turn struct {
	Seq     int64
	Role    model.Role
	Content string
}

func (t Turn) String() string {
	return RoleLabel(t.Role) + ": " + t.Content
}

func turnsFrom(messages []model.Message) []Turn {
	turns := make([]Turn, len(messages))
	for i, m := range messages {
		turns[i] = Turn{Seq: m.Seq, Role: m.Role, Content: m.Content}
	}
	return turns
}

// RenderTranscript renders turns one per line in the given order.
func RenderTranscript(turns []Turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}
