package queue

type TaskType string

const (
	TaskTypeCompactThread TaskType = "compact_thread"
)

// Trigger records why a compaction task was enqueued.
type Trigger string

const (
	TriggerChatTurn Trigger = "chat_turn"
	TriggerManual   Trigger = "manual"
)

type Task struct {
	TaskType TaskType
	ThreadID int64
	Trigger  Trigger
	TraceID  string
	Attempt  int
}
