package queue_test

import (
	"github.com/redis/go-redis/v9"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a compaction task as redis returns it", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1700000000000-0",
			Values: map[string]any{
				"task_type":  "compact_thread",
				"thread_id":  "1234567890123",
				"attempt":    "2",
				"trigger":    "chat_turn",
				"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
				"last_error": "store unavailable",
			},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(msg.ID).To(Equal("1700000000000-0"))
		Expect(msg.Task).To(Equal(queue.Task{
			TaskType: queue.TaskTypeCompactThread,
			ThreadID: 1234567890123,
			Trigger:  queue.TriggerChatTurn,
			TraceID:  "4bf92f3577b34da6a3ce929d0e0e4736",
			Attempt:  2,
		}))
		Expect(msg.LastError).To(Equal("store unavailable"))
	})

	It("defaults the attempt to 1", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID:     "1-0",
			Values: map[string]any{"task_type": "compact_thread", "thread_id": "9"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Task.Attempt).To(Equal(1))
	})

	It("reads the entry layout the producer writes", func() {
		values := queue.TaskValues(queue.Task{
			TaskType: queue.TaskTypeCompactThread,
			ThreadID: 77,
			Trigger:  queue.TriggerManual,
			Attempt:  3,
		})

		msg, err := queue.ParseMessage(redis.XMessage{ID: "2-0", Values: values})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Task.ThreadID).To(Equal(int64(77)))
		Expect(msg.Task.Trigger).To(Equal(queue.TriggerManual))
		Expect(msg.Task.Attempt).To(Equal(3))
		Expect(values).NotTo(HaveKey("trace_id"))
	})

	DescribeTable("rejects malformed entries",
		func(values map[string]any, expected string) {
			_, err := queue.ParseMessage(redis.XMessage{ID: "3-0", Values: values})
			Expect(err).To(MatchError(ContainSubstring(expected)))
		},
		Entry("missing task type", map[string]any{"thread_id": "1"}, "missing task_type"),
		Entry("unknown task type", map[string]any{"task_type": "repo_sync", "thread_id": "1"}, "unknown task_type"),
		Entry("missing thread", map[string]any{"task_type": "compact_thread"}, "missing thread_id"),
		Entry("non-numeric thread", map[string]any{"task_type": "compact_thread", "thread_id": "abc"}, "parsing thread_id"),
		Entry("zero thread", map[string]any{"task_type": "compact_thread", "thread_id": "0"}, "invalid thread_id"),
		Entry("bad attempt", map[string]any{"task_type": "compact_thread", "thread_id": "1", "attempt": "x"}, "parsing attempt"),
	)
})
