package tutor_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/common/llm"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/tutor"
)

var _ = Describe("Gateway", func() {
	var (
		ctx     context.Context
		client  *mockLLMClient
		gateway tutor.Gateway
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockLLMClient{}
		gateway = tutor.NewGateway(client, tutor.GatewayConfig{
			MaxRetries:  2,
			BaseBackoff: time.Millisecond,
		})
	})

	It("sends a system message and one user message", func() {
		_, err := gateway.Complete(ctx, tutor.CompletionRequest{
			Purpose:    tutor.PurposeChat,
			SystemText: "sys",
			PriorTurns: []tutor.Turn{
				{Role: model.RoleUser, Content: "hi"},
				{Role: model.RoleAssistant, Content: "hello"},
			},
			FinalUserText: "새 질문: q",
			Temperature:   0.2,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(client.requests).To(HaveLen(1))
		req := client.requests[0]
		Expect(req.Messages).To(Equal([]llm.Message{
			{Role: llm.RoleSystem, Content: "sys"},
			{Role: llm.RoleUser, Content: "최근 대화\n학생: hi\n도우미: hello\n\n새 질문: q"},
		}))
		Expect(req.Temperature).NotTo(BeNil())
		Expect(*req.Temperature).To(Equal(0.2))
	})

	It("returns the completion text", func() {
		client.chatFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "setup.gs ..."}, nil
		}
		text, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: tutor.PurposeChat})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("setup.gs ..."))
	})

	DescribeTable("replaces empty text with a sentinel",
		func(purpose tutor.Purpose, content, expected string) {
			client.chatFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: content}, nil
			}
			text, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: purpose})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(expected))
		},
		Entry("empty chat reply", tutor.PurposeChat, "", tutor.NoReplySentinel),
		Entry("whitespace chat reply", tutor.PurposeChat, " \n", tutor.NoReplySentinel),
		Entry("empty summary", tutor.PurposeSummary, "", tutor.NoSummarySentinel),
	)

	It("retries retryable failures", func() {
		calls := 0
		client.chatFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection reset by peer")
			}
			return &llm.Response{Content: "done"}, nil
		}

		text, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: tutor.PurposeChat})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("done"))
		Expect(calls).To(Equal(3))
	})

	It("gives up after the retry budget", func() {
		client.chatFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
			return nil, errors.New("connection reset by peer")
		}

		_, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: tutor.PurposeChat})
		Expect(err).To(MatchError(tutor.ErrCompletionFailed))
		Expect(client.requests).To(HaveLen(3))

		var failed *tutor.CompletionFailedError
		Expect(errors.As(err, &failed)).To(BeTrue())
		Expect(failed.Detail).To(ContainSubstring("connection reset by peer"))
	})

	It("does not retry non-retryable failures", func() {
		client.chatFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
			return nil, context.Canceled
		}

		_, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: tutor.PurposeChat})
		Expect(err).To(MatchError(tutor.ErrCompletionFailed))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(client.requests).To(HaveLen(1))
	})

	It("applies the per-call timeout", func() {
		gateway = tutor.NewGateway(client, tutor.GatewayConfig{CallTimeout: 5 * time.Second})
		client.chatFn = func(callCtx context.Context, _ llm.Request) (*llm.Response, error) {
			_, hasDeadline := callCtx.Deadline()
			Expect(hasDeadline).To(BeTrue())
			return &llm.Response{Content: "ok"}, nil
		}

		_, err := gateway.Complete(ctx, tutor.CompletionRequest{Purpose: tutor.PurposeChat})
		Expect(err).NotTo(HaveOccurred())
	})
})
