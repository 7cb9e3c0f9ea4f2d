package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/internal/http/handler"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/service"
	"classbot.app/tutor/internal/tutor"
)

var _ = Describe("ChatHandler", func() {
	var (
		router *gin.Engine
		svc    *mockChatService
	)

	BeforeEach(func() {
		svc = &mockChatService{}
		var authed *gin.RouterGroup
		router, authed = newTestRouter(newAuthService())
		h := handler.NewChatHandler(svc)
		authed.POST("/chat", h.Send)
		authed.GET("/context", h.Context)
		authed.POST("/summarize", h.Summarize)
	})

	Describe("Send", func() {
		It("returns the assistant reply", func() {
			var gotThread int64
			var gotSession *model.Session
			svc.sendFn = func(_ context.Context, session *model.Session, threadID int64, text string) (*service.ChatReply, error) {
				gotThread, gotSession = threadID, session
				return &service.ChatReply{
					Content: "setup.gs ...",
					Message: &model.Message{Seq: 77, Role: model.RoleAssistant, Content: "setup.gs ..."},
				}, nil
			}

			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"threadId": "1001",
				"message":  "퀴즈 앱 만들어줘",
			}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["content"]).To(Equal("setup.gs ..."))
			Expect(resp["failed"]).To(BeFalse())
			Expect(resp["message_id"]).To(BeEquivalentTo(77))
			Expect(resp).NotTo(HaveKey("persist_error"))
			Expect(gotThread).To(Equal(int64(1001)))
			Expect(gotSession.Nickname).To(Equal("민수"))
		})

		It("returns 200 with the error text when the completion failed", func() {
			svc.sendFn = func(_ context.Context, _ *model.Session, _ int64, _ string) (*service.ChatReply, error) {
				return &service.ChatReply{Content: tutor.FailedReplyPrefix + "timeout", Failed: true}, nil
			}

			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"threadId": "1001",
				"message":  "hi",
			}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["failed"]).To(BeTrue())
			Expect(resp["content"]).To(HavePrefix(tutor.FailedReplyPrefix))
		})

		It("reports a reply that could not be stored", func() {
			svc.sendFn = func(_ context.Context, _ *model.Session, _ int64, _ string) (*service.ChatReply, error) {
				return &service.ChatReply{Content: "답", PersistErr: fmt.Errorf("%w: boom", tutor.ErrStoreUnavailable)}, nil
			}

			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"threadId": "1001",
				"message":  "hi",
			}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["persist_error"]).To(ContainSubstring("store unavailable"))
		})

		It("returns 401 without a session", func() {
			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"threadId": "1001",
				"message":  "hi",
			}, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 401 for an expired session", func() {
			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"threadId": "1001",
				"message":  "hi",
			}, "7")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(w)["error"]).To(Equal("session expired"))
		})

		It("returns 400 when the body is incomplete", func() {
			w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
				"message": "hi",
			}, testSessionID)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		DescribeTable("maps service errors",
			func(err error, status int) {
				svc.sendFn = func(_ context.Context, _ *model.Session, _ int64, _ string) (*service.ChatReply, error) {
					return nil, err
				}
				w := doRequest(router, http.MethodPost, "/api/chat", map[string]string{
					"threadId": "1001",
					"message":  "hi",
				}, testSessionID)
				Expect(w.Code).To(Equal(status))
			},
			Entry("validation", fmt.Errorf("%w: message longer than 4000 characters", tutor.ErrValidation), http.StatusBadRequest),
			Entry("foreign thread", tutor.ErrAuthorization, http.StatusForbidden),
			Entry("missing thread", tutor.ErrNotFound, http.StatusNotFound),
			Entry("store down", fmt.Errorf("assembling prompt: %w", tutor.ErrStoreUnavailable), http.StatusServiceUnavailable),
			Entry("unexpected", errors.New("boom"), http.StatusInternalServerError),
		)
	})

	Describe("Context", func() {
		It("returns the summary and live tail", func() {
			var gotN int
			svc.contextFn = func(_ context.Context, _ *model.Session, _ int64, n int) (*service.ContextView, error) {
				gotN = n
				return &service.ContextView{
					Summary:       "- 퀴즈 앱",
					HighWaterMark: 19,
					Recent:        []model.Message{{Seq: 20, Role: model.RoleUser, Content: "q"}},
				}, nil
			}

			w := doRequest(router, http.MethodGet, "/api/context?threadId=1001&n=5", nil, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotN).To(Equal(5))
			resp := decode(w)
			Expect(resp["summary"]).To(Equal("- 퀴즈 앱"))
			Expect(resp["high_water_mark"]).To(BeEquivalentTo(19))
			Expect(resp["recent"]).To(HaveLen(1))
		})

		It("rejects a missing threadId", func() {
			w := doRequest(router, http.MethodGet, "/api/context", nil, testSessionID)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a negative window", func() {
			w := doRequest(router, http.MethodGet, "/api/context?threadId=1&n=-1", nil, testSessionID)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Summarize", func() {
		It("returns the compaction result", func() {
			svc.summarizeFn = func(_ context.Context, _ *model.Session, _ int64) (tutor.CompactResult, error) {
				return tutor.CompactResult{Summary: "- 요약", HighWaterMark: 19, Pruned: 19, Count: 31}, nil
			}

			w := doRequest(router, http.MethodPost, "/api/summarize", map[string]string{"threadId": "1001"}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["skipped"]).To(BeFalse())
			Expect(resp["summary"]).To(Equal("- 요약"))
			Expect(resp["pruned"]).To(BeEquivalentTo(19))
		})

		It("returns the skip reason", func() {
			w := doRequest(router, http.MethodPost, "/api/summarize", map[string]string{"threadId": "1001"}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["skipped"]).To(BeTrue())
			Expect(resp["reason"]).To(Equal("below threshold"))
		})

		It("surfaces the prune warning", func() {
			svc.summarizeFn = func(_ context.Context, _ *model.Session, _ int64) (tutor.CompactResult, error) {
				return tutor.CompactResult{
					Summary:       "- 요약",
					HighWaterMark: 19,
					Warning:       &tutor.CompactionWarning{HighWaterMark: 19, Err: errors.New("timeout")},
				}, nil
			}

			w := doRequest(router, http.MethodPost, "/api/summarize", map[string]string{"threadId": "1001"}, testSessionID)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["warn"]).To(ContainSubstring("pruning failed"))
		})

		It("returns 409 on a concurrent compaction", func() {
			svc.summarizeFn = func(_ context.Context, _ *model.Session, _ int64) (tutor.CompactResult, error) {
				return tutor.CompactResult{}, tutor.ErrCompactionConflict
			}

			w := doRequest(router, http.MethodPost, "/api/summarize", map[string]string{"threadId": "1001"}, testSessionID)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
