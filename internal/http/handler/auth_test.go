package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/internal/http/handler"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/model"
)

var _ = Describe("AuthHandler", func() {
	var (
		router  *gin.Engine
		authSvc *mockAuthService
	)

	BeforeEach(func() {
		authSvc = newAuthService()
		var authed *gin.RouterGroup
		router, authed = newTestRouter(authSvc)
		h := handler.NewAuthHandler(authSvc, false)
		router.POST("/login", h.Login)
		authed.GET("/me", h.Me)
	})

	Describe("Login", func() {
		It("returns the session and sets the cookie", func() {
			authSvc.loginFn = func(_ context.Context, class, nickname, passcode string) (*model.Session, error) {
				Expect(class).To(Equal("3-1"))
				Expect(nickname).To(Equal("민수"))
				Expect(passcode).To(Equal("sunflower"))
				return &model.Session{ID: 42, Class: class, Nickname: nickname, ExpiresAt: time.Now().Add(time.Hour)}, nil
			}

			w := doRequest(router, http.MethodPost, "/login", map[string]string{
				"klass":    "3-1",
				"nickname": "민수",
				"password": "sunflower",
			}, "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["id"]).To(Equal("42"))

			cookies := w.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			Expect(cookies[0].Name).To(Equal(middleware.SessionCookieName))
			Expect(cookies[0].Value).To(Equal("42"))
			Expect(cookies[0].HttpOnly).To(BeTrue())
		})

		It("returns 401 for a wrong passcode", func() {
			w := doRequest(router, http.MethodPost, "/login", map[string]string{
				"klass":    "3-1",
				"nickname": "민수",
				"password": "tulip",
			}, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 when a field is missing", func() {
			w := doRequest(router, http.MethodPost, "/login", map[string]string{"klass": "3-1"}, "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Me", func() {
		It("returns the current session", func() {
			w := doRequest(router, http.MethodGet, "/api/me", nil, testSessionID)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["nickname"]).To(Equal("민수"))
		})

		It("accepts the session cookie", func() {
			req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID})
			w := doRaw(router, req)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects a malformed session id", func() {
			w := doRequest(router, http.MethodGet, "/api/me", nil, "abc")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
