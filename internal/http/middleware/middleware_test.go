package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/internal/http/middleware"
)

func serve(router *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

var _ = Describe("RateLimit", func() {
	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
	})

	It("rejects requests beyond the burst", func() {
		router := gin.New()
		router.GET("/chat", middleware.RateLimit(middleware.RateLimitConfig{RPS: 0.001, Burst: 2}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		Expect(serve(router, "/chat")).To(Equal(http.StatusOK))
		Expect(serve(router, "/chat")).To(Equal(http.StatusOK))
		Expect(serve(router, "/chat")).To(Equal(http.StatusTooManyRequests))
	})

	It("is disabled by a non-positive rate", func() {
		router := gin.New()
		router.GET("/chat", middleware.RateLimit(middleware.RateLimitConfig{}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		for range 10 {
			Expect(serve(router, "/chat")).To(Equal(http.StatusOK))
		}
	})
})

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/boom", func(_ *gin.Context) {
			panic("boom")
		})

		Expect(serve(router, "/boom")).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("SessionFrom", func() {
	It("is nil outside RequireSession", func() {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		Expect(middleware.SessionFrom(c)).To(BeNil())
	})
})
