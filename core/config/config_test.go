package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/core/config"
)

var _ = Describe("Load", func() {
	BeforeEach(func() {
		// Production skips .env loading so the test only sees what it sets.
		GinkgoT().Setenv("TUTOR_ENV", "production")
		GinkgoT().Setenv("UPSTAGE_API_KEY", "test-key")
		GinkgoT().Setenv("CLASS_PASSCODES", "3-1=apple,3-2=banana")
		for _, key := range []string{
			"UPSTAGE_MODEL", "CHAT_CONTEXT_LIMIT", "COMPACTION_THRESHOLD",
			"COMPACTION_KEEP_RECENT", "COMPACTION_CARRY_SUMMARY", "SESSION_TTL",
		} {
			GinkgoT().Setenv(key, "")
			Expect(os.Unsetenv(key)).To(Succeed())
		}
	})

	It("applies the documented defaults", func() {
		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.LLM.Model).To(Equal("solar-pro2"))
		Expect(cfg.Chat.ContextLimit).To(Equal(12))
		Expect(cfg.Chat.Temperature).To(Equal(0.2))
		Expect(cfg.Compaction.Threshold).To(Equal(30))
		Expect(cfg.Compaction.KeepRecent).To(Equal(12))
		Expect(cfg.Compaction.CarrySummary).To(BeFalse())
		Expect(cfg.Classroom.SessionTTL).To(Equal(12 * time.Hour))
		Expect(cfg.Classroom.Passcodes).To(HaveKeyWithValue("3-2", "banana"))
	})

	It("reads overrides from the environment", func() {
		GinkgoT().Setenv("UPSTAGE_MODEL", "solar-mini")
		GinkgoT().Setenv("CHAT_CONTEXT_LIMIT", "32")
		GinkgoT().Setenv("COMPACTION_CARRY_SUMMARY", "true")

		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LLM.Model).To(Equal("solar-mini"))
		Expect(cfg.Chat.ContextLimit).To(Equal(32))
		Expect(cfg.Compaction.CarrySummary).To(BeTrue())
	})

	It("requires an API key", func() {
		GinkgoT().Setenv("UPSTAGE_API_KEY", "")
		_, err := config.Load(config.ServiceTypeWorker)
		Expect(err).To(MatchError(ContainSubstring("UPSTAGE_API_KEY")))
	})

	It("requires class passcodes for the server but not the worker", func() {
		GinkgoT().Setenv("CLASS_PASSCODES", "")

		_, err := config.Load(config.ServiceTypeServer)
		Expect(err).To(MatchError(ContainSubstring("CLASS_PASSCODES")))

		_, err = config.Load(config.ServiceTypeWorker)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a threshold that does not exceed keep-recent", func() {
		GinkgoT().Setenv("COMPACTION_THRESHOLD", "12")
		GinkgoT().Setenv("COMPACTION_KEEP_RECENT", "12")
		_, err := config.Load(config.ServiceTypeWorker)
		Expect(err).To(MatchError(ContainSubstring("COMPACTION_THRESHOLD")))
	})
})

var _ = DescribeTable("ParsePasscodes",
	func(input string, expected map[string]string, wantErr bool) {
		got, err := config.ParsePasscodes(input)
		if wantErr {
			Expect(err).To(HaveOccurred())
			return
		}
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(expected))
	},
	Entry("empty", "", map[string]string{}, false),
	Entry("single pair", "1반=abc", map[string]string{"1반": "abc"}, false),
	Entry("trims whitespace", " 1반 = abc , 2반=def ", map[string]string{"1반": "abc", "2반": "def"}, false),
	Entry("missing separator", "1반abc", nil, true),
	Entry("empty passcode", "1반=", nil, true),
)
