package store_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"classbot.app/tutor/common/id"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
)

func newThread(ctx context.Context, nickname string) *model.Thread {
	thread := &model.Thread{ID: id.New(), Class: "store-test", Nickname: nickname, Title: model.DefaultThreadTitle}
	Expect(stores.Threads().Create(ctx, thread)).To(Succeed())
	return thread
}

var _ = Describe("MessageStore", func() {
	var (
		ctx    context.Context
		thread *model.Thread
		msgs   store.MessageStore
	)

	BeforeEach(func() {
		requireDatabase()
		ctx = context.Background()
		thread = newThread(ctx, fmt.Sprintf("m-%d", id.New()))
		msgs = stores.Messages()
	})

	It("returns an appended message as the most recent one", func() {
		appended, err := msgs.Append(ctx, thread.ID, model.RoleUser, "퀴즈 앱 만들어줘")
		Expect(err).NotTo(HaveOccurred())

		recent, err := msgs.FetchRecent(ctx, thread.ID, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(recent).To(HaveLen(1))
		Expect(recent[0].Seq).To(Equal(appended.Seq))
		Expect(recent[0].Role).To(Equal(model.RoleUser))
		Expect(recent[0].Content).To(Equal("퀴즈 앱 만들어줘"))
	})

	It("orders, slices and prunes by sequence", func() {
		var seqs []int64
		for i := range 6 {
			role := model.RoleUser
			if i%2 == 1 {
				role = model.RoleAssistant
			}
			m, err := msgs.Append(ctx, thread.ID, role, fmt.Sprintf("m%d", i+1))
			Expect(err).NotTo(HaveOccurred())
			seqs = append(seqs, m.Seq)
		}

		recent, err := msgs.FetchRecent(ctx, thread.ID, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect([]int64{recent[0].Seq, recent[1].Seq}).To(Equal([]int64{seqs[5], seqs[4]}))

		older, err := msgs.FetchOlderThan(ctx, thread.ID, seqs[3])
		Expect(err).NotTo(HaveOccurred())
		Expect(older).To(HaveLen(3))
		Expect(older[0].Seq).To(Equal(seqs[0]))
		Expect(older[2].Seq).To(Equal(seqs[2]))

		deleted, err := msgs.DeleteUpTo(ctx, thread.ID, seqs[2])
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(Equal(int64(3)))

		count, err := msgs.Count(ctx, thread.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(3)))

		all, err := msgs.ListAscending(ctx, thread.ID, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(all[0].Content).To(Equal("m4"))
	})

	It("keeps threads apart", func() {
		other := newThread(ctx, fmt.Sprintf("o-%d", id.New()))
		_, err := msgs.Append(ctx, other.ID, model.RoleUser, "elsewhere")
		Expect(err).NotTo(HaveOccurred())

		count, err := msgs.Count(ctx, thread.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})
})

var _ = Describe("SummaryStore", func() {
	var (
		ctx       context.Context
		thread    *model.Thread
		summaries store.SummaryStore
	)

	BeforeEach(func() {
		requireDatabase()
		ctx = context.Background()
		thread = newThread(ctx, fmt.Sprintf("s-%d", id.New()))
		summaries = stores.Summaries()
	})

	It("reports a missing summary as ErrNotFound", func() {
		_, err := summaries.Get(ctx, thread.ID)
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("compares and swaps on the high-water mark", func() {
		Expect(summaries.Upsert(ctx, thread.ID, "first", 19, 0)).To(Succeed())

		got, err := summaries.Get(ctx, thread.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Text).To(Equal("first"))
		Expect(got.HighWaterMark).To(Equal(int64(19)))

		By("rejecting a writer that read a stale mark")
		Expect(summaries.Upsert(ctx, thread.ID, "stale", 25, 0)).To(MatchError(store.ErrConflict))

		By("rejecting a mark that does not advance")
		Expect(summaries.Upsert(ctx, thread.ID, "same", 19, 19)).To(MatchError(store.ErrConflict))

		Expect(summaries.Upsert(ctx, thread.ID, "second", 37, 19)).To(Succeed())
		got, err = summaries.Get(ctx, thread.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Text).To(Equal("second"))
		Expect(got.HighWaterMark).To(Equal(int64(37)))
	})
})

var _ = Describe("ThreadStore and SessionStore", func() {
	var ctx context.Context

	BeforeEach(func() {
		requireDatabase()
		ctx = context.Background()
	})

	It("lists threads by owner", func() {
		nickname := fmt.Sprintf("t-%d", id.New())
		first := newThread(ctx, nickname)
		second := newThread(ctx, nickname)
		Expect(stores.Threads().Touch(ctx, first.ID)).To(Succeed())

		threads, err := stores.Threads().ListByOwner(ctx, "store-test", nickname, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(threads).To(HaveLen(2))
		Expect(threads[0].ID).To(Equal(first.ID))
		Expect(threads[1].ID).To(Equal(second.ID))
	})

	It("reports a missing thread as ErrNotFound", func() {
		_, err := stores.Threads().GetByID(ctx, id.New())
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("hides expired sessions", func() {
		now := time.Now()
		live := &model.Session{ID: id.New(), Class: "store-test", Nickname: "a", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		expired := &model.Session{ID: id.New(), Class: "store-test", Nickname: "b", CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}
		Expect(stores.Sessions().Create(ctx, live)).To(Succeed())
		Expect(stores.Sessions().Create(ctx, expired)).To(Succeed())

		got, err := stores.Sessions().GetValid(ctx, live.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Nickname).To(Equal("a"))

		_, err = stores.Sessions().GetValid(ctx, expired.ID)
		Expect(err).To(MatchError(store.ErrNotFound))

		purged, err := stores.Sessions().DeleteExpired(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(purged).To(BeNumerically(">=", 1))
	})
})
