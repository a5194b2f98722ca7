package storage_test

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/storage/memory"
	"github.com/frahmantamala/hr-core/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var _ = Describe("Adapter", func() {
	var (
		ctx     context.Context
		backend *memory.Store
		adapter *storage.Adapter
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = memory.New()
		adapter = storage.NewAdapter(backend, logger.Discard())
	})

	Describe("Load", func() {
		It("returns the default when the key was never written", func() {
			def := []record{{ID: 1, Name: "seed"}}
			got, err := storage.Load(ctx, adapter, storage.KeyMemos, def)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(def))
		})

		It("reports a malformed document instead of substituting the default", func() {
			Expect(backend.Set(ctx, storage.KeyMemos, []byte("{not json"))).To(Succeed())

			_, err := storage.Load(ctx, adapter, storage.KeyMemos, []record{{ID: 1}})
			Expect(err).To(MatchError(ContainSubstring("decode " + storage.KeyMemos)))
		})

		It("reports a backend read failure", func() {
			backend.FailReads = errors.New("connection reset")

			_, err := storage.Load(ctx, adapter, storage.KeyMemos, []record{})
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})

		It("reproduces a saved collection in order", func() {
			in := []record{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
			Expect(adapter.Save(ctx, storage.KeyMemos, in)).To(Succeed())

			out, err := storage.Load(ctx, adapter, storage.KeyMemos, []record(nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(in))

			raw, ok := backend.Raw(storage.KeyMemos)
			Expect(ok).To(BeTrue())
			expected, _ := json.Marshal(in)
			Expect(raw).To(MatchJSON(expected))
		})
	})

	Describe("Lookup", func() {
		It("tells a missing key from a stored empty collection", func() {
			_, found, err := storage.Lookup[[]record](ctx, adapter, storage.KeyMemos)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())

			Expect(adapter.Save(ctx, storage.KeyMemos, []record{})).To(Succeed())
			out, found, err := storage.Lookup[[]record](ctx, adapter, storage.KeyMemos)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(out).To(BeEmpty())
		})
	})

	Describe("Save", func() {
		It("surfaces backend write failures", func() {
			backend.FailWrites = errors.New("disk full")
			err := adapter.Save(ctx, storage.KeyMemos, []record{})
			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})
	})

	Describe("session", func() {
		It("stores the user id under the session key", func() {
			Expect(adapter.SaveSession(ctx, 101)).To(Succeed())

			raw, ok := backend.Raw(storage.KeySession)
			Expect(ok).To(BeTrue())
			Expect(raw).To(MatchJSON(`{"userId":101}`))

			s, err := adapter.GetSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).NotTo(BeNil())
			Expect(s.UserID).To(Equal(int64(101)))
		})

		It("reports no session after clearing", func() {
			Expect(adapter.SaveSession(ctx, 101)).To(Succeed())
			Expect(adapter.ClearSession(ctx)).To(Succeed())
			s, err := adapter.GetSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeNil())
		})
	})

	It("clears every owned key", func() {
		for _, key := range storage.AllKeys {
			Expect(adapter.Save(ctx, key, []int{1})).To(Succeed())
		}
		Expect(adapter.Clear(ctx)).To(Succeed())
		for _, key := range storage.AllKeys {
			_, ok := backend.Raw(key)
			Expect(ok).To(BeFalse(), key)
		}
	})
})
