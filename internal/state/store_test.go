package state_test

import (
	"encoding/json"
	"errors"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/storage/memory"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/frahmantamala/hr-core/pkg/password"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store lifecycle", func() {
	var h *harness

	BeforeEach(func() {
		h = openHarness(fixture(), nil)
	})

	Context("when the backend is empty", func() {
		It("starts from the defaults", func() {
			Expect(h.store.Employees()).To(HaveLen(5))
			Expect(h.store.Schedules()).To(HaveLen(1))
			Expect(h.store.Settings().TwoStepApproval).To(BeTrue())
		})
	})

	Context("when employees were persisted with plaintext passwords", func() {
		It("hashes them on open and persists the upgrade", func() {
			// Given a legacy roster without roles and with a plaintext password
			d := fixture()
			d.Employees[0].Role = ""
			d.Employees[0].Email = "boss@hr-core.com"
			d.Employees[0].LegacyPassword = "s3cret"
			h = openHarness(state.EmptyDataset(), nil)
			Expect(h.adapter.Save(h.ctx, storage.KeyEmployees, d.Employees)).To(Succeed())

			// When the store opens with the legacy admin address configured
			s, err := state.Open(h.ctx, state.Options{
				Adapter:          h.adapter,
				Logger:           nil,
				Hasher:           password.NewHasher(4),
				LegacyAdminEmail: "BOSS@hr-core.com",
				Defaults:         &d,
			})
			Expect(err).NotTo(HaveOccurred())

			// Then the role is derived and the password replaced by a hash
			admin, err := s.GetEmployee(adminID)
			Expect(err).NotTo(HaveOccurred())
			Expect(admin.IsAdmin()).To(BeTrue())
			Expect(admin.LegacyPassword).To(BeEmpty())
			Expect(password.IsHash(admin.PasswordHash)).To(BeTrue())
			Expect(password.NewHasher(4).Verify(admin.PasswordHash, "s3cret")).To(Succeed())

			raw, ok := h.backend.Raw(storage.KeyEmployees)
			Expect(ok).To(BeTrue())
			Expect(string(raw)).NotTo(ContainSubstring("s3cret"))
		})
	})

	Context("round trip", func() {
		It("reloads identical collections", func() {
			_, err := h.store.AddMemo(h.ctx, memo.MemoDTO{Title: "Picnic", Content: "Friday", Date: "2024-07-05"})
			Expect(err).NotTo(HaveOccurred())
			_, err = h.store.AddMemo(h.ctx, memo.MemoDTO{Title: "Audit", Content: "Monday", Date: "2024-07-08"})
			Expect(err).NotTo(HaveOccurred())

			reopened := h.reopen(state.EmptyDataset(), nil)

			before, _ := json.Marshal(h.store.Memos())
			after, _ := json.Marshal(reopened.Memos())
			Expect(after).To(MatchJSON(before))

			before, _ = json.Marshal(h.store.Employees())
			after, _ = json.Marshal(reopened.Employees())
			Expect(after).To(MatchJSON(before))
		})
	})

	Context("when the backend cannot be read on open", func() {
		It("fails instead of replacing stored collections with defaults", func() {
			// Given a backend holding the five-employee roster
			before, ok := h.backend.Raw(storage.KeyEmployees)
			Expect(ok).To(BeTrue())

			// When the store reopens while every read fails
			h.backend.FailReads = errors.New("connection reset")
			d := state.EmptyDataset()
			_, err := state.Open(h.ctx, state.Options{
				Adapter:  h.adapter,
				Hasher:   password.NewHasher(4),
				Defaults: &d,
			})

			// Then the open is refused and the roster is untouched
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
			h.backend.FailReads = nil
			after, _ := h.backend.Raw(storage.KeyEmployees)
			Expect(after).To(MatchJSON(before))

			reopened := h.reopen(state.EmptyDataset(), nil)
			Expect(reopened.Employees()).To(HaveLen(5))
		})

		It("fails on an undecodable document and leaves it in place", func() {
			Expect(h.backend.Set(h.ctx, storage.KeyHealthCareClaims, []byte("{broken"))).To(Succeed())

			d := state.EmptyDataset()
			_, err := state.Open(h.ctx, state.Options{Adapter: h.adapter, Hasher: password.NewHasher(4), Defaults: &d})

			Expect(err).To(MatchError(ContainSubstring(storage.KeyHealthCareClaims)))
			raw, _ := h.backend.Raw(storage.KeyHealthCareClaims)
			Expect(string(raw)).To(Equal("{broken"))
		})
	})

	Context("when only some keys were written", func() {
		It("seeds the missing keys and leaves stored documents byte for byte", func() {
			adapter := storage.NewAdapter(memory.New(), logger.Discard())
			stored := []byte(`[{"id":7,"title":"Kept","content":"as is","date":"2024-07-01"}]`)
			Expect(adapter.Backend().Set(h.ctx, storage.KeyMemos, stored)).To(Succeed())

			d := fixture()
			s, err := state.Open(h.ctx, state.Options{Adapter: adapter, Hasher: password.NewHasher(4), Defaults: &d})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Memos()).To(HaveLen(1))
			raw, err := adapter.Backend().Get(h.ctx, storage.KeyMemos)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(Equal(stored))
			_, found, err := storage.Lookup[[]employee.Employee](h.ctx, adapter, storage.KeyEmployees)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
		})
	})

	Context("when a write fails", func() {
		It("keeps the change in memory and reports a persistence failure", func() {
			h.backend.FailWrites = errors.New("disk full")

			m, err := h.store.AddMemo(h.ctx, memo.MemoDTO{Title: "Picnic", Content: "Friday", Date: "2024-07-05"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePersistenceFailed))
			Expect(h.store.Memos()).To(ContainElement(m))
		})
	})

	Context("after Close", func() {
		It("rejects mutations", func() {
			Expect(h.store.Close()).To(Succeed())
			Expect(h.store.Close()).To(Succeed())

			_, err := h.store.AddMemo(h.ctx, memo.MemoDTO{Title: "Late", Content: "x", Date: "2024-07-05"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("memos", func() {
		It("returns not found for unknown ids", func() {
			_, err := h.store.UpdateMemo(h.ctx, 999, memo.MemoDTO{Title: "x", Content: "y", Date: "2024-07-05"})
			Expect(err).To(MatchError(internal.ErrMemoNotFound))
			Expect(h.store.DeleteMemo(h.ctx, 999)).To(MatchError(internal.ErrMemoNotFound))
		})

		It("deletes by id", func() {
			m, err := h.store.AddMemo(h.ctx, memo.MemoDTO{Title: "x", Content: "y", Date: "2024-07-05"})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.store.DeleteMemo(h.ctx, m.ID)).To(Succeed())
			Expect(h.store.Memos()).To(BeEmpty())
		})
	})
})

var _ = Describe("Collection", func() {
	It("keeps insertion order and reports missing ids", func() {
		c := state.NewCollection([]memo.Memo{{ID: 3}, {ID: 1}})
		c.Add(memo.Memo{ID: 2})

		Expect(c.All()).To(Equal([]memo.Memo{{ID: 3}, {ID: 1}, {ID: 2}}))
		Expect(c.Update(memo.Memo{ID: 9})).To(MatchError(state.ErrNotFound))
		Expect(c.Remove(9)).To(MatchError(state.ErrNotFound))

		Expect(c.Remove(1)).To(Succeed())
		Expect(c.All()).To(Equal([]memo.Memo{{ID: 3}, {ID: 2}}))

		found, ok := c.FindByID(2)
		Expect(ok).To(BeTrue())
		Expect(found.ID).To(Equal(int64(2)))
	})

	It("hands out copies", func() {
		c := state.NewCollection([]memo.Memo{{ID: 1, Title: "a"}})
		all := c.All()
		all[0].Title = "changed"

		found, _ := c.FindByID(1)
		Expect(found.Title).To(Equal("a"))
	})
})
