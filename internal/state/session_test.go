package state_test

import (
	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session", func() {
	var h *harness

	BeforeEach(func() {
		h = openHarness(fixture(), nil)
	})

	It("is unauthenticated before login", func() {
		_, ok := h.store.CurrentUser()
		Expect(ok).To(BeFalse())
		Expect(h.store.UserRole()).To(BeEmpty())
	})

	It("persists the session and resolves the user on every read", func() {
		Expect(h.store.Login(h.ctx, workerID)).To(Succeed())
		Expect(h.adapter.GetSession(h.ctx)).To(Equal(&storage.Session{UserID: workerID}))

		u, ok := h.store.CurrentUser()
		Expect(ok).To(BeTrue())
		Expect(u.Name).To(Equal("worker"))
		Expect(h.store.UserRole()).To(Equal(user.RoleEmployee))

		// a rename is visible without logging in again
		dto := employee.EmployeeDTO{
			Name: "renamed", Position: u.Position, Department: u.Department,
			Email: u.Email, SupervisorID: u.SupervisorID, AssignedBiometricNumber: u.AssignedBiometricNumber,
		}
		_, err := h.store.UpdateEmployee(h.ctx, workerID, dto)
		Expect(err).NotTo(HaveOccurred())
		u, _ = h.store.CurrentUser()
		Expect(u.Name).To(Equal("renamed"))
	})

	It("restores the session when the store reopens", func() {
		Expect(h.store.Login(h.ctx, adminID)).To(Succeed())

		reopened := h.reopen(fixture(), nil)
		Expect(reopened.UserRole()).To(Equal(user.RoleAdmin))
	})

	It("rejects unknown employees", func() {
		Expect(h.store.Login(h.ctx, 999)).To(MatchError(internal.ErrEmployeeNotFound))
		Expect(h.store.IsAuthenticated()).To(BeFalse())
	})

	It("resets navigation on logout", func() {
		Expect(h.store.Login(h.ctx, adminID)).To(Succeed())
		h.store.SetActiveModule("employees")
		h.store.SetActiveSubModule("profile")
		h.store.SetViewingEmployee(i64(workerID))

		Expect(h.store.Logout(h.ctx)).To(Succeed())

		Expect(h.store.IsAuthenticated()).To(BeFalse())
		Expect(h.adapter.GetSession(h.ctx)).To(BeNil())
		nav := h.store.Navigation()
		Expect(nav.ActiveModule).To(Equal(state.DefaultModule))
		Expect(nav.ActiveSubModule).To(BeNil())
		Expect(nav.ViewingEmployeeID).To(BeNil())
	})

	It("drops the viewed employee when the module changes", func() {
		h.store.SetViewingEmployee(i64(workerID))
		h.store.SetActiveModule("attendance")
		Expect(h.store.Navigation().ViewingEmployeeID).To(BeNil())
	})

	Describe("visibility", func() {
		It("lets admins see everyone and others see themselves and direct reports", func() {
			Expect(h.store.EmployeesVisibleTo(adminID)).To(HaveLen(5))

			ids := func(es []employee.Employee) []int64 {
				var out []int64
				for _, e := range es {
					out = append(out, e.ID)
				}
				return out
			}
			Expect(ids(h.store.EmployeesVisibleTo(managerID))).To(ConsistOf(managerID, workerID))
			Expect(ids(h.store.EmployeesVisibleTo(workerID))).To(ConsistOf(workerID))
			Expect(h.store.CanView(managerID, lonerID)).To(BeFalse())
		})
	})
})
