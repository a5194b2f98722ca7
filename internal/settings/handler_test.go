package settings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

type mockService struct {
	current   settings.Settings
	propagate settings.Propagation
	affected  int
	err       error
}

func (m *mockService) Settings() settings.Settings { return m.current }

func (m *mockService) UpdateSettings(_ context.Context, next settings.Settings, p settings.Propagation) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if err := next.Validate(); err != nil {
		return 0, err
	}
	m.current = next
	m.propagate = p
	return m.affected, nil
}

var _ = ginkgo.Describe("Settings", func() {
	ginkgo.It("validates holiday dates", func() {
		s := settings.Settings{Holidays: []settings.Holiday{{Name: "New Year", Date: "01/01/2025"}}}
		gomega.Expect(s.Validate()).To(gomega.HaveOccurred())

		s.Holidays[0].Date = "2025-01-01"
		gomega.Expect(s.Validate()).To(gomega.Succeed())
		gomega.Expect(s.HolidayDates()).To(gomega.Equal([]string{"2025-01-01"}))
	})

	ginkgo.It("rejects negative defaults", func() {
		s := settings.Settings{
			DefaultLeaveCredits: leave.Credits{Vacation: -1},
			HealthCareAllowance: decimal.NewFromInt(-5),
		}
		err := s.Validate()
		gomega.Expect(err).To(gomega.HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusBadRequest))
	})
})

var _ = ginkgo.Describe("Handler", func() {
	var (
		svc *mockService
		h   *settings.Handler
	)

	ginkgo.BeforeEach(func() {
		svc = &mockService{
			current: settings.Settings{
				DefaultLeaveCredits: leave.Credits{Vacation: 12, Sick: 10, Personal: 3},
				HealthCareAllowance: decimal.NewFromInt(1000),
			},
			affected: 4,
		}
		h = settings.NewHandler(svc)
	})

	ginkgo.It("returns the current settings", func() {
		rec := httptest.NewRecorder()
		h.GetSettings(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"vacation":12`))
	})

	ginkgo.It("replaces settings and reports affected employees", func() {
		body := `{"settings":{"defaultLeaveCredits":{"vacation":15,"sick":10,"personal":3},"healthCareAllowance":"1500","twoStepApproval":true,"holidays":[]},"propagate":{"leave":true}}`
		rec := httptest.NewRecorder()
		h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body)))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"affected":4`))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"twoStepApproval":true`))
		gomega.Expect(svc.propagate).To(gomega.Equal(settings.Propagation{Leave: true}))
		gomega.Expect(svc.current.DefaultLeaveCredits.Vacation).To(gomega.Equal(15))
	})

	ginkgo.It("surfaces validation failures", func() {
		body := `{"settings":{"defaultLeaveCredits":{"vacation":-1}}}`
		rec := httptest.NewRecorder()
		h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body)))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("VALIDATION_FAILED"))
	})

	ginkgo.It("surfaces persistence failures", func() {
		svc.err = internal.NewPersistenceError(nil)
		rec := httptest.NewRecorder()
		h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"settings":{}}`)))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("PERSISTENCE_FAILED"))
	})
})
