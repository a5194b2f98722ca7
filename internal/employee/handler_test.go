package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockService struct {
	employees map[int64]employee.Employee
	visible   map[int64][]int64
	added     []employee.EmployeeDTO
	addErr    error
}

func (m *mockService) EmployeesVisibleTo(viewerID int64) []employee.Employee {
	var out []employee.Employee
	for _, id := range m.visible[viewerID] {
		out = append(out, m.employees[id])
	}
	return out
}

func (m *mockService) GetEmployee(id int64) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, internal.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *mockService) CanView(viewerID, subjectID int64) bool {
	for _, id := range m.visible[viewerID] {
		if id == subjectID {
			return true
		}
	}
	return false
}

func (m *mockService) AddEmployee(_ context.Context, dto employee.EmployeeDTO) (employee.Employee, error) {
	if m.addErr != nil {
		return employee.Employee{}, m.addErr
	}
	m.added = append(m.added, dto)
	return employee.Employee{ID: 200, Name: dto.Name, Email: dto.Email, PasswordHash: "$2a$04$hash"}, nil
}

func (m *mockService) UpdateEmployee(_ context.Context, id int64, dto employee.EmployeeDTO) (employee.Employee, error) {
	e, err := m.GetEmployee(id)
	if err != nil {
		return e, err
	}
	e.Name = dto.Name
	return e, nil
}

func (m *mockService) DeactivateEmployee(_ context.Context, id int64) (employee.Employee, error) {
	e, err := m.GetEmployee(id)
	if err != nil {
		return e, err
	}
	e.Status = employee.StatusInactive
	return e, nil
}

var _ = ginkgo.Describe("Handler", func() {
	var (
		svc    *mockService
		router chi.Router
	)

	do := func(viewer int64, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if viewer != 0 {
			req = req.WithContext(user.WithPrincipal(req.Context(), &user.Principal{ID: viewer}))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		supervisor := int64(1)
		svc = &mockService{
			employees: map[int64]employee.Employee{
				1:   {ID: 1, Name: "Admin", Email: "admin@hr-core.com", PasswordHash: "$2a$04$x", Status: employee.StatusActive},
				101: {ID: 101, Name: "John", Email: "john@example.com", PasswordHash: "$2a$04$y", SupervisorID: &supervisor, Status: employee.StatusActive},
			},
			visible: map[int64][]int64{1: {1, 101}, 101: {101}},
		}
		h := employee.NewHandler(svc)
		router = chi.NewRouter()
		router.Get("/employees", h.ListEmployees)
		router.Post("/employees", h.CreateEmployee)
		router.Get("/employees/{id}", h.GetEmployee)
		router.Put("/employees/{id}", h.UpdateEmployee)
		router.Post("/employees/{id}/deactivate", h.DeactivateEmployee)
	})

	ginkgo.It("lists the caller's scope without credentials", func() {
		rec := do(1, http.MethodGet, "/employees", "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("$2a$"))
		var list []employee.Employee
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(gomega.Succeed())
		gomega.Expect(list).To(gomega.HaveLen(2))
	})

	ginkgo.It("requires a principal", func() {
		rec := do(0, http.MethodGet, "/employees", "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.Context("GetEmployee", func() {
		ginkgo.It("returns a visible employee", func() {
			rec := do(1, http.MethodGet, "/employees/101", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"name":"John"`))
		})

		ginkgo.It("forbids employees outside the caller's scope", func() {
			rec := do(101, http.MethodGet, "/employees/1", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("UNAUTHORIZED_ACCESS"))
		})

		ginkgo.It("reports unknown ids as not found", func() {
			rec := do(1, http.MethodGet, "/employees/999", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("EMPLOYEE_NOT_FOUND"))
		})

		ginkgo.It("rejects a malformed id", func() {
			rec := do(1, http.MethodGet, "/employees/abc", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Context("CreateEmployee", func() {
		ginkgo.It("creates and hides the password hash", func() {
			rec := do(1, http.MethodPost, "/employees", `{"name":"Ann","email":"ann@example.com","position":"Dev","department":"IT","password":"s3cret!"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("$2a$"))
			gomega.Expect(svc.added).To(gomega.HaveLen(1))
			gomega.Expect(svc.added[0].Password).To(gomega.Equal("s3cret!"))
		})

		ginkgo.It("maps a conflict", func() {
			svc.addErr = internal.ErrDuplicateEmail

			rec := do(1, http.MethodPost, "/employees", `{"name":"Ann","email":"john@example.com"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("DUPLICATE_EMAIL"))
		})

		ginkgo.It("rejects an undecodable body", func() {
			rec := do(1, http.MethodPost, "/employees", `{"name":`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.It("deactivates an employee", func() {
		rec := do(1, http.MethodPost, "/employees/101/deactivate", "")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"status":"Inactive"`))
	})

	ginkgo.It("updates an employee", func() {
		rec := do(1, http.MethodPut, "/employees/101", `{"name":"Johnny"}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"name":"Johnny"`))
	})
})
