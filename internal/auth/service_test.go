package auth_test

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/auth"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/storage/memory"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/frahmantamala/hr-core/pkg/password"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const secret = "test-secret-that-is-at-least-32-chars"

var issuedAt = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

func openStore(ctx context.Context) *state.Store {
	defaults := state.DefaultDataset(issuedAt)
	s, err := state.Open(ctx, state.Options{
		Adapter:  storage.NewAdapter(memory.New(), logger.Discard()),
		Logger:   logger.Discard(),
		Hasher:   password.NewHasher(4),
		Location: time.UTC,
		Now:      func() time.Time { return issuedAt },
		Defaults: &defaults,
	})
	gomega.Expect(err).ToNot(gomega.HaveOccurred())
	return s
}

func fixedTokens(at *time.Time) *auth.JWTTokenGenerator {
	g := auth.NewJWTTokenGenerator(secret, 15*time.Minute)
	g.Now = func() time.Time { return *at }
	return g
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx     context.Context
		store   *state.Store
		clock   time.Time
		service *auth.Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		store = openStore(ctx)
		clock = issuedAt
		service = auth.NewService(store, fixedTokens(&clock), password.NewHasher(4), logger.Discard())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("issues a token and opens the session", func() {
				// When
				session, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@hr-core.com", Password: "password"})

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(session.TokenType).To(gomega.Equal("Bearer"))
				gomega.Expect(session.ExpiresAt).To(gomega.Equal(issuedAt.Add(15 * time.Minute)))
				gomega.Expect(session.Employee.Role).To(gomega.Equal(user.RoleAdmin))

				current, ok := store.CurrentUser()
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(current.ID).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("matches the email case-insensitively", func() {
				_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "John.Doe@Example.com", Password: "password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("produces a token carrying the employee", func() {
				session, err := service.Authenticate(ctx, auth.LoginDTO{Email: "john.doe@example.com", Password: "password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(session.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.EmployeeID).To(gomega.Equal(int64(101)))
				gomega.Expect(claims.Subject).To(gomega.Equal("101"))
				gomega.Expect(claims.Role).To(gomega.Equal(user.RoleEmployee))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("rejects an unknown email", func() {
				_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "nobody@example.com", Password: "password"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
				gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			})

			ginkgo.It("rejects a wrong password", func() {
				_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@hr-core.com", Password: "hunter2"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("rejects an inactive employee", func() {
				_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "jane.smith@example.com", Password: "password"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
			})

			ginkgo.It("rejects a malformed request", func() {
				_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "not-an-email", Password: ""})
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
			})
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("closes the store session", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@hr-core.com", Password: "password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(ctx)).To(gomega.Succeed())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("reports expired tokens", func() {
			session, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@hr-core.com", Password: "password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			clock = issuedAt.Add(16 * time.Minute)
			_, err = service.ValidateAccessToken(session.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})

		ginkgo.It("rejects tokens signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("another-secret-that-is-32-chars-long", time.Minute)
			other.Now = func() time.Time { return issuedAt }
			token, _, err := other.GenerateAccessToken(1, "admin@hr-core.com", user.RoleAdmin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("rejects garbage", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("ResolvePrincipal", func() {
		ginkgo.It("reloads the employee", func() {
			p, err := service.ResolvePrincipal(101)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Name).To(gomega.Equal("John Doe"))
			gomega.Expect(*p.SupervisorID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("refuses deactivated employees", func() {
			_, err := store.DeactivateEmployee(ctx, 101)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ResolvePrincipal(101)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
		})

		ginkgo.It("treats unknown ids as an invalid token", func() {
			_, err := service.ResolvePrincipal(999)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})
})
