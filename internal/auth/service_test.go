package auth_test

import (
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/worktrack/payroll/internal/auth"
)

type mockActorRepository struct {
	hashes map[string]string
	ids    map[string]int64
	actors map[int64]auth.Actor
}

func newMockActorRepository() *mockActorRepository {
	return &mockActorRepository{
		hashes: make(map[string]string),
		ids:    make(map[string]int64),
		actors: make(map[int64]auth.Actor),
	}
}

func (m *mockActorRepository) addUser(login, password string, actor auth.Actor) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	m.hashes[login] = string(hash)
	m.ids[login] = actor.ID
	m.actors[actor.ID] = actor
}

func (m *mockActorRepository) GetPasswordForLogin(login string) (string, int64, error) {
	hash, ok := m.hashes[login]
	if !ok {
		return "", 0, auth.ErrInvalidCredentials
	}
	return hash, m.ids[login], nil
}

func (m *mockActorRepository) GetActorByID(userID int64) (auth.Actor, error) {
	actor, ok := m.actors[userID]
	if !ok {
		return auth.Actor{}, auth.ErrInvalidCredentials
	}
	return actor, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockActorRepository
		service *auth.Service
	)

	BeforeEach(func() {
		repo = newMockActorRepository()
		repo.addUser("worker", "secret-password", auth.Actor{ID: 3, Role: auth.RoleUser})

		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcde",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		It("issues a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Login: "worker", Password: "secret-password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(strconv.FormatInt(3, 10)))
			Expect(claims.Role).To(Equal(string(auth.RoleUser)))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Login: "worker", Password: "wrong"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown login with the same error", func() {
			_, err := service.Authenticate(auth.LoginDTO{Login: "nobody", Password: "secret-password"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a fresh pair", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Login: "worker", Password: "secret-password"})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
		})

		It("re-reads the role from storage", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Login: "worker", Password: "secret-password"})
			Expect(err).NotTo(HaveOccurred())

			// promote the user after the original tokens were issued
			repo.actors[3] = auth.Actor{ID: 3, Role: auth.RoleModerator}

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal(string(auth.RoleModerator)))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})
