package tests

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/handlers"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/services"
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	testingutil "github.com/amirphl/Kusanagi-no-Tsurugi/testing"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Successful register and shorten answer 200, not 201.
func TestEndpointStatusCodes(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		linkRepo := repository.NewLinkRepository(testDB.DB)
		visitorRepo := repository.NewVisitorRepository(testDB.DB)

		signupFlow := businessflow.NewSignupFlow(userRepo, testDB.DB, bcrypt.MinCost)
		loginFlow := businessflow.NewLoginFlow(userRepo, newTestTokenService(t), testDB.DB)
		shortenFlow := businessflow.NewShortenFlow(linkRepo, userRepo, nil, services.NewShortIDGenerator(), testDomain)
		linksFlow := businessflow.NewLinksFlow(linkRepo, visitorRepo, userRepo, testDomain)

		authHandler := handlers.NewAuthHandler(signupFlow, loginFlow)
		linkHandler := handlers.NewLinkHandler(shortenFlow, linksFlow)

		app := fiber.New()
		app.Post("/api/v1/register", authHandler.Register)
		app.Post("/api/v1/login", authHandler.Login)
		app.Post("/api/v1/shorten", linkHandler.Shorten)

		testConfig := fiber.TestConfig{Timeout: 10 * time.Second}

		postJSON := func(t *testing.T, path, body string) int {
			t.Helper()
			req := httptest.NewRequest("POST", path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, testConfig)
			require.NoError(t, err)
			defer resp.Body.Close()
			return resp.StatusCode
		}

		t.Run("RegisterReturns200", func(t *testing.T) {
			status := postJSON(t, "/api/v1/register",
				`{"username":"carol","email":"carol@example.com","password":"SecurePass123!"}`)
			assert.Equal(t, fiber.StatusOK, status)
		})

		t.Run("LoginReturns200", func(t *testing.T) {
			status := postJSON(t, "/api/v1/login",
				`{"username":"carol","password":"SecurePass123!"}`)
			assert.Equal(t, fiber.StatusOK, status)
		})

		t.Run("ShortenReturns200", func(t *testing.T) {
			status := postJSON(t, "/api/v1/shorten",
				`{"original_url":"https://example.com/page"}`)
			assert.Equal(t, fiber.StatusOK, status)
		})

		t.Run("DuplicateRegisterReturns400", func(t *testing.T) {
			status := postJSON(t, "/api/v1/register",
				`{"username":"carol","email":"other@example.com","password":"SecurePass123!"}`)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})

		return nil
	})
	require.NoError(t, err)
}
