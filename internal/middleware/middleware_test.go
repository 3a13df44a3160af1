package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

func newApp(logs SystemLogWriter) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logs, zap.NewNop())})
	app.Use(RequestLogger(zap.NewNop()))
	app.Use(recover.New())
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestErrorHandler(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newApp(store)

	app.Get("/service", func(c *fiber.Ctx) error { return services.Conflict("Email already registered.") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })
	app.Get("/missing", func(c *fiber.Ctx) error { return storage.ErrNotFound })
	app.Get("/dup", func(c *fiber.Ctx) error { return storage.ErrDuplicate })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("nil map") })
	app.Get("/validate", func(c *fiber.Ctx) error {
		var in struct {
			Name string `validate:"required"`
		}
		return validator.New().Struct(in)
	})

	tests := []struct {
		path    string
		status  int
		message string
		logged  bool
	}{
		{"/service", 409, "Email already registered.", false},
		{"/boom", 500, "Internal server error.", true},
		{"/missing", 404, "Resource not found.", true},
		{"/dup", 400, "Duplicate value.", true},
		{"/panic", 500, "Internal server error.", true},
		{"/validate", 400, "Validation failed.", false},
		{"/no-such-route", 404, "Cannot GET /no-such-route", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.NoError(t, storeClear(store))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
			body := decode(t, resp)
			assert.Equal(t, tt.message, body["message"])

			logs, err := store.ListSystemLogs(context.Background(), 10)
			require.NoError(t, err)
			if tt.logged {
				require.Len(t, logs, 1)
				assert.Equal(t, tt.status, logs[0].StatusCode)
				assert.Equal(t, http.MethodGet, logs[0].Method)
				assert.Equal(t, tt.path, logs[0].URL)
			} else {
				assert.Empty(t, logs)
			}
		})
	}
}

func storeClear(store *storage.MemoryStore) error {
	_, err := store.ClearSystemLogs(context.Background())
	return err
}

func TestErrorHandlerValidationFields(t *testing.T) {
	app := newApp(nil)
	app.Get("/", func(c *fiber.Ctx) error {
		var in struct {
			Capacity float64 `validate:"gt=0"`
		}
		return validator.New().Struct(in)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	fields, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "Capacity", field["field"])
	assert.Equal(t, "Capacity must be greater than 0", field["message"])
}

type failingLogs struct{ calls int }

func (f *failingLogs) CreateSystemLog(ctx context.Context, entry *models.SystemLog) error {
	f.calls++
	return errors.New("log store down")
}

func TestErrorHandlerSwallowsLogFailures(t *testing.T) {
	logs := &failingLogs{}
	app := newApp(logs)
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, 1, logs.calls)
}

func TestRequestIDIsPropagated(t *testing.T) {
	app := newApp(nil)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "req-123", string(raw))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	resolver := auth.NewResolver(auth.NewLocalVerifier(tokens, store))

	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	customer := &models.User{Name: "Cust", Email: "cust@example.com", Role: models.RoleCustomer}
	require.NoError(t, store.CreateUser(ctx, admin))
	require.NoError(t, store.CreateUser(ctx, customer))
	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)
	customerToken, err := tokens.Issue(customer)
	require.NoError(t, err)

	app := newApp(nil)
	app.Get("/admin", Authenticate(resolver), Authorize(models.RoleAdmin, models.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.JSON(Actor(c))
	})

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no credential", func(r *http.Request) {}, 401},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, 401},
		{"wrong role", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+customerToken) }, 403},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) }, 200},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+adminToken) }, 200},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookie, Value: adminToken}) }, 200},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + adminToken }, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			tt.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == 200 {
				body := decode(t, resp)
				assert.Equal(t, admin.ID, body["UserID"])
			}
		})
	}
}

func TestAuthorizeWithoutIdentity(t *testing.T) {
	app := newApp(nil)
	app.Get("/", Authorize(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics("mw")
	app := newApp(nil)
	app.Use(Metrics(m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Get("/fail", func(c *fiber.Ctx) error { return services.NotFound("Load not found.") })

	for _, path := range []string{"/ok", "/ok", "/fail"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	assert.Contains(t, out, `mw_http_requests_total{method="GET",route="/ok",status="200"} 2`)
	assert.Contains(t, out, `mw_http_requests_total{method="GET",route="/fail",status="404"} 1`)
}
