package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

// recordingGuards builds guards that record their invocation and abort with
// the given status when they match stopAt
func recordingGuards(calls *[]string, stopAt string, status int) Guards {
	guard := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			*calls = append(*calls, name)
			if name == stopAt {
				c.AbortWithStatus(status)
				return
			}
			c.Next()
		}
	}
	return Guards{
		Auth:        guard("auth"),
		Admin:       guard("admin"),
		Idempotency: guard("idempotency"),
		AccessLimit: guard("access"),
	}
}

func testHandlers() Handlers {
	return Handlers{
		Tenants:  handler.NewTenantHandler(nil),
		Presets:  handler.NewPresetHandler(nil),
		Sessions: handler.NewSessionHandler(nil),
		Access:   handler.NewAccessHandler(nil),
		System:   handler.NewSystemHandler("propertyhub", "test", "test", nil),
	}
}

func TestMount_RouteTable(t *testing.T) {
	engine := gin.New()
	Mount(engine, testHandlers(), Guards{})

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /api/v1/system/info",
		"GET /api/v1/tenants",
		"GET /api/v1/tenants/:id",
		"GET /api/v1/tenants/:id/deletion-check",
		"DELETE /api/v1/tenants/:id",
		"POST /api/v1/tenants/:id/archive",
		"POST /api/v1/tenants/:id/restore",
		"GET /api/v1/onboarding/presets",
		"POST /api/v1/onboarding/presets",
		"POST /api/v1/onboarding/presets/seed",
		"GET /api/v1/onboarding/presets/:id",
		"PUT /api/v1/onboarding/presets/:id",
		"DELETE /api/v1/onboarding/presets/:id",
		"POST /api/v1/onboarding/presets/:id/duplicate",
		"POST /api/v1/onboarding/sessions",
		"GET /api/v1/onboarding/sessions/:id",
		"POST /api/v1/onboarding/sessions/:id/steps/:step/complete",
		"POST /api/v1/onboarding/sessions/:id/complete",
		"POST /api/v1/onboarding/sessions/:id/cancel",
		"POST /api/v1/onboarding/sessions/:id/regenerate-link",
		"POST /api/v1/onboarding/sessions/:id/link-tenant",
		"POST /api/v1/onboarding/sessions/:id/invite",
		"GET /api/v1/onboarding/sessions/:id/fees",
		"GET /api/v1/onboarding/access/:token",
		"POST /api/v1/onboarding/access/:token/otp",
		"POST /api/v1/onboarding/access/:token/otp/verify",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.Len(t, registered, len(expected))
}

func TestMount_Guards(t *testing.T) {
	id := "7d8f9a2e-5b1c-4e3a-9f6d-2c4b8a1e0f37"

	tests := []struct {
		name      string
		method    string
		path      string
		stopAt    string
		status    int
		wantCalls []string
	}{
		{"tenant routes require auth", http.MethodGet, "/api/v1/tenants", "auth", http.StatusUnauthorized, []string{"auth"}},
		{"tenant delete is idempotent", http.MethodDelete, "/api/v1/tenants/" + id, "idempotency", http.StatusConflict, []string{"auth", "idempotency"}},
		{"archive skips idempotency", http.MethodPost, "/api/v1/tenants/" + id + "/archive", "auth", http.StatusUnauthorized, []string{"auth"}},
		{"preset seed needs admin", http.MethodPost, "/api/v1/onboarding/presets/seed", "admin", http.StatusForbidden, []string{"auth", "admin"}},
		{"preset delete needs admin", http.MethodDelete, "/api/v1/onboarding/presets/" + id, "admin", http.StatusForbidden, []string{"auth", "admin"}},
		{"sessions require auth", http.MethodPost, "/api/v1/onboarding/sessions", "auth", http.StatusUnauthorized, []string{"auth"}},
		{"access link is rate limited, not authenticated", http.MethodGet, "/api/v1/onboarding/access/tok", "access", http.StatusTooManyRequests, []string{"access"}},
		{"otp request is rate limited", http.MethodPost, "/api/v1/onboarding/access/tok/otp", "access", http.StatusTooManyRequests, []string{"access"}},
		{"system info is public", http.MethodGet, "/api/v1/system/info", "", http.StatusOK, nil},
		{"health is public", http.MethodGet, "/health", "", http.StatusOK, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			engine := gin.New()
			Mount(engine, testHandlers(), recordingGuards(&calls, tt.stopAt, tt.status))

			w := serve(engine, tt.method, tt.path)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}
