package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeserve/config"
	"homeserve/infras/jwt"
	"homeserve/infras/otel/mocks"
	"homeserve/permissions"
	"homeserve/shared"
	"homeserve/shared/constant"
	"homeserve/transport/http/middleware"
)

func newProtectedRouter(t *testing.T) (chi.Router, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "test-secret"
	cfg.App.APIKey = "internal-key"

	tokens := jwt.New(cfg)
	perms := permissions.Get()
	require.NotNil(t, perms)

	auth := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), perms, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		userID, role := shared.ActorFromContext(r.Context())
		w.Header().Set("X-Role", role)

		if userID > 0 {
			w.WriteHeader(http.StatusOK)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(auth.APIKey, auth.Auth, auth.RBAC)
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", echo)
			r.Get("/{id}", echo)
		})
		r.Get("/slots", echo)
		r.Put("/providers/{id}/schedule", echo)
	})

	return router, tokens
}

func TestAuthRole(t *testing.T) {
	router, tokens := newProtectedRouter(t)

	token := func(userID int64, role string) string {
		signed, err := tokens.GenerateAccessToken(userID, "user@example.com", role)
		require.NoError(t, err)

		return "Bearer " + signed
	}

	tests := []struct {
		name     string
		method   string
		target   string
		header   map[string]string
		wantCode int
		wantRole string
	}{
		{name: "public slots", method: http.MethodGet, target: "/v1/slots", wantCode: http.StatusNoContent},
		{name: "missing token", method: http.MethodGet, target: "/v1/bookings/1", wantCode: http.StatusUnauthorized},
		{
			name: "malformed token", method: http.MethodGet, target: "/v1/bookings/1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer nope"}, wantCode: http.StatusUnauthorized,
		},
		{
			name: "unknown role", method: http.MethodGet, target: "/v1/bookings/1",
			header: map[string]string{constant.RequestHeaderAuthorization: token(5, "guest")}, wantCode: http.StatusUnauthorized,
		},
		{
			name: "customer reads booking", method: http.MethodGet, target: "/v1/bookings/1",
			header: map[string]string{constant.RequestHeaderAuthorization: token(5, constant.RoleCustomer)}, wantCode: http.StatusOK,
			wantRole: constant.RoleCustomer,
		},
		{
			name: "customer creates booking", method: http.MethodPost, target: "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: token(5, constant.RoleCustomer)}, wantCode: http.StatusOK,
			wantRole: constant.RoleCustomer,
		},
		{
			name: "provider cannot create booking", method: http.MethodPost, target: "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: token(6, constant.RoleProvider)}, wantCode: http.StatusForbidden,
		},
		{
			name: "customer cannot edit schedule", method: http.MethodPut, target: "/v1/providers/7/schedule",
			header: map[string]string{constant.RequestHeaderAuthorization: token(5, constant.RoleCustomer)}, wantCode: http.StatusForbidden,
		},
		{
			name: "internal api key skips auth", method: http.MethodPut, target: "/v1/providers/7/schedule",
			header: map[string]string{constant.RequestHeaderAPIKey: "internal-key"}, wantCode: http.StatusNoContent,
		},
		{
			name: "wrong api key", method: http.MethodGet, target: "/v1/bookings/1",
			header: map[string]string{constant.RequestHeaderAPIKey: "guess"}, wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantRole != "" {
				assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
			}
		})
	}
}
