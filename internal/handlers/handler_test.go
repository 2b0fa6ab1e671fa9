// internal/handlers/handler_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/middleware"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize())

	r := gin.New()
	r.Use(middleware.I18nMiddleware("en"))
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestRespondErrorMapping(t *testing.T) {
	r := setup(t)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("email", "taken"), http.StatusUnprocessableEntity},
		{"domain", &services.DomainError{Code: "INVALID_STATE", Message: "Lead is already converted"}, http.StatusUnprocessableEntity},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load lead: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"inactive", fmt.Errorf("%w: suspended", services.ErrAccountInactive), http.StatusForbidden},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for i, tc := range cases {
		tc := tc
		path := fmt.Sprintf("/case/%d", i)
		r.GET(path, func(c *gin.Context) { respondError(c, tc.err, "Lead") })

		t.Run(tc.name, func(t *testing.T) {
			w, env := serve(r, http.MethodGet, path, "")
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestRespondErrorCarriesFieldsAndMessages(t *testing.T) {
	r := setup(t)
	r.GET("/validation", func(c *gin.Context) {
		respondError(c, services.NewValidationError("email", "The email has already been taken"), "User")
	})
	r.GET("/domain", func(c *gin.Context) {
		respondError(c, &services.DomainError{Code: "INVALID_STATE", Message: "Lead is already converted"}, "Lead")
	})

	_, env := serve(r, http.MethodGet, "/validation", "")
	assert.Equal(t, []string{"The email has already been taken"}, env.Errors["email"])

	_, env = serve(r, http.MethodGet, "/domain", "")
	assert.Equal(t, "Lead is already converted", env.Message)
}

func TestBindPayload(t *testing.T) {
	r := setup(t)
	r.PATCH("/status", func(c *gin.Context) {
		var req struct {
			Status models.UserStatus `json:"status"`
		}
		if !bindPayload(c, validation.UserStatus, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	})

	t.Run("valid", func(t *testing.T) {
		w, _ := serve(r, http.MethodPatch, "/status", `{"status":"suspended"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"suspended"`)
	})

	t.Run("rule failure", func(t *testing.T) {
		w, env := serve(r, http.MethodPatch, "/status", `{"status":"sleeping"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, env.Errors, "status")
	})

	t.Run("missing body", func(t *testing.T) {
		w, env := serve(r, http.MethodPatch, "/status", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, env.Errors, "status")
	})

	t.Run("malformed json", func(t *testing.T) {
		w, _ := serve(r, http.MethodPatch, "/status", `{"status":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBindPayloadDecodeFailureNamesField(t *testing.T) {
	r := setup(t)
	r.PATCH("/status", func(c *gin.Context) {
		var req struct {
			Status int    `json:"status"`
			Note   string `json:"note"`
		}
		if !bindPayload(c, validation.UserStatus, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w, env := serve(r, http.MethodPatch, "/status", `{"status":"suspended","note":42}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"Invalid value"}, env.Errors["status"])
	assert.Equal(t, []string{"Invalid value"}, env.Errors["note"])
	assert.NotContains(t, env.Errors, "_")
	assert.NotContains(t, w.Body.String(), "json:")
}

func TestBindPayloadNestedPrefixesFields(t *testing.T) {
	r := setup(t)
	r.POST("/franchisees", func(c *gin.Context) {
		if !bindPayloadNested(c, validation.FranchiseeProvision, nil, map[string]validation.Key{
			"unit": validation.FranchiseeUnit,
		}) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	body := `{"name":"Pat","email":"pat@example.test","password":"password123","password_confirmation":"password123","unit":{"city":"Springfield"}}`
	w, env := serve(r, http.MethodPost, "/franchisees", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "unit.franchise_id")
	assert.Contains(t, env.Errors, "unit.unit_name")
	assert.NotContains(t, env.Errors, "unit.city")
	assert.NotContains(t, env.Errors, "email")
}

func TestParseID(t *testing.T) {
	r := setup(t)
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	id := uuid.New()
	w, _ := serve(r, http.MethodGet, "/things/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w, _ = serve(r, http.MethodGet, "/things/42", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrincipalDefaultsToAnonymous(t *testing.T) {
	r := setup(t)
	admin := scope.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	var seen []scope.Principal
	r.GET("/anon", func(c *gin.Context) { seen = append(seen, principal(c)) })
	r.GET("/auth", func(c *gin.Context) {
		c.Set(middleware.ContextPrincipal, admin)
		seen = append(seen, principal(c))
	})

	serve(r, http.MethodGet, "/anon", "")
	serve(r, http.MethodGet, "/auth", "")
	require.Len(t, seen, 2)
	assert.Equal(t, scope.Principal{}, seen[0])
	assert.Equal(t, admin, seen[1])
}

func TestGetOption(t *testing.T) {
	r := setup(t)
	r.GET("/options/:name", GetOption)

	w, _ := serve(r, http.MethodGet, "/options/"+models.OptUserRoles, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"franchisor"`)

	w, _ = serve(r, http.MethodGet, "/options/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
