// internal/middleware/middleware_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) Revoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize())
	utils.SetJWTSecret("middleware-test-secret")
	return gin.New()
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, id uuid.UUID, role models.UserRole) (string, string) {
	t.Helper()
	token, err := utils.GenerateJWT(id, "someone@example.test", string(role), 1)
	require.NoError(t, err)
	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	return "Bearer " + token, claims.ID
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(t)
	userID := uuid.New()
	header, jti := bearer(t, userID, models.RoleFranchisor)

	var seen scope.Principal
	handler := func(c *gin.Context) {
		p, _ := c.Get(ContextPrincipal)
		seen = p.(scope.Principal)
		c.Status(http.StatusNoContent)
	}
	r.GET("/open", AuthRequired(stubRevocations{}), handler)
	r.GET("/revoked", AuthRequired(stubRevocations{revoked: map[string]bool{jti: true}}), handler)
	r.GET("/outage", AuthRequired(stubRevocations{err: errors.New("redis down")}), handler)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/open", nil).Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		w := get(r, "/open", map[string]string{"Authorization": "Bearer nonsense"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets principal", func(t *testing.T) {
		w := get(r, "/open", map[string]string{"Authorization": header})
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, scope.Principal{UserID: userID, Role: models.RoleFranchisor}, seen)
	})

	t.Run("revoked token", func(t *testing.T) {
		w := get(r, "/revoked", map[string]string{"Authorization": header})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("denylist outage fails open", func(t *testing.T) {
		w := get(r, "/outage", map[string]string{"Authorization": header})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	r := newEngine(t)
	brokerHeader, _ := bearer(t, uuid.New(), models.RoleBroker)
	adminHeader, _ := bearer(t, uuid.New(), models.RoleAdmin)

	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/admin", AuthRequired(nil), AdminRequired(), ok)
	r.GET("/leads", AuthRequired(nil), RequireRoles(models.RoleAdmin, models.RoleBroker), ok)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", map[string]string{"Authorization": brokerHeader}).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", map[string]string{"Authorization": adminHeader}).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/leads", map[string]string{"Authorization": brokerHeader}).Code)
}

func TestNormalizeLang(t *testing.T) {
	cases := map[string]string{
		"":                        "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh":                      "zh_TW",
		"en-GB":                   "en",
		"fr-FR,fr;q=0.9":          "en",
		" en-US ;q=1":             "en",
		"zh-Hant":                 "zh_TW",
	}
	for header, want := range cases {
		assert.Equal(t, want, normalizeLang(header, "en"), header)
	}
}

func TestI18nQueryOverridesHeader(t *testing.T) {
	r := newEngine(t)
	r.Use(I18nMiddleware("en"))
	r.GET("/lang", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	w := get(r, "/lang?lang=zh-TW", map[string]string{"Accept-Language": "en-US"})
	assert.Equal(t, "zh_TW", w.Body.String())

	w = get(r, "/lang", map[string]string{"Accept-Language": "zh-TW"})
	assert.Equal(t, "zh_TW", w.Body.String())
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	r := newEngine(t)
	limiter := NewRateLimiter(rate.Every(1<<40), 2)
	r.GET("/limited", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(r, "/limited", nil).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/limited", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/limited", nil).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newEngine(t)
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := get(r, "/id", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	w = get(r, "/id", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestExtractResource(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "leads", extractResourceType("/api/v1/leads/"+id.String()+"/convert"))
	assert.Equal(t, "audit-logs", extractResourceType("/api/v1/admin/audit-logs"))
	assert.Equal(t, "unknown", extractResourceType("/api/v1"))

	got := extractResourceID("/api/v1/leads/" + id.String() + "/convert")
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
	assert.Nil(t, extractResourceID("/api/v1/leads"))
}
