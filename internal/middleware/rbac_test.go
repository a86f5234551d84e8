package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bahtsul-masail/tashih-api/internal/models"
)

func performWithRole(t *testing.T, role models.UserRole, required ...models.UserRole) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: role})

	handled := false
	RequireRoles(required...)(c)
	if !c.IsAborted() {
		handled = true
		c.Status(http.StatusOK)
	}
	if handled {
		return http.StatusOK
	}
	return rec.Code
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole(t, models.RoleMushoheh, models.RoleMushoheh))
}

func TestRequireRolesAdminPassesAllGates(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole(t, models.RoleAdmin, models.RoleMushoheh))
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, performWithRole(t, models.RoleAuthor, models.RoleMushoheh))
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)

	RequireRoles(models.RoleMushoheh)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
