package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edu_exam_backend/internal/config"
	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	r := gin.New()
	r.GET("/p", AuthMiddleware(cfg), RoleMiddleware(roles...), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	return r
}

func tokenFor(t *testing.T, secret string, role model.UserRole) string {
	u := &model.User{Email: "a@b.c", Role: role}
	u.ID = 7
	tok, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthAndRole(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret"}}
	r := newRouter(cfg, model.Teacher)

	do := func(header string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage"))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+tokenFor(t, "other", model.Teacher)))
	assert.Equal(t, http.StatusForbidden, do("Bearer "+tokenFor(t, "s3cret", model.Student)))
	assert.Equal(t, http.StatusOK, do("Bearer "+tokenFor(t, "s3cret", model.Teacher)))
	assert.Equal(t, http.StatusOK, do("Bearer "+tokenFor(t, "s3cret", model.Admin)))
}
