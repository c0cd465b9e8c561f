package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclubs/campus-api/internal/api/middleware"
	"github.com/uniclubs/campus-api/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func newAuthedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.NewAuthenticator(testSigningKey).VerifyJWT())
	router.GET("/whoami", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"userID": ctx.GetUint(middleware.ContextKeyUserID)})
	})

	return router
}

func TestVerifyJWT_ValidToken(t *testing.T) {
	router := newAuthedRouter(t)

	token, err := jwthelper.GenerateToken(testSigningKey, 42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"userID":42`)
}

func TestVerifyJWT_Rejections(t *testing.T) {
	router := newAuthedRouter(t)

	wrongKeyToken, err := jwthelper.GenerateToken("another-key", 42)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer token", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "wrong signing key", header: "Bearer " + wrongKeyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}
