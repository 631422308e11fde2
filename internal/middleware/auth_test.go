package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, rol string, sucursalID *string, dur time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:     uuid.NewString(),
		Username:   "testuser",
		Rol:        rol,
		SucursalID: sucursalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(testSecret))
	r.GET("/protected", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "rol": claims.Rol})
	})
	r.GET("/admin", RequireRole(RolAdministrador), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SinToken(t *testing.T) {
	w := doGet(testRouter(), "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	tok := signToken(t, RolSucursal, nil, time.Hour)
	w := doGet(testRouter(), "/protected", tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	tok := signToken(t, RolSucursal, nil, -time.Second)
	w := doGet(testRouter(), "/protected", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := testRouter()

	w := doGet(r, "/admin", signToken(t, RolSucursal, nil, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, "/admin", signToken(t, RolAdministrador, nil, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPuedeVerSucursal(t *testing.T) {
	propia := uuid.NewString()
	ajena := uuid.NewString()

	admin := &JWTClaims{Rol: RolAdministrador}
	assert.True(t, admin.PuedeVerSucursal(propia))
	assert.True(t, admin.PuedeVerSucursal(ajena))

	operadora := &JWTClaims{Rol: RolSucursal, SucursalID: &propia}
	assert.True(t, operadora.PuedeVerSucursal(propia))
	assert.False(t, operadora.PuedeVerSucursal(ajena))

	sinSucursal := &JWTClaims{Rol: RolVisor}
	assert.False(t, sinSucursal.PuedeVerSucursal(propia))
}
