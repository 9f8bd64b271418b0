package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/middleware"
	"github.com/juanctr3/servicios-app/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/usuarios/registro", RegisterHandler(db))
	r.POST("/usuarios/login", LoginHandler(db))
	r.GET("/protegida", middleware.RequireAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("email"),
			"rol":     c.GetString("role"),
		})
	})
	r.GET("/solo-admin", middleware.RequireAuth, middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, email string) {
	t.Helper()
	body := `{"email":"` + email + `","password":"secreta1","nombre":"Ana"}`
	w := doJSON(r, http.MethodPost, "/usuarios/registro", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
}

func login(t *testing.T, r *gin.Engine, email, password string) (int, string) {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	w := doJSON(r, http.MethodPost, "/usuarios/login", body, "")
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	register(t, r, "ana@test.com")

	code, token := login(t, r, "ana@test.com", "secreta1")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, token)

	// The token carries the identity through the middleware.
	w := doJSON(r, http.MethodGet, "/protegida", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var claims struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Rol    string `json:"rol"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claims))
	assert.Equal(t, "ana@test.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Rol)
	assert.NotEmpty(t, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	register(t, r, "ana@test.com")

	w := doJSON(r, http.MethodPost, "/usuarios/registro",
		`{"email":"ana@test.com","password":"otra1234","nombre":"Otra Ana"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter(db)

	cases := []string{
		`{"password":"secreta1","nombre":"Ana"}`,
		`{"email":"no-es-email","password":"secreta1","nombre":"Ana"}`,
		`{"email":"ana@test.com","nombre":"Ana"}`,
		`{"email":"ana@test.com","password":"secreta1"}`,
	}
	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/usuarios/registro", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	register(t, r, "ana@test.com")

	wrongPassword := doJSON(r, http.MethodPost, "/usuarios/login",
		`{"email":"ana@test.com","password":"equivocada"}`, "")
	unknownEmail := doJSON(r, http.MethodPost, "/usuarios/login",
		`{"email":"nadie@test.com","password":"secreta1"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical bodies, so the response never reveals whether the email exists.
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestProtectedRouteRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	w := doJSON(r, http.MethodGet, "/protegida", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/protegida", "", "no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	register(t, r, "ana@test.com")
	_, token := login(t, r, "ana@test.com", "secreta1")
	require.NotEmpty(t, token)

	t.Setenv("JWT_SECRET", "otra-clave")
	w := doJSON(r, http.MethodGet, "/protegida", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleBlocksNonAdmins(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	db := setupTestDB(t)
	r := testRouter(db)

	register(t, r, "ana@test.com")
	_, userToken := login(t, r, "ana@test.com", "secreta1")

	w := doJSON(r, http.MethodGet, "/solo-admin", "", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Promote and log in again; the new token carries the admin role.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ana@test.com").Update("role", models.RoleAdmin).Error)
	_, adminToken := login(t, r, "ana@test.com", "secreta1")
	w = doJSON(r, http.MethodGet, "/solo-admin", "", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
