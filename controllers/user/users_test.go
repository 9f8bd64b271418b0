package userControllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Service{},
		&models.Package{}, &models.CartLine{}, &models.Order{}, &models.OrderLine{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: string(hash), Name: "Test", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// testRouter injects a fixed identity the way the auth middleware would.
func testRouter(db *gorm.DB, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	})
	r.GET("/usuarios/perfil", GetProfile(db))
	r.PUT("/usuarios/perfil", UpdateProfile(db))
	r.PUT("/usuarios/perfil/password", ChangePassword(db))
	r.GET("/usuarios", GetAllUsers(db))
	r.PUT("/usuarios/:id", AdminUpdateUser(db))
	r.DELETE("/usuarios/:id", AdminDeleteUser(db))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfileNeverExposesHash(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ana@test.com", "secreta1", models.RoleUser)
	r := testRouter(db, user.ID, models.RoleUser)

	w := doJSON(r, http.MethodGet, "/usuarios/perfil", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@test.com")
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), user.PasswordHash)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ana@test.com", "secreta1", models.RoleUser)
	require.NoError(t, db.Model(&user).Update("country", "Colombia").Error)
	r := testRouter(db, user.ID, models.RoleUser)

	w := doJSON(r, http.MethodPut, "/usuarios/perfil", `{"celular":"3001234567"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, "3001234567", got.Phone)
	// Omitted fields are untouched.
	assert.Equal(t, "Colombia", got.Country)
	assert.Equal(t, "Test", got.Name)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ana@test.com", "secreta1", models.RoleUser)
	r := testRouter(db, user.ID, models.RoleUser)

	t.Run("wrong current password", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/usuarios/perfil/password",
			`{"password_actual":"equivocada","password_nueva":"nueva123"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/usuarios/perfil/password",
			`{"password_actual":"secreta1","password_nueva":"corta"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "password_nueva")
	})

	t.Run("success rehashes", func(t *testing.T) {
		w := doJSON(r, http.MethodPut, "/usuarios/perfil/password",
			`{"password_actual":"secreta1","password_nueva":"nueva123"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.User
		require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("nueva123")))
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("secreta1")))
	})
}

func TestAdminUpdateUserRole(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test.com", "secreta1", models.RoleAdmin)
	user := seedUser(t, db, "ana@test.com", "secreta1", models.RoleUser)
	r := testRouter(db, admin.ID, models.RoleAdmin)

	w := doJSON(r, http.MethodPut, "/usuarios/"+user.ID, `{"rol":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleAdmin, got.Role)

	w = doJSON(r, http.MethodPut, "/usuarios/"+user.ID, `{"rol":"superadmin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rol")
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test.com", "secreta1", models.RoleAdmin)
	r := testRouter(db, admin.ID, models.RoleAdmin)

	w := doJSON(r, http.MethodDelete, "/usuarios/"+admin.ID, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminDeleteUserRemovesCart(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test.com", "secreta1", models.RoleAdmin)
	user := seedUser(t, db, "ana@test.com", "secreta1", models.RoleUser)

	cat := models.Category{Name: "Bebidas", Slug: "bebidas"}
	require.NoError(t, db.Create(&cat).Error)
	svc := models.Service{CategoryID: cat.ID, Name: "Café", Slug: "cafe"}
	require.NoError(t, db.Create(&svc).Error)
	pkg := models.Package{ServiceID: svc.ID, Name: "P1", Quantity: 1, Price: 100}
	require.NoError(t, db.Create(&pkg).Error)
	require.NoError(t, db.Create(&models.CartLine{UserID: user.ID, PackageID: pkg.ID, Quantity: 2}).Error)

	// Orders outlive the account.
	order := models.Order{UserID: user.ID, Total: 100, CustomerName: "Ana", CustomerEmail: "ana@test.com", Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	r := testRouter(db, admin.ID, models.RoleAdmin)
	w := doJSON(r, http.MethodDelete, "/usuarios/"+user.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var cartCount, orderCount int64
	require.NoError(t, db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount).Error)
	assert.Zero(t, cartCount)
	assert.EqualValues(t, 1, orderCount)
}

func TestAdminDeleteUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test.com", "secreta1", models.RoleAdmin)
	r := testRouter(db, admin.ID, models.RoleAdmin)

	w := doJSON(r, http.MethodDelete, "/usuarios/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
