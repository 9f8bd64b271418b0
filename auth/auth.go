package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

const tokenTTL = 7 * 24 * time.Hour

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"nombre" binding:"required"`
	Phone    string `json:"celular"`
	Country  string `json:"pais"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueJWT signs a 7-day token carrying the user's id, email and role.
func IssueJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// POST /usuarios/registro
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "campos requeridos faltantes"))
			return
		}

		var existing models.User
		err := db.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			apperrors.Respond(c, &apperrors.DuplicateEmailError{Email: input.Email})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.Storage("lookup user by email", err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("hash password", err))
			return
		}

		user := models.User{
			Email:        input.Email,
			PasswordHash: string(hash),
			Name:         input.Name,
			Phone:        input.Phone,
			Country:      input.Country,
			Role:         models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("create user", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"mensaje": "Usuario registrado correctamente",
			"usuario": gin.H{"id": user.ID, "email": user.Email, "nombre": user.Name},
		})
	}
}

// POST /usuarios/login
//
// Unknown email and wrong password return the same generic failure so
// the endpoint never reveals whether an email is registered.
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.NewValidation("", "email y contraseña requeridos"))
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.ErrInvalidCredentials)
				return
			}
			apperrors.Respond(c, apperrors.Storage("lookup user by email", err))
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			apperrors.Respond(c, apperrors.ErrInvalidCredentials)
			return
		}

		token, err := IssueJWT(&user)
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("sign token", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Login exitoso",
			"token":   token,
			"usuario": gin.H{
				"id":     user.ID,
				"email":  user.Email,
				"nombre": user.Name,
				"rol":    user.Role,
			},
		})
	}
}
