package service

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

const AccessExpirationHours = 10

type Token struct {
	AccessToken string `json:"access_token"`
}

type SignUpInput struct {
	Username      string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password      string `json:"password" validate:"required,min=6,max=64"`
	PasswordRetry string `json:"password_retry" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUp registers a new user and logs them in.
func SignUp(c *gin.Context) {
	var input SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	exists, err := models.CheckIfUserExistsByUsername(input.Username)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if exists {
		c.JSON(400, gin.H{"error": "username already taken"})
		return
	}

	user := models.User{
		Username: input.Username,
		Password: middleware.HashPassword(input.Password),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		logger.Error("Failed to create user: %v", err)
		c.Status(500)
		return
	}

	issueAccessToken(c, user.ID)
}

// Login checks credentials and returns an access token.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	user, err := models.GetUserWithPassword(input.Username)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid username or password"})
		return
	}

	if !middleware.ComparePasswords(user.Password, input.Password) {
		c.JSON(400, gin.H{"error": "invalid username or password"})
		return
	}

	issueAccessToken(c, user.ID)
}

func issueAccessToken(c *gin.Context, userID int64) {
	expiresAt := time.Now().Unix() + int64(AccessExpirationHours*60*60)

	access, err := middleware.TokenNew(middleware.JWTKey(), userID, expiresAt, middleware.TokenAccess)
	if err != nil {
		logger.Error("%v", err)
		c.AbortWithStatus(500)
		return
	}

	c.JSON(200, Token{AccessToken: access})
}

// GetMe returns the caller's profile and balance.
func GetMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	user, err := models.GetUserByID(userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, user)
}
