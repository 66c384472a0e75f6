package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/config"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(cfg config.JWTConfig) *JWT {
	return &JWT{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// GenerateToken signs a token whose subject is the user id and which carries the user's role.
func (j *JWT) GenerateToken(userID int64, role models.Role) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWT) ValidateToken(tokenString string) (Principal, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	// jwt/v4 treats a missing exp as valid; every token issued here has one
	if _, ok := claims["exp"]; !ok {
		return Principal{}, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return Principal{}, fmt.Errorf("%w: bad role", ErrInvalidToken)
	}

	return Principal{UserID: userID, Role: models.Role(role)}, nil
}
