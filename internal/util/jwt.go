package util

import (
	"errors"
	"time"

	"fanjoy-backend/config"

	"github.com/dgrijalva/jwt-go"
)

func GenerateToken(creatorID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"creator_id": creatorID,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		creatorID, ok := claims["creator_id"].(string)
		if !ok {
			return "", errors.New("无效的创作者ID")
		}
		return creatorID, nil
	}

	return "", errors.New("无效的令牌")
}

func RefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		creatorID, ok := claims["creator_id"].(string)
		if !ok {
			return "", errors.New("invalid token")
		}
		return GenerateToken(creatorID)
	}

	return "", errors.New("invalid token")
}
