package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type verificationClaims struct {
	OTPID string `json:"otp_id"`
	jwt.RegisteredClaims
}

// GenerateVerificationToken signs a short-lived receipt proving the holder
// verified the OTP sent to email.
func GenerateVerificationToken(secret, email string, otpID uuid.UUID, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := &verificationClaims{
		OTPID: otpID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseVerificationToken validates the token and returns the verified email
// and the OTP it was issued for.
func ParseVerificationToken(secret, tokenString string) (string, uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &verificationClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", uuid.Nil, err
	}

	if claims, ok := token.Claims.(*verificationClaims); ok && token.Valid {
		otpID, err := uuid.Parse(claims.OTPID)
		if err != nil {
			return "", uuid.Nil, err
		}
		return claims.Subject, otpID, nil
	}

	return "", uuid.Nil, jwt.ErrTokenInvalidClaims
}
