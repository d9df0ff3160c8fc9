package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type ClaimKey string

type UserKey struct{}

func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				log.Printf("Middleware: missing or invalid Authorization header")
				utils.WriteJSONError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})

			if err != nil || !token.Valid {
				log.Printf("Middleware: invalid token: %v", err)
				utils.WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				log.Printf("Middleware: invalid claims")
				utils.WriteJSONError(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			exp, ok := claims["exp"].(float64)
			if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
				log.Printf("Middleware: token expired or invalid exp claim")
				utils.WriteJSONError(w, http.StatusUnauthorized, "Token expired or invalid")
				return
			}

			userIDFloat, ok := claims["user_id"].(float64)
			if !ok {
				log.Printf("Middleware: user_id not found in claims")
				utils.WriteJSONError(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}
			isAdmin, _ := claims["is_admin"].(bool)

			userData := map[ClaimKey]interface{}{
				ClaimKey("id"):       int64(userIDFloat),
				ClaimKey("is_admin"): isAdmin,
			}
			ctx := context.WithValue(r.Context(), UserKey{}, userData)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly guards admin routes; it must be mounted inside AuthMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) {
			log.Printf("Middleware: admin access denied")
			utils.WriteJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserID(r *http.Request) (int64, bool) {
	userData, ok := r.Context().Value(UserKey{}).(map[ClaimKey]interface{})
	if !ok {
		return 0, false
	}
	userID, ok := userData[ClaimKey("id")].(int64)
	return userID, ok
}

func IsAdmin(r *http.Request) bool {
	userData, ok := r.Context().Value(UserKey{}).(map[ClaimKey]interface{})
	if !ok {
		return false
	}
	isAdmin, _ := userData[ClaimKey("is_admin")].(bool)
	return isAdmin
}
