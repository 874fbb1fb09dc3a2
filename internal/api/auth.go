package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"wgapi/internal/models"
)

// TokenAuth — проверка заголовка X-API-Token на всех peer-ручках.
// health и metrics регистрируются мимо этого middleware.
// Контракт ответа исторический: 403 и {"detail": ...}.
func TokenAuth(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Token") != token {
				models.WriteJSON(w, http.StatusForbidden, map[string]string{
					"detail": "Invalid authentication token",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
