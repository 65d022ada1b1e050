package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// InvalidateOnWrite calls purge after every successful write request.
func InvalidateOnWrite(purge func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if status := ww.Status(); status >= 200 && status < 300 {
				purge()
			}
		})
	}
}
