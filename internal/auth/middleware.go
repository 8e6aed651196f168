// internal/auth/middleware.go

package auth

import (
    "context"
    "net/http"
    "strings"

    "github.com/coha-app/coha-backend/internal/common/utils"
)

// Middleware provides authentication middleware
type Middleware struct {
    service Service
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(service Service) *Middleware {
    return &Middleware{
        service: service,
    }
}

// Authenticate is the main middleware function that protects routes.
// It verifies the JWT token and adds user information to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        // 1. Extract token from Authorization header
        token := m.extractToken(r)
        if token == "" {
            utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
            return
        }

        // 2. Validate token
        claims, err := m.service.ValidateToken(r.Context(), token)
        if err != nil {
            utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
            return
        }

        // 3. Add user information to request context
        // This lets handlers access caller identity without another database query
        ctx := context.WithValue(r.Context(), "userID", claims.UserID)
        ctx = context.WithValue(ctx, "email", claims.Email)

        // 4. Pass to the next handler with the updated context
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// OptionalAuthenticate is middleware for routes where auth is optional.
// It adds user context if a valid token is present, but doesn't fail if missing.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        token := m.extractToken(r)
        if token == "" {
            next.ServeHTTP(w, r)
            return
        }

        claims, err := m.service.ValidateToken(r.Context(), token)
        if err != nil {
            next.ServeHTTP(w, r)
            return
        }

        ctx := context.WithValue(r.Context(), "userID", claims.UserID)
        ctx = context.WithValue(ctx, "email", claims.Email)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// extractToken extracts the JWT token from the Authorization header.
// Supports "Bearer <token>" format.
func (m *Middleware) extractToken(r *http.Request) string {
    authHeader := r.Header.Get("Authorization")
    if authHeader == "" {
        return ""
    }

    parts := strings.Split(authHeader, " ")
    if len(parts) != 2 || parts[0] != "Bearer" {
        return ""
    }

    return parts[1]
}

// Helper functions for handlers to get user info from context

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
    userID, ok := ctx.Value("userID").(int64)
    return userID, ok
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
    email, ok := ctx.Value("email").(string)
    return email, ok
}
