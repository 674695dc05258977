package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"creative-tools-api/internal/domain"
	apperrors "creative-tools-api/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// maxBodyBytes bounds JSON request bodies; media arrives inline as data URIs.
const maxBodyBytes = 20 << 20

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}

// writeAppError maps err to its HTTP status. Causes of server-side failures are
// logged and never sent to the client.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	appErr := apperrors.FromDomain(err)
	if appErr.StatusCode >= http.StatusInternalServerError && logger != nil {
		logger.Error("Request failed", err, "status", appErr.StatusCode, "type", string(appErr.Type))
	}
	writeJSON(w, appErr.StatusCode, errorBody{
		Error:      appErr.Message,
		Details:    appErr.Details,
		UpgradeURL: appErr.UpgradeURL,
	})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.NewValidationError("Request body too large")
		}
		return apperrors.NewValidationError("Invalid request body")
	}
	return nil
}

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := GetUserFromContext(r)
	if !ok || user == nil || user.ID == "" {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return "", false
	}
	return user.ID, true
}
