package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"
	"github.com/google/uuid"

	"github.com/kova98/nearmatch.api/config"
	"github.com/kova98/nearmatch.api/data"
)

// AuthCookie carries a raw access token for clients that cannot set the
// Authorization header.
const AuthCookie = "auth"

type AuthHandler struct {
	keycloak *gocloak.GoCloak
	realm    string
}

func NewAuthHandler(keycloak *gocloak.GoCloak) *AuthHandler {
	return &AuthHandler{
		keycloak: keycloak,
		realm:    config.Config.KeycloakRealm,
	}
}

// HasCredentials reports whether the request carries a token at all.
func HasCredentials(r *http.Request) bool {
	return r.Header.Get("Authorization") != "" || cookieToken(r) != ""
}

// GetUser resolves the Keycloak user behind the request. The Authorization
// header takes precedence over the auth cookie.
func (h *AuthHandler) GetUser(r *http.Request) Result {
	var token string
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return Unauthorized("Invalid authorization header format")
		}
		token = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie := cookieToken(r); cookie != "" {
		token = cookie
	} else {
		return Unauthorized("Missing authorization header")
	}

	res := h.getUserInfo(r.Context(), token)
	if res.Code != http.StatusOK {
		return res
	}
	userInfo := res.Body.(gocloak.UserInfo)

	// If preferred_username is empty, use the part before the @ in the email
	email := gocloak.PString(userInfo.Email)
	name := gocloak.PString(userInfo.PreferredUsername)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	id, err := uuid.Parse(gocloak.PString(userInfo.Sub))
	if err != nil {
		slog.Error("Failed to parse user ID from Keycloak", "sub", gocloak.PString(userInfo.Sub), "error", err)
		return InternalError(err, "Failed to parse user ID from Keycloak")
	}

	return Ok(data.User{
		ID:          id,
		Name:        name,
		DisplayName: gocloak.PString(userInfo.Name),
		Email:       email,
		Avatar:      gocloak.PString(userInfo.Picture),
	})
}

func (h *AuthHandler) getUserInfo(ctx context.Context, token string) Result {
	// Validate the token
	_, _, err := h.keycloak.DecodeAccessToken(ctx, token, h.realm)
	if err != nil {
		return Unauthorized("Invalid token")
	}

	userInfo, err := h.keycloak.GetUserInfo(ctx, token, h.realm)
	if err != nil {
		return InternalError(err, "Failed to get user info")
	}

	if userInfo == nil {
		return Unauthorized("User not found")
	}

	return Ok(*userInfo)
}

func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
