package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends a key in a header or query parameter.
	AuthAPIKey
	// AuthCustom runs a request modifier.
	AuthCustom
)

const defaultAPIKeyName = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token.
	Token string
	// Username and Password are the basic auth credentials.
	Username string
	Password string
	// Key is the API key value.
	Key string
	// InQuery places the API key in the query string instead of a header.
	InQuery bool
	// Name is the header or query parameter name. Defaults to X-API-Key.
	Name string
	// Modify is the custom request modifier.
	Modify func(*http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth sends key in the named header, or X-API-Key when name is empty.
func APIKeyAuth(key, name string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: name}
}

// APIKeyQueryAuth sends key as the named query parameter.
func APIKeyQueryAuth(key, name string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: name, InQuery: true}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Modify: fn}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyName
		}
		if !a.InQuery {
			req.Header.Set(name, a.Key)
			return
		}
		q := req.URL.Query()
		q.Set(name, a.Key)
		req.URL.RawQuery = q.Encode()
	case AuthCustom:
		if a.Modify != nil {
			a.Modify(req)
		}
	}
}
