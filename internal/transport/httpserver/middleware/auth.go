package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"staff-console-go/internal/config"
	"staff-console-go/pkg/logger"
)

var errInvalidToken = errors.New("invalid token")

// Operator is the signed-in staff member behind a request.
type Operator struct {
	ID    string
	Email string
}

// Label names the operator in logs and notifications: the email when the
// identity provider returned one, the id otherwise.
func (o Operator) Label() string {
	if o.Email != "" {
		return o.Email
	}
	return o.ID
}

type operatorKey struct{}

type SupabaseAuth struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	log      logger.Logger
	skipAuth bool
	mock     Operator
}

// supabaseUser is the subset of GET /auth/v1/user the console reads.
type supabaseUser struct {
	ID    string `json:"id"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

func NewSupabaseAuth(cfg config.SupabaseConfig, log logger.Logger) *SupabaseAuth {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	return &SupabaseAuth{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.PublishableKey,
		client:   &http.Client{Timeout: timeout},
		log:      log,
		skipAuth: cfg.SkipAuth,
		mock: Operator{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
		},
	}
}

// Middleware resolves the operator from the bearer token and tags the
// request logger with it. Requests without a valid token get 401.
func (a *SupabaseAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, status, err := a.authenticate(r)
		if err != nil {
			if status == http.StatusUnauthorized {
				writeError(w, status, "invalid_token", "invalid token")
			} else {
				writeError(w, status, "auth_not_configured", err.Error())
			}
			return
		}

		ctx := WithOperator(r.Context(), operator)
		reqLog := logger.FromContext(ctx, a.log).With("operator_id", operator.ID)
		if operator.Email != "" {
			reqLog = reqLog.With("operator", operator.Email)
		}
		next.ServeHTTP(w, r.WithContext(logger.IntoContext(ctx, reqLog)))
	})
}

func (a *SupabaseAuth) authenticate(r *http.Request) (Operator, int, error) {
	if a.skipAuth {
		if a.mock.ID == "" {
			return Operator{}, http.StatusInternalServerError, errors.New("auth mock user id not configured")
		}
		return a.mock, http.StatusOK, nil
	}
	if a.baseURL == "" || a.apiKey == "" {
		return Operator{}, http.StatusInternalServerError, errors.New("auth not configured")
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return Operator{}, http.StatusUnauthorized, errInvalidToken
	}
	operator, err := a.lookup(r.Context(), token)
	if err != nil {
		if !errors.Is(err, errInvalidToken) {
			a.log.InternalError("auth.verify: supabase request failed", err)
		}
		return Operator{}, http.StatusUnauthorized, errInvalidToken
	}
	return operator, http.StatusOK, nil
}

// lookup asks Supabase who owns token.
func (a *SupabaseAuth) lookup(ctx context.Context, token string) (Operator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Operator{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return Operator{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Operator{}, errInvalidToken
	case resp.StatusCode != http.StatusOK:
		return Operator{}, fmt.Errorf("auth lookup returned %d", resp.StatusCode)
	}

	var payload supabaseUser
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Operator{}, fmt.Errorf("decode auth user: %w", err)
	}
	id := payload.ID
	if id == "" {
		id = payload.Sub
	}
	if id == "" {
		return Operator{}, errInvalidToken
	}
	return Operator{ID: id, Email: payload.Email}, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithOperator(ctx context.Context, operator Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

func OperatorFromContext(ctx context.Context) (Operator, bool) {
	operator, ok := ctx.Value(operatorKey{}).(Operator)
	if !ok || operator.ID == "" {
		return Operator{}, false
	}
	return operator, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
