package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/utils"
)

const testSecret = "test-secret"

// serve builds a tiny app with the auth chain and fires one request at it.
func serve(t *testing.T, token string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	mws := []echo.MiddlewareFunc{JWTAuth(testSecret)}
	if len(roles) > 0 {
		mws = append(mws, RequireRole(roles...))
	}
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"userId": c.Get("user_id"), "role": c.Get("role")})
	}, mws...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := serve(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec := serve(t, "not-a-jwt")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("garbage token: expected 403, got %d", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 1, "guest", 15)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec := serve(t, tok.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong secret: expected 403, got %d", rec.Code)
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 1, "guest", -5)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec := serve(t, tok.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expired token: expected 403, got %d", rec.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "guest", 15)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec := serve(t, tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	guestTok, err := utils.NewAccessToken(testSecret, 42, "guest", 15)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	hostTok, err := utils.NewAccessToken(testSecret, 43, "host", 15)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// a guest token passes a guest-only chain
	if rec := serve(t, guestTok.Token, "guest"); rec.Code != http.StatusOK {
		t.Fatalf("guest on guest route: expected 200, got %d", rec.Code)
	}
	// a host token is rejected by a guest-only chain
	if rec := serve(t, hostTok.Token, "guest"); rec.Code != http.StatusForbidden {
		t.Fatalf("host on guest route: expected 403, got %d", rec.Code)
	}
	// either role passes a mixed chain
	if rec := serve(t, hostTok.Token, "guest", "host"); rec.Code != http.StatusOK {
		t.Fatalf("host on mixed route: expected 200, got %d", rec.Code)
	}
}

// Expired tokens must fail fast rather than after clock skew windows; the
// library enforces exp on parse, so a token one minute past expiry is dead.
func TestTokenExpiryIsStrict(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 1, "guest", 0)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if rec := serve(t, tok.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("just-expired token: expected 403, got %d", rec.Code)
	}
}
