package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"institute_backend/internals/constants"
)

const secret = "unit-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/who",
		AuthJWT(AuthJWTOpts{Secret: secret, AllowCookieFallback: true}),
		OnlyRoles("nope", allowed...),
		func(c *fiber.Ctx) error {
			return c.SendString(c.Locals(LocUserID).(string) + "|" + c.Locals(LocRole).(string))
		},
	)
	return app
}

func call(t *testing.T, app *fiber.App, tok string, cookie bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if tok != "" {
		if cookie {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
		} else {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthJWT_ResolvesUserAndRole(t *testing.T) {
	app := newApp(constants.StaffRoles...)
	uid := uuid.New()

	tok := sign(t, jwt.MapClaims{"sub": uid.String(), "roles_global": []string{"student", "teacher"}, "exp": time.Now().Add(time.Hour).Unix()}, secret)
	code, body := call(t, app, tok, false)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uid.String()+"|teacher", body)

	// cookie fallback
	code, _ = call(t, app, tok, true)
	assert.Equal(t, http.StatusOK, code)
}

func TestAuthJWT_Rejects(t *testing.T) {
	app := newApp(constants.StaffRoles...)
	uid := uuid.New().String()

	code, _ := call(t, app, "", false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, app, sign(t, jwt.MapClaims{"id": uid, "role": "staff"}, "other-secret"), false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, app, sign(t, jwt.MapClaims{"id": uid, "role": "staff", "exp": time.Now().Add(-time.Minute).Unix()}, secret), false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, app, sign(t, jwt.MapClaims{"id": "not-a-uuid", "role": "staff"}, secret), false)
	assert.Equal(t, http.StatusUnauthorized, code)

	// role tanpa hak
	code, _ = call(t, app, sign(t, jwt.MapClaims{"id": uid}, secret), false)
	assert.Equal(t, http.StatusForbidden, code)
}
