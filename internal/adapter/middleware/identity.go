package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	accountKey      = "account"
	headerAccountID = "Ax-Account-Id"
)

var errBadToken = errors.New("invalid bearer token")

// Identity resolves the calling account. With a secret, the account is the
// "sub" claim of an HS256 bearer token; without one (development), it is
// taken from the Ax-Account-Id header. Requests without identity pass
// through unauthenticated; handlers that need an account reject them.
func Identity(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var account string
			if secret != "" {
				raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
				if ok {
					sub, err := subject(raw, key)
					if err != nil {
						return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
					}
					account = sub
				}
			} else {
				account = strings.TrimSpace(c.Request().Header.Get(headerAccountID))
			}
			if account != "" {
				if !reAccount.MatchString(account) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid account identity"})
				}
				c.Set(accountKey, account)
			}
			return next(c)
		}
	}
}

// AccountFrom returns the account resolved by Identity, or "".
func AccountFrom(c echo.Context) string {
	s, _ := c.Get(accountKey).(string)
	return s
}

func bearer(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func subject(raw string, key []byte) (string, error) {
	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return "", errBadToken
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errBadToken
	}
	return sub, nil
}
