package middleware

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey = "cart_session_id" // string

	SessionCookieName = "cart_session"
)

// カートは1ブラウザ＝1セッション。署名付きcookieでセッションIDを持ち回る。
// cookieが無い・壊れている場合は新しいセッションを発行する（エラーにはしない）。
func CartSession(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionIDFromCookie(c, cfg)

			if sid == "" {
				//新規セッションを発行してcookieに載せる
				sid = uuid.NewString()

				token, err := signSessionToken(cfg, sid)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}

				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   cfg.GoEnv == "prod",
					MaxAge:   int((30 * 24 * time.Hour).Seconds()),
				})
			}

			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// cookieのJWTを検証してセッションIDを取り出す。検証できなければ空文字。
func sessionIDFromCookie(c echo.Context, cfg config.Config) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	sid, ok := claims["sid"].(string)
	if !ok {
		return ""
	}
	return sid
}

func signSessionToken(cfg config.Config, sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(cfg.SessionSecret))
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
