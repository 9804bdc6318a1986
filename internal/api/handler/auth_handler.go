package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/service"
)

const msgLoggedIn = "User logged successfully"

type AuthHandler struct {
	sessions      *service.SessionManager
	tokens        *middleware.Tokens
	secureCookies bool
}

func NewAuthHandler(sessions *service.SessionManager, tokens *middleware.Tokens, secureCookies bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginEnvelope struct {
	envelope
	User        *domain.User        `json:"user"`
	Permissions []domain.Permission `json:"permissions"`
	Token       string              `json:"token,omitempty"`
}

type loginPage struct {
	Notices []string `json:"notices"`
	Error   string   `json:"error,omitempty"`
}

// LoginPage renders the login screen with any notices queued for the client,
// such as the session expiry message.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginPage
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	p := loginPage{Notices: []string{}}
	if client := middleware.ClientFrom(c); client != nil {
		if notices := client.DrainNotices(); len(notices) > 0 {
			p.Notices = notices
		}
		p.Error = client.Store().Err()
		if !client.Store().IsAuthenticated(c.Request().Context()) {
			h.sessions.Forget(client.ID)
		}
	}
	return render(c, http.StatusOK, p)
}

// Login authenticates the client and hands back the token carrying its session id.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginEnvelope
// @Failure      400   {object}  envelope
// @Failure      403   {object}  loginEnvelope
// @Failure      404   {object}  loginEnvelope
// @Failure      503   {object}  loginEnvelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	client := middleware.ClientFrom(c)
	fresh := client == nil
	if fresh {
		client = h.sessions.Open(h.sessions.NewClientID())
	}

	if err := client.Store().Login(ctx, req.Email, req.Password); err != nil {
		if fresh {
			h.sessions.Forget(client.ID)
		}
		return respondFailure(c, err, &loginEnvelope{})
	}

	data := client.Store().AuthenticatedUserData(ctx)
	if data == nil {
		return respondFailure(c, domain.NewAPIError(domain.ErrUnexpected, "Session could not be read back"), &loginEnvelope{})
	}

	token, exp, err := h.tokens.Issue(client.ID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginEnvelope{
		envelope:    envelope{IsSuccess: true, Message: msgLoggedIn},
		User:        &data.User,
		Permissions: data.Permissions,
		Token:       token,
	})
}

// Logout ends the client's session and clears its cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if client := middleware.ClientFrom(c); client != nil {
		if err := client.Store().Logout(c.Request().Context()); err != nil {
			return err
		}
		h.sessions.Forget(client.ID)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, envelope{IsSuccess: true, Message: "Logged out"})
}
