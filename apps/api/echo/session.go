package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/services/metrics"
)

type authApi struct {
	sess    *session.Manager
	metrics *metrics.Metrics
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authApi{sess: opts.Session, metrics: opts.Metrics}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/session", api.sessionState)
	ag.PUT("/password", api.changePassword, authMiddleware(opts.Session))
}

type (
	loginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	changePasswordRequest struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}
)

func (api *authApi) login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	if err := api.sess.Login(req.Username, req.Password); err != nil {
		api.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return ctx.JSON(http.StatusBadRequest, api.sess.State())
	}
	api.metrics.LoginAttempts.WithLabelValues("success").Inc()
	return ctx.JSON(http.StatusOK, api.sess.State())
}

func (api *authApi) logout(ctx echo.Context) error {
	api.sess.Logout()
	return ctx.JSON(http.StatusOK, api.sess.State())
}

func (api *authApi) sessionState(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.sess.State())
}

func (api *authApi) changePassword(ctx echo.Context) error {
	var req changePasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	if err := api.sess.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.sess.State())
}
