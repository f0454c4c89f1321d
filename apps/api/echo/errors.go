package echoapi

import (
	"fmt"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
)

var (
	errHTTPForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// appHTTPErrorHandler centralizes API error responses so handlers can
// simply return domain errors.
func appHTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var resErr error
	switch err := pkgerrors.Cause(err).(type) {
	case *echo.HTTPError:
		if err.Internal != nil {
			if herr, ok := err.Internal.(*echo.HTTPError); ok {
				resErr = ctx.JSON(herr.Code, errorResponse{Error: http.StatusText(herr.Code)})
				break
			}
		}
		msg, ok := err.Message.(string)
		if !ok {
			msg = fmt.Sprintf("%v", err.Message)
		}
		resErr = ctx.JSON(err.Code, errorResponse{Error: msg})
	case validator.ValidationErrors:
		fields := make(map[string]string, len(err))
		for field, msg := range err.Translate(core.Translator) {
			fields[field] = msg
		}
		resErr = ctx.JSON(http.StatusBadRequest, validationErrorResponse{Error: "validation error", Fields: fields})
	case *core.ValidationError:
		fields := make(map[string]string, len(err.Fields))
		for _, f := range err.Fields {
			fields[f.Field] = f.Error
		}
		resErr = ctx.JSON(http.StatusBadRequest, validationErrorResponse{Error: err.Error(), Fields: fields})
	default:
		switch {
		case err == school.ErrNotFound:
			resErr = ctx.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case err == school.ErrUsernameExists:
			resErr = ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case err == session.ErrUnauthenticated:
			resErr = ctx.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case err == session.ErrInvalidCredential:
			resErr = ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			ctx.Logger().Error(err)
			resErr = ctx.JSON(http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		}
	}

	if resErr != nil {
		ctx.Logger().Error(resErr)
	}
}
