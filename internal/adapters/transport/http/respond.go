package http

import (
	nethttp "net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

// handleError translates the error taxonomy into the response envelope.
// Internal details never leak; the stack field exists only outside production.
func handleError(c *gin.Context, cfg *config.Config, err error) {
	_ = c.Error(err)

	status := nethttp.StatusInternalServerError
	msg := "internal server error"

	switch {
	case customErrors.IsInvalidArgument(err):
		status, msg = nethttp.StatusBadRequest, err.Error()
	case customErrors.IsMissingOldPassword(err), customErrors.IsIncorrectOldPassword(err):
		status, msg = nethttp.StatusBadRequest, err.Error()
	case customErrors.IsAlreadyExists(err):
		status, msg = nethttp.StatusBadRequest, "email already in use"
	case customErrors.IsInvalidCredentials(err):
		status, msg = nethttp.StatusUnauthorized, "invalid credentials"
	case customErrors.IsInvalidToken(err):
		status, msg = nethttp.StatusUnauthorized, err.Error()
	case customErrors.IsUnauthenticated(err):
		status, msg = nethttp.StatusUnauthorized, "unauthenticated"
	case customErrors.IsForbidden(err):
		status, msg = nethttp.StatusForbidden, "forbidden"
	case customErrors.IsNotFound(err):
		status, msg = nethttp.StatusNotFound, "not found"
	}

	body := gin.H{"success": false, "message": msg}
	if !cfg.IsProduction() {
		body["stack"] = err.Error() + "\n" + string(debug.Stack())
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, cfg *config.Config, err error) {
	handleError(c, cfg, customErrors.NewInvalidArgument(err.Error()))
}

func ok(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(nethttp.StatusOK, body)
}

func created(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(nethttp.StatusCreated, body)
}
