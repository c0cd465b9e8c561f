package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/uniclubs/campus-api/internal/api/handler/v1/response"
	"github.com/uniclubs/campus-api/internal/api/middleware"
)

var errMissingUserID = errors.New("user ID missing from request context")

// getUserID reads the authenticated user's ID placed by the JWT middleware.
func getUserID(ctx *gin.Context) (uint, *response.Err) {
	raw, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return 0, response.ErrUnauthorized(errMissingUserID.Error())
	}

	userID, ok := raw.(uint)
	if !ok {
		return 0, response.ErrUnauthorized(errMissingUserID.Error())
	}

	return userID, nil
}
