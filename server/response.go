package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as an ErrorResponse. AppErrors carry their own
// status; anything else becomes a 500 INTERNAL_ERROR. The error is attached
// to the gin context so the request logger reports it.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	appErr := apperrors.Resolve(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondCreated sends a 201 response wrapping data.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}
