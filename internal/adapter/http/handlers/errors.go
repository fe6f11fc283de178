package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskcraftify/internal/app/store"
	"taskcraftify/internal/core/domain"
	"taskcraftify/pkg/apierrors"
)

// abortWithMutationError maps store and domain errors onto the JSON error
// envelope. failMsg is used for anything unexpected.
func abortWithMutationError(c *gin.Context, lang string, err error, failMsg string, invalidMsg string) {
	var mutationErr *store.MutationError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgProjectNotFound, lang))
	case errors.Is(err, domain.ErrEntityPending):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgTaskPending, lang))
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, apierrors.CreateErrorWithReason(http.StatusBadRequest, invalidMsg, lang, err))
	case errors.As(err, &mutationErr):
		// The optimistic change was rolled back; report the upstream cause.
		zap.L().Warn("mutation rejected by persistence",
			zap.String("entity", string(mutationErr.Entity)),
			zap.String("op", string(mutationErr.Op)),
			zap.String("id", mutationErr.ID),
			zap.Error(mutationErr.Err),
		)
		c.JSON(http.StatusBadGateway, apierrors.CreateErrorWithReason(http.StatusBadGateway, failMsg, lang, mutationErr.Err))
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, failMsg, lang))
	}
}
