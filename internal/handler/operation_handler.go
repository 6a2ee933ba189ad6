package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/logging"
	"taskmanagement/internal/model"
	"taskmanagement/internal/service"
)

type OperationServiceInterface interface {
	PerformOperation(ctx context.Context, req model.TaskOperationRequest) (*service.OperationResult, error)
}

type OperationHandler struct {
	operations OperationServiceInterface
	log        *logrus.Entry
}

func NewOperationHandler(operations OperationServiceInterface, log *logrus.Entry) *OperationHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &OperationHandler{operations: operations, log: log.WithField("component", "operation-handler")}
}

// Perform godoc
// @Summary      Run a task operation (mark or execute reconfiguration)
// @Tags         Task operations
// @Accept       json
// @Produce      json
// @Param        request  body  model.TaskOperationRequest  true  "Operation and filters"
// @Success      200  {object}  service.OperationResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /task/operation [post]
func (h *OperationHandler) Perform(c *gin.Context) {
	var req model.TaskOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.operations.PerformOperation(c.Request.Context(), req)
	var rerr *service.ReconfigurationError
	if err != nil && !errors.As(err, &rerr) {
		respondError(c, h.log, err)
		return
	}
	if rerr != nil {
		h.log.WithFields(logrus.Fields{
			"run_id": rerr.RunID,
			"failed": len(rerr.FailedTaskIDs),
		}).Error("task operation finished with failures")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":           "Reconfiguration failed",
			"run_id":          rerr.RunID,
			"failed_task_ids": rerr.FailedTaskIDs,
			"result":          result,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
