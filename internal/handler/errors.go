package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/client"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/service"
)

// respondError maps an error from the service layer onto an HTTP response.
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	var (
		verr       *service.ValidationError
		rerr       *service.ReconfigurationError
		downstream *client.DownstreamError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "violations": verr.Violations})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrTaskAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Task already exists"})
	case errors.Is(err, repository.ErrTaskLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "Task is being updated by another request"})
	case errors.Is(err, repository.ErrOptimisticLock):
		c.JSON(http.StatusConflict, gin.H{"error": "Task was modified concurrently"})
	case errors.Is(err, service.ErrTaskTerminated):
		c.JSON(http.StatusConflict, gin.H{"error": "Task is in a terminal state"})
	case errors.Is(err, repository.ErrTaskNotIndexable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is missing attributes required for indexing"})
	case errors.Is(err, service.ErrUnsupportedOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported operation"})
	case errors.As(err, &rerr):
		log.WithError(err).Error("reconfiguration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconfiguration failed", "run_id": rerr.RunID, "failed_task_ids": rerr.FailedTaskIDs})
	case errors.Is(err, client.ErrUnauthorized):
		log.WithError(err).Warn("downstream service rejected credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Downstream service rejected credentials"})
	case errors.Is(err, client.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found in workflow engine"})
	case errors.As(err, &downstream):
		log.WithError(err).Error("downstream dependency failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Downstream dependency failed", "service": downstream.Service})
	default:
		log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondBindError reports a request body that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	violations := make([]service.Violation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, service.Violation{
			Field:   fe.Namespace(),
			Message: "failed on the '" + fe.Tag() + "' rule",
		})
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "violations": violations})
}
