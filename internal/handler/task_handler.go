package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/logging"
	"taskmanagement/internal/middleware"
	"taskmanagement/internal/model"
)

const defaultMaxResults = 50

type TaskServiceInterface interface {
	Initiate(ctx context.Context, taskID string, req model.InitiateTaskRequest) (*model.Task, error)
	Configure(ctx context.Context, taskID string) (*model.Task, error)
	Get(ctx context.Context, taskID string) (*model.Task, error)
	DeleteCaseTasks(ctx context.Context, caseID string) (int64, error)
}

type SearchServiceInterface interface {
	Search(ctx context.Context, actorID string, firstResult, maxResults int, req *model.SearchRequest) (*model.SearchResult, error)
}

type TaskHandler struct {
	tasks  TaskServiceInterface
	search SearchServiceInterface
	log    *logrus.Entry
}

func NewTaskHandler(tasks TaskServiceInterface, search SearchServiceInterface, log *logrus.Entry) *TaskHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &TaskHandler{tasks: tasks, search: search, log: log.WithField("component", "task-handler")}
}

// SearchResponse is returned by task searches
type SearchResponse struct {
	TaskIDs      []string     `json:"task_ids"`
	Tasks        []model.Task `json:"tasks"`
	TotalRecords int64        `json:"total_records"`
}

// DeleteResponse is returned by case deletion
type DeleteResponse struct {
	CaseID  string `json:"case_id"`
	Deleted int64  `json:"deleted"`
}

// Initiate godoc
// @Summary      Initiate a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Task ID"
// @Param        task  body  model.InitiateTaskRequest  true  "Task attributes"
// @Success      201  {object}  model.Task
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /task/{id}/initiation [post]
func (h *TaskHandler) Initiate(c *gin.Context) {
	var req model.InitiateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.Initiate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Configure godoc
// @Summary      Configure and auto-assign a task
// @Tags         Tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  model.Task
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /task/{id}/configuration [post]
func (h *TaskHandler) Configure(c *gin.Context) {
	task, err := h.tasks.Configure(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetByID godoc
// @Summary      Get a task with its role grants
// @Tags         Tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  model.Task
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /task/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Search godoc
// @Summary      Search the tasks visible to the caller
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        first_result  query  int                  false  "Offset of the first task"
// @Param        max_results   query  int                  false  "Page size"
// @Param        request       body   model.SearchRequest  true   "Search filters"
// @Success      200  {object}  SearchResponse
// @Failure      400  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /task [post]
func (h *TaskHandler) Search(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	actorID, ok := userID.(string)
	if !ok || actorID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	firstResult, err := queryInt(c, "first_result", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_result must be an integer"})
		return
	}
	maxResults, err := queryInt(c, "max_results", defaultMaxResults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be an integer"})
		return
	}

	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.search.Search(c.Request.Context(), actorID, firstResult, maxResults, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{TaskIDs: result.TaskIDs, Tasks: result.Tasks, TotalRecords: result.TotalCount})
}

// DeleteCaseTasks godoc
// @Summary      Delete every task of a case
// @Tags         Tasks
// @Produce      json
// @Param        case_id  query  string  true  "Case ID"
// @Success      200  {object}  DeleteResponse
// @Failure      400  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /task/delete [delete]
func (h *TaskHandler) DeleteCaseTasks(c *gin.Context) {
	caseID := c.Query("case_id")
	deleted, err := h.tasks.DeleteCaseTasks(c.Request.Context(), caseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{CaseID: caseID, Deleted: deleted})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
