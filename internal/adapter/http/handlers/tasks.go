package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"taskcraftify/internal/adapter/http/dto"
	"taskcraftify/internal/adapter/http/mapper"
	"taskcraftify/internal/adapter/http/middleware"
	"taskcraftify/internal/adapter/http/validation"
	"taskcraftify/internal/clock"
	"taskcraftify/internal/core/ports"
	"taskcraftify/pkg/apierrors"
	"taskcraftify/pkg/translator"
)

const (
	transitionComplete = "complete"
	transitionUndo     = "undo"
	transitionReopen   = "reopen"
)

type TaskHandler struct {
	taskService ports.TaskService
	clock       clock.Clock
	loc         *time.Location
}

func NewTaskHandler(taskService ports.TaskService, c clock.Clock, loc *time.Location) *TaskHandler {
	if c == nil {
		c = clock.Real{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &TaskHandler{taskService: taskService, clock: c, loc: loc}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	spec, err := validation.BuildFilterSpec(c.Request.URL.Query(), h.loc)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidFilter, lang),
		)
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), spec)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithMutationError(c, lang, err, apierrors.MsgFailListTask, apierrors.MsgInvalidTaskID)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) Categories(c *gin.Context) {
	lang := middleware.GetLang(c)

	result, err := h.taskService.Categories(c.Request.Context(), h.clock.Now())
	if err != nil {
		zap.L().Error("failed to categorize tasks", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCategorize, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToCategoriesResponse(result))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	draft, err := validation.BuildCreateTaskInput(req, raw, h.loc)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), draft)
	if err != nil {
		abortWithMutationError(c, lang, err, apierrors.MsgFailCreateTask, apierrors.MsgInvalidTaskPayload)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.UpdateTaskRequest
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	patch, err := validation.BuildUpdateTaskInput(c.Param("id"), req, raw, h.loc)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), patch)
	if err != nil {
		abortWithMutationError(c, lang, err, apierrors.MsgFailUpdateTask, apierrors.MsgInvalidTaskPayload)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		abortWithMutationError(c, lang, err, apierrors.MsgFailDeleteTask, apierrors.MsgInvalidTaskID)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleCompletion is the single-click entry point of the completion
// control. Two calls inside the double-click window undo a completion.
func (h *TaskHandler) ToggleCompletion(c *gin.Context) {
	lang := middleware.GetLang(c)

	result, err := h.taskService.ToggleCompletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithMutationError(c, lang, err, apierrors.MsgFailToggleTask, apierrors.MsgInvalidTaskID)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleResponse{
		Task:       mapper.ToTaskItem(result.Task),
		Transition: result.Transition,
		State:      result.State,
		Notice:     notice(result, lang),
	})
}

func notice(result ports.ToggleResult, lang string) string {
	var msgKey string
	switch result.Transition {
	case transitionComplete:
		msgKey = apierrors.MsgNoticeTaskCompleted
	case transitionUndo:
		msgKey = apierrors.MsgNoticeTaskRestored
	case transitionReopen:
		msgKey = apierrors.MsgNoticeTaskReopened
	default:
		return ""
	}
	return translator.Localize(msgKey, lang, map[string]any{"Title": result.Task.Title})
}

