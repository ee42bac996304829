package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/tasks"
)

// maxBodyBytes caps request bodies at 100 KiB.
const maxBodyBytes = 100 << 10

// TaskService is the part of *tasks.Service the handlers use.
type TaskService interface {
	Create(ctx context.Context, in tasks.CreateInput) (tasks.Task, error)
	List(ctx context.Context) ([]tasks.Task, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]tasks.Task, error)
}

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency checked by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

type handler struct {
	service          TaskService
	checks           []ReadinessCheck
	readinessTimeout time.Duration
	logger           logger.Logger
}

func (h *handler) root(c *gin.Context) {
	c.String(http.StatusOK, "Task manager backend is running!")
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ready pings every dependency concurrently and fails on the first error.
func (h *handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.readinessTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, check := range h.checks {
		g.Go(func() error {
			if err := check.Pinger.Ping(gctx); err != nil {
				h.logger.WarnWithContext(gctx, "Readiness check failed", err, map[string]interface{}{
					"dependency": check.Name,
				})
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *handler) listTasks(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, msgListFailed)
		return
	}
	if list == nil {
		list = []tasks.Task{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) createTask(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	// An empty body is the same as {} and fails validation, not decoding.
	var in tasks.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		status, msg := createStatus(err)
		abortWithError(c, status, msg)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *handler) deleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) searchTasks(c *gin.Context) {
	hits, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		status, msg := searchStatus(err)
		abortWithError(c, status, msg)
		return
	}
	if hits == nil {
		hits = []tasks.Task{}
	}
	c.JSON(http.StatusOK, hits)
}
