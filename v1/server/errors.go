package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasksearch/tasksearch/v1/tasks"
)

// Client-facing error messages. Internal details never reach the response.
const (
	msgInvalidBody          = "Invalid JSON body"
	msgEmbeddingUnavailable = "Embedding service unavailable"
	msgCreateFailed         = "Failed to add task"
	msgInvalidID            = "Invalid task ID"
	msgDeleteFailed         = "Failed to delete task"
	msgSearchFailed         = "Search failed"
	msgListFailed           = "Failed to fetch tasks"
	msgNotFound             = "Not found"
)

type errorResponse struct {
	Error string `json:"error"`
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// createStatus maps a Service.Create error to a status code and message.
func createStatus(err error) (int, string) {
	var verr *tasks.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, tasks.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable, msgEmbeddingUnavailable
	default:
		return http.StatusInternalServerError, msgCreateFailed
	}
}

// searchStatus maps a Service.Search error. Everything but bad input is a
// search failure, including an unavailable embedding service.
func searchStatus(err error) (int, string) {
	var verr *tasks.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	return http.StatusInternalServerError, msgSearchFailed
}
