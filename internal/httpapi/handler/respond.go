package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/httpapi/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto its HTTP status. Anything outside
// the taxonomy is an internal error and the details stay server-side.
func respondError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(status, gin.H{"error": appErr.Message, "kind": string(appErr.Kind)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// paging reads ?page and ?page_size with the usual clamping
func paging(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
