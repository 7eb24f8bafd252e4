package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondError writes the failure envelope. details is omitted when empty.
func RespondError(c *gin.Context, status int, code, message string, details ...string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 && details[0] != "" {
		body["details"] = details[0]
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// RespondData writes the success envelope
func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// RespondDataWithWarnings writes the success envelope plus non-blocking
// warnings, when there are any.
func RespondDataWithWarnings(c *gin.Context, status int, data interface{}, warnings []string) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	c.JSON(status, body)
}

// ParseID reads a positive numeric path parameter. On failure it writes a
// 400 response and returns false.
func ParseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param+" parameter")
		return 0, false
	}
	return uint(id), true
}
