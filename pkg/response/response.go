package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

// The mobile clients key every decision off a top-level "success" flag,
// so the envelope is flat rather than nested under data/error objects.

// JSON sends a success response with the payload under "data".
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// JSONExtra sends a success response with additional top-level fields
// (alreadyMarked, history, totalEntries and similar flags).
func JSONExtra(c *gin.Context, status int, data interface{}, extra gin.H) {
	c.Header("Cache-Control", "no-store")
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends `{success:false, message, error}` with the status carried
// by the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	body := gin.H{
		"success": false,
		"message": appErr.Message,
		"error":   appErr.Code,
	}
	c.JSON(appErr.Status, body)
}

// ErrorExtra sends an error envelope with additional top-level fields,
// used by the geofence rejection to report which check failed and the
// configured office parameters.
func ErrorExtra(c *gin.Context, err error, extra gin.H) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	body := gin.H{
		"success": false,
		"message": appErr.Message,
		"error":   appErr.Code,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(appErr.Status, body)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
