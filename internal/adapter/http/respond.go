package http

import "github.com/gin-gonic/gin"

// Every action responds with the same envelope: {success, data?, error?, message?}.
// The caller decides presentation (typically a toast).
func ok(c *gin.Context, status int, data any, message string) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, err string) {
	c.JSON(status, gin.H{"success": false, "error": err})
}
