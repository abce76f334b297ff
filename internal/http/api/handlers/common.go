package handlers

import "github.com/gin-gonic/gin"

// currentAdminID extracts the authenticated admin ID set by the session gate.
func currentAdminID(c *gin.Context) (uint64, bool) {
	value, ok := c.Get("adminID")
	if !ok {
		return 0, false
	}
	id, okID := value.(uint64)
	return id, okID
}

// currentUsername extracts the authenticated username set by the session gate.
func currentUsername(c *gin.Context) (string, bool) {
	value, ok := c.Get("adminUsername")
	if !ok {
		return "", false
	}
	username, okName := value.(string)
	return username, okName
}

// currentToken extracts the session token set by the session gate.
func currentToken(c *gin.Context) (string, bool) {
	value, ok := c.Get("sessionToken")
	if !ok {
		return "", false
	}
	token, okToken := value.(string)
	return token, okToken
}
