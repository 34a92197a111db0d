// Package controller provides the HTTP request handlers of the to-do
// panel: authentication, task CRUD and category CRUD.
package controller

import (
	"net/http"

	"todo-web/database/model"
	"todo-web/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the authentication gate shared by all
// protected controllers.
type BaseController struct{}

// checkLogin verifies the session identity before any data access runs.
// Browsers get redirected to the login page, AJAX callers get a 401.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, "please log in again")
		} else {
			c.Redirect(http.StatusFound, "/login")
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// loginUser returns the authenticated user. Only valid behind checkLogin.
func (a *BaseController) loginUser(c *gin.Context) *model.User {
	return session.GetLoginUser(c)
}
