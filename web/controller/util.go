package controller

import (
	"net/http"
	"strconv"

	"todo-web/config"
	"todo-web/web/entity"
	"todo-web/web/session"

	"github.com/gin-gonic/gin"
)

// html renders a template with the shared context: page title, current
// user (may be nil) and any pending flash messages.
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["user"] = session.GetLoginUser(c)
	data["flashes"] = session.TakeFlashes(c)
	data["cur_ver"] = config.GetVersion()
	c.HTML(http.StatusOK, name, data)
}

// redirect queues a flash and sends the browser to location.
func redirect(c *gin.Context, location, category, message string) {
	session.AddFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// pureJsonMsg sends an entity.Msg with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// jsonStatus sends the {status, message} body of the async endpoints.
func jsonStatus(c *gin.Context, statusCode int, status, message string) {
	c.JSON(statusCode, entity.Status{
		Status:  status,
		Message: message,
	})
}

// pathId parses the numeric :id route parameter.
func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formCategoryId converts the optional category dropdown value. An empty
// or unparsable selection means "no category", never a zero sentinel.
func formCategoryId(c *gin.Context) *int {
	raw := c.PostForm("category_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// isAjax checks if the request came from asynchronous page script.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
