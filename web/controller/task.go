package controller

import (
	"net/http"

	"todo-web/database"
	"todo-web/logger"
	"todo-web/web/entity"
	"todo-web/web/service"
	"todo-web/web/session"

	"github.com/gin-gonic/gin"
)

// TaskController handles the task CRUD routes. Every handler runs behind
// checkLogin and passes the session identity to the service, so a task
// id alone never grants access.
type TaskController struct {
	BaseController

	taskService     service.TaskService
	categoryService service.CategoryService
}

func NewTaskController(g *gin.RouterGroup) *TaskController {
	a := &TaskController{}
	a.initRouter(g)
	return a
}

func (a *TaskController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/tasks")
	g.Use(a.checkLogin)

	g.GET("", a.list)
	g.GET("/add", a.addPage)
	g.POST("/add", a.add)
	g.GET("/:id/edit", a.editPage)
	g.POST("/:id/edit", a.edit)
	g.POST("/:id/delete", a.delete)
	g.POST("/:id/update_completed", a.updateCompleted)
}

func (a *TaskController) list(c *gin.Context) {
	user := a.loginUser(c)
	tasks, err := a.taskService.List(user.Id)
	if err != nil {
		logger.Warning("list tasks err:", err)
		redirect(c, "/", "error", "Error loading tasks: "+err.Error())
		return
	}
	html(c, "tasks.html", "Tasks", gin.H{"tasks": tasks})
}

func (a *TaskController) addPage(c *gin.Context) {
	user := a.loginUser(c)
	categories, err := a.categoryService.List(user.Id)
	if err != nil {
		logger.Warning("list categories err:", err)
	}
	html(c, "add_task.html", "Add Task", gin.H{"categories": categories})
}

func (a *TaskController) add(c *gin.Context) {
	user := a.loginUser(c)
	_, err := a.taskService.Create(
		user.Id,
		c.PostForm("title"),
		c.PostForm("description"),
		formCategoryId(c),
	)
	if err != nil {
		session.AddFlash(c, "error", "Error adding task: "+err.Error())
		categories, _ := a.categoryService.List(user.Id)
		html(c, "add_task.html", "Add Task", gin.H{"categories": categories})
		return
	}
	redirect(c, "/tasks", "success", "Task added successfully!")
}

func (a *TaskController) editPage(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}
	task, err := a.taskService.Get(id, user.Id)
	if err != nil {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}
	categories, _ := a.categoryService.List(user.Id)
	html(c, "edit_task.html", "Edit Task", gin.H{
		"task":       task,
		"categories": categories,
	})
}

func (a *TaskController) edit(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}

	fields := database.TaskFields{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Completed:   c.PostForm("completed") == "on",
		CategoryId:  formCategoryId(c),
	}
	err := a.taskService.Update(id, user.Id, fields)
	if database.IsNotFound(err) {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}
	if err != nil {
		session.AddFlash(c, "error", "Error updating task: "+err.Error())
		c.Redirect(http.StatusFound, c.Request.URL.Path)
		return
	}
	redirect(c, "/tasks", "success", "Task updated successfully!")
}

func (a *TaskController) delete(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}
	err := a.taskService.Delete(id, user.Id)
	if database.IsNotFound(err) {
		redirect(c, "/tasks", "error", "Task not found.")
		return
	}
	if err != nil {
		redirect(c, "/tasks", "error", "Error deleting task: "+err.Error())
		return
	}
	redirect(c, "/tasks", "success", "Task deleted successfully!")
}

// updateCompleted is the asynchronous status flip. The payload carries
// {"completed":"Yes"|"No"}; a missing key is a 400, a missing or foreign
// task a 404. A no-op update on somebody else's task is never reported
// as success.
func (a *TaskController) updateCompleted(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		jsonStatus(c, http.StatusNotFound, "error", "Task not found")
		return
	}

	var payload entity.CompletedUpdate
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Completed == nil {
		logger.Errorf("invalid payload updating task %d", id)
		jsonStatus(c, http.StatusBadRequest, "error", "Invalid request")
		return
	}

	completed := *payload.Completed == "Yes"
	err := a.taskService.SetCompleted(id, user.Id, completed)
	if database.IsNotFound(err) {
		jsonStatus(c, http.StatusNotFound, "error", "Task not found")
		return
	}
	if err != nil {
		logger.Errorf("error updating task %d: %v", id, err)
		jsonStatus(c, http.StatusInternalServerError, "error", err.Error())
		return
	}

	logger.Infof("updated task %d completed status to %v", id, completed)
	jsonStatus(c, http.StatusOK, "success", "Task updated")
}
