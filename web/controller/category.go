package controller

import (
	"todo-web/database"
	"todo-web/logger"
	"todo-web/web/service"
	"todo-web/web/session"

	"github.com/gin-gonic/gin"
)

// CategoryController handles the category CRUD routes, owner-scoped the
// same way as tasks. Deleting a category leaves its tasks in place with
// a nulled reference.
type CategoryController struct {
	BaseController

	categoryService service.CategoryService
}

func NewCategoryController(g *gin.RouterGroup) *CategoryController {
	a := &CategoryController{}
	a.initRouter(g)
	return a
}

func (a *CategoryController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/categories")
	g.Use(a.checkLogin)

	g.GET("", a.list)
	g.GET("/add", a.addPage)
	g.POST("/add", a.add)
	g.GET("/:id/edit", a.editPage)
	g.POST("/:id/edit", a.edit)
	g.POST("/:id/delete", a.delete)
}

func (a *CategoryController) list(c *gin.Context) {
	user := a.loginUser(c)
	categories, err := a.categoryService.List(user.Id)
	if err != nil {
		logger.Warning("list categories err:", err)
		redirect(c, "/", "error", "Error loading categories: "+err.Error())
		return
	}
	html(c, "categories.html", "Categories", gin.H{"categories": categories})
}

func (a *CategoryController) addPage(c *gin.Context) {
	html(c, "add_category.html", "Add Category", nil)
}

func (a *CategoryController) add(c *gin.Context) {
	user := a.loginUser(c)
	_, err := a.categoryService.Create(user.Id, c.PostForm("name"))
	if err != nil {
		session.AddFlash(c, "error", "Error adding category: "+err.Error())
		html(c, "add_category.html", "Add Category", nil)
		return
	}
	redirect(c, "/categories", "success", "Category added successfully!")
}

func (a *CategoryController) editPage(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	category, err := a.categoryService.Get(id, user.Id)
	if err != nil {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	html(c, "edit_category.html", "Edit Category", gin.H{"category": category})
}

func (a *CategoryController) edit(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	err := a.categoryService.Update(id, user.Id, c.PostForm("name"))
	if database.IsNotFound(err) {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	if err != nil {
		redirect(c, "/categories", "error", "Error updating category: "+err.Error())
		return
	}
	redirect(c, "/categories", "success", "Category updated successfully!")
}

func (a *CategoryController) delete(c *gin.Context) {
	user := a.loginUser(c)
	id, ok := pathId(c)
	if !ok {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	err := a.categoryService.Delete(id, user.Id)
	if database.IsNotFound(err) {
		redirect(c, "/categories", "error", "Category not found.")
		return
	}
	if err != nil {
		redirect(c, "/categories", "error", "Error deleting category: "+err.Error())
		return
	}
	redirect(c, "/categories", "success", "Category deleted successfully!")
}
