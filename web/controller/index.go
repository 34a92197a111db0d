package controller

import (
	"errors"
	"net/http"

	"todo-web/config"
	"todo-web/database"
	"todo-web/logger"
	"todo-web/web/service"
	"todo-web/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm carries the credentials of the login and register forms.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the welcome page and the authentication routes.
type IndexController struct {
	BaseController

	userService service.UserService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/register", a.registerPage)
	g.POST("/register", a.register)
	g.GET("/logout", a.checkLogin, a.logout)
}

// index shows the welcome page or sends anonymous visitors to login.
func (a *IndexController) index(c *gin.Context) {
	if !session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	html(c, "index.html", "Home", nil)
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	html(c, "login.html", "Login", nil)
}

// login checks credentials and establishes the session. Unknown user
// and wrong password produce the same message.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		session.AddFlash(c, "error", "Invalid form data")
		html(c, "login.html", "Login", nil)
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password)
	if user == nil {
		logger.Warningf("failed login attempt for %q from %s", form.Username, c.ClientIP())
		session.AddFlash(c, "error", "Invalid username or password")
		html(c, "login.html", "Login", nil)
		return
	}

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()*60); err != nil {
		logger.Warning("unable to set session max age:", err)
	}
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Warning("unable to save session:", err)
	}

	logger.Infof("%s logged in successfully", user.Username)
	redirect(c, "/", "success", "Logged in successfully!")
}

func (a *IndexController) registerPage(c *gin.Context) {
	html(c, "register.html", "Register", nil)
}

// register creates an account. A duplicate username re-renders the form
// with an inline error and leaves the user table unchanged.
func (a *IndexController) register(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		session.AddFlash(c, "error", "Invalid form data")
		html(c, "register.html", "Register", nil)
		return
	}

	_, err := a.userService.Register(form.Username, form.Password)
	if errors.Is(err, database.ErrDuplicateUsername) {
		session.AddFlash(c, "error", "Username already exists.")
		html(c, "register.html", "Register", nil)
		return
	}
	if err != nil {
		session.AddFlash(c, "error", err.Error())
		html(c, "register.html", "Register", nil)
		return
	}

	logger.Infof("new user %q registered", form.Username)
	redirect(c, "/login", "success", "Registration successful! Please log in.")
}

// logout ends the session. Idempotent: a second call simply redirects.
func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	redirect(c, "/login", "success", "Logged out successfully.")
}
