package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oms-support/ticketdesk/api"
	"github.com/oms-support/ticketdesk/internal/auth"
	"github.com/oms-support/ticketdesk/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const pathSwagger = "/swagger"

// Deps is everything the route table needs wired in.
type Deps struct {
	DB          *gorm.DB
	JWT         *auth.JWTManager
	Tickets     *handler.TicketHandler
	Accepters   *handler.AccepterHandler
	Auth        *handler.AuthHandler
	StorageRoot string
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready(d.DB))

	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	// Stored attachments are public by URL, same as the original bucket setup.
	r.Static("/files", d.StorageRoot)

	admin := auth.RequireAdmin(d.JWT)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", d.Auth.Login)
		v1.GET("/auth/me", admin, d.Auth.Me)

		v1.GET("/operators", d.Accepters.Operators)
		v1.GET("/accepters", admin, d.Accepters.List)

		v1.POST("/tickets", d.Tickets.Create)
		v1.GET("/tickets", d.Tickets.List)
		v1.GET("/tickets/:id", d.Tickets.Get)
		v1.DELETE("/tickets/:id", admin, d.Tickets.Delete)

		v1.GET("/admin/dashboard", admin, d.Tickets.Dashboard)

		v1.PATCH("/tickets/:id/status", admin, d.Tickets.UpdateStatus)
		v1.POST("/tickets/:id/accepter", admin, d.Tickets.AssignAccepter)
		v1.POST("/tickets/:id/withdraw", d.Tickets.Withdraw)

		v1.PUT("/tickets/:id/response", admin, d.Tickets.SaveResponse)
		v1.DELETE("/tickets/:id/response", admin, d.Tickets.DeleteResponse)
		v1.POST("/tickets/:id/response/read", d.Tickets.MarkResponseRead)

		v1.PUT("/tickets/:id/solution", admin, d.Tickets.SaveSolution)
		v1.DELETE("/tickets/:id/solution", admin, d.Tickets.DeleteSolution)
		v1.POST("/tickets/:id/solution/read", d.Tickets.MarkSolutionRead)
	}

	return r
}
