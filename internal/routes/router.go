package routes

import (
	"github.com/gin-gonic/gin"

	"todolist/internal/controller"
	"todolist/internal/middleware"
)

func Router(h *controller.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/", h.Root)

	// Health for load balancers and K8s probes
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	router.GET("/todos", h.GetTodos)
	router.POST("/todos", h.CreateTodo)
	router.GET("/todos/:id", h.GetTodo)
	router.PUT("/todos/:id", h.UpdateTodo)
	router.DELETE("/todos/:id", h.DeleteTodo)

	router.POST("/translate", h.Translate)

	return router
}
