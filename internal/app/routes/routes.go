package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/roomster/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	roomController *controllers.RoomController,
	studentController *controllers.StudentController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Room routes
	rooms := v1.Group("/rooms")
	{
		rooms.GET("", roomController.ListRooms)
		rooms.GET("/:id", roomController.GetRoom)
		rooms.GET("/:id/students", roomController.ListRoomStudents)
		rooms.POST("", roomController.CreateRoom)
		rooms.PUT("/:id", roomController.UpdateRoom)
		rooms.DELETE("/:id", roomController.DeleteRoom)
	}

	// Student routes
	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudent)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.PATCH("/:id/move", studentController.MoveStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}
}
