package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/roomster/internal/app/models/dto"
	"github.com/deniz/roomster/internal/app/services"
	"github.com/deniz/roomster/internal/middleware"
	"github.com/deniz/roomster/internal/pkg/helpers"
)

// RoomController handles room-related endpoints
type RoomController struct {
	roomService services.RoomService
}

// NewRoomController creates a new RoomController
func NewRoomController(roomService services.RoomService) *RoomController {
	return &RoomController{
		roomService: roomService,
	}
}

func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
			dto.ErrorKindValidation, label+" must be a valid number", http.StatusUnprocessableEntity))
		return 0, false
	}
	return id, true
}

// ListRooms returns a page of rooms
// @Summary List rooms
// @Description Retrieves all rooms with pagination metadata
// @Tags rooms
// @Produce json
// @Param skip query int false "Number of rooms to skip" minimum(0) default(0)
// @Param limit query int false "Maximum number of rooms to return" minimum(1) maximum(100) default(10)
// @Success 200 {object} dto.PaginatedResponse{data=[]dto.RoomResponse} "Rooms retrieved successfully"
// @Failure 422 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rooms [get]
func (rc *RoomController) ListRooms(c *gin.Context) {
	skip, limit, err := helpers.ParseSkipLimit(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	rooms, total, err := rc.roomService.ListRooms(c, skip, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.NewPaginatedResponse(dto.FromRooms(rooms), total, skip, limit))
}

// GetRoom returns a single room
// @Summary Get room by ID
// @Description Retrieves a specific room by ID. With include=students the
// @Description room's student list is resolved eagerly.
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Param include query string false "Set to 'students' to embed the student list"
// @Success 200 {object} dto.RoomResponse "Room retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid room ID"
// @Router /rooms/{id} [get]
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Room ID")
	if !ok {
		return
	}

	if c.Query("include") == "students" {
		room, err := rc.roomService.GetRoomWithStudents(c, id)
		if err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromRoomWithStudents(room))
		return
	}

	room, err := rc.roomService.GetRoom(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoom(room))
}

// ListRoomStudents returns a page of the students assigned to a room
// @Summary List students in a room
// @Description Retrieves the students assigned to a room with pagination metadata
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Param skip query int false "Number of students to skip" minimum(0) default(0)
// @Param limit query int false "Maximum number of students to return" minimum(1) maximum(100) default(10)
// @Success 200 {object} dto.PaginatedResponse{data=[]dto.StudentResponse} "Students retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid room ID"
// @Router /rooms/{id}/students [get]
func (rc *RoomController) ListRoomStudents(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Room ID")
	if !ok {
		return
	}
	skip, limit, err := helpers.ParseSkipLimit(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	students, total, err := rc.roomService.ListRoomStudents(c, id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.NewPaginatedResponse(dto.FromStudents(students), total, skip, limit))
}

// CreateRoom creates a new room
// @Summary Create a room
// @Description Creates a new room under a caller-chosen id
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomRequest true "Room information"
// @Success 201 {object} dto.RoomResponse "Room created successfully"
// @Failure 409 {object} dto.ErrorResponse "Room with this ID already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /rooms [post]
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	room, err := rc.roomService.CreateRoom(c, req.RoomID, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromRoom(room))
}

// UpdateRoom updates an existing room
// @Summary Update a room
// @Description Replaces the name of an existing room
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Updated room information"
// @Success 200 {object} dto.RoomResponse "Room updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /rooms/{id} [put]
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Room ID")
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	room, err := rc.roomService.UpdateRoom(c, id, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoom(room))
}

// DeleteRoom deletes a room
// @Summary Delete a room
// @Description Deletes a room and returns its prior state. Rejected while any
// @Description student is still assigned to the room.
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} dto.RoomResponse "Room deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Room has students assigned"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid room ID"
// @Router /rooms/{id} [delete]
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Room ID")
	if !ok {
		return
	}

	room, err := rc.roomService.DeleteRoom(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoom(room))
}
