package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/app/models/dto"
	"github.com/deniz/roomster/internal/app/repositories"
	"github.com/deniz/roomster/internal/app/services"
	"github.com/deniz/roomster/internal/middleware"
	"github.com/deniz/roomster/internal/pkg/helpers"
)

// StudentController handles student-related endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// parseStudentFilter reads the listing filters from the query string. All
// provided filters are combined conjunctively.
func parseStudentFilter(c *gin.Context) (repositories.StudentFilter, bool) {
	var filter repositories.StudentFilter

	filter.NameContains = c.Query("name")

	if sexStr := c.Query("sex"); sexStr != "" {
		sex := models.Sex(sexStr)
		if !sex.Valid() {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
				dto.ErrorKindValidation, "Sex filter must be 'M' or 'F'", http.StatusUnprocessableEntity))
			return filter, false
		}
		filter.Sex = sex
	}

	if roomIDStr := c.Query("room_id"); roomIDStr != "" {
		roomID, err := strconv.ParseInt(roomIDStr, 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
				dto.ErrorKindValidation, "Room ID filter must be a positive number", http.StatusUnprocessableEntity))
			return filter, false
		}
		filter.RoomID = &roomID
	}

	if hasRoomStr := c.Query("has_room"); hasRoomStr != "" {
		hasRoom, err := strconv.ParseBool(hasRoomStr)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
				dto.ErrorKindValidation, "has_room filter must be a boolean", http.StatusUnprocessableEntity))
			return filter, false
		}
		filter.HasRoom = &hasRoom
	}

	return filter, true
}

// ListStudents returns a page of students matching the given filters
// @Summary List students
// @Description Retrieves students with optional filters and pagination
// @Description metadata. Filters combine conjunctively.
// @Tags students
// @Produce json
// @Param skip query int false "Number of students to skip" minimum(0) default(0)
// @Param limit query int false "Maximum number of students to return" minimum(1) maximum(100) default(10)
// @Param name query string false "Case-insensitive name substring"
// @Param sex query string false "Filter by sex" Enums(M, F)
// @Param room_id query int false "Filter by assigned room"
// @Param has_room query bool false "Filter by assignment state"
// @Success 200 {object} dto.PaginatedResponse{data=[]dto.StudentResponse} "Students retrieved successfully"
// @Failure 422 {object} dto.ErrorResponse "Invalid filter value"
// @Router /students [get]
func (sc *StudentController) ListStudents(c *gin.Context) {
	filter, ok := parseStudentFilter(c)
	if !ok {
		return
	}
	skip, limit, err := helpers.ParseSkipLimit(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	students, total, err := sc.studentService.ListStudents(c, filter, skip, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.NewPaginatedResponse(dto.FromStudents(students), total, skip, limit))
}

// GetStudent returns a single student with the assigned room resolved
// @Summary Get student by ID
// @Description Retrieves a specific student by ID together with the assigned
// @Description room, or a null room when unassigned
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentWithRoomResponse "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid student ID"
// @Router /students/{id} [get]
func (sc *StudentController) GetStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Student ID")
	if !ok {
		return
	}

	student, err := sc.studentService.GetStudentWithRoom(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStudentWithRoom(student))
}

// CreateStudent creates a new student
// @Summary Create a student
// @Description Creates a new student under a caller-chosen id, optionally
// @Description assigned to an existing room
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.StudentResponse "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Assigned room does not exist"
// @Failure 409 {object} dto.ErrorResponse "Student with this ID already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /students [post]
func (sc *StudentController) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	student := &models.Student{
		StudentID: req.StudentID,
		Name:      req.Name,
		Birthday:  req.Birthday,
		Sex:       req.Sex,
		RoomID:    req.RoomID,
	}
	if err := sc.studentService.CreateStudent(c, student); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStudent(student))
}

// UpdateStudent applies a partial update to a student
// @Summary Update a student
// @Description Updates the provided fields of a student. Omitted fields keep
// @Description their value; an explicit null room_id unassigns the student.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.StudentResponse "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Assigned room does not exist"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /students/{id} [put]
func (sc *StudentController) UpdateStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Student ID")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	patch := services.StudentPatch{
		Name:     req.Name,
		Birthday: req.Birthday,
		Sex:      req.Sex,
	}
	if req.RoomID.Set {
		patch.Room = services.RoomAssignment{Set: true, RoomID: req.RoomID.Ptr()}
	}

	student, err := sc.studentService.UpdateStudent(c, id, patch)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStudent(student))
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Description Deletes a student and returns its prior state
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentResponse "Student deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid student ID"
// @Router /students/{id} [delete]
func (sc *StudentController) DeleteStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Student ID")
	if !ok {
		return
	}

	student, err := sc.studentService.DeleteStudent(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStudent(student))
}

// MoveStudent reassigns a student to a room
// @Summary Move a student
// @Description Assigns a student to the given room, or unassigns the student
// @Description when room_id is null
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.MoveStudentRequest true "Target room"
// @Success 200 {object} dto.StudentResponse "Student moved successfully"
// @Failure 400 {object} dto.ErrorResponse "Target room does not exist"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /students/{id}/move [patch]
func (sc *StudentController) MoveStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Student ID")
	if !ok {
		return
	}

	var req dto.MoveStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	student, err := sc.studentService.MoveStudent(c, id, req.RoomID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStudent(student))
}
