package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/models"
)

func (a *App) listCourses(c *gin.Context) {
	courses, err := db.ListCourses(c.Request.Context(), a.DB)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

type createCourseReq struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ValidMonths *int   `json:"valid_months"`
	WarnMonths  int    `json:"warn_months"`
}

func (a *App) createCourse(c *gin.Context) {
	var req createCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ValidMonths != nil && *req.ValidMonths <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid_months must be positive"})
		return
	}
	id, err := db.CreateCourse(c.Request.Context(), a.DB, models.Course{
		Code:        req.Code,
		Name:        req.Name,
		ValidMonths: req.ValidMonths,
		WarnMonths:  req.WarnMonths,
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "course code already exists"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) updateCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		ValidMonths *int    `json:"valid_months"`
		WarnMonths  *int    `json:"warn_months"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := db.CourseUpdate{Name: req.Name, ValidMonths: req.ValidMonths, WarnMonths: req.WarnMonths}
	if err := db.UpdateCourse(c.Request.Context(), a.DB, id, u); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listPositions(c *gin.Context) {
	onlyActive := c.Query("all") == ""
	positions, err := db.ListPositions(c.Request.Context(), a.DB, onlyActive)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}

type createPositionReq struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (a *App) createPosition(c *gin.Context) {
	var req createPositionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := db.CreatePosition(c.Request.Context(), a.DB, models.Position{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "position code already exists"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) updatePosition(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := db.PositionUpdate{Name: req.Name, IsActive: req.IsActive}
	if err := db.UpdatePosition(c.Request.Context(), a.DB, id, u); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listPositionRequirements(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	reqs, err := db.RequirementsForPosition(ctx, a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	groups, err := db.GroupsForPosition(ctx, a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirements": reqs, "groups": groups})
}

type createRequirementReq struct {
	Kind               models.ReqKind       `json:"req_kind" binding:"required"`
	GroupID            *int64               `json:"group_id"`
	CourseID           *int64               `json:"course_id"`
	RequiredPositionID *int64               `json:"required_position_id"`
	ReqTaskID          *int64               `json:"req_task_id"`
	MinCount           *int                 `json:"min_count"`
	ActivityType       *models.ActivityType `json:"activity_type"`
	WithinMonths       *int                 `json:"within_months"`
}

func (r createRequirementReq) validate() string {
	switch r.Kind {
	case models.ReqCourse:
		if r.CourseID == nil {
			return "course requirement needs course_id"
		}
	case models.ReqPosition:
		if r.RequiredPositionID == nil {
			return "position requirement needs required_position_id"
		}
	case models.ReqTask:
		if r.ReqTaskID == nil {
			return "task requirement needs req_task_id"
		}
	case models.ReqTime:
		if r.MinCount == nil || *r.MinCount <= 0 {
			return "time requirement needs a positive min_count"
		}
		if r.ActivityType == nil {
			return "time requirement needs activity_type"
		}
		switch *r.ActivityType {
		case models.ActivityTraining, models.ActivityCall, models.ActivityAny:
		default:
			return "activity_type must be training, call or any"
		}
		if r.WithinMonths != nil && *r.WithinMonths <= 0 {
			return "within_months must be positive"
		}
	case models.ReqTest, models.ReqPhysical, models.ReqProficiency:
	default:
		return "unknown req_kind"
	}
	return ""
}

func (a *App) createRequirement(c *gin.Context) {
	positionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req createRequirementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	id, err := db.CreateRequirement(c.Request.Context(), a.DB, models.Requirement{
		PositionID:         &positionID,
		Kind:               req.Kind,
		GroupID:            req.GroupID,
		CourseID:           req.CourseID,
		RequiredPositionID: req.RequiredPositionID,
		ReqTaskID:          req.ReqTaskID,
		MinCount:           req.MinCount,
		ActivityType:       req.ActivityType,
		WithinMonths:       req.WithinMonths,
	})
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) deleteRequirement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := db.DeleteRequirement(c.Request.Context(), a.DB, id); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createGroupReq struct {
	Label  string `json:"label" binding:"required"`
	MinMet int    `json:"min_met" binding:"required"`
}

func (a *App) createRequirementGroup(c *gin.Context) {
	positionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MinMet <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_met must be positive"})
		return
	}
	id, err := db.CreateRequirementGroup(c.Request.Context(), a.DB, models.RequirementGroup{
		PositionID: positionID,
		Label:      req.Label,
		MinMet:     req.MinMet,
	})
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) deleteRequirementGroup(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := db.DeleteRequirementGroup(c.Request.Context(), a.DB, id); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listTasks(c *gin.Context) {
	onlyActive := c.Query("all") == ""
	tasks, err := db.ListTasks(c.Request.Context(), a.DB, onlyActive)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskReq struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	PositionID *int64 `json:"position_id"`
}

func (a *App) createTask(c *gin.Context) {
	var req createTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := db.CreateTask(c.Request.Context(), a.DB, models.Task{
		Code:       req.Code,
		Name:       req.Name,
		PositionID: req.PositionID,
		IsActive:   true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "task code already exists"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
