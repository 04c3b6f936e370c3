package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/models"
)

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

func (a *App) listTrainings(c *gin.Context) {
	sessions, err := db.ListTrainingSessions(c.Request.Context(), a.DB)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

type createTrainingReq struct {
	Title    string  `json:"title" binding:"required"`
	StartsOn string  `json:"starts_on" binding:"required"`
	Location *string `json:"location"`
}

func (a *App) createTraining(c *gin.Context) {
	var req createTrainingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	starts, ok := parseDay(req.StartsOn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_on: want YYYY-MM-DD"})
		return
	}
	id, err := db.CreateTrainingSession(c.Request.Context(), a.DB, models.TrainingSession{
		Title:    req.Title,
		StartsOn: starts,
		Location: req.Location,
	})
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type attendanceReq struct {
	MemberIDs []int64 `json:"member_ids" binding:"required"`
}

func (a *App) addTrainingAttendance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req attendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.AddTrainingAttendance(c.Request.Context(), a.DB, id, req.MemberIDs); err != nil {
		a.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listCalls(c *gin.Context) {
	calls, err := db.ListCalls(c.Request.Context(), a.DB)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

type createCallReq struct {
	Number   string  `json:"number" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	OpenedOn string  `json:"opened_on" binding:"required"`
	ClosedOn *string `json:"closed_on"`
}

func (a *App) createCall(c *gin.Context) {
	var req createCallReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opened, ok := parseDay(req.OpenedOn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opened_on: want YYYY-MM-DD"})
		return
	}
	call := models.Call{Number: req.Number, Title: req.Title, OpenedOn: opened}
	if req.ClosedOn != nil {
		closed, ok := parseDay(*req.ClosedOn)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "closed_on: want YYYY-MM-DD"})
			return
		}
		call.ClosedOn = &closed
	}
	id, err := db.CreateCall(c.Request.Context(), a.DB, call)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "call number already exists"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type callAttendanceReq struct {
	MemberID int64   `json:"member_id" binding:"required"`
	TimeIn   string  `json:"time_in" binding:"required"`
	TimeOut  *string `json:"time_out"`
}

func (a *App) addCallAttendance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req callAttendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	timeIn, err := time.Parse(time.RFC3339, req.TimeIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time_in: want RFC3339"})
		return
	}
	var timeOut *time.Time
	if req.TimeOut != nil {
		t, err := time.Parse(time.RFC3339, *req.TimeOut)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "time_out: want RFC3339"})
			return
		}
		timeOut = &t
	}
	if err := db.AddCallAttendance(c.Request.Context(), a.DB, id, req.MemberID, timeIn, timeOut); err != nil {
		a.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listEvents(c *gin.Context) {
	events, err := db.ListEvents(c.Request.Context(), a.DB)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type createEventReq struct {
	Kind   models.EventKind `json:"kind" binding:"required"`
	Title  string           `json:"title" binding:"required"`
	HeldOn string           `json:"held_on" binding:"required"`
}

func (a *App) createEvent(c *gin.Context) {
	var req createEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Kind != models.EventMeeting && req.Kind != models.EventOther {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be meeting or event"})
		return
	}
	held, ok := parseDay(req.HeldOn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "held_on: want YYYY-MM-DD"})
		return
	}
	id, err := db.CreateEvent(c.Request.Context(), a.DB, models.Event{
		Kind:   req.Kind,
		Title:  req.Title,
		HeldOn: held,
	})
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) addEventAttendance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req attendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.AddEventAttendance(c.Request.Context(), a.DB, id, req.MemberIDs); err != nil {
		a.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
