package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/models"
)

func (a *App) listMembers(c *gin.Context) {
	onlyActive := c.Query("all") == ""
	members, err := db.ListMembers(c.Request.Context(), a.DB, onlyActive)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (a *App) getMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	member, err := db.GetMember(ctx, a.DB, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	positions, err := db.ListPositionsForMember(ctx, a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	certs, err := db.ListCertificationsForMember(ctx, a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	signoffs, err := db.ListSignoffsForMember(ctx, a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"member":         member,
		"positions":      positions,
		"certifications": certs,
		"signoffs":       signoffs,
	})
}

type createMemberReq struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Callsign  *string `json:"callsign"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	JoinedOn  *string `json:"joined_on"`
}

func (a *App) createMember(c *gin.Context) {
	var req createMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := models.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Callsign:  req.Callsign,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if req.JoinedOn != nil {
		joined, err := time.Parse("2006-01-02", *req.JoinedOn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "joined_on: want YYYY-MM-DD"})
			return
		}
		m.JoinedOn = &joined
	}
	id, err := db.CreateMember(c.Request.Context(), a.DB, m)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "callsign already in use"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *App) updateMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Callsign  *string `json:"callsign"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := db.MemberUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Callsign:  req.Callsign,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  req.IsActive,
	}
	if err := db.UpdateMember(c.Request.Context(), a.DB, id, u); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listMemberCertifications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	certs, err := db.ListCertificationsForMember(c.Request.Context(), a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	type certRow struct {
		models.Certification
		IsValid bool `json:"is_valid"`
	}
	today := time.Now()
	out := make([]certRow, 0, len(certs))
	for _, cert := range certs {
		out = append(out, certRow{Certification: cert, IsValid: cert.Valid(today)})
	}
	c.JSON(http.StatusOK, out)
}

type addCertificationReq struct {
	CourseID    int64  `json:"course_id" binding:"required"`
	CompletedOn string `json:"completed_on" binding:"required"`
}

// addCertification records a course completion; the expiry date is
// derived from the course's validity window at insert time.
func (a *App) addCertification(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req addCertificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	completed, err := time.Parse("2006-01-02", req.CompletedOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed_on: want YYYY-MM-DD"})
		return
	}
	var recordedBy *int64
	if accountID, ok := ctxutil.AccountID(c.Request.Context()); ok {
		recordedBy = &accountID
	}
	cert, err := db.AddCertification(c.Request.Context(), a.DB, memberID, req.CourseID, completed, recordedBy)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (a *App) listMemberSignoffs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	signoffs, err := db.ListSignoffsForMember(c.Request.Context(), a.DB, id)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, signoffs)
}

type addSignoffReq struct {
	TaskID            int64   `json:"task_id" binding:"required"`
	PositionID        *int64  `json:"position_id"`
	CallID            *int64  `json:"call_id"`
	TrainingSessionID *int64  `json:"training_session_id"`
	EvaluatorName     string  `json:"evaluator_name" binding:"required"`
	Notes             *string `json:"notes"`
	SignedOn          string  `json:"signed_on" binding:"required"`
}

func (a *App) addSignoff(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req addSignoffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	signed, err := time.Parse("2006-01-02", req.SignedOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signed_on: want YYYY-MM-DD"})
		return
	}
	id, err := db.AddTaskSignoff(c.Request.Context(), a.DB, models.TaskSignoff{
		MemberID:          memberID,
		TaskID:            req.TaskID,
		PositionID:        req.PositionID,
		CallID:            req.CallID,
		TrainingSessionID: req.TrainingSessionID,
		EvaluatorName:     req.EvaluatorName,
		Notes:             req.Notes,
		SignedOn:          signed,
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "signoff already recorded"})
			return
		}
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
