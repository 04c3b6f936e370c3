package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/db"
)

// scanReadiness runs the full roster scan: every active member against
// every active position they are not yet qualified for.
func (a *App) scanReadiness(c *gin.Context) {
	rows, err := a.Qual.ScanReadiness(c.Request.Context())
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": rows, "count": len(rows)})
}

func (a *App) checkPositionRequirements(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	positionID, ok := idParam(c, "pid")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if !a.pairExists(c, ctx, memberID, positionID) {
		return
	}
	res, err := a.Qual.CheckPositionRequirements(ctx, memberID, positionID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// pairExists 404s on unknown member or position ids; an empty evaluation
// for a typo'd id would otherwise read as "not ready".
func (a *App) pairExists(c *gin.Context, ctx context.Context, memberID, positionID int64) bool {
	if _, err := db.GetMember(ctx, a.DB, memberID); err != nil {
		a.fail(c, err)
		return false
	}
	if _, err := db.GetPosition(ctx, a.DB, positionID); err != nil {
		a.fail(c, err)
		return false
	}
	return true
}

// approvePosition promotes a member to qualified, but only after the
// requirement check passes. A failed check reports the unmet labels so
// the caller can see exactly what is missing.
func (a *App) approvePosition(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	positionID, ok := idParam(c, "pid")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if !a.pairExists(c, ctx, memberID, positionID) {
		return
	}
	res, err := a.Qual.CheckPositionRequirements(ctx, memberID, positionID)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !res.OK {
		c.JSON(http.StatusConflict, gin.H{"error": "requirements not met", "unmet": res.Unmet})
		return
	}
	var approvedBy *int64
	if accountID, ok := ctxutil.AccountID(ctx); ok {
		approvedBy = &accountID
	}
	if err := db.ApproveMemberPosition(ctx, a.DB, memberID, positionID, approvedBy, time.Now()); err != nil {
		a.serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *App) listExpiringCertifications(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid months"})
			return
		}
		months = n
	}
	certs, err := db.ListExpiringCertifications(c.Request.Context(), a.DB, time.Now(), months)
	if err != nil {
		a.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}
