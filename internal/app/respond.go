package app

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/sar-ops/rosterd/internal/ctxutil"
	"github.com/sar-ops/rosterd/internal/observability"
)

func (a *App) serverError(c *gin.Context, err error) {
	op, _ := ctxutil.Op(c.Request.Context())
	a.Log.Base.Error("handler error", zap.String("op", op), zap.Error(err))
	observability.CaptureErr(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// fail maps sql.ErrNoRows to 404 and everything else to 500.
func (a *App) fail(c *gin.Context, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	a.serverError(c, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
