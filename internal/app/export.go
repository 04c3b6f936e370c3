package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/export"
	"github.com/sar-ops/rosterd/internal/models"
	"github.com/sar-ops/rosterd/internal/qual"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportRoster streams an xlsx with the roster, all certifications and
// the current readiness scan.
func (a *App) exportRoster(c *gin.Context) {
	ctx := c.Request.Context()

	members, err := db.ListMembers(ctx, a.DB, false)
	if err != nil {
		a.serverError(c, err)
		return
	}
	certs, err := db.ListAllCertifications(ctx, a.DB)
	if err != nil {
		a.serverError(c, err)
		return
	}
	ready, err := a.Qual.ScanReadiness(ctx)
	if err != nil {
		a.serverError(c, err)
		return
	}

	wb, err := export.NewRosterWorkbook([]export.SheetSpec{
		membersSheet(members),
		certificationsSheet(certs),
		readinessSheet(ready),
	})
	if err != nil {
		a.serverError(c, err)
		return
	}

	filename := fmt.Sprintf("roster_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if _, err := wb.File.WriteTo(c.Writer); err != nil {
		a.Log.Sugar.Warnw("roster export write", "err", err)
	}
}

func membersSheet(members []models.Member) export.SheetSpec {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		active := "yes"
		if !m.IsActive {
			active = "no"
		}
		rows = append(rows, []string{
			m.LastName, m.FirstName, strOrEmpty(m.Callsign),
			strOrEmpty(m.Email), strOrEmpty(m.Phone),
			dayOrEmpty(m.JoinedOn), active,
		})
	}
	return export.SheetSpec{
		Title:  "Members",
		Header: []string{"Last name", "First name", "Callsign", "Email", "Phone", "Joined", "Active"},
		Rows:   rows,
	}
}

func certificationsSheet(certs []db.RosterCertRow) export.SheetSpec {
	rows := make([][]string, 0, len(certs))
	for _, cert := range certs {
		rows = append(rows, []string{
			cert.MemberName, cert.CourseCode,
			cert.CompletedOn.Format("2006-01-02"), dayOrEmpty(cert.ExpiresOn),
		})
	}
	return export.SheetSpec{
		Title:  "Certifications",
		Header: []string{"Member", "Course", "Completed", "Expires"},
		Rows:   rows,
	}
}

func readinessSheet(ready []qual.ReadyRow) export.SheetSpec {
	rows := make([][]string, 0, len(ready))
	for _, r := range ready {
		status := "new"
		if r.ExistingStatus != nil {
			status = string(*r.ExistingStatus)
		}
		rows = append(rows, []string{
			r.Member.LastName, r.Member.FirstName, r.Position.Code, r.Position.Name, status,
		})
	}
	return export.SheetSpec{
		Title:  "Readiness",
		Header: []string{"Last name", "First name", "Position", "Position name", "Current status"},
		Rows:   rows,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dayOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
