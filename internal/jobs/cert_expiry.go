package jobs

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/logging"
	"github.com/sar-ops/rosterd/internal/metrics"
)

// StartCertExpiryWatch recounts certifications inside their course's
// warn window once an hour and publishes the number as a gauge.
func StartCertExpiryWatch(r *Runner, database *sql.DB, log *logging.Log) {
	r.Every(time.Hour, "cert_expiry", func(ctx context.Context) error {
		certs, err := db.ListExpiringCertifications(ctx, database, time.Now(), 0)
		if err != nil {
			return err
		}
		metrics.ExpiringCerts.Set(float64(len(certs)))
		if len(certs) > 0 {
			log.Base.Info("certifications expiring soon",
				zap.Int("count", len(certs)),
				zap.String("first_expiry", certs[0].ExpiresOn.Format("2006-01-02")))
		}
		return nil
	})
}
