package worker

// kpi_cron.go
// Background goroutine that periodically resynchronizes the cached deposit
// KPI of every active branch. A post-mutation recompute can be lost when the
// process dies between the record write and the KPI update; this cron is the
// self-healing path that converges the cache back to the latest record.

import (
	"context"
	"time"

	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// KPIResync recomputes one branch's cached deposit figure. Declared here so
// the worker package does not depend on the service layer.
type KPIResync interface {
	Recalcular(ctx context.Context, sucursalID uuid.UUID) error
}

// KPICronConfig holds all dependencies for the resync goroutine.
type KPICronConfig struct {
	SucursalRepo repository.SucursalRepository
	KPI          KPIResync
	Interval     time.Duration
}

// StartKPICron launches a background goroutine that ticks on the configured
// interval and resyncs every active branch. It respects the context for
// graceful shutdown.
func StartKPICron(ctx context.Context, cfg KPICronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("kpi_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("kpi_cron: shutting down")
				return
			case <-ticker.C:
				resyncAll(ctx, cfg)
			}
		}
	}()
}

func resyncAll(ctx context.Context, cfg KPICronConfig) {
	sucursales, err := cfg.SucursalRepo.List(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("kpi_cron: failed to list sucursales")
		return
	}

	for i := range sucursales {
		s := &sucursales[i]
		if err := cfg.KPI.Recalcular(ctx, s.ID); err != nil {
			log.Warn().Err(err).Str("sucursal_id", s.ID.String()).
				Msg("kpi_cron: resync failed for sucursal")
		}
	}
}
