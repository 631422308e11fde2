package worker

// reporte_worker.go
// Processes closing-report jobs from QueueReporte.
// Renders the cuadre's PDF from its persisted snapshot and enqueues an
// email job for the configured recipient. Generation failures are retried
// with exponential backoff; exhausted jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cuadrecaja/internal/infra"
	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReporteJobPayload is the job envelope sent to QueueReporte.
type ReporteJobPayload struct {
	CuadreID string `json:"cuadre_id"`
}

// ReporteWorker generates closing-report PDFs for saved cuadres.
type ReporteWorker struct {
	cuadreRepo     repository.CuadreRepository
	sucursalRepo   repository.SucursalRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
	reporteEmail   string
}

// NewReporteWorker wires all dependencies for the report worker.
func NewReporteWorker(
	cuadreRepo repository.CuadreRepository,
	sucursalRepo repository.SucursalRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
	reporteEmail string,
) *ReporteWorker {
	return &ReporteWorker{
		cuadreRepo:     cuadreRepo,
		sucursalRepo:   sucursalRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		reporteEmail:   reporteEmail,
	}
}

// Process handles a single reporte job:
//  1. Parse ReporteJobPayload from the job envelope
//  2. Fetch the cuadre and its sucursal
//  3. Render the PDF from the persisted snapshot (with backoff retries)
//  4. Enqueue an email job if a recipient is configured
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}

	cuadreID, err := uuid.Parse(payload.CuadreID)
	if err != nil {
		log.Error().Str("cuadre_id", payload.CuadreID).Msg("reporte_worker: invalid cuadre_id")
		return
	}

	cuadre, err := w.cuadreRepo.FindByID(ctx, cuadreID)
	if err != nil || cuadre == nil {
		// The cuadre may have been deleted between enqueue and dequeue —
		// nothing to report on, not an error worth the DLQ.
		log.Warn().Str("cuadre_id", payload.CuadreID).Msg("reporte_worker: cuadre no longer exists, skipping")
		return
	}

	sucursal, err := w.sucursalRepo.FindByID(ctx, cuadre.SucursalID)
	if err != nil || sucursal == nil {
		log.Error().Err(err).Str("sucursal_id", cuadre.SucursalID.String()).
			Msg("reporte_worker: sucursal not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateCuadrePDF(cuadre, sucursal, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("cuadre_id", payload.CuadreID).
				Msg("reporte_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("cuadre_id", payload.CuadreID).
			Msg("reporte_worker: PDF generation failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueReporte, "reporte", raw,
			fmt.Sprintf("pdf generation failed: %v", genErr), 3)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("cuadre_id", payload.CuadreID).Msg("reporte_worker: PDF generated")

	if w.reporteEmail == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: w.reporteEmail,
		Subject: fmt.Sprintf("Cuadre de caja %s — %s", cuadre.Fecha, sucursal.Nombre),
		Body: fmt.Sprintf("Adjunto el cuadre de caja de %s del %s.\nTotal a depositar: %s",
			sucursal.Nombre, cuadre.Fecha, cuadre.Totales.TotalADepositar.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("cuadre_id", payload.CuadreID).Msg("reporte_worker: failed to enqueue email")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
