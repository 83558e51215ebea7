package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"rackpos/internal/infra"
	"rackpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is sent to QueueRecibos after a sale payment.
type ReciboJobPayload struct {
	VentaID string `json:"venta_id"`
}

// ReciboWorker renders the PDF receipt of a sale and, when the customer has an
// email, enqueues it for delivery.
type ReciboWorker struct {
	ventaRepo      repository.VentaRepository
	empresaRepo    repository.EmpresaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReciboWorker(
	ventaRepo repository.VentaRepository,
	empresaRepo repository.EmpresaRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReciboWorker {
	return &ReciboWorker{
		ventaRepo:      ventaRepo,
		empresaRepo:    empresaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("recibo_worker: invalid payload: %w", err)
	}
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("recibo_worker: invalid venta_id %q", payload.VentaID)
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("recibo_worker: load venta: %w", err)
	}
	empresa, err := w.empresaRepo.Get(ctx)
	if err != nil {
		empresa = nil
	}

	path, err := infra.GenerateReciboPDF(venta, empresa, w.pdfStoragePath)
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", payload.VentaID).Str("path", path).Msg("recibo_worker: PDF generated")

	if venta.Cliente == nil || venta.Cliente.Email == nil || *venta.Cliente.Email == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: *venta.Cliente.Email,
		Subject: fmt.Sprintf("Recibo de venta N° %d", venta.Numero),
		Body:    fmt.Sprintf("Adjuntamos el recibo de su compra por $%s.", venta.TotalUSD.StringFixed(2)),
		PDFPath: path,
	})
}
