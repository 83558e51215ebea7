package dto

import "github.com/shopspring/decimal"

// HistorialPrecioItem is one row in the price-history list.
type HistorialPrecioItem struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	UsuarioID     *string         `json:"usuario_id,omitempty"`
	CostoAntes    decimal.Decimal `json:"costo_antes"`
	CostoDespues  decimal.Decimal `json:"costo_despues"`
	MargenAntes   decimal.Decimal `json:"margen_antes"`
	MargenDespues decimal.Decimal `json:"margen_despues"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}
