package dto

import "github.com/shopspring/decimal"

type CrearTasaRequest struct {
	Fecha        string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"` // empty = today
	TasaBCV      decimal.Decimal `json:"tasa_bcv"      validate:"gt=0"`
	TasaParalelo decimal.Decimal `json:"tasa_paralelo" validate:"gt=0"`
}

type TasaResponse struct {
	ID           string          `json:"id"`
	Fecha        string          `json:"fecha"`
	TasaBCV      decimal.Decimal `json:"tasa_bcv"`
	TasaParalelo decimal.Decimal `json:"tasa_paralelo"`
	Fuente       string          `json:"fuente"`
}
