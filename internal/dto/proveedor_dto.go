package dto

type ProveedorRequest struct {
	RazonSocial   string  `json:"razon_social"   validate:"required,min=2,max=150"`
	RIF           string  `json:"rif"            validate:"required,min=5,max=20"`
	Telefono      *string `json:"telefono"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Direccion     *string `json:"direccion"`
	CondicionPago *string `json:"condicion_pago"`
}

type ProveedorFilter struct {
	Buscar string `form:"buscar"`
	Paginacion
}

type ProveedorResponse struct {
	ID            string  `json:"id"`
	RazonSocial   string  `json:"razon_social"`
	RIF           string  `json:"rif"`
	Telefono      *string `json:"telefono"`
	Email         *string `json:"email"`
	Direccion     *string `json:"direccion"`
	CondicionPago *string `json:"condicion_pago"`
	Activo        bool    `json:"activo"`
}
