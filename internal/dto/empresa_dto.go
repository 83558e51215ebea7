package dto

type ActualizarEmpresaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=150"`
	RIF       string  `json:"rif"       validate:"required,min=5,max=20"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
}

type EmpresaResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	RIF       string  `json:"rif"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
}
