package dto

// Links carries absolute URLs to the neighbouring pages, nil at either end.
type Links struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Pagina is the envelope of every list endpoint. Clients keep paging while
// links.next is present.
type Pagina[T any] struct {
	Count   int64 `json:"count"`
	Links   Links `json:"links"`
	Results []T   `json:"results"`
}

// Paginacion is bound from the page/limit query string of list endpoints.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}

// Normalizar clamps page and limit into their valid ranges.
func (p *Paginacion) Normalizar() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
}

func (p Paginacion) Offset() int { return (p.Page - 1) * p.Limit }
