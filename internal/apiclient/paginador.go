package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"rackpos/internal/dto"
)

// EstadoPaginador is the lifecycle of an infinite-scroll list.
type EstadoPaginador int

const (
	Inactivo EstadoPaginador = iota // ready to fetch the next page
	Cargando                        // a page request is in flight
	Agotado                         // the last page carried no links.next
)

func (e EstadoPaginador) String() string {
	switch e {
	case Cargando:
		return "cargando"
	case Agotado:
		return "agotado"
	default:
		return "inactivo"
	}
}

var ErrCargando = errors.New("ya hay una pagina en curso")

// Paginador fetches a list endpoint page by page. The page cursor advances
// only while the response envelope carries links.next.
type Paginador[T any] struct {
	c     *Client
	path  string
	query url.Values

	mu     sync.Mutex
	estado EstadoPaginador
	pagina int
	total  int64
	items  []T
	gen    int
}

func NewPaginador[T any](c *Client, path string, query url.Values) *Paginador[T] {
	if query == nil {
		query = url.Values{}
	}
	return &Paginador[T]{c: c, path: path, query: query, pagina: 1}
}

func (p *Paginador[T]) Estado() EstadoPaginador {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estado
}

// Total is the count reported by the last response.
func (p *Paginador[T]) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Items returns everything loaded so far.
func (p *Paginador[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Siguiente loads the next page and returns its results. Once Agotado it
// returns nil without a request. A failed request leaves the cursor where it
// was so the caller may try again.
func (p *Paginador[T]) Siguiente(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	switch p.estado {
	case Agotado:
		p.mu.Unlock()
		return nil, nil
	case Cargando:
		p.mu.Unlock()
		return nil, ErrCargando
	}
	p.estado = Cargando
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(p.pagina))
	gen := p.gen
	p.mu.Unlock()

	var env dto.Pagina[T]
	err := p.c.do(ctx, http.MethodGet, p.path, q, nil, &env)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// reset while loading; the page belongs to the old list
		return nil, nil
	}
	if err != nil {
		p.estado = Inactivo
		return nil, err
	}
	p.items = append(p.items, env.Results...)
	p.total = env.Count
	if env.Links.Next != nil {
		p.pagina++
		p.estado = Inactivo
	} else {
		p.estado = Agotado
	}
	return env.Results, nil
}

// Todos drains the remaining pages.
func (p *Paginador[T]) Todos(ctx context.Context) ([]T, error) {
	for p.Estado() != Agotado {
		if _, err := p.Siguiente(ctx); err != nil {
			return nil, err
		}
	}
	return p.Items(), nil
}

// Reiniciar drops loaded pages, e.g. after a mutation made the list stale.
func (p *Paginador[T]) Reiniciar() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.estado = Inactivo
	p.pagina = 1
	p.total = 0
	p.items = nil
}
