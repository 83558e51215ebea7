// Package pantalla models the modal state of a list screen as one enum with
// an explicit transition table.
package pantalla

import (
	"fmt"
	"sync"
)

type Estado int

const (
	Cerrado Estado = iota
	Editando
	ConfirmandoBorrado
	Pagando
)

func (e Estado) String() string {
	switch e {
	case Editando:
		return "editando"
	case ConfirmandoBorrado:
		return "confirmandoBorrado"
	case Pagando:
		return "pagando"
	default:
		return "cerrado"
	}
}

type Evento int

const (
	Editar Evento = iota
	PedirBorrado
	IniciarPago
	Confirmar
	Cancelar
)

func (e Evento) String() string {
	switch e {
	case Editar:
		return "editar"
	case PedirBorrado:
		return "pedirBorrado"
	case IniciarPago:
		return "iniciarPago"
	case Confirmar:
		return "confirmar"
	case Cancelar:
		return "cancelar"
	default:
		return fmt.Sprintf("evento(%d)", int(e))
	}
}

// ErrTransicion is returned for an event the current state does not accept.
type ErrTransicion struct {
	Desde  Estado
	Evento Evento
}

func (e *ErrTransicion) Error() string {
	return fmt.Sprintf("pantalla: %s no admite %s", e.Desde, e.Evento)
}

var transiciones = map[Estado]map[Evento]Estado{
	Cerrado: {
		Editar:       Editando,
		PedirBorrado: ConfirmandoBorrado,
		IniciarPago:  Pagando,
	},
	Editando: {
		// a cart being edited goes straight to checkout
		IniciarPago: Pagando,
		Confirmar:   Cerrado,
		Cancelar:    Cerrado,
	},
	ConfirmandoBorrado: {
		Confirmar: Cerrado,
		Cancelar:  Cerrado,
	},
	Pagando: {
		Confirmar: Cerrado,
		Cancelar:  Cerrado,
	},
}

// Pantalla is one screen's modal state plus the record it applies to.
type Pantalla struct {
	mu       sync.Mutex
	estado   Estado
	objetivo string
}

func (p *Pantalla) Estado() Estado {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estado
}

// Objetivo is the id of the record being edited, deleted or paid; empty when
// Cerrado or creating a new one.
func (p *Pantalla) Objetivo() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.objetivo
}

// Disparar applies ev. Leaving Cerrado takes the target id; returning to
// Cerrado clears it; other moves keep it.
func (p *Pantalla) Disparar(ev Evento, objetivo string) (Estado, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sig, ok := transiciones[p.estado][ev]
	if !ok {
		return p.estado, &ErrTransicion{Desde: p.estado, Evento: ev}
	}
	switch {
	case sig == Cerrado:
		p.objetivo = ""
	case p.estado == Cerrado:
		p.objetivo = objetivo
	case objetivo != "":
		p.objetivo = objetivo
	}
	p.estado = sig
	return sig, nil
}
