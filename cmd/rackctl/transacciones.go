package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"rackpos/internal/apiclient"
	"rackpos/internal/carrito"
	"rackpos/internal/dto"
	"rackpos/internal/pago"
	"rackpos/internal/pantalla"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// lineaFlag is one --item value: producto_id:cantidad[:unidad_venta_id].
type lineaFlag struct {
	productoID uuid.UUID
	cantidad   decimal.Decimal
	unidadID   uuid.UUID
}

func parseLinea(s string) (lineaFlag, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return lineaFlag{}, fmt.Errorf("item %q: formato producto_id:cantidad[:unidad_venta_id]", s)
	}
	var l lineaFlag
	var err error
	if l.productoID, err = uuid.Parse(parts[0]); err != nil {
		return lineaFlag{}, fmt.Errorf("item %q: producto: %w", s, err)
	}
	if l.cantidad, err = decimal.NewFromString(parts[1]); err != nil {
		return lineaFlag{}, fmt.Errorf("item %q: cantidad: %w", s, err)
	}
	if len(parts) == 3 {
		if l.unidadID, err = uuid.Parse(parts[2]); err != nil {
			return lineaFlag{}, fmt.Errorf("item %q: unidad: %w", s, err)
		}
	}
	return l, nil
}

// parseLineas parses every --item. The cart holds one line per product, so a
// product named twice is rejected instead of silently overwritten.
func parseLineas(raws []string) ([]lineaFlag, error) {
	if len(raws) == 0 {
		return nil, errors.New("debe indicar al menos un --item")
	}
	out := make([]lineaFlag, 0, len(raws))
	vistos := make(map[uuid.UUID]bool, len(raws))
	for _, raw := range raws {
		l, err := parseLinea(raw)
		if err != nil {
			return nil, err
		}
		if vistos[l.productoID] {
			return nil, fmt.Errorf("item %q: producto repetido, indique la cantidad total en un solo --item", raw)
		}
		vistos[l.productoID] = true
		out = append(out, l)
	}
	return out, nil
}

// pagoFlags are shared by venta and cuenta.
type pagoFlags struct {
	moneda      string
	monto       string
	metodo      string
	descuento   string
	transaccion string
}

func (f *pagoFlags) register(cmd *cobra.Command, recurso string) {
	cmd.Flags().StringVar(&f.moneda, "moneda", "USD", "USD o VES")
	cmd.Flags().StringVar(&f.monto, "monto", "", "monto a pagar en la moneda (por defecto el saldo completo)")
	cmd.Flags().StringVar(&f.metodo, "metodo", "efectivo", "efectivo | transferencia | pago_movil | punto | zelle")
	cmd.Flags().StringVar(&f.descuento, "descuento", "0", "descuento porcentual (solo USD)")
	cmd.Flags().StringVar(&f.transaccion, recurso, "", "id de una "+recurso+" ya creada: solo registra el pago")
}

// armarCarrito builds a cart from --item flags, loading selling units and
// stock the same way the interactive screen does.
func armarCarrito(ctx context.Context, c *apiclient.Client, contexto carrito.Contexto, sucursalID string, lineas []string) (*carrito.Carrito, error) {
	parsed, err := parseLineas(lineas)
	if err != nil {
		return nil, err
	}
	car := carrito.New(contexto, apiclient.NewDetalleLoader(c, sucursalID))
	for _, l := range parsed {
		det, err := c.DetalleProducto(ctx, l.productoID.String(), sucursalID)
		if err != nil {
			return nil, err
		}
		resp, err := c.Producto(ctx, l.productoID.String())
		if err != nil {
			return nil, err
		}
		resp.Stock = det.Stock
		prod, err := apiclient.ProductoCarrito(*resp)
		if err != nil {
			return nil, err
		}
		prod.PermiteDecimales = det.UnidadMedida.PermiteDecimales
		if err := car.AgregarItem(ctx, prod); err != nil {
			return nil, fmt.Errorf("%s: %w", prod.Nombre, err)
		}
		if err := car.Esperar(ctx); err != nil {
			return nil, err
		}
		if l.unidadID != uuid.Nil {
			if err := car.SeleccionarUnidadVenta(prod.ID, l.unidadID); err != nil {
				return nil, fmt.Errorf("%s: %w", prod.Nombre, err)
			}
		}
		if err := car.FijarCantidad(prod.ID, l.cantidad); err != nil {
			return nil, fmt.Errorf("%s: %w", prod.Nombre, err)
		}
	}
	if car.Vacio() {
		return nil, errors.New("el carrito quedo vacio")
	}
	return car, nil
}

func imprimirCarrito(a *app, car *carrito.Carrito) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCTO\tCANTIDAD\tUNIDAD\tPRECIO\tTOTAL")
	for _, it := range car.Items() {
		unidad := it.UnidadMedida
		if it.Unidad != nil {
			unidad = fmt.Sprintf("%s (x%s)", it.Unidad.Nombre, it.Unidad.Factor)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.Producto.Nombre, it.Cantidad, unidad,
			it.PrecioUnitario().StringFixed(2), it.Total().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t\tTOTAL USD\t%s\n", car.Total().StringFixed(2))
	return w.Flush()
}

// prepararPago computes the amount due for pendienteUSD and builds the
// payment request. Without --monto the full expected amount is paid.
func prepararPago(ctx context.Context, a *app, f pagoFlags, pendienteUSD decimal.Decimal) (dto.RegistrarPagoRequest, pago.Resultado, error) {
	moneda, err := pago.ParseMoneda(f.moneda)
	if err != nil {
		return dto.RegistrarPagoRequest{}, pago.Resultado{}, err
	}
	descuento, err := decimal.NewFromString(f.descuento)
	if err != nil {
		return dto.RegistrarPagoRequest{}, pago.Resultado{}, fmt.Errorf("descuento: %w", err)
	}

	req := dto.RegistrarPagoRequest{Moneda: string(moneda), MetodoPago: f.metodo}
	tasaBCV := decimal.Zero
	if moneda == pago.VES {
		tasa, err := a.client.TasaHoy(ctx)
		if err != nil {
			return req, pago.Resultado{}, fmt.Errorf("tasa de cambio: %w", err)
		}
		tasaBCV = tasa.TasaBCV
		req.TasaCambioID = &tasa.ID
	}

	res, err := pago.CalcularMonto(pendienteUSD, moneda, descuento, tasaBCV)
	if err != nil {
		return req, res, err
	}
	req.DescuentoPct = res.DescuentoPct

	monto := res.MontoEsperado
	if f.monto != "" {
		if monto, err = decimal.NewFromString(f.monto); err != nil {
			return req, res, fmt.Errorf("monto: %w", err)
		}
	}
	if err := pago.Validar(monto, res); err != nil {
		return req, res, err
	}
	req.Monto = monto
	return req, res, nil
}

// liquidar runs the payment screen: total from the cart (new transaction) or
// from the server (existing one), then the two-step checkout.
func liquidar(cmd *cobra.Command, a *app, scr *pantalla.Pantalla, r apiclient.Recurso, f pagoFlags, total decimal.Decimal, crear any) error {
	ctx := cmd.Context()
	pendiente := total
	if f.transaccion != "" {
		var tx *dto.TransaccionResponse
		var err error
		if r == apiclient.RecursoCuentas {
			tx, err = a.client.Cuenta(ctx, f.transaccion)
		} else {
			tx, err = a.client.Venta(ctx, f.transaccion)
		}
		if err != nil {
			return err
		}
		var sobrepago bool
		pendiente, sobrepago = pago.Pendiente(tx.TotalUSD, tx.TotalPagadoUSD)
		if sobrepago {
			return fmt.Errorf("%s %s tiene un sobrepago de %s USD", r, tx.ID, pendiente.Neg().StringFixed(2))
		}
	}

	if _, err := scr.Disparar(pantalla.IniciarPago, f.transaccion); err != nil {
		return err
	}
	req, res, err := prepararPago(ctx, a, f, pendiente)
	if err != nil {
		_, _ = scr.Disparar(pantalla.Cancelar, "")
		return err
	}
	fmt.Fprintf(a.out, "Pendiente %s USD, a pagar %s %s (descuento %s%%)\n",
		pendiente.StringFixed(2), req.Monto.StringFixed(2), res.Moneda, res.Descuento)

	out, err := a.client.Checkout(ctx, r, f.transaccion, crear, req)
	var fallido *apiclient.PagoFallidoError
	if errors.As(err, &fallido) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s quedo registrada sin pago; reintente con --%s %s\n",
			r, fallido.TransaccionID, strings.TrimSuffix(string(r), "s"), fallido.TransaccionID)
		_, _ = scr.Disparar(pantalla.Cancelar, "")
		return fallido.Err
	}
	if err != nil {
		_, _ = scr.Disparar(pantalla.Cancelar, "")
		return err
	}
	_, _ = scr.Disparar(pantalla.Confirmar, "")

	restante, sobrepago := pago.Pendiente(out.TotalUSD, out.TotalPagadoUSD)
	fmt.Fprintf(a.out, "%s #%d %s: pagado %s de %s USD", r, out.Numero, out.Estado,
		out.TotalPagadoUSD.StringFixed(2), out.TotalUSD.StringFixed(2))
	switch {
	case sobrepago:
		fmt.Fprintf(a.out, " (sobrepago %s)\n", restante.Neg().StringFixed(2))
	case restante.IsPositive():
		fmt.Fprintf(a.out, " (pendiente %s)\n", restante.StringFixed(2))
	default:
		fmt.Fprintln(a.out)
	}
	return nil
}

func newVentaCmd(a *app) *cobra.Command {
	var (
		cliente string
		items   []string
		pf      pagoFlags
	)
	cmd := &cobra.Command{Use: "venta", Short: "Ventas a clientes"}
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Arma el carrito, registra la venta y su pago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ses, err := a.sesion(ctx)
			if err != nil {
				return err
			}
			suc, err := ses.Sucursal()
			if err != nil {
				return err
			}

			var scr pantalla.Pantalla
			var total decimal.Decimal
			var req dto.CrearVentaRequest
			if pf.transaccion == "" {
				if _, err := scr.Disparar(pantalla.Editar, ""); err != nil {
					return err
				}
				car, err := armarCarrito(ctx, a.client, carrito.ContextoVenta, suc, items)
				if err != nil {
					return err
				}
				if err := imprimirCarrito(a, car); err != nil {
					return err
				}
				total = car.Total()
				req = dto.CrearVentaRequest{SucursalID: suc, ClienteID: cliente, Items: apiclient.ItemsRequest(car.Items(), false)}
			}
			return liquidar(cmd, a, &scr, apiclient.RecursoVentas, pf, total, req)
		},
	}
	crear.Flags().StringVar(&cliente, "cliente", "", "id del cliente")
	crear.Flags().StringArrayVar(&items, "item", nil, "producto_id:cantidad[:unidad_venta_id] (repetible)")
	pf.register(crear, "venta")
	crear.MarkFlagsOneRequired("cliente", "venta")

	anular := &cobra.Command{
		Use:   "anular <id> <motivo>",
		Short: "Anula una venta sin pagos",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scr pantalla.Pantalla
			if _, err := scr.Disparar(pantalla.PedirBorrado, args[0]); err != nil {
				return err
			}
			if err := a.client.AnularVenta(cmd.Context(), args[0], args[1]); err != nil {
				_, _ = scr.Disparar(pantalla.Cancelar, "")
				return err
			}
			_, _ = scr.Disparar(pantalla.Confirmar, "")
			fmt.Fprintf(a.out, "Venta %s anulada\n", args[0])
			return nil
		},
	}
	cmd.AddCommand(crear, anular)
	return cmd
}

func newCuentaCmd(a *app) *cobra.Command {
	var (
		proveedor string
		items     []string
		pf        pagoFlags
	)
	cmd := &cobra.Command{Use: "cuenta", Short: "Compras a proveedores"}
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Registra una compra (suma stock) y su pago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ses, err := a.sesion(ctx)
			if err != nil {
				return err
			}
			suc, err := ses.Sucursal()
			if err != nil {
				return err
			}

			var scr pantalla.Pantalla
			var total decimal.Decimal
			var req dto.CrearCuentaRequest
			if pf.transaccion == "" {
				if _, err := scr.Disparar(pantalla.Editar, ""); err != nil {
					return err
				}
				car, err := armarCarrito(ctx, a.client, carrito.ContextoCuenta, suc, items)
				if err != nil {
					return err
				}
				if err := imprimirCarrito(a, car); err != nil {
					return err
				}
				total = car.Total()
				req = dto.CrearCuentaRequest{SucursalID: suc, ProveedorID: proveedor, Items: apiclient.ItemsRequest(car.Items(), true)}
			}
			return liquidar(cmd, a, &scr, apiclient.RecursoCuentas, pf, total, req)
		},
	}
	crear.Flags().StringVar(&proveedor, "proveedor", "", "id del proveedor")
	crear.Flags().StringArrayVar(&items, "item", nil, "producto_id:cantidad[:unidad_venta_id] (repetible)")
	pf.register(crear, "cuenta")
	crear.MarkFlagsOneRequired("proveedor", "cuenta")
	cmd.AddCommand(crear)
	return cmd
}

func newVentasCmd(a *app) *cobra.Command {
	var filter dto.TransaccionFilter
	var paginas int
	var xlsx string
	cmd := &cobra.Command{
		Use:   "ventas",
		Short: "Historial de ventas de la sucursal actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter.SucursalID == "" {
				filter.SucursalID = a.store.SucursalID()
			}
			if xlsx != "" {
				return exportarVentas(cmd.Context(), a, filter, xlsx)
			}
			pag := a.client.Ventas(filter)
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NUMERO\tFECHA\tCLIENTE\tTOTAL\tPAGADO\tPENDIENTE\tESTADO")
			for i := 0; paginas <= 0 || i < paginas; i++ {
				res, err := pag.Siguiente(cmd.Context())
				if err != nil {
					return err
				}
				for _, v := range res {
					pendiente := v.PendienteUSD.StringFixed(2)
					if v.Sobrepago {
						pendiente += " (sobrepago)"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", v.Numero, v.CreatedAt, v.Tercero,
						v.TotalUSD.StringFixed(2), v.TotalPagadoUSD.StringFixed(2), pendiente, v.Estado)
				}
				if pag.Estado() == apiclient.Agotado {
					break
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if pag.Estado() != apiclient.Agotado {
				fmt.Fprintf(a.out, "mostrando %d de %d; use --paginas 0 para ver todas\n", len(pag.Items()), pag.Total())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Estado, "estado", "", "pendiente | pagada | anulada")
	cmd.Flags().StringVar(&filter.TerceroID, "cliente", "", "id del cliente")
	cmd.Flags().StringVar(&filter.Desde, "desde", "", "YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.Hasta, "hasta", "", "YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.SucursalID, "sucursal", "", "sucursal (por defecto la actual)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "ventas por pagina")
	cmd.Flags().IntVar(&paginas, "paginas", 1, "paginas a cargar (0 = todas)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "guardar todas las ventas filtradas en un archivo .xlsx")
	return cmd
}

func exportarVentas(ctx context.Context, a *app, filter dto.TransaccionFilter, ruta string) error {
	f, err := os.Create(ruta)
	if err != nil {
		return err
	}
	if err := a.client.ExportarVentas(ctx, filter, f); err != nil {
		f.Close()
		_ = os.Remove(ruta)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ventas exportadas a %s\n", ruta)
	return nil
}
