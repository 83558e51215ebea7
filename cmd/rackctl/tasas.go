package main

import (
	"fmt"

	"rackpos/internal/pago"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTasaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "tasa", Short: "Tasas de cambio"}
	cmd.AddCommand(&cobra.Command{
		Use:   "hoy",
		Short: "Tasa BCV y paralela vigentes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.client.TasaHoy(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s  BCV %s  paralelo %s  (%s)\n", t.Fecha, t.TasaBCV.StringFixed(2), t.TasaParalelo.StringFixed(2), t.Fuente)
			return nil
		},
	})
	return cmd
}

// newPagoCmd exposes the payment form arithmetic without touching any sale.
func newPagoCmd(a *app) *cobra.Command {
	var total, pagado, moneda, descuento, tasa string
	calcular := &cobra.Command{
		Use:   "calcular",
		Short: "Calcula el monto esperado de un pago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := decimal.NewFromString(total)
			if err != nil {
				return fmt.Errorf("total: %w", err)
			}
			p, err := decimal.NewFromString(pagado)
			if err != nil {
				return fmt.Errorf("pagado: %w", err)
			}
			d, err := decimal.NewFromString(descuento)
			if err != nil {
				return fmt.Errorf("descuento: %w", err)
			}
			m, err := pago.ParseMoneda(moneda)
			if err != nil {
				return err
			}
			bcv := decimal.Zero
			if m == pago.VES {
				if tasa != "" {
					if bcv, err = decimal.NewFromString(tasa); err != nil {
						return fmt.Errorf("tasa: %w", err)
					}
				} else {
					hoy, err := a.client.TasaHoy(cmd.Context())
					if err != nil {
						return fmt.Errorf("tasa de cambio: %w", err)
					}
					bcv = hoy.TasaBCV
				}
			}

			pendiente, sobrepago := pago.Pendiente(t, p)
			if sobrepago {
				fmt.Fprintf(a.out, "Sobrepago de %s USD: no hay monto a cobrar\n", pendiente.Neg().StringFixed(2))
				return nil
			}
			res, err := pago.CalcularMonto(pendiente, m, d, bcv)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Pendiente:  %s USD\n", pendiente.StringFixed(2))
			fmt.Fprintf(a.out, "Descuento:  %s%%\n", res.Descuento)
			fmt.Fprintf(a.out, "A pagar:    %s %s\n", res.MontoEnMoneda, res.Moneda)
			return nil
		},
	}
	calcular.Flags().StringVar(&total, "total", "", "total de la venta en USD")
	calcular.Flags().StringVar(&pagado, "pagado", "0", "pagado hasta ahora en USD")
	calcular.Flags().StringVar(&moneda, "moneda", "USD", "USD o VES")
	calcular.Flags().StringVar(&descuento, "descuento", "0", "descuento porcentual (solo USD)")
	calcular.Flags().StringVar(&tasa, "tasa", "", "tasa BCV (por defecto la del dia)")
	_ = calcular.MarkFlagRequired("total")

	cmd := &cobra.Command{Use: "pago", Short: "Herramientas de cobro"}
	cmd.AddCommand(calcular)
	return cmd
}
