package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSucursalesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sucursales",
		Short: "Lista las sucursales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.Sucursales().Todos(cmd.Context())
			if err != nil {
				return err
			}
			actual := a.store.SucursalID()
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNOMBRE\tACTIVA")
			for _, s := range items {
				marca := ""
				if s.ID == actual {
					marca = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", marca, s.ID, s.Nombre, s.Activo)
			}
			return w.Flush()
		},
	}
}

func newSucursalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "sucursal", Short: "Sucursal de trabajo"}
	cmd.AddCommand(&cobra.Command{
		Use:   "usar <id>",
		Short: "Selecciona la sucursal de trabajo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ses, err := a.sesion(cmd.Context())
			if err != nil {
				return err
			}
			if ses.Restringida() && *ses.Usuario.SucursalID != args[0] {
				return errors.New("su usuario esta asignado a otra sucursal")
			}
			items, err := a.client.Sucursales().Todos(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range items {
				if s.ID == args[0] {
					if !s.Activo {
						return fmt.Errorf("la sucursal %s esta inactiva", s.Nombre)
					}
					if err := a.store.GuardarSucursal(s.ID); err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Sucursal de trabajo: %s\n", s.Nombre)
					return nil
				}
			}
			return fmt.Errorf("sucursal %s no encontrada", args[0])
		},
	})
	return cmd
}

func newProductosCmd(a *app) *cobra.Command {
	var buscar string
	var todos bool
	cmd := &cobra.Command{
		Use:   "productos",
		Short: "Busca productos con precio y stock de la sucursal actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pag := a.client.Productos(buscar, a.store.SucursalID())
			var err error
			if todos {
				_, err = pag.Todos(cmd.Context())
			} else {
				_, err = pag.Siguiente(cmd.Context())
			}
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODIGO\tNOMBRE\tPRECIO\tSTOCK")
			for _, p := range pag.Items() {
				stock := "-"
				if p.Stock != nil {
					stock = p.Stock.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Codigo, p.Nombre, p.PrecioVenta.StringFixed(2), stock)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d de %d\n", len(pag.Items()), pag.Total())
			return nil
		},
	}
	cmd.Flags().StringVarP(&buscar, "buscar", "b", "", "codigo o parte del nombre")
	cmd.Flags().BoolVar(&todos, "todos", false, "carga todas las paginas")
	return cmd
}
