package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var usuario, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = a.cfg.GetString("password")
			}
			a.client.SetRuta("/login")
			resp, err := a.client.Login(cmd.Context(), usuario, password)
			if err != nil {
				return err
			}
			ses := a.store.Sesion(resp.User)
			fmt.Fprintf(a.out, "Sesion iniciada como %s (%s)\n", resp.User.Nombre, resp.User.Rol)
			if ses.SucursalID == "" {
				fmt.Fprintln(a.out, "Seleccione una sucursal con 'rackctl sucursal usar <id>'")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&usuario, "usuario", "u", "", "usuario o email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contrasena (o RACKPOS_PASSWORD)")
	_ = cmd.MarkFlagRequired("usuario")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.client.SetRuta("/login")
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sesion cerrada")
			return nil
		},
	}
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Muestra el usuario y la sucursal actual",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ses, err := a.sesion(cmd.Context())
			if err != nil {
				return err
			}
			suc := ses.SucursalID
			if suc == "" {
				suc = "(ninguna)"
			}
			fmt.Fprintf(a.out, "%s (%s) rol=%s sucursal=%s\n", ses.Usuario.Nombre, ses.Usuario.Username, ses.Usuario.Rol, suc)
			return nil
		},
	}
}
