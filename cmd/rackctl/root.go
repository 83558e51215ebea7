package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rackpos/internal/apiclient"
	"rackpos/internal/sesion"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every command needs. It is built once per invocation.
type app struct {
	cfg    *viper.Viper
	store  *sesion.Store
	client *apiclient.Client
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: viper.New()}

	root := &cobra.Command{
		Use:           "rackctl",
		Short:         "Cliente de linea de comandos de rackpos",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			// cookies may have been rotated by a refresh
			if a.store == nil || a.client == nil {
				return nil
			}
			return a.store.GuardarCredenciales(a.client.Credenciales())
		},
	}

	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:8000", "URL base de la API")
	pf.String("estado", sesion.DefaultPath(), "archivo de estado local")
	pf.Bool("verbose", false, "registro detallado")
	_ = a.cfg.BindPFlag("api", pf.Lookup("api"))
	_ = a.cfg.BindPFlag("estado", pf.Lookup("estado"))
	_ = a.cfg.BindPFlag("verbose", pf.Lookup("verbose"))
	a.cfg.SetEnvPrefix("RACKPOS")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newSucursalesCmd(a),
		newSucursalCmd(a),
		newProductosCmd(a),
		newVentaCmd(a),
		newVentasCmd(a),
		newCuentaCmd(a),
		newTasaCmd(a),
		newPagoCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	if a.cfg.GetBool("verbose") {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	store, err := sesion.Abrir(a.cfg.GetString("estado"))
	if err != nil {
		return err
	}
	a.store = store

	errOut := cmd.ErrOrStderr()
	client, err := apiclient.New(a.cfg.GetString("api"),
		apiclient.WithLoginRequerido(func() {
			fmt.Fprintln(errOut, "sesion expirada: ejecute 'rackctl login'")
		}),
	)
	if err != nil {
		return err
	}
	client.RestaurarCredenciales(store.Credenciales())
	a.client = client
	return nil
}

// sesion resolves the logged-in user and the working branch.
func (a *app) sesion(ctx context.Context) (sesion.Sesion, error) {
	u, err := a.client.Me(ctx)
	if err != nil {
		return sesion.Sesion{}, err
	}
	return a.store.Sesion(*u), nil
}
