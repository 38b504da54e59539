package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	infrapdf "github.com/jhoicas/precast-api/internal/infrastructure/pdf"
	"github.com/jhoicas/precast-api/internal/infrastructure/storage"
	"github.com/jhoicas/precast-api/pkg/config"
	"github.com/jhoicas/precast-api/pkg/jwt"
	"github.com/jhoicas/precast-api/pkg/logger"
)

type loadFunc func() (*config.Config, error)

type cli struct {
	load loadFunc
	cfg  *config.Config
	log  *logger.Logger
}

func newRootCmd(load loadFunc) *cobra.Command {
	c := &cli{load: load}
	root := &cobra.Command{
		Use:           "precastctl",
		Short:         "Herramientas de operación de precast-api",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			c.cfg = cfg
			c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.AddCommand(c.migrateCmd(), c.projectCmd(), c.tokenCmd(), c.reportCmd())
	return root
}

// open abre el backend sin auto-migración; migrate lo hace explícito.
func (c *cli) open(ctx context.Context) (*storage.Backend, error) {
	dbCfg := c.cfg.DB
	dbCfg.AutoMigrate = false
	return storage.Open(ctx, dbCfg, c.log)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			applied, err := b.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "aplicada", name)
			}
			return nil
		},
	}
}

func (c *cli) projectCmd() *cobra.Command {
	project := &cobra.Command{Use: "project", Short: "Gestión de proyectos"}

	var code, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea un proyecto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			p, err := tracking.NewProjectUseCase(b.Projects).Create(cmd.Context(), code, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	create.Flags().StringVar(&code, "code", "", "código del proyecto")
	create.Flags().StringVar(&name, "name", "", "nombre del proyecto")
	_ = create.MarkFlagRequired("code")
	_ = create.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista los proyectos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			projects, err := tracking.NewProjectUseCase(b.Projects).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.ProjectCode, p.Name)
			}
			return nil
		},
	}

	project.AddCommand(create, list)
	return project
}

func (c *cli) tokenCmd() *cobra.Command {
	var user, username, role string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado con JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer:
			default:
				return fmt.Errorf("rol desconocido %q", role)
			}
			if c.cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET no definido")
			}
			if minutes <= 0 {
				minutes = c.cfg.JWT.Expiration
			}
			if username == "" {
				username = user
			}
			tok, err := jwt.Generate(c.cfg.JWT.Secret, user, username, role, c.cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "id del usuario (sub)")
	cmd.Flags().StringVar(&username, "username", "", "nombre visible; por defecto --user")
	cmd.Flags().StringVar(&role, "role", jwt.RoleViewer, "admin | operator | viewer")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos; por defecto JWT_EXPIRATION_MINUTES")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (c *cli) reportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <project-id>",
		Short: "Exporta el reporte PDF de avance de un proyecto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()
			uc := tracking.NewAggregateUseCase(b.Projects, b.Components, b.Ledger, b.Aggregates, infrapdf.NewProjectReportGenerator())
			pdf, err := uc.ProjectReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "archivo de salida")
	return cmd
}
