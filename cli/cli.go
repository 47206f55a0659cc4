// Package cli wires the outage server commands:
//
//	outage-server serve      # run the HTTP API
//	outage-server migrate    # create / update tables
//	outage-server render     # build one notice offline from a JSON payload
//	outage-server token      # mint a development JWT
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/controllers"
	"github.com/outagedesk/outage-server/docgen"
	"github.com/outagedesk/outage-server/logger"
	"github.com/outagedesk/outage-server/metrics"
	"github.com/outagedesk/outage-server/middleware"
	"github.com/outagedesk/outage-server/routes"
	"github.com/outagedesk/outage-server/utils"
)

var configFile string

func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "outage-server",
		Short:         "Planned outage notification tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional config file (.env, .yaml)")

	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildMigrateCommand())
	rootCmd.AddCommand(buildRenderCommand())
	rootCmd.AddCommand(buildTokenCommand())
	return rootCmd
}

func setup() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func buildServeCommand() *cobra.Command {
	var filesDir string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			return serve(cmd.Context(), cfg, log, filesDir, migrate)
		},
	}
	cmd.Flags().StringVar(&filesDir, "files-dir", "./files", "where documents go when Supabase is not configured")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, filesDir string, migrate bool) error {
	if cfg.JWTSecret == "" {
		return utils.ErrNoSecret
	}
	if err := config.ConnectDB(cfg, log); err != nil {
		return err
	}
	if migrate {
		if err := config.Migrate(config.DB); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	loc := cfg.Location()
	gen := docgen.NewGenerator(cfg.TemplatePath, cfg.QRPlaceholderName, log.Named("docgen"))
	gen.Observe = func(o docgen.Outcome, took time.Duration) {
		m.RecordDocument(string(o), took)
	}

	docLimiter := middleware.NewIPRateLimiter(cfg.DocRatePerMin, cfg.DocRatePerMin, 30*time.Minute)
	defer docLimiter.Stop()

	rc := routes.RouteConfig{
		JWTSecret:  cfg.JWTSecret,
		DocLimiter: docLimiter,
		Metrics:    m,
	}
	var store utils.DocumentStore
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		store = utils.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		log.Info("documents stored in supabase", zap.String("bucket", cfg.SupabaseBucket))
	} else {
		store = utils.LocalStore{Dir: filesDir, URLPrefix: "/api/files/"}
		rc.FilesDir = filesDir
		log.Info("documents stored on disk", zap.String("dir", filesDir))
	}

	controllers.Setup(controllers.Deps{
		Generator: gen,
		Store:     store,
		Metrics:   m,
		Log:       log,
		Now:       func() time.Time { return time.Now().In(loc) },
	})

	r := gin.New()
	r.Use(gin.Recovery(), m.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	routes.SetupRoutes(r, rc)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := config.ConnectDB(cfg, log); err != nil {
				return err
			}
			if err := config.Migrate(config.DB); err != nil {
				return err
			}
			log.Info("migration complete")
			return nil
		},
	}
}

// renderInput is the JSON accepted by the render command.
type renderInput struct {
	OutageDate    string `json:"outage_date"`
	EquipmentCode string `json:"equipment_code"`
	docgen.Payload
}

func buildRenderCommand() *cobra.Command {
	var inFile, outFile, template string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build one outage notice from a JSON payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if template == "" {
				template = cfg.TemplatePath
			}
			gen := docgen.NewGenerator(template, cfg.QRPlaceholderName, log)
			return renderFile(cmd.Context(), gen, inFile, outFile)
		},
	}
	cmd.Flags().StringVarP(&inFile, "file", "f", "", "JSON file with outage_date, equipment_code and the document fields")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output path (default: generated file name)")
	cmd.Flags().StringVar(&template, "template", "", "template path (default: TEMPLATE_PATH)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func renderFile(ctx context.Context, gen controllers.DocumentGenerator, inFile, outFile string) error {
	raw, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var in renderInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if err := in.Payload.Validate(); err != nil {
		return err
	}

	ref := docgen.JobRef{OutageDate: in.OutageDate, EquipmentCode: in.EquipmentCode}
	doc, err := gen.Generate(ctx, in.Payload, ref)
	if err != nil {
		return err
	}
	if outFile == "" {
		outFile = docgen.FileName(ref)
	}
	if err := os.WriteFile(outFile, doc, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", outFile, len(doc))
	return nil
}

func buildTokenCommand() *cobra.Command {
	var subject, email, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			tok, err := utils.GenerateToken(cfg.JWTSecret, subject, email, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "dev", "token subject")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", "staff", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "lifetime")
	return cmd
}
