/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
	"github.com/humaidq/labmarkers/routes"
	"github.com/humaidq/labmarkers/static"
	"github.com/humaidq/labmarkers/templates"
)

const runtimeEnvVar = "LABMARKERS_ENV"

const defaultRangeWindow = markers.DefaultRangeWindow

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Value:   "8080",
			Sources: cli.EnvVars("PORT"),
			Usage:   "the web server port",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Sources: cli.EnvVars("DATABASE_URL"),
			Usage:   "PostgreSQL connection string; report storage is disabled without it",
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.IntFlag{
			Name:    "range-window",
			Value:   defaultRangeWindow,
			Sources: cli.EnvVars("RANGE_WINDOW"),
			Usage:   "bytes after a marker searched for a printed reference range",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (templates are read from disk)",
		},
	},
	Action: start,
}

// isProduction reads the runtime environment. Unset means production.
func isProduction() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(runtimeEnvVar))) {
	case "", "production", "prod":
		return true, nil
	case "development", "dev":
		return false, nil
	default:
		return false, errInvalidRuntimeEnv
	}
}

func start(ctx context.Context, cmd *cli.Command) error {
	production, err := isProduction()
	if err != nil {
		return err
	}

	dev := cmd.Bool("dev") || !production

	csrfSecret := cmd.String("csrf-secret")
	if csrfSecret == "" {
		if production && !cmd.Bool("dev") {
			return errCSRFSecretRequired
		}

		appLogger.Warn("CSRF_SECRET is not set, using an insecure development secret")
		csrfSecret = "labmarkers-development-secret"
	}

	if databaseURL := cmd.String("database-url"); databaseURL != "" {
		appLogger.Info("Connecting to database...")

		if err := db.Init(ctx, databaseURL); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		appLogger.Info("Syncing database schema...")

		if err := db.SyncSchema(ctx, nil); err != nil {
			return fmt.Errorf("failed to sync schema: %w", err)
		}

		appLogger.Info("Database schema synced successfully")
	} else {
		appLogger.Warn("No database configured, reports will not be stored")
	}

	detector := markers.NewDetector(nil, markers.WithRangeWindow(int(cmd.Int("range-window"))))

	f, err := newApp(detector, csrfSecret, dev)
	if err != nil {
		return err
	}

	port := cmd.String("port")
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Streamed answers can take a while.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     requestStdLogger,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		appLogger.Info("Starting web server", "port", port, "dev", dev)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// newApp builds the flamego instance with middleware and routes.
func newApp(detector *markers.Detector, csrfSecret string, dev bool) (*flamego.Flame, error) {
	if dev {
		flamego.SetEnv(flamego.EnvTypeDev)
	} else {
		flamego.SetEnv(flamego.EnvTypeProd)
	}

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)

	templateOpts := template.Options{
		FuncMaps: []htmltemplate.FuncMap{routes.TemplateFuncs()},
	}

	if dev {
		templateOpts.Directory = "templates"
	} else {
		fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}

		templateOpts.FileSystem = fs
	}

	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
		Prefix:     "static",
	}))
	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer(csrf.Options{Secret: csrfSecret}))
	f.Use(template.Templater(templateOpts))
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())
	f.Use(routes.StorageInjector())

	f.Map(detector)

	f.Get("/", routes.Home)
	f.Post("/detect", csrf.Validate, routes.DetectForm)

	f.Group("", func() {
		f.Get("/reports", routes.ListReportsPage)
		f.Get("/reports/{id}", routes.ViewReport)
		f.Post("/reports/{id}/delete", csrf.Validate, routes.DeleteReport)
		f.Get("/reports/{id}/ask", routes.AskReport)
		f.Get("/markers", routes.ListMarkersPage)
		f.Get("/markers/{name}", routes.MarkerHistory)
	}, routes.RequireStorage)

	f.Group("/api", func() {
		f.Post("/detect", routes.APIDetect)
		f.Get("/markers", routes.APIMarkers)
		f.Get("/mentions", routes.APIMentions)
	})

	configureEmptyNotFoundHandler(f)

	return f, nil
}

func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}
