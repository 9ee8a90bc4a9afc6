package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recurring-planner/internal/api"
	"recurring-planner/internal/service"
)

const (
	generateTimeout = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var generateAt string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and generate recurring tasks on a schedule",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&generateAt, "daily-at", "", "run generation once a day at HH:MM instead of every GENERATE_INTERVAL_MINUTES")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	scheduler := service.NewSchedulerService(a.cfg.Location, a.log)
	job := func() {
		jobCtx, cancel := context.WithTimeout(ctx, generateTimeout)
		defer cancel()
		if _, err := a.generator.Generate(jobCtx, time.Now().In(a.cfg.Location)); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("generation pass failed", zap.Error(err))
		}
	}
	if generateAt != "" {
		_, err = scheduler.ScheduleDaily(generateAt, job)
	} else {
		_, err = scheduler.ScheduleInterval(a.cfg.GenerateInterval, job)
	}
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(
		service.NewTaskService(a.tasks, a.access),
		service.NewRuleService(a.rules, a.tasks, a.access),
		a.workspaces,
		a.db,
		a.cfg.Location,
	)

	r := gin.New()
	r.Use(gin.Recovery(), api.GinZapMiddleware(a.log))
	api.RegisterRoutes(r, handler, a.users)

	srv := &http.Server{Addr: a.cfg.HTTPAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("addr", a.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
