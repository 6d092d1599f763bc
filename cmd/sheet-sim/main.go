package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/sheetsim"
	"github.com/okian/tallymap/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	verifyTimeout     = 30 * time.Second
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sheet-sim",
		Short:         "Simulated results spreadsheet for running tallymap locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("sheet-sim: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		addr      string
		quoted    bool
		seed      uint64
		step      time.Duration
		threshold float64
		failEvery int
		demLabel  string
		repLabel  string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an evolving sheet at /pub?output=csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}
			log := logger.Named("sheet-sim")

			opts := []sheetsim.Option{
				sheetsim.WithStep(step),
				sheetsim.WithThreshold(threshold),
				sheetsim.WithQuoted(quoted),
				sheetsim.WithFailEvery(failEvery),
				sheetsim.WithLabels(model.Labels{Dem: demLabel, Rep: repLabel}),
				sheetsim.WithLogger(log),
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, sheetsim.WithSeed(seed))
			}
			sim := sheetsim.New(opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, sim, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":9191", "listen address")
	cmd.Flags().BoolVar(&quoted, "quoted", false, `write ballots as quoted thousands-separated numbers ("1,234")`)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible count")
	cmd.Flags().DurationVar(&step, "step", 10*time.Second, "time between count updates")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "reported fraction at which a state is called")
	cmd.Flags().IntVar(&failEvery, "fail-every", 0, "answer every nth request with a 500 (0 disables)")
	cmd.Flags().StringVar(&demLabel, "dem-label", "Harris", "winner label for the dem party")
	cmd.Flags().StringVar(&repLabel, "rep-label", "Trump", "winner label for the rep party")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	return cmd
}

func serve(ctx context.Context, addr string, sim *sheetsim.Sim, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           sim.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving sheet", logger.String("addr", addr), logger.String("path", "/pub?output=csv"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func verifyCmd() *cobra.Command {
	var (
		apiURL   string
		sheetURL string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a running tallymap with totals computed from the sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
			defer cancel()

			rep, err := sheetsim.Verify(ctx, &http.Client{Timeout: verifyTimeout}, sheetURL, apiURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sheet:   dem %s units (%s ballots), rep %s units (%s ballots), %d regions\n",
				humanize.Comma(int64(rep.Sheet.DemUnits)), humanize.Comma(int64(rep.Sheet.DemRaw)),
				humanize.Comma(int64(rep.Sheet.RepUnits)), humanize.Comma(int64(rep.Sheet.RepRaw)),
				rep.SheetRegions)
			fmt.Fprintf(out, "service: dem %s units (%s ballots), rep %s units (%s ballots), %d regions, revision %s\n",
				humanize.Comma(int64(rep.Service.DemUnits)), humanize.Comma(int64(rep.Service.DemRaw)),
				humanize.Comma(int64(rep.Service.RepUnits)), humanize.Comma(int64(rep.Service.RepRaw)),
				rep.ServiceRegions, rep.ServiceRevision)
			if rep.Stale {
				fmt.Fprintln(out, "note: service declined to refresh and has not refreshed since the sheet was read")
			}
			if err := rep.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", "http://localhost:9080", "base URL of the tallymap service")
	cmd.Flags().StringVar(&sheetURL, "sheet", "http://localhost:9191/pub?output=csv", "sheet CSV URL")
	return cmd
}
