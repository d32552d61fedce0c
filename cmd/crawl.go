package main

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/jobscout/internal/connector"
	"github.com/sells-group/jobscout/internal/dataset"
	"github.com/sells-group/jobscout/internal/reconcile"
	"github.com/sells-group/jobscout/internal/store"
	"github.com/sells-group/jobscout/pkg/greenhouse"
	"github.com/sells-group/jobscout/pkg/serper"
)

var crawlSource string

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl configured sources and reconcile their datasets",
	Long:  "Runs every configured source (or just --source), writes each source's dataset back with fresh rows appended and vanished rows marked stale, and records a run per source.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		conns, err := buildConnectors(crawlSource)
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		// Sources are independent: one failing source is reported, not
		// fatal to its siblings.
		var (
			mu     sync.Mutex
			failed []string
		)
		g, gctx := errgroup.WithContext(ctx)
		for _, conn := range conns {
			conn := conn
			g.Go(func() error {
				if err := runSource(gctx, st, conn); err != nil {
					zap.L().Error("source crawl failed",
						zap.String("source", conn.Name()),
						zap.Error(err),
					)
					mu.Lock()
					failed = append(failed, conn.Name())
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		if len(failed) == len(conns) {
			return eris.Errorf("all sources failed: %v", failed)
		}
		if len(failed) > 0 {
			zap.L().Warn("crawl finished with failures", zap.Strings("failed", failed))
		}
		return nil
	},
}

// buildConnectors assembles the configured sources, optionally narrowed
// to a single named one. The search source needs its API credential
// checked before any network activity.
func buildConnectors(only string) ([]connector.Connector, error) {
	var conns []connector.Connector

	if only == "" || only == "linkedin" {
		if err := cfg.ValidateSearch(); err != nil {
			return nil, err
		}
		searchClient := serper.NewClient(cfg.Search.SerperKey, serper.WithBaseURL(cfg.Search.BaseURL))
		enricher := connector.NewEnricher(
			time.Duration(cfg.Search.TimeoutSecs)*time.Second,
			cfg.Search.UserAgent,
		)
		conns = append(conns, connector.NewLinkedIn(cfg.Search, cfg.Role, searchClient, enricher))
	}

	for _, board := range cfg.Boards {
		if only != "" && only != board.Name {
			continue
		}
		var opts []greenhouse.Option
		if board.BaseURL != "" {
			opts = append(opts, greenhouse.WithBaseURL(board.BaseURL))
		}
		conns = append(conns, connector.NewGreenhouse(board, cfg.Role, greenhouse.NewClient(opts...)))
	}

	if len(conns) == 0 {
		return nil, eris.Errorf("unknown source: %s", only)
	}
	return conns, nil
}

// runSource executes one source's full cycle: discover, reconcile
// against the persisted dataset, rewrite it, and record the run.
func runSource(ctx context.Context, st store.Store, conn connector.Connector) error {
	run, err := st.CreateRun(ctx, conn.Name())
	if err != nil {
		return eris.Wrap(err, "create run")
	}

	postings, sum, err := conn.Discover(ctx)
	if err != nil {
		if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
			zap.L().Warn("record run failure", zap.Error(ferr))
		}
		return err
	}

	fresh := &dataset.Table{Columns: conn.Columns()}
	for i := range postings {
		fresh.Rows = append(fresh.Rows, postings[i].Record())
	}

	persisted := &dataset.Table{Columns: conn.Columns()}
	if dataset.Exists(conn.OutputPath()) {
		persisted, err = dataset.Read(conn.OutputPath())
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
				zap.L().Warn("record run failure", zap.Error(ferr))
			}
			return eris.Wrapf(err, "read dataset %s", conn.OutputPath())
		}
	}

	merged, rsum := reconcile.Reconcile(persisted, fresh, conn.KeyColumn(), conn.Key(), time.Now().UTC())
	if err := dataset.Write(conn.OutputPath(), merged); err != nil {
		if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
			zap.L().Warn("record run failure", zap.Error(ferr))
		}
		return eris.Wrapf(err, "write dataset %s", conn.OutputPath())
	}

	sum.New = rsum.New
	sum.Stale = rsum.Stale
	sum.Rows = rsum.Rows

	zap.L().Info("source reconciled",
		zap.String("source", conn.Name()),
		zap.String("path", conn.OutputPath()),
		zap.Int("new", sum.New),
		zap.Int("stale", sum.Stale),
		zap.Int("rows", sum.Rows),
	)
	return eris.Wrap(st.CompleteRun(ctx, run.ID, &sum), "complete run")
}

func init() {
	crawlCmd.Flags().StringVar(&crawlSource, "source", "", "crawl only the named source")
	rootCmd.AddCommand(crawlCmd)
}
