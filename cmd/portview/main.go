package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tmcke/portview/internal/assistant"
	"github.com/tmcke/portview/internal/config"
	"github.com/tmcke/portview/internal/domain"
	"github.com/tmcke/portview/internal/export"
	"github.com/tmcke/portview/internal/ingest"
	"github.com/tmcke/portview/internal/portfolio"
	"github.com/tmcke/portview/internal/store"
	"github.com/tmcke/portview/internal/testdata"
	"github.com/tmcke/portview/internal/tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		filterPortfolio string
		filterProgram   string
		outDir          string
		format          string
		seedCount       int
	)

	root := &cobra.Command{
		Use:   "portview",
		Short: "Portfolio analytics dashboard",
		Long:  "PortView aggregates project CSV exports into a portfolio/program/project dashboard with timelines, charts, exports and an analysis assistant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			p := tea.NewProgram(tui.New(cmd.Context(), cfg, repo), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run ui: %w", err)
			}
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Load a project CSV as the active dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, res, err := ingest.ReadCSV(f)
			if err != nil {
				return err
			}
			_, dups, err := repo.Replace(cmd.Context(), filepath.Base(args[0]), records)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d, skipped %d\n", res.Imported, res.Skipped+dups)
			for _, e := range res.Errors {
				fmt.Printf("  %v\n", e)
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export charts for the stored dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := filteredRecords(cmd.Context(), repo, filterPortfolio, filterProgram)
			if err != nil {
				return err
			}
			fm, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			exp := export.New(pick(outDir, cfg.Export.OutDir))
			path, err := exp.Export(records, portfolio.ComputeDateRange(records), "dashboard", fm)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "html", "output format: html, png, jpeg, svg, pdf, word, xlsx")
	exportCmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to config export.out_dir)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report and spreadsheet of the stored dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := filteredRecords(cmd.Context(), repo, filterPortfolio, filterProgram)
			if err != nil {
				return err
			}
			exp := export.New(pick(outDir, cfg.Export.OutDir))
			pdf, err := exp.ExportReportPDF(records, "portfolio-report")
			if err != nil {
				return err
			}
			xlsx, err := exp.ExportWorkbook(records, "portfolio-report")
			if err != nil {
				return err
			}
			fmt.Println(pdf)
			fmt.Println(xlsx)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to config export.out_dir)")

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the analysis assistant about the stored dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := filteredRecords(cmd.Context(), repo, filterPortfolio, filterProgram)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			client := assistant.NewClient(cfg.Assistant.BaseURL, time.Duration(cfg.Assistant.TimeoutSeconds)*time.Second)
			resp, err := client.Query(cmd.Context(), query, assistant.BuildContext(records), "cli")
			if err != nil {
				resp = assistant.Fallback(query, records, time.Now())
			}
			fmt.Println(resp.Response)
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, db, err := boot()
			if err != nil {
				return err
			}
			defer db.Close()

			records := testdata.Generate(seedCount, 1)
			if _, _, err := repo.Replace(cmd.Context(), "demo", records); err != nil {
				return err
			}
			fmt.Printf("seeded %d demo projects\n", len(records))
			return nil
		},
	}
	seedCmd.Flags().IntVar(&seedCount, "count", 40, "number of demo projects")

	for _, c := range []*cobra.Command{exportCmd, reportCmd, askCmd} {
		c.Flags().StringVar(&filterPortfolio, "portfolio", "", "restrict to one portfolio")
		c.Flags().StringVar(&filterProgram, "program", "", "restrict to one program")
	}

	root.AddCommand(importCmd, exportCmd, reportCmd, askCmd, seedCmd)
	return root
}

// boot loads config, opens the snapshot database and runs migrations.
func boot() (config.Config, *store.SnapshotRepo, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return cfg, nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		return cfg, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, store.NewSnapshotRepo(db), db, nil
}

// filteredRecords loads the snapshot and applies the optional
// portfolio/program flags, suggesting the closest known name for
// unmatched values.
func filteredRecords(ctx context.Context, repo *store.SnapshotRepo, pf, pg string) ([]domain.ProjectRecord, error) {
	records, _, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Println("no dataset stored; run `portview import` or `portview seed` first")
	}

	f := domain.NewFilterState()
	agg := portfolio.Aggregate(records, f)

	if pf != "" {
		if !contains(agg.PortfolioNames, pf) {
			return nil, unknownName("portfolio", pf, agg.PortfolioNames)
		}
		f.Portfolio = pf
	}
	if pg != "" {
		if !contains(agg.ProgramNames, pg) {
			return nil, unknownName("program", pg, agg.ProgramNames)
		}
		f.Program = pg
	}
	if !f.Active() {
		return records, nil
	}
	return portfolio.Aggregate(records, f).Filtered, nil
}

func unknownName(kind, name string, known []string) error {
	if hint := portfolio.ClosestName(name, known); hint != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, name, hint)
	}
	return fmt.Errorf("unknown %s %q", kind, name)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
