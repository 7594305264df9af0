package extract

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dreamerjackson/confextract/batch"
	"github.com/dreamerjackson/confextract/collect"
	"github.com/dreamerjackson/confextract/family"
	_ "github.com/dreamerjackson/confextract/familylib"
	"github.com/dreamerjackson/confextract/generator"
	"github.com/dreamerjackson/confextract/limiter"
	"github.com/dreamerjackson/confextract/log"
	"github.com/dreamerjackson/confextract/proxy"
	"github.com/dreamerjackson/confextract/sqldb"
	"github.com/dreamerjackson/confextract/storage"
	"github.com/dreamerjackson/confextract/storage/sqlstorage"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ExtractCmd = &cobra.Command{
	Use:   "extract [source...]",
	Short: "extract records from program documents.",
	Long: `extract records from program documents.

Sources are file paths or http(s) URLs. Every source uses --family unless a
manifest is given, whose lines read "<family> <source>".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return Run(ctx, flags, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var FamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "list registered document families.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(flags.ConfigPath, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if cfg.Families.Dir != "" {
			if _, err := family.LoadDir(family.Store, cfg.Families.Dir); err != nil {
				return err
			}
		}
		for _, name := range family.Store.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// Flags are the command line settings. Non-zero values override the file.
type Flags struct {
	ConfigPath     string
	ConfigOptional bool
	Family         string
	Manifest       string
	Out            string
	Dir            string
	LogLevel       string
	WorkCount      int
	Storage        string
	SQLURL         string
}

var flags = Flags{ConfigOptional: true}

func init() {
	for _, c := range []*cobra.Command{ExtractCmd, FamiliesCmd} {
		c.Flags().StringVar(&flags.ConfigPath, "config", "config.toml", "config file")
	}
	ExtractCmd.PreRun = func(cmd *cobra.Command, args []string) {
		flags.ConfigOptional = !cmd.Flags().Changed("config")
	}

	ExtractCmd.Flags().StringVar(&flags.Family, "family", "", "family of every source, e.g. idweek/2025/session")
	ExtractCmd.Flags().StringVar(&flags.Manifest, "manifest", "", "file of \"<family> <source>\" lines")
	ExtractCmd.Flags().StringVar(&flags.Out, "out", "", "write records as JSON lines to this file instead of stdout")
	ExtractCmd.Flags().StringVar(&flags.Dir, "dir", "", "directory relative file sources resolve against")
	ExtractCmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "log level, overrides logLevel")
	ExtractCmd.Flags().IntVar(&flags.WorkCount, "workers", 0, "concurrent documents, overrides batch.workCount")
	ExtractCmd.Flags().StringVar(&flags.Storage, "storage", "", "mysql or sqlite, overrides storage.type")
	ExtractCmd.Flags().StringVar(&flags.SQLURL, "sql-url", "", "database url, overrides storage.sqlURL")
}

// Run loads the config, extracts every source and writes records to out and
// the summary to summary.
func Run(ctx context.Context, f Flags, args []string, out, summary io.Writer) error {
	cfg, err := LoadConfig(f.ConfigPath, f.ConfigOptional)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f.apply(&cfg)

	logger, closer, err := log.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init log: %w", err)
	}
	defer closer.Close()
	zap.ReplaceGlobals(logger)

	if cfg.Families.Dir != "" {
		loaded, err := family.LoadDir(family.Store, cfg.Families.Dir)
		if err != nil {
			return err
		}
		logger.Info("families loaded", zap.Strings("families", loaded))
	}

	refs, err := collectRefs(f, args)
	if err != nil {
		return err
	}

	loader, err := newLoader(cfg.Fetcher, f.Dir, logger)
	if err != nil {
		return err
	}

	nodeID := cfg.Batch.NodeID
	if nodeID == 0 {
		nodeID = generator.NodeID(generator.LocalIP())
	}

	o, err := batch.New(
		batch.WithLogger(logger.Named("batch")),
		batch.WithWorkCount(cfg.Batch.WorkCount),
		batch.WithRegistry(family.Store),
		batch.WithNodeID(nodeID),
	)
	if err != nil {
		return err
	}

	res := o.RunRefs(ctx, loader, refs)

	if err := writeRecords(f.Out, out, res); err != nil {
		return err
	}

	if cfg.Storage.Type != "" {
		if err := store(cfg.Storage, res, logger); err != nil {
			return err
		}
	}

	renderSummary(summary, res)

	return nil
}

func (f Flags) apply(cfg *Config) {
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.WorkCount > 0 {
		cfg.Batch.WorkCount = f.WorkCount
	}
	if f.Storage != "" {
		cfg.Storage.Type = f.Storage
	}
	if f.SQLURL != "" {
		cfg.Storage.SQLURL = f.SQLURL
	}
}

func collectRefs(f Flags, args []string) ([]batch.Ref, error) {
	var refs []batch.Ref

	if f.Manifest != "" {
		file, err := os.Open(f.Manifest)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		refs, err = ParseManifest(file)
		if err != nil {
			return nil, err
		}
	}

	if len(args) > 0 && f.Family == "" {
		return nil, fmt.Errorf("--family is required for sources given as arguments")
	}
	for _, a := range args {
		refs = append(refs, batch.Ref{Source: a, Family: f.Family})
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("no sources to extract")
	}

	return refs, nil
}

// ParseManifest reads "<family> <source>" lines. Blank lines and lines
// starting with # are skipped.
func ParseManifest(r io.Reader) ([]batch.Ref, error) {
	var refs []batch.Ref
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Fields(text)
		if len(parts) != 2 {
			return nil, fmt.Errorf("manifest line %d: want \"<family> <source>\", got %q", line, text)
		}
		refs = append(refs, batch.Ref{Family: parts[0], Source: parts[1]})
	}

	return refs, scanner.Err()
}

func newLoader(cfg FetcherConfig, dir string, logger *zap.Logger) (batch.Loader, error) {
	fetcher := collect.BrowserFetch{
		Timeout:  time.Duration(cfg.Timeout) * time.Millisecond,
		WaitTime: time.Duration(cfg.WaitTime) * time.Millisecond,
		Logger:   logger.Named("fetch"),
	}

	if len(cfg.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Proxy...)
		if err != nil {
			return nil, fmt.Errorf("proxy: %w", err)
		}
		fetcher.Proxy = p
	}

	l, err := limiter.FromRules(cfg.Rules()...)
	if err != nil {
		return nil, err
	}
	fetcher.Limit = l

	return collect.MixedLoader{
		File:  collect.FileLoader{Dir: dir},
		Fetch: collect.FetchLoader{Fetcher: fetcher, Cookie: cfg.Cookie},
	}, nil
}

func writeRecords(path string, stdout io.Writer, res *batch.Result) error {
	w := stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, r := range res.Records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func store(cfg StorageConfig, res *batch.Result, logger *zap.Logger) error {
	var driver string
	switch cfg.Type {
	case "mysql":
		driver = sqldb.DriverMySQL
	case "sqlite":
		driver = sqldb.DriverSQLite
	default:
		return fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	s, err := sqlstorage.New(
		sqlstorage.WithDriver(driver),
		sqlstorage.WithSQLURL(cfg.SQLURL),
		sqlstorage.WithBatchCount(cfg.BatchCount),
		sqlstorage.WithLogger(logger.Named("storage")),
	)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	cells := make([]*storage.DataCell, 0, len(res.Records)+len(res.Failures))
	for _, r := range res.Records {
		cell, err := storage.RecordCell(res.RunID, r)
		if err != nil {
			return err
		}
		cells = append(cells, cell)
	}
	for _, f := range res.Failures {
		cells = append(cells, storage.FailureCell(res.RunID, f.Source, f.Family, f.Err))
	}

	if err := s.Save(cells...); err != nil {
		return err
	}

	return s.Flush()
}

func renderSummary(w io.Writer, res *batch.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("run " + res.RunID)
	t.AppendHeader(table.Row{"", "Total", "Complete", "Partial", "Failed"})
	t.AppendRow(table.Row{
		"documents",
		res.Summary.Documents,
		res.Summary.DocumentsComplete,
		res.Summary.DocumentsPartial,
		res.Summary.DocumentsFailed,
	})
	t.AppendRow(table.Row{
		"records",
		res.Summary.Records,
		res.Summary.Complete,
		res.Summary.Partial,
		res.Summary.Failed,
	})
	t.Render()

	if len(res.Failures) == 0 {
		return
	}

	ft := table.NewWriter()
	ft.SetOutputMirror(w)
	ft.AppendHeader(table.Row{"Source", "Family", "Reason"})
	for _, f := range res.Failures {
		ft.AppendRow(table.Row{f.Source, f.Family, f.Err.Error()})
	}
	ft.Render()
}
