package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/metmap/internal/application/mapping"
	"github.com/turtacn/metmap/internal/config"
	bayes "github.com/turtacn/metmap/internal/intelligence/bayes_mapper"
	"github.com/turtacn/metmap/internal/infrastructure/modelio"
	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/metmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/metmap/internal/infrastructure/storage/minio"
	"github.com/turtacn/metmap/pkg/errors"
)

// mapOptions holds the map subcommand flags.
type mapOptions struct {
	workers           int
	chunkSize         int
	outputDir         string
	logDiagnostics    bool
	kegg              bool
	genes             bool
	compoundThreshold float64
	reactionThreshold float64
	strict            bool
	format            string
	limit             int
}

// NewMapCmd creates the map command.
func NewMapCmd() *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   "map <model1.yaml> <model2.yaml>",
		Short: "Map compounds and reactions of model1 onto model2",
		Long: "Estimate the posterior probability that each compound and each reaction of\n" +
			"model1 is the same entity as each compound and reaction of model2, and print\n" +
			"the best matches.  With --output the best matches (and with --log the full\n" +
			"likelihood tables) are written as TSV files.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.workers, "workers", config.DefaultWorkers(), "maximum number of concurrent workers")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "pairs per work unit (0 = pairs/workers)")
	f.StringVar(&opts.outputDir, "output", "", "directory for best-match and log TSV files")
	f.BoolVar(&opts.logDiagnostics, "log", false, "write per-pair likelihood logs (requires --output)")
	f.BoolVar(&opts.kegg, "kegg", false, "use KEGG cross-references as compound evidence")
	f.BoolVar(&opts.genes, "genes", false, "use gene associations as reaction evidence")
	f.Float64Var(&opts.compoundThreshold, "compound-threshold", 0, "minimum compound best-match probability (0-1)")
	f.Float64Var(&opts.reactionThreshold, "reaction-threshold", 0, "minimum reaction best-match probability (0-1)")
	f.BoolVar(&opts.strict, "strict", false, "reject equations that reference undeclared compounds")
	f.StringVar(&opts.format, "format", "table", "summary format: table|json|none")
	f.IntVar(&opts.limit, "limit", 20, "maximum rows per table in the summary (0 = all)")

	return cmd
}

// applyMapFlags overrides cfg.Mapping with the flags the user set
// explicitly, so that config file values survive unset flags.
func applyMapFlags(cmd *cobra.Command, opts *mapOptions, cfg *config.Config) error {
	flags := cmd.Flags()
	m := &cfg.Mapping
	if flags.Changed("workers") {
		m.Workers = opts.workers
	}
	if flags.Changed("chunk-size") {
		m.ChunkSize = opts.chunkSize
	}
	if flags.Changed("output") {
		m.OutputDir = opts.outputDir
	}
	if flags.Changed("log") {
		m.LogDiagnostics = opts.logDiagnostics
	}
	if flags.Changed("kegg") {
		m.CompoundKegg = opts.kegg
	}
	if flags.Changed("genes") {
		m.ReactionGenes = opts.genes
	}
	if flags.Changed("compound-threshold") {
		m.CompoundThreshold = opts.compoundThreshold
	}
	if flags.Changed("reaction-threshold") {
		m.ReactionThreshold = opts.reactionThreshold
	}
	switch opts.format {
	case "table", "json", "none":
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown summary format %q; expected table|json|none", opts.format))
	}
	return cfg.Validate()
}

func runMap(cmd *cobra.Command, opts *mapOptions, path1, path2 string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := *cliCtx.Config
	if err := applyMapFlags(cmd, opts, &cfg); err != nil {
		return err
	}
	logger := cliCtx.Logger

	deps := mapping.Deps{
		Loader: modelio.NewLoader(modelio.WithStrict(opts.strict), modelio.WithLogger(logger.Named("modelio"))),
		Logger: logger,
	}
	if cfg.Metrics.Enabled {
		collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: cfg.Metrics.Namespace}, logger)
		if err != nil {
			return err
		}
		deps.Collector = collector
		deps.Metrics = prom.NewAppMetrics(collector)
	}
	if cfg.MinIO.Enabled {
		store, err := newArtifactStore(cfg.MinIO, logger)
		if err != nil {
			return err
		}
		deps.Uploader = store
	}

	if cliCtx.ConfigPath != "" {
		watchLogLevel(cliCtx.ConfigPath, logger)
	}

	svc, err := mapping.NewService(&cfg, deps)
	if err != nil {
		return err
	}
	res, err := svc.Run(cmd.Context(), &mapping.RunRequest{Model1Path: path1, Model2Path: path2})
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		return printJSON(cmd.OutOrStdout(), res)
	case "table":
		printSummary(cmd.OutOrStdout(), res, opts.limit)
	}
	return nil
}

func newArtifactStore(cfg config.MinIOConfig, logger logging.Logger) (minio.ArtifactStore, error) {
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Prefix:    cfg.Prefix,
	}, logger.Named("minio"))
	if err != nil {
		return nil, err
	}
	return minio.NewArtifactStore(client, logger.Named("artifacts")), nil
}

// watchLogLevel follows log.level in the config file for the lifetime of the
// process.
func watchLogLevel(path string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	err := config.Watch(path, func(c *config.Config) {
		setter.SetLevel(c.Log.Level)
		logger.Info("log level reloaded", logging.String("level", c.Log.Level))
	}, func(err error) {
		logger.Warn("config reload rejected", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch not started", logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

type matchView struct {
	Query    string             `json:"query"`
	Target   string             `json:"target"`
	P        float64            `json:"p"`
	Channels map[string]float64 `json:"channels"`
}

type runView struct {
	RunID     string      `json:"run_id"`
	Duration  string      `json:"duration"`
	Passes    int         `json:"passes"`
	Compounds []matchView `json:"compounds"`
	Reactions []matchView `json:"reactions"`
	Artifacts []string    `json:"artifacts,omitempty"`
	Uploaded  []string    `json:"uploaded,omitempty"`
}

func toMatchViews(records []bayes.MatchRecord) []matchView {
	out := make([]matchView, len(records))
	for i, r := range records {
		out[i] = matchView{Query: r.Query, Target: r.Target, P: r.P, Channels: r.Channels}
	}
	return out
}

func newRunView(res *mapping.RunResult) runView {
	v := runView{
		RunID:     res.RunID,
		Duration:  res.Duration.String(),
		Passes:    res.Passes.Passes,
		Compounds: toMatchViews(res.CompoundBest),
		Reactions: toMatchViews(res.ReactionBest),
		Artifacts: res.Artifacts,
	}
	for _, u := range res.Uploaded {
		v.Uploaded = append(v.Uploaded, u.Bucket+"/"+u.ObjectKey)
	}
	return v
}

func printJSON(w io.Writer, res *mapping.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newRunView(res)); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode run summary")
	}
	return nil
}

func printSummary(w io.Writer, res *mapping.RunResult, limit int) {
	fmt.Fprintf(w, "\n=== Compound best matches (%d) ===\n\n", len(res.CompoundBest))
	renderMatches(w, res.CompoundBest, limit)
	fmt.Fprintf(w, "\n=== Reaction best matches (%d) ===\n\n", len(res.ReactionBest))
	renderMatches(w, res.ReactionBest, limit)

	fmt.Fprintf(w, "\nRun: %s\nElapsed: %s\n", res.RunID, res.Duration)
	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "Wrote: %s\n", a)
	}
	for _, u := range res.Uploaded {
		fmt.Fprintf(w, "Uploaded: %s/%s\n", u.Bucket, u.ObjectKey)
	}
}

func renderMatches(w io.Writer, records []bayes.MatchRecord, limit int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Query", "Target", "P"})
	for i, r := range records {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{r.Query, r.Target, colorizeProbability(r.P)})
	}
	table.Render()
	if limit > 0 && len(records) > limit {
		fmt.Fprintf(w, "... %d more\n", len(records)-limit)
	}
}

func colorizeProbability(p float64) string {
	s := strconv.FormatFloat(p, 'f', 4, 64)
	switch {
	case p >= 0.8:
		return color.GreenString(s)
	case p >= 0.5:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

//Personal.AI order the ending
