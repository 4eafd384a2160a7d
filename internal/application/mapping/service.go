// Package mapping provides the application-level service that reconciles two
// metabolic models: it loads both models, runs the compound predictor, feeds
// the compound best matches to the reaction predictor, writes the result
// tables and publishes them.
package mapping

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/metmap/internal/config"
	"github.com/turtacn/metmap/internal/domain/network"
	bayes "github.com/turtacn/metmap/internal/intelligence/bayes_mapper"
	"github.com/turtacn/metmap/internal/intelligence/common"
	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/metmap/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/metmap/internal/infrastructure/storage/minio"
	"github.com/turtacn/metmap/pkg/errors"
)

// Artifact file names written to the output directory.
const (
	CompoundLogFile  = "compound_log.tsv"
	ReactionLogFile  = "reaction_log.tsv"
	CompoundBestFile = "compound_best.tsv"
	ReactionBestFile = "reaction_best.tsv"
)

// Service defines the mapping application operations.
type Service interface {
	// Run loads both model files and maps them.
	Run(ctx context.Context, req *RunRequest) (*RunResult, error)
	// MapModels maps two already loaded models.
	MapModels(ctx context.Context, model1, model2 *network.Model) (*RunResult, error)
}

// ModelLoader reads a model file.
type ModelLoader interface {
	LoadFile(path string) (*network.Model, error)
}

// ArtifactUploader publishes a local artifact file under a run id.
type ArtifactUploader interface {
	UploadFile(ctx context.Context, runID, localPath string) (*minio.UploadResult, error)
}

// RunRequest names the two model files of a run.
type RunRequest struct {
	Model1Path string
	Model2Path string
}

// RunResult is the outcome of one mapping run.
type RunResult struct {
	RunID        string
	Compounds    *bayes.CompoundPredictor
	Reactions    *bayes.ReactionPredictor
	CompoundBest []bayes.MatchRecord
	ReactionBest []bayes.MatchRecord
	// Artifacts lists the local files written, in write order.
	Artifacts []string
	Uploaded  []*minio.UploadResult
	// Passes aggregates the pairwise passes of both predictors.
	Passes   common.PassSummary
	Duration time.Duration
}

// Deps are the collaborators of the service.  Loader is required; the other
// fields are optional.
type Deps struct {
	Loader    ModelLoader
	Uploader  ArtifactUploader
	Metrics   *prom.AppMetrics
	Collector prom.MetricsCollector
	Logger    logging.Logger
}

type serviceImpl struct {
	mapping  config.MappingConfig
	textfile string
	deps     Deps
	logger   logging.Logger
}

// NewService creates a mapping Service.  cfg must have passed Validate.
func NewService(cfg *config.Config, deps Deps) (Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "config is required")
	}
	if err := cfg.Mapping.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		mapping: cfg.Mapping,
		deps:    deps,
		logger:  deps.Logger.Named("mapping"),
	}
	if cfg.Metrics.Enabled {
		s.textfile = cfg.Metrics.Textfile
	}
	return s, nil
}

func (s *serviceImpl) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	if req == nil || req.Model1Path == "" || req.Model2Path == "" {
		return nil, errors.InvalidParam("two model paths are required")
	}
	if s.deps.Loader == nil {
		return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "model loader is not configured")
	}
	model1, err := s.deps.Loader.LoadFile(req.Model1Path)
	if err != nil {
		s.recordError("loader", err)
		return nil, err
	}
	model2, err := s.deps.Loader.LoadFile(req.Model2Path)
	if err != nil {
		s.recordError("loader", err)
		return nil, err
	}
	return s.MapModels(ctx, model1, model2)
}

func (s *serviceImpl) MapModels(ctx context.Context, model1, model2 *network.Model) (res *RunResult, err error) {
	if model1 == nil || model2 == nil {
		return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "both models are required")
	}
	started := time.Now()
	res = &RunResult{RunID: uuid.NewString()}
	log := s.logger.With(logging.String("run_id", res.RunID))
	passes := common.NewPassRecorder()
	defer func() {
		res.Duration = time.Since(started)
		res.Passes = passes.Summary()
		if s.deps.Metrics != nil {
			prom.RecordRun(s.deps.Metrics, res.Duration, err)
		}
		if werr := s.writeTextfile(); werr != nil {
			log.Warn("metrics textfile not written", logging.Err(werr))
		}
		if err != nil {
			log.Error("mapping run failed", logging.Err(err), logging.Duration("elapsed", res.Duration))
			res = nil
			return
		}
		log.Info("mapping run finished",
			logging.Int("compound_matches", len(res.CompoundBest)),
			logging.Int("reaction_matches", len(res.ReactionBest)),
			logging.Int("passes", res.Passes.Passes),
			logging.String("slowest_pass", res.Passes.Slowest),
			logging.Duration("elapsed", res.Duration))
	}()

	log.Info("mapping run started",
		logging.String("model1", model1.Name),
		logging.String("model2", model2.Name),
		logging.Int("workers", s.mapping.Workers),
		logging.Int("chunk_size", s.mapping.ChunkSize))
	if s.deps.Metrics != nil {
		prom.RecordModel(s.deps.Metrics, model1.Name, len(model1.Compounds()), len(model1.Reactions()))
		prom.RecordModel(s.deps.Metrics, model2.Name, len(model2.Compounds()), len(model2.Reactions()))
	}

	eng := bayes.NewEngine(s.newPool(log, passes), log.Named("engine"))

	stop := s.stage(bayes.KindCompound)
	res.Compounds, err = bayes.NewCompoundPredictor(ctx, eng, model1, model2, bayes.WithKegg(s.mapping.CompoundKegg))
	stop()
	if err != nil {
		return res, err
	}
	res.CompoundBest = res.Compounds.BestMatches(s.mapping.CompoundThreshold)

	stop = s.stage(bayes.KindReaction)
	res.Reactions, err = bayes.NewReactionPredictor(ctx, eng, model1, model2,
		res.Compounds.BestScores(s.mapping.CompoundThreshold),
		bayes.WithGenes(s.mapping.ReactionGenes))
	stop()
	if err != nil {
		return res, err
	}
	res.ReactionBest = res.Reactions.BestMatches(s.mapping.ReactionThreshold)

	if s.deps.Metrics != nil {
		s.deps.Metrics.BestMatchesTotal.WithLabelValues(bayes.KindCompound).Set(float64(len(res.CompoundBest)))
		s.deps.Metrics.BestMatchesTotal.WithLabelValues(bayes.KindReaction).Set(float64(len(res.ReactionBest)))
	}

	if s.mapping.OutputDir != "" {
		if res.Artifacts, err = s.writeArtifacts(res); err != nil {
			return res, err
		}
	}
	if s.deps.Uploader != nil && len(res.Artifacts) > 0 {
		if res.Uploaded, err = s.upload(ctx, res.RunID, res.Artifacts); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *serviceImpl) newPool(log logging.Logger, rec *common.PassRecorder) *common.ChunkPool {
	observer := common.Observers(rec)
	if s.deps.Metrics != nil {
		observer = common.Observers(rec, s.deps.Metrics)
	}
	return common.NewChunkPool(
		common.WithWorkers(s.mapping.Workers),
		common.WithChunkSize(s.mapping.ChunkSize),
		common.WithPoolLogger(log.Named("pool")),
		common.WithPassObserver(observer),
	)
}

// stage starts the stage timer and returns its stop function.
func (s *serviceImpl) stage(name string) func() {
	if s.deps.Metrics == nil {
		return func() {}
	}
	t := prom.NewTimer(s.deps.Metrics.StageDuration.WithLabelValues(name))
	return func() { t.ObserveDuration() }
}

func (s *serviceImpl) writeArtifacts(res *RunResult) ([]string, error) {
	dir := s.mapping.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		err = errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to create output directory").WithDetail("dir=" + dir)
		s.recordArtifact("file", err)
		return nil, err
	}

	type artifact struct {
		name  string
		write func(io.Writer) error
	}
	cres, rres := res.Compounds.Result(), res.Reactions.Result()
	artifacts := []artifact{
		{CompoundBestFile, func(w io.Writer) error { return bayes.WriteMatches(w, cres.ChannelNames(), res.CompoundBest) }},
		{ReactionBestFile, func(w io.Writer) error { return bayes.WriteMatches(w, rres.ChannelNames(), res.ReactionBest) }},
	}
	if s.mapping.LogDiagnostics {
		artifacts = append(artifacts,
			artifact{CompoundLogFile, func(w io.Writer) error { return bayes.WriteLikelihoodLog(w, cres) }},
			artifact{ReactionLogFile, func(w io.Writer) error { return bayes.WriteLikelihoodLog(w, rres) }},
		)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		err := writeFile(path, a.write)
		s.recordArtifact("file", err)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("artifact written", logging.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to create artifact").WithDetail("path=" + path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrCodeDiagnosticsFailed, "failed to close artifact").WithDetail("path=" + path)
		}
	}()
	if err := write(f); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "failed to write artifact").WithDetail("path=" + path)
	}
	return nil
}

func (s *serviceImpl) upload(ctx context.Context, runID string, paths []string) ([]*minio.UploadResult, error) {
	out := make([]*minio.UploadResult, 0, len(paths))
	for _, p := range paths {
		r, err := s.deps.Uploader.UploadFile(ctx, runID, p)
		s.recordArtifact("minio", err)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to publish artifact").WithDetail("path=" + p)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *serviceImpl) writeTextfile() error {
	if s.textfile == "" || s.deps.Collector == nil {
		return nil
	}
	return s.deps.Collector.WriteTextfile(s.textfile)
}

func (s *serviceImpl) recordArtifact(sink string, err error) {
	if s.deps.Metrics != nil {
		prom.RecordArtifact(s.deps.Metrics, sink, err)
	}
}

func (s *serviceImpl) recordError(component string, err error) {
	if s.deps.Metrics != nil {
		prom.RecordError(s.deps.Metrics, component, err)
	}
}

//Personal.AI order the ending
