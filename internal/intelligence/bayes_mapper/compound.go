package bayes_mapper

import (
	"context"

	"github.com/turtacn/metmap/internal/domain/network"
	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

// KindCompound and KindReaction label mapping results.
const (
	KindCompound = "compound"
	KindReaction = "reaction"
)

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

type compoundConfig struct {
	kegg bool
}

// CompoundOption configures a CompoundPredictor.
type CompoundOption func(*compoundConfig)

// WithKegg enables the KEGG cross-reference channel.  When disabled the
// channel is kept in the result with neutral likelihoods.
func WithKegg(enabled bool) CompoundOption {
	return func(c *compoundConfig) { c.kegg = enabled }
}

// ---------------------------------------------------------------------------
// Channels
// ---------------------------------------------------------------------------

type compoundChannel struct {
	name      string
	constants MatchConstants
	// complement derives the not-equal marginal as 1 - equal.
	complement bool
	outcome    func(a, b *compoundView) Outcome
}

var compoundChannels = []compoundChannel{
	{name: ChannelID, constants: CompoundIDConstants, complement: true, outcome: compoundIDOutcome},
	{name: ChannelName, constants: CompoundNameConstants, complement: true, outcome: compoundNameOutcome},
	{name: ChannelCharge, constants: CompoundChargeConstants, outcome: compoundChargeOutcome},
	{name: ChannelFormula, constants: CompoundFormulaConstants, outcome: compoundFormulaOutcome},
	{name: ChannelKegg, constants: CompoundKeggConstants, outcome: compoundKeggOutcome},
}

// ---------------------------------------------------------------------------
// CompoundPredictor
// ---------------------------------------------------------------------------

// CompoundPredictor holds the posterior match probability of every compound
// pair of two models.
type CompoundPredictor struct {
	model1 *network.Model
	model2 *network.Model
	result *MappingResult
}

// NewCompoundPredictor runs every compound channel over model1 × model2.
func NewCompoundPredictor(ctx context.Context, eng *Engine, model1, model2 *network.Model, opts ...CompoundOption) (*CompoundPredictor, error) {
	if eng == nil || model1 == nil || model2 == nil {
		return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "engine and both models are required")
	}
	cfg := &compoundConfig{}
	for _, o := range opts {
		o(cfg)
	}

	rows, err := NewAxis(model1.CompoundIDs())
	if err != nil {
		return nil, err
	}
	cols, err := NewAxis(model2.CompoundIDs())
	if err != nil {
		return nil, err
	}
	v1 := newCompoundViews(model1.Compounds())
	v2 := newCompoundViews(model2.Compounds())

	res := &MappingResult{
		Kind:  KindCompound,
		Prior: EstimatePrior(rows.Len(), cols.Len()),
		Rows:  rows,
		Cols:  cols,
	}
	log := eng.logger.With(logging.String("kind", KindCompound))
	log.Info("mapping compounds",
		logging.Int("model1", rows.Len()),
		logging.Int("model2", cols.Len()),
		logging.Float64("prior", res.Prior))

	tables := make([]*LikelihoodTable, 0, len(compoundChannels))
	for _, ch := range compoundChannels {
		ch := ch
		enabled := ch.name != ChannelKegg || cfg.kegg
		cr := ChannelResult{Name: ch.name, Enabled: enabled}
		if enabled {
			pass := KindCompound + "." + ch.name
			cr.Marginal, err = eng.EstimateMarginal(ctx, pass+".marginal", rows.Len(), cols.Len(), ch.complement,
				func(i, j int) Outcome { return ch.outcome(v1[i], v2[j]) })
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeUnknown, "marginal estimation failed").WithDetail("channel=" + pass)
			}
			prior, marg := res.Prior, cr.Marginal
			cr.Likelihoods, err = eng.Pairwise(ctx, pass+".likelihood", rows, cols, func(i, j int) Likelihood {
				return ChannelLikelihood(ch.outcome(v1[i], v2[j]), ch.constants, prior, marg)
			})
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeUnknown, "likelihood pass failed").WithDetail("channel=" + pass)
			}
		} else {
			cr.Likelihoods = NewUniformLikelihoodTable(rows, cols, Neutral)
		}
		cr.Posterior = PosteriorOf(res.Prior, cr.Likelihoods)
		tables = append(tables, cr.Likelihoods)
		res.Channels = append(res.Channels, cr)
	}

	joint, err := LikelihoodProducts(tables...)
	if err != nil {
		return nil, err
	}
	res.Joint = PosteriorOf(res.Prior, joint)
	log.Info("compound posteriors calculated", logging.Int("pairs", res.Joint.Len()))

	return &CompoundPredictor{model1: model1, model2: model2, result: res}, nil
}

// Model1 returns the query model.
func (p *CompoundPredictor) Model1() *network.Model { return p.model1 }

// Model2 returns the target model.
func (p *CompoundPredictor) Model2() *network.Model { return p.model2 }

// Result returns the full mapping result.
func (p *CompoundPredictor) Result() *MappingResult { return p.result }

// Map returns the joint posterior of compound c1 (model 1) and c2 (model 2).
func (p *CompoundPredictor) Map(c1, c2 string) (float64, error) { return p.result.Map(c1, c2) }

// RawMap returns every compound pair with its joint and channel posteriors.
func (p *CompoundPredictor) RawMap() []MatchRecord { return p.result.RawMap() }

// BestMatches returns the best-matching targets of every query compound with
// p >= threshold.
func (p *CompoundPredictor) BestMatches(threshold float64) []MatchRecord {
	return p.result.BestMatches(threshold)
}

// BestScores returns the best-match view as compound scores for the
// reaction equation channel.
func (p *CompoundPredictor) BestScores(threshold float64) SparseScores {
	return p.result.BestScores(threshold)
}

//Personal.AI order the ending
