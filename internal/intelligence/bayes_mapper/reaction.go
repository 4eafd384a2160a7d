package bayes_mapper

import (
	"context"

	"github.com/turtacn/metmap/internal/domain/network"
	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

type reactionConfig struct {
	genes bool
}

// ReactionOption configures a ReactionPredictor.
type ReactionOption func(*reactionConfig)

// WithGenes enables the gene association channel.  When disabled the
// channel is kept in the result with neutral likelihoods.
func WithGenes(enabled bool) ReactionOption {
	return func(c *reactionConfig) { c.genes = enabled }
}

// ReactionPredictor holds the posterior match probability of every reaction
// pair of two models.
type ReactionPredictor struct {
	model1 *network.Model
	model2 *network.Model
	result *MappingResult
}

// NewReactionPredictor runs every reaction channel over model1 × model2.
// compoundScores supplies the compound match probabilities consumed by the
// equation channel, normally CompoundPredictor.BestScores.
func NewReactionPredictor(ctx context.Context, eng *Engine, model1, model2 *network.Model, compoundScores ScoreLookup, opts ...ReactionOption) (*ReactionPredictor, error) {
	if eng == nil || model1 == nil || model2 == nil || compoundScores == nil {
		return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "engine, both models and compound scores are required")
	}
	cfg := &reactionConfig{}
	for _, o := range opts {
		o(cfg)
	}

	rows, err := NewAxis(model1.ReactionIDs())
	if err != nil {
		return nil, err
	}
	cols, err := NewAxis(model2.ReactionIDs())
	if err != nil {
		return nil, err
	}
	v1 := newReactionViews(model1.Reactions())
	v2 := newReactionViews(model2.Reactions())
	n, m := rows.Len(), cols.Len()

	res := &MappingResult{Kind: KindReaction, Prior: EstimatePrior(n, m), Rows: rows, Cols: cols}
	prior := res.Prior
	log := eng.logger.With(logging.String("kind", KindReaction))
	log.Info("mapping reactions",
		logging.Int("model1", n),
		logging.Int("model2", m),
		logging.Float64("prior", prior))

	fail := func(err error, channel string) (*ReactionPredictor, error) {
		return nil, errors.Wrap(err, errors.CodeUnknown, "reaction pass failed").WithDetail("channel=" + KindReaction + "." + channel)
	}

	// id
	idCh := ChannelResult{Name: ChannelID, Enabled: true}
	idCh.Marginal, err = eng.EstimateMarginal(ctx, "reaction.id.marginal", n, m, true,
		func(i, j int) Outcome { return reactionIDOutcome(v1[i], v2[j]) })
	if err != nil {
		return fail(err, ChannelID)
	}
	idMarg := idCh.Marginal
	idCh.Likelihoods, err = eng.Pairwise(ctx, "reaction.id.likelihood", rows, cols, func(i, j int) Likelihood {
		return ChannelLikelihood(reactionIDOutcome(v1[i], v2[j]), ReactionIDConstants, prior, idMarg)
	})
	if err != nil {
		return fail(err, ChannelID)
	}

	// name
	nameCh := ChannelResult{Name: ChannelName, Enabled: true}
	nameCh.Marginal, err = eng.EstimateMarginal(ctx, "reaction.name.marginal", n, m, true,
		func(i, j int) Outcome { return reactionNameOutcome(v1[i], v2[j]) })
	if err != nil {
		return fail(err, ChannelName)
	}
	nameMarg := nameCh.Marginal
	nameCh.Likelihoods, err = eng.Pairwise(ctx, "reaction.name.likelihood", rows, cols, func(i, j int) Likelihood {
		return ChannelLikelihood(reactionNameOutcome(v1[i], v2[j]), ReactionNameConstants, prior, nameMarg)
	})
	if err != nil {
		return fail(err, ChannelName)
	}

	// equation
	eqCh := ChannelResult{Name: ChannelEquation, Enabled: true}
	eqCh.Likelihoods, err = eng.Pairwise(ctx, "reaction.equation.likelihood", rows, cols, func(i, j int) Likelihood {
		return equationLikelihood(v1[i], v2[j], compoundScores)
	})
	if err != nil {
		return fail(err, ChannelEquation)
	}

	// genes
	geneCh := ChannelResult{Name: ChannelGenes, Enabled: cfg.genes}
	if cfg.genes {
		geneCh.Likelihoods, err = eng.Pairwise(ctx, "reaction.genes.likelihood", rows, cols, func(i, j int) Likelihood {
			return geneLikelihood(v1[i], v2[j])
		})
		if err != nil {
			return fail(err, ChannelGenes)
		}
	} else {
		geneCh.Likelihoods = NewUniformLikelihoodTable(rows, cols, Neutral)
	}

	res.Channels = []ChannelResult{idCh, nameCh, eqCh, geneCh}
	tables := make([]*LikelihoodTable, len(res.Channels))
	for k := range res.Channels {
		res.Channels[k].Posterior = PosteriorOf(prior, res.Channels[k].Likelihoods)
		tables[k] = res.Channels[k].Likelihoods
	}
	joint, err := LikelihoodProducts(tables...)
	if err != nil {
		return nil, err
	}
	res.Joint = PosteriorOf(prior, joint)
	log.Info("reaction posteriors calculated", logging.Int("pairs", res.Joint.Len()))

	return &ReactionPredictor{model1: model1, model2: model2, result: res}, nil
}

// Model1 returns the query model.
func (p *ReactionPredictor) Model1() *network.Model { return p.model1 }

// Model2 returns the target model.
func (p *ReactionPredictor) Model2() *network.Model { return p.model2 }

// Result returns the full mapping result.
func (p *ReactionPredictor) Result() *MappingResult { return p.result }

// Map returns the joint posterior of reaction r1 (model 1) and r2 (model 2).
func (p *ReactionPredictor) Map(r1, r2 string) (float64, error) { return p.result.Map(r1, r2) }

// RawMap returns every reaction pair with its joint and channel posteriors.
func (p *ReactionPredictor) RawMap() []MatchRecord { return p.result.RawMap() }

// BestMatches returns the best-matching targets of every query reaction with
// p >= threshold.
func (p *ReactionPredictor) BestMatches(threshold float64) []MatchRecord {
	return p.result.BestMatches(threshold)
}

//Personal.AI order the ending
