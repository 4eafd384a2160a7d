package bayes_mapper

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/turtacn/metmap/pkg/errors"
)

// Diagnostic tables are tab-separated with a header row.  Likelihood logs
// have the columns
//
//	e1 e2 p1_<ch> p2_<ch> ... p_<ch> ... p
//
// and best-match tables
//
//	e1 e2 p p_<ch> ...
//
// where <ch> runs over the channels in evaluation order.

func formatProb(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func newTSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

func flushTSV(cw *csv.Writer, what string) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to write "+what)
	}
	return nil
}

// WriteLikelihoodLog writes one row per pair with the likelihood pair of
// every channel, every channel posterior and the joint posterior.
func WriteLikelihoodLog(w io.Writer, r *MappingResult) error {
	cw := newTSVWriter(w)
	header := []string{"e1", "e2"}
	for _, c := range r.Channels {
		header = append(header, "p1_"+c.Name, "p2_"+c.Name)
	}
	for _, c := range r.Channels {
		header = append(header, "p_"+c.Name)
	}
	header = append(header, "p")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to write likelihood log")
	}

	row := make([]string, len(header))
	for i := 0; i < r.Rows.Len(); i++ {
		for j := 0; j < r.Cols.Len(); j++ {
			row = row[:0]
			row = append(row, r.Rows.ID(i), r.Cols.ID(j))
			for _, c := range r.Channels {
				l := c.Likelihoods.At(i, j)
				row = append(row, formatProb(l.Match), formatProb(l.NoMatch))
			}
			for _, c := range r.Channels {
				row = append(row, formatProb(c.Posterior.At(i, j)))
			}
			row = append(row, formatProb(r.Joint.At(i, j)))
			if err := cw.Write(row); err != nil {
				return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to write likelihood log")
			}
		}
	}
	return flushTSV(cw, "likelihood log")
}

// WriteMatches writes match records with the channel posterior columns of
// channels.
func WriteMatches(w io.Writer, channels []string, records []MatchRecord) error {
	cw := newTSVWriter(w)
	header := []string{"e1", "e2", "p"}
	for _, c := range channels {
		header = append(header, "p_"+c)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to write matches")
	}
	for _, rec := range records {
		row := []string{rec.Query, rec.Target, formatProb(rec.P)}
		for _, c := range channels {
			row = append(row, formatProb(rec.Channels[c]))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeDiagnosticsFailed, "failed to write matches")
		}
	}
	return flushTSV(cw, "matches")
}

//Personal.AI order the ending
