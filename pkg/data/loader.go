package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/core"
)

// Record is one row of a feature file: the class label, optionally the
// prediction made for it, and its extracted features.
type Record struct {
	Label      int
	Prediction float64
	X          []float64
}

// StreamCSV streams the rows of a feature CSV as Records through out.
// Rows are "label,f1,...,fd", or "label,prediction,f1,...,fd" when
// withPrediction is set. Malformed rows are skipped. Empty, "NA" and "NaN"
// features are kept as NaN for imputation.
// Close the returned done chan to stop early.
func StreamCSV(path string, withPrediction bool, out chan<- Record) (done chan struct{}, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	done = make(chan struct{})

	lead := 1
	if withPrediction {
		lead = 2
	}

	go func() {
		defer file.Close()
		defer close(out)
		line := 0
		for {
			select {
			case <-done:
				return
			default:
			}

			rec, err := reader.Read()
			if err == io.EOF {
				return
			}
			line++
			if err != nil {
				log.WithFields(log.Fields{"file": path, "line": line}).Debugf("skipping record: %v", err)
				continue
			}
			r, err := parseRecord(rec, lead)
			if err != nil {
				log.WithFields(log.Fields{"file": path, "line": line}).Debugf("skipping record: %v", err)
				continue
			}
			select {
			case out <- r:
			case <-done:
				return
			}
		}
	}()
	return done, nil
}

func parseRecord(rec []string, lead int) (Record, error) {
	if len(rec) <= lead {
		return Record{}, errors.Errorf("%d columns, want more than %d", len(rec), lead)
	}
	label, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil || label < 0 || label != math.Trunc(label) {
		return Record{}, errors.Errorf("invalid label %q", rec[0])
	}
	r := Record{Label: int(label), X: make([]float64, 0, len(rec)-lead)}
	if lead == 2 {
		if r.Prediction, err = strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
			return Record{}, errors.Wrap(err, "invalid prediction")
		}
	}
	for _, s := range rec[lead:] {
		s = strings.TrimSpace(s)
		if missing(s) {
			r.X = append(r.X, math.NaN())
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Record{}, errors.Wrap(err, "invalid feature")
		}
		r.X = append(r.X, v)
	}
	return r, nil
}

func missing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return true
	}
	return false
}

// ReadFeatureCSV reads every well formed row of a feature CSV.
func ReadFeatureCSV(path string, withPrediction bool) ([]Record, error) {
	ch := make(chan Record, 64)
	if _, err := StreamCSV(path, withPrediction, ch); err != nil {
		return nil, err
	}
	var out []Record
	for r := range ch {
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no usable rows in %s", path)
	}
	return out, nil
}

// ClassSet is the part of a feature file belonging to a single class.
type ClassSet struct {
	Class       int
	X           *mat.Dense
	Predictions []float64
}

// Truth returns the class label repeated once per row.
func (c *ClassSet) Truth() []float64 {
	n, _ := c.X.Dims()
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(c.Class)
	}
	return t
}

// SplitByClass groups records by label. All records must share one width.
func SplitByClass(records []Record) (map[int]*ClassSet, error) {
	rows := map[int][][]float64{}
	preds := map[int][]float64{}
	for _, r := range records {
		rows[r.Label] = append(rows[r.Label], r.X)
		preds[r.Label] = append(preds[r.Label], r.Prediction)
	}
	out := make(map[int]*ClassSet, len(rows))
	for c, xs := range rows {
		x, err := core.FromRows(xs)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", c)
		}
		out[c] = &ClassSet{Class: c, X: x, Predictions: preds[c]}
	}
	return out, nil
}

// Classes returns the keys of sets in ascending order.
func Classes(sets map[int]*ClassSet) []int {
	cs := make([]int, 0, len(sets))
	for c := range sets {
		cs = append(cs, c)
	}
	sort.Ints(cs)
	return cs
}
