package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// Profiler is the bundled Generator. It summarizes every column according to
// its taxonomy category and renders HTML or Markdown.
type Profiler struct {
	Format Format
	// SampleRows is the number of head rows included; 0 uses 5.
	SampleRows int
	// OutlierThreshold is the robust |z| cut-off; 0 uses 3.5.
	OutlierThreshold float64
}

// Profile is the computed content of a report.
type Profile struct {
	Title       string
	Name        string
	Rows        int
	Minimal     bool
	Explorative bool
	Cols        []ColumnSummary
	Corr        []PairCorr
	Header      []string
	Samples     [][]string
	Warnings    []string
}

// ColumnSummary captures statistics per column.
type ColumnSummary struct {
	Name     string
	Category schema.TaxonomyCategory
	Storage  string
	NonNull  int
	Missing  int
	Unique   int
	// Numeric
	Min, Max, Mean, Std float64
	OutliersCount       int
	OutliersMaxAbsZ     float64
	OutlierThreshold    float64
	// Datetime
	First, Last time.Time
	// Categorical and text
	TopValues  []CategoryCount
	MeanLength float64
}

// MissingPct returns the share of null rows as a percentage.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

// CategoryCount is a value and its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// PairCorr is a Pearson correlation between two numeric columns.
type PairCorr struct {
	A, B string
	R    float64
}

// Generate implements Generator.
func (p Profiler) Generate(in Input) (*Document, error) {
	if in.Dataset == nil {
		return nil, errors.New("report: nil dataset")
	}
	prof, err := p.Summarize(in)
	if err != nil {
		return nil, err
	}
	format := p.Format
	if format == "" {
		format = FormatHTML
	}
	var body []byte
	switch format {
	case FormatMarkdown:
		body = []byte(prof.Markdown())
	case FormatHTML:
		body, err = prof.HTML()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	return &Document{
		Title:     prof.Title,
		FileName:  FileName(in.Dataset.Name, format),
		MediaType: format.mediaType(),
		Body:      body,
	}, nil
}

// Summarize computes the profile without rendering it.
func (p Profiler) Summarize(in Input) (*Profile, error) {
	f := in.Dataset
	title := in.Title
	if title == "" {
		title = DefaultTitle(f.Name)
	}
	prof := &Profile{
		Title:       title,
		Name:        f.Name,
		Rows:        f.Rows(),
		Minimal:     in.Minimal,
		Explorative: in.Explorative,
		Warnings:    append([]string(nil), f.Warnings...),
	}
	thr := p.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	var numeric []*frame.Column
	for _, c := range f.Columns {
		cat, ok := in.Types[c.Name]
		if !ok {
			return nil, fmt.Errorf("report: no taxonomy category for column %q", c.Name)
		}
		s := ColumnSummary{Name: c.Name, Category: cat, Storage: c.Type.String(), Missing: c.NullCount()}
		s.NonNull = c.Len() - s.Missing
		switch cat {
		case schema.TaxonomyNumeric:
			vals, ok := numericValues(c)
			if !ok {
				return nil, fmt.Errorf("report: column %q is %s, not numeric", c.Name, c.Type)
			}
			summarizeNumeric(&s, vals)
			if !in.Minimal {
				outliers(&s, vals, thr)
			}
			numeric = append(numeric, c)
		case schema.TaxonomyDatetime:
			if c.Type != frame.Timestamp {
				return nil, fmt.Errorf("report: column %q is %s, not datetime", c.Name, c.Type)
			}
			summarizeTimes(&s, c)
		case schema.TaxonomyCategorical, schema.TaxonomyText:
			summarizeValues(&s, c, !in.Minimal)
		default:
			return nil, fmt.Errorf("report: unknown taxonomy category %q", cat)
		}
		prof.Cols = append(prof.Cols, s)
	}
	if in.Explorative && !in.Minimal {
		prof.Corr = correlations(numeric)
	}
	if !in.Minimal {
		n := p.SampleRows
		if n <= 0 {
			n = 5
		}
		prof.Header = f.Names()
		for i := 0; i < f.Rows() && i < n; i++ {
			row := make([]string, len(f.Columns))
			for j, c := range f.Columns {
				row[j] = c.Format(i)
			}
			prof.Samples = append(prof.Samples, row)
		}
	}
	return prof, nil
}

// numericValues returns the non-null values of an int64 or float64 column.
func numericValues(c *frame.Column) ([]float64, bool) {
	var out []float64
	switch c.Type {
	case frame.Int64:
		for i, v := range c.Ints {
			if c.Valid[i] {
				out = append(out, float64(v))
			}
		}
	case frame.Float64:
		for i, v := range c.Floats {
			if c.Valid[i] && !math.IsInf(v, 0) {
				out = append(out, v)
			}
		}
	default:
		return nil, false
	}
	return out, true
}

// summarizeNumeric uses Welford's online update for mean and variance.
func summarizeNumeric(s *ColumnSummary, vals []float64) {
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	var n int
	var mean, m2 float64
	uniq := map[float64]struct{}{}
	for _, x := range vals {
		n++
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		uniq[x] = struct{}{}
	}
	if n == 0 {
		s.Min, s.Max = 0, 0
		return
	}
	s.Mean = mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	s.Unique = len(uniq)
}

// outliers counts values with robust z-score (MAD based) above thr.
func outliers(s *ColumnSummary, vals []float64, thr float64) {
	if len(vals) < 8 {
		return
	}
	median, mad := medianMAD(vals)
	s.OutlierThreshold = thr
	if mad == 0 {
		return
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			s.OutliersCount++
		}
		if az > s.OutliersMaxAbsZ {
			s.OutliersMaxAbsZ = az
		}
	}
}

func summarizeTimes(s *ColumnSummary, c *frame.Column) {
	uniq := map[int64]struct{}{}
	for i, t := range c.Times {
		if !c.Valid[i] {
			continue
		}
		if s.First.IsZero() || t.Before(s.First) {
			s.First = t
		}
		if s.Last.IsZero() || t.After(s.Last) {
			s.Last = t
		}
		uniq[t.UnixNano()] = struct{}{}
	}
	s.Unique = len(uniq)
}

func summarizeValues(s *ColumnSummary, c *frame.Column, withTop bool) {
	counts := map[string]int{}
	var totalLen int
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Format(i)
		counts[v]++
		totalLen += len([]rune(v))
	}
	s.Unique = len(counts)
	if s.NonNull > 0 {
		s.MeanLength = float64(totalLen) / float64(s.NonNull)
	}
	if !withTop {
		return
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	s.TopValues = tops
}

// correlations computes pairwise Pearson r over rows where both values are
// present, sorted by |r| and capped at 10 pairs.
func correlations(cols []*frame.Column) []PairCorr {
	var pairs []PairCorr
	for a := 0; a < len(cols); a++ {
		for b := a + 1; b < len(cols); b++ {
			r, ok := pearson(cols[a], cols[b])
			if !ok {
				continue
			}
			pairs = append(pairs, PairCorr{A: cols[a].Name, B: cols[b].Name, R: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}
	return pairs
}

func pearson(x, y *frame.Column) (float64, bool) {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := 0; i < x.Len(); i++ {
		a, okA := valueAt(x, i)
		b, okB := valueAt(y, i)
		if !okA || !okB {
			continue
		}
		n++
		sumX += a
		sumY += b
		sumXX += a * a
		sumYY += b * b
		sumXY += a * b
	}
	if n < 2 {
		return 0, false
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0, false
	}
	r := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func valueAt(c *frame.Column, i int) (float64, bool) {
	if c.IsNull(i) {
		return 0, false
	}
	if c.Type == frame.Int64 {
		return float64(c.Ints[i]), true
	}
	v := c.Floats[i]
	return v, !math.IsInf(v, 0)
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
