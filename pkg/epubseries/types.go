package epubseries

import (
	"fmt"
	"math/big"
	"strings"
)

// Index is a position within a series. Fractional positions (novellas
// between volumes, "2.5", "1/3") are allowed and kept exact.
//
// The zero value is position 0. Indexes compare with ==.
type Index struct {
	text string // canonical form, empty for zero
}

// IndexOf returns the whole-number position n.
func IndexOf(n int) Index {
	return newIndex(new(big.Rat).SetInt64(int64(n)))
}

// ParseIndex parses a series index from decimal ("2", "2.5") or fraction ("5/2") text.
func ParseIndex(s string) (Index, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Index{}, fmt.Errorf("empty index: %w", ErrInvalidIndex)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Index{}, fmt.Errorf("%q is not a number or fraction: %w", s, ErrInvalidIndex)
	}
	if r.Sign() < 0 {
		return Index{}, fmt.Errorf("%q is negative: %w", s, ErrInvalidIndex)
	}
	return newIndex(r), nil
}

// MustParseIndex is like ParseIndex but panics on invalid text.
func MustParseIndex(s string) Index {
	idx, err := ParseIndex(s)
	if err != nil {
		panic(err)
	}
	return idx
}

func newIndex(r *big.Rat) Index {
	if r.Sign() == 0 {
		return Index{}
	}
	return Index{text: formatRat(r)}
}

// formatRat writes whole numbers and terminating decimals in decimal form
// and every other value as p/q.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	places, ok := decimalPlaces(r.Denom())
	if !ok {
		return r.RatString()
	}
	return r.FloatString(places)
}

// decimalPlaces reports how many digits after the point a reduced fraction
// with denominator d needs, and false when its expansion does not terminate.
func decimalPlaces(d *big.Int) (int, bool) {
	rest := new(big.Int).Set(d)
	var twos, fives int
	for _, f := range []struct {
		p *big.Int
		n *int
	}{{big.NewInt(2), &twos}, {big.NewInt(5), &fives}} {
		q, m := new(big.Int), new(big.Int)
		for {
			q.QuoRem(rest, f.p, m)
			if m.Sign() != 0 {
				break
			}
			rest.Set(q)
			*f.n++
		}
	}
	if rest.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}

// Rat returns the index as an exact rational.
func (i Index) Rat() *big.Rat {
	r, ok := new(big.Rat).SetString(i.String())
	if !ok {
		return new(big.Rat)
	}
	return r
}

// String renders the index in its natural form: "2" rather than "2.0",
// "2.5" for 5/2 and "1/3" when no finite decimal exists.
func (i Index) String() string {
	if i.text == "" {
		return "0"
	}
	return i.text
}

// Series is a series declaration: a name and an optional position.
type Series struct {
	Name  string
	Index *Index
}

// NewSeries builds a Series with an index.
func NewSeries(name string, index Index) Series {
	return Series{Name: name, Index: &index}
}

// HasIndex reports whether the declaration carries a position.
func (s Series) HasIndex() bool {
	return s.Index != nil
}

// String formats the series for messages, e.g. "Discworld #2".
func (s Series) String() string {
	if s.Index == nil {
		return s.Name
	}
	return fmt.Sprintf("%s #%s", s.Name, s.Index)
}

// Vocabularies selects which on-disk tag vocabularies a patch rewrites.
//
//   - Structured: EPUB 3 <meta property="belongs-to-collection"> with refines
//   - Legacy: calibre <meta name="calibre:series" content="..."/>
type Vocabularies struct {
	Structured bool
	Legacy     bool
}

// DefaultVocabularies writes the structured form only.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{Structured: true}
}

// Any reports whether at least one vocabulary is selected.
func (v Vocabularies) Any() bool {
	return v.Structured || v.Legacy
}

// String lists the selected vocabularies, comma separated.
func (v Vocabularies) String() string {
	var names []string
	if v.Structured {
		names = append(names, "structured")
	}
	if v.Legacy {
		names = append(names, "legacy")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseVocabularies parses names such as "structured", "legacy", "both".
// Names may be given as separate values or comma separated.
func ParseVocabularies(names []string) (Vocabularies, error) {
	var v Vocabularies
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "":
			case "structured", "epub3", "collection":
				v.Structured = true
			case "legacy", "calibre", "meta":
				v.Legacy = true
			case "both", "all":
				v.Structured = true
				v.Legacy = true
			default:
				return Vocabularies{}, fmt.Errorf("unknown vocabulary %q (want structured, legacy or both): %w", name, ErrInvalidConfig)
			}
		}
	}
	if !v.Any() {
		return Vocabularies{}, fmt.Errorf("at least one vocabulary must be selected: %w", ErrInvalidConfig)
	}
	return v, nil
}

// Outcome is the result class of one book.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// FileResult describes what happened to one book.
type FileResult struct {
	Path     string
	Series   Series
	Existing string // series name found before patching, if any
	Outcome  Outcome
	Reason   string // why a book was skipped
	DryRun   bool
	// Unchanged is set when the patched package document equals the original,
	// in which case the archive is left alone.
	Unchanged  bool
	BackupPath string
	Err        error
}

// Summary aggregates per-book results of a run.
type Summary struct {
	Results []FileResult
	Applied int
	Skipped int
	Failed  int
}

// Add records a result and updates the counters.
func (s *Summary) Add(r FileResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeApplied:
		s.Applied++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Total returns the number of recorded results.
func (s *Summary) Total() int {
	return len(s.Results)
}

// Err returns ErrBatchIncomplete when any book failed.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d book(s): %w", s.Failed, s.Total(), ErrBatchIncomplete)
}
