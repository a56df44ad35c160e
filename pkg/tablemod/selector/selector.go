// Package selector resolves row and column selector lists against a table's labels.
package selector

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// All is the sentinel selector that matches every position.
const All = "<<ALL>>"

// ErrInvalidRegexp is returned when the combined selector pattern does not compile.
var ErrInvalidRegexp = errors.New("invalid regular expression")

// Selector is a selector list compiled once per invocation and resolved
// against each table it is applied to.
type Selector struct {
	entries []entry
	all     bool
	re      *regexp2.Regexp
}

type entry struct {
	text     string
	n        int
	isInt    bool
	width    float64
	hasWidth bool
}

// New compiles items. widths, when non-nil, must have one width per item and
// is carried with its item through resolution. In regex mode (useRegexp set and
// the first item not All) every non-integer item becomes one alternative of a
// single pattern matched with search semantics.
func New(items []string, widths []float64, useRegexp bool) (*Selector, error) {
	s := &Selector{}
	regexMode := useRegexp && !(len(items) > 0 && items[0] == All)
	var patterns []string
	for idx, item := range items {
		e := entry{text: item}
		if widths != nil && idx < len(widths) {
			e.width, e.hasWidth = widths[idx], true
		}
		if n, ok := ParseIndex(item); ok {
			e.n, e.isInt = n, true
		} else if regexMode {
			patterns = append(patterns, "(?:"+item+")")
			continue
		} else if item == All {
			s.all = true
		}
		s.entries = append(s.entries, e)
	}
	if len(patterns) > 0 {
		expr := strings.Join(patterns, "|")
		re, err := regexp2.Compile(expr, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("%w: %s error: %v", ErrInvalidRegexp, expr, err)
		}
		s.re = re
	}
	return s, nil
}

// ParseIndex converts a selector item to an integer offset.
func ParseIndex(item string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(item))
	if err != nil {
		return 0, false
	}
	return n, true
}

// MatchesAll reports whether the list contains the All sentinel.
func (s *Selector) MatchesAll() bool { return s.all }

// Regexp reports whether a combined pattern was compiled.
func (s *Selector) Regexp() bool { return s.re != nil }

// Resolve rebases negative offsets against extent and drops out-of-range
// offsets, reporting each through warn.
func (s *Selector) Resolve(extent int, warn func(string)) *Resolved {
	r := &Resolved{
		all:   s.all,
		re:    s.re,
		ints:  make(map[int]entry),
		texts: make(map[string]entry),
	}
	for _, e := range s.entries {
		if !e.isInt {
			r.texts[e.text] = e
			continue
		}
		n := e.n
		if n < 0 {
			n += extent
		}
		if n < 0 || n >= extent {
			if warn != nil {
				warn(fmt.Sprintf("A specified row or column label number does not exist in a selected table. "+
					"It will be ignored. Label number: %d. Table size: %d", n, extent))
			}
			continue
		}
		r.ints[n] = e
	}
	return r
}

// Resolved is a selector list resolved against one table extent.
type Resolved struct {
	all   bool
	re    *regexp2.Regexp
	ints  map[int]entry
	texts map[string]entry
}

// Match is one accepted position.
type Match struct {
	Pos   int
	Label string
	entry *entry
}

// Width returns the width paired with the selector entry that produced the match.
func (m Match) Width() (float64, bool) {
	if m.entry == nil || !m.entry.hasWidth {
		return 0, false
	}
	return m.entry.width, true
}

// Match tests position pos. Integer and All matches take precedence; only
// when neither applies is label called to fetch the text for text or
// pattern matching. A nil label matches no text or pattern.
func (r *Resolved) Match(pos int, label func() (string, error)) (Match, bool, error) {
	if e, ok := r.ints[pos]; ok {
		return Match{Pos: pos, entry: &e}, true, nil
	}
	if r.all {
		return Match{Pos: pos}, true, nil
	}
	if label == nil || (r.re == nil && len(r.texts) == 0) {
		return Match{}, false, nil
	}
	v, err := label()
	if err != nil {
		return Match{}, false, err
	}
	if r.re != nil {
		ok, err := r.re.MatchString(v)
		if err != nil || !ok {
			return Match{}, false, nil
		}
		return Match{Pos: pos, Label: v}, true, nil
	}
	if e, ok := r.texts[v]; ok {
		return Match{Pos: pos, Label: v, entry: &e}, true, nil
	}
	return Match{}, false, nil
}

// All reports whether every position matches.
func (r *Resolved) All() bool { return r.all }

// Indices returns the resolved integer positions in ascending order.
func (r *Resolved) Indices() []int {
	out := make([]int, 0, len(r.ints))
	for n := range r.ints {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Texts returns the literal label texts in ascending order.
func (r *Resolved) Texts() []string {
	out := make([]string, 0, len(r.texts))
	for t := range r.texts {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
