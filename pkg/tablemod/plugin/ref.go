package plugin

import (
	"fmt"
	"regexp"
	"strings"
)

var refPattern = regexp.MustCompile(`^([^(]+)(\(.+\))$`)

// Ref is a parsed plugin reference.
type Ref struct {
	// Text is the reference as written, trimmed.
	Text string
	// Name is the module.function part.
	Name     string
	Module   string
	Function string
	// Params holds the parsed parameters plus _first set to true.
	Params Params
}

// ParseRef parses "module.function" or "module.function(k=v, ...)".
func ParseRef(text string) (Ref, error) {
	ref := Ref{Text: strings.TrimSpace(text)}
	name := ref.Text
	ref.Params = make(Params)
	if m := refPattern.FindStringSubmatch(ref.Text); m != nil {
		clause := m[2]
		params, err := ParseParams(clause[1 : len(clause)-1])
		if err != nil {
			return Ref{}, fmt.Errorf("%w: %s: %v", ErrInvalidParams, clause, err)
		}
		ref.Params = params
		name = m[1]
	}
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, "()=,") {
		return Ref{}, fmt.Errorf("%w: %s", ErrInvalidParams, ref.Text)
	}
	module, function, err := splitName(name)
	if err != nil {
		return Ref{}, err
	}
	ref.Name, ref.Module, ref.Function = name, module, function
	ref.Params.SetFirst(true)
	return ref, nil
}
