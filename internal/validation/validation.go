// internal/validation/validation.go
package validation

import (
	"fmt"
	"sort"
)

// RuleSet maps a payload field to its ordered rules.
type RuleSet map[string][]Rule

// Errors holds the failing message for each invalid field.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Merge copies other into e with each field prefixed, e.g. "unit.unit_name".
func (e Errors) Merge(prefix string, other Errors) {
	for field, messages := range other {
		e[prefix+"."+field] = append(e[prefix+"."+field], messages...)
	}
}

// First returns the first message of the alphabetically first invalid field.
func (e Errors) First() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if len(e[f]) > 0 {
			return e[f][0]
		}
	}
	return ""
}

// Validate runs each field's rules in order and keeps the first failure.
// Fields guarded by Sometimes are skipped when the payload lacks the key.
func Validate(data Data, set RuleSet) Errors {
	errs := Errors{}
	for field, rules := range set {
		value, present := data[field]
		for _, rule := range rules {
			if rule.Name == ruleSometimes {
				if !present {
					break
				}
				continue
			}
			if msg := run(rule, value, data); msg != "" {
				errs.Add(field, msg)
				break
			}
		}
	}
	return errs
}

func run(rule Rule, value interface{}, data Data) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("Invalid value (%s)", rule.Name)
		}
	}()
	if rule.Check == nil {
		return ""
	}
	return rule.Check(value, data)
}

// Partial derives an update rule set: fields are only checked when present,
// and a field the create set required may not be sent blank.
func Partial(set RuleSet) RuleSet {
	out := make(RuleSet, len(set))
	for field, rules := range set {
		kept := []Rule{Sometimes()}
		for _, r := range rules {
			switch r.Name {
			case ruleSometimes:
				continue
			case ruleRequired:
				kept = append(kept, Filled())
			default:
				kept = append(kept, r)
			}
		}
		out[field] = kept
	}
	return out
}

// Extend returns a copy of base with extra fields added or replaced.
func Extend(base RuleSet, extra RuleSet) RuleSet {
	out := make(RuleSet, len(base)+len(extra))
	for f, r := range base {
		out[f] = r
	}
	for f, r := range extra {
		out[f] = r
	}
	return out
}

// Only returns a copy of base restricted to the named fields.
func Only(base RuleSet, fields ...string) RuleSet {
	out := make(RuleSet, len(fields))
	for _, f := range fields {
		if r, ok := base[f]; ok {
			out[f] = r
		}
	}
	return out
}
