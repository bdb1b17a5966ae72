// Package engine implements the conditional flow and validation engine: it
// evaluates condition trees against answers, routes between questions,
// resolves visibility, validates candidate answers, and statically checks
// whole-survey integrity. Every function is pure: it reads the question list
// and answers map it is given and touches no storage, network, or UI state.
package engine

import (
	"reflect"
	"strconv"
	"strings"

	"formflow/internal/model"
)

// Evaluate evaluates a condition tree against a single answer value.
// A nil node always matches. Predicate leaves whose accessed value is absent
// evaluate to false for every operator, including neq. AND groups with no
// children are vacuously true; OR groups with no children are false.
func Evaluate(node *model.BranchNode, answer any) bool {
	if node == nil {
		return true
	}
	if node.IsGroup() {
		switch node.Op {
		case model.GroupAnd:
			for _, child := range node.Children {
				if !Evaluate(child, answer) {
					return false
				}
			}
			return true
		case model.GroupOr:
			for _, child := range node.Children {
				if Evaluate(child, answer) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return evalPredicate(node, answer)
}

func evalPredicate(p *model.BranchNode, answer any) bool {
	value, ok := FieldValue(answer, p.SubKey)
	if !ok {
		// Absence never satisfies any operator.
		return false
	}

	switch p.Operator {
	case model.OpEq:
		return valuesEqual(value, p.Value)
	case model.OpNeq:
		return !valuesEqual(value, p.Value)
	case model.OpContains:
		return contains(value, p.Value)
	case model.OpContainsAny:
		return containsAny(value, p.Value)
	case model.OpContainsAll:
		return containsAll(value, p.Value)
	case model.OpGt, model.OpLt, model.OpGte, model.OpLte:
		return compareNumeric(p.Operator, value, p.Value)
	case model.OpIsEmpty:
		return isEmpty(value)
	case model.OpNotEmpty:
		return !isEmpty(value)
	default:
		return false
	}
}

// FieldValue resolves the value a predicate compares: the whole answer when
// subKey is empty, or the named field of a composite answer otherwise. The
// second result is false when the value is absent, when the answer is not a
// record but a sub-field was requested, or when the named field is missing.
func FieldValue(answer any, subKey string) (any, bool) {
	if answer == nil {
		return nil, false
	}
	if subKey == "" {
		return answer, true
	}
	record, ok := answer.(map[string]any)
	if !ok {
		if m, isMap := answer.(model.AnswersMap); isMap {
			record = map[string]any(m)
		} else {
			return nil, false
		}
	}
	value, ok := record[subKey]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// valuesEqual is strict equality on the raw value: no cross-type coercion
// except that numbers compare by magnitude regardless of Go numeric type,
// since decoded JSON yields float64 while in-process callers pass int.
func valuesEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := toNumber(a)
	bf, bok := toNumber(b)
	if aok && bok && !isString(a) && !isString(b) {
		return af == bf
	}
	return false
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// contains is a substring test when the actual value is a string and an
// element-membership test when it is an array. Anything else is false.
func contains(actual, expected any) bool {
	if s, ok := actual.(string); ok {
		sub, ok := expected.(string)
		return ok && strings.Contains(s, sub)
	}
	if elems, ok := toSlice(actual); ok {
		for _, el := range elems {
			if valuesEqual(el, expected) {
				return true
			}
		}
	}
	return false
}

// containsAny is true when any expected element is present in the actual
// array. Both operands must be arrays.
func containsAny(actual, expected any) bool {
	have, ok := toSlice(actual)
	if !ok {
		return false
	}
	want, ok := toSlice(expected)
	if !ok {
		return false
	}
	for _, w := range want {
		for _, h := range have {
			if valuesEqual(h, w) {
				return true
			}
		}
	}
	return false
}

// containsAll is true when every expected element is present in the actual
// array. Both operands must be arrays; an empty expected array is vacuously
// satisfied.
func containsAll(actual, expected any) bool {
	have, ok := toSlice(actual)
	if !ok {
		return false
	}
	want, ok := toSlice(expected)
	if !ok {
		return false
	}
	for _, w := range want {
		found := false
		for _, h := range have {
			if valuesEqual(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func compareNumeric(op model.Operator, actual, expected any) bool {
	a, ok := toNumber(actual)
	if !ok {
		return false
	}
	b, ok := toNumber(expected)
	if !ok {
		return false
	}
	switch op {
	case model.OpGt:
		return a > b
	case model.OpLt:
		return a < b
	case model.OpGte:
		return a >= b
	case model.OpLte:
		return a <= b
	}
	return false
}

// toNumber coerces scalars to float64 for ordered comparison. Values that do
// not coerce cleanly (non-numeric strings, booleans, arrays, records) report
// false, which makes the surrounding predicate false.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toSlice widens any slice value to []any. Strings are not slices here.
func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isEmpty defines the is_empty operator: empty string, empty array, empty
// record, and false are empty. Zero is a value, not emptiness. Absent values
// never reach this function; the leaf-absence rule rejects them first.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	case map[string]any:
		return len(t) == 0
	}
	if elems, ok := toSlice(v); ok {
		return len(elems) == 0
	}
	return false
}
