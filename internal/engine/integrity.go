package engine

import (
	"fmt"
	"regexp"
	"strings"

	"formflow/internal/model"
)

// IntegrityCode classifies a design-time structural defect.
type IntegrityCode string

const (
	CodeDuplicateQuestionID IntegrityCode = "DUPLICATE_QUESTION_ID"
	CodeDuplicateOptionKey  IntegrityCode = "DUPLICATE_OPTION_KEY"
	CodeDuplicateItemKey    IntegrityCode = "DUPLICATE_ITEM_KEY"
	CodeUnknownReference    IntegrityCode = "UNKNOWN_REFERENCE"
	CodeUnreachable         IntegrityCode = "UNREACHABLE_QUESTION"
	CodeCycleDetected       IntegrityCode = "CYCLE_DETECTED"
	CodeInvalidSelectRange  IntegrityCode = "INVALID_SELECT_RANGE"
	CodeInvalidRegex        IntegrityCode = "INVALID_REGEX"
)

// IntegrityError is one structural defect in a survey definition. These are
// surfaced to the author in the builder and block publishing; respondents
// never see them.
type IntegrityError struct {
	Code       IntegrityCode `json:"code"`
	QuestionID string        `json:"questionId,omitempty"`
	Ref        string        `json:"ref,omitempty"`  // offending key, target id, or pattern
	Path       []string      `json:"path,omitempty"` // cycle path, when Code is CYCLE_DETECTED
	Message    string        `json:"message"`
}

// IntegrityReport is the outcome of whole-survey static validation.
type IntegrityReport struct {
	OK     bool             `json:"ok"`
	Errors []IntegrityError `json:"errors,omitempty"`
}

// ValidateSurvey statically checks a whole question list: id/key uniqueness,
// referential integrity of every cross-question pointer, reachability from
// the first question, cycle detection, selection-range sanity, and regex
// compilability. Checks run independently and their errors accumulate; only
// cycle detection stops at the first cycle found. The traversal state is
// local to the call, so repeated validation of an unchanged survey yields
// identical reports.
func ValidateSurvey(questions []model.Question) *IntegrityReport {
	var errs []IntegrityError
	errs = append(errs, checkUniqueness(questions)...)
	errs = append(errs, checkReferences(questions)...)
	errs = append(errs, checkReachability(questions)...)
	errs = append(errs, checkCycles(questions)...)
	errs = append(errs, checkSelectRanges(questions)...)
	errs = append(errs, checkRegexes(questions)...)
	return &IntegrityReport{OK: len(errs) == 0, Errors: errs}
}

func checkUniqueness(questions []model.Question) []IntegrityError {
	var errs []IntegrityError
	seen := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if seen[q.ID] {
			errs = append(errs, IntegrityError{
				Code:       CodeDuplicateQuestionID,
				QuestionID: q.ID,
				Message:    fmt.Sprintf("duplicate question id %q", q.ID),
			})
		}
		seen[q.ID] = true

		optKeys := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if optKeys[opt.Key] {
				errs = append(errs, IntegrityError{
					Code:       CodeDuplicateOptionKey,
					QuestionID: q.ID,
					Ref:        opt.Key,
					Message:    fmt.Sprintf("question %q declares option key %q twice", q.ID, opt.Key),
				})
			}
			optKeys[opt.Key] = true
		}

		itemKeys := make(map[string]bool, len(q.CompositeItems))
		for _, item := range q.CompositeItems {
			if itemKeys[item.Key] {
				errs = append(errs, IntegrityError{
					Code:       CodeDuplicateItemKey,
					QuestionID: q.ID,
					Ref:        item.Key,
					Message:    fmt.Sprintf("question %q declares composite item key %q twice", q.ID, item.Key),
				})
			}
			itemKeys[item.Key] = true
		}
	}
	return errs
}

func checkReferences(questions []model.Question) []IntegrityError {
	index := questionIndex(questions)
	var errs []IntegrityError

	report := func(q *model.Question, target, where string) {
		if target == "" || index[target] {
			return
		}
		errs = append(errs, IntegrityError{
			Code:       CodeUnknownReference,
			QuestionID: q.ID,
			Ref:        target,
			Message:    fmt.Sprintf("question %q %s references unknown question %q", q.ID, where, target),
		})
	}

	for i := range questions {
		q := &questions[i]
		report(q, q.NextQuestionID, "next")
		for _, rule := range q.BranchRules {
			report(q, rule.NextQuestionID, "branch rule")
		}
		for _, rule := range q.ShowRules {
			report(q, rule.RefQuestionID, "show rule")
		}
		for _, opt := range q.Options {
			report(q, opt.NextQuestionID, "option "+opt.Key)
		}
		for _, item := range q.CompositeItems {
			report(q, item.NextQuestionID, "composite item "+item.Key)
		}
		for _, rule := range q.BranchLogic {
			report(q, rule.NextQuestionID, "branch logic")
		}
		for _, cond := range q.ShowConditions {
			report(q, cond.QuestionID, "show condition")
		}
	}
	return errs
}

// forwardEdges returns the declared outgoing edges of a question: the
// explicit override, branch rule targets, and legacy option/item targets.
// The runtime array-successor fallback is a routing default, not a declared
// edge, so it does not count toward reachability.
func forwardEdges(q *model.Question) []string {
	var edges []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			edges = append(edges, id)
		}
	}
	add(q.NextQuestionID)
	for _, rule := range q.BranchRules {
		add(rule.NextQuestionID)
	}
	for _, rule := range q.BranchLogic {
		add(rule.NextQuestionID)
	}
	for _, opt := range q.Options {
		add(opt.NextQuestionID)
	}
	for _, item := range q.CompositeItems {
		add(item.NextQuestionID)
	}
	return edges
}

func checkReachability(questions []model.Question) []IntegrityError {
	if len(questions) == 0 {
		return nil
	}

	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	visited := make(map[string]bool, len(questions))
	stack := []string{questions[0].ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		q, ok := byID[id]
		if !ok {
			continue
		}
		for _, target := range forwardEdges(q) {
			if !visited[target] {
				stack = append(stack, target)
			}
		}
	}

	var errs []IntegrityError
	for i := range questions {
		if !visited[questions[i].ID] {
			errs = append(errs, IntegrityError{
				Code:       CodeUnreachable,
				QuestionID: questions[i].ID,
				Message:    fmt.Sprintf("question %q is unreachable from the first question", questions[i].ID),
			})
		}
	}
	return errs
}

// checkCycles runs a depth-first traversal with visited and recursion-stack
// sets. The first back-edge found is reported with the path that produced
// it; detection is not exhaustive.
func checkCycles(questions []model.Question) []IntegrityError {
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	visited := make(map[string]bool, len(questions))
	onStack := make(map[string]bool, len(questions))
	var path []string

	var visit func(id string) *IntegrityError
	visit = func(id string) *IntegrityError {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		q := byID[id]
		if q != nil {
			for _, target := range forwardEdges(q) {
				if _, ok := byID[target]; !ok {
					continue
				}
				if onStack[target] {
					cycle := append(cycleStart(path, target), target)
					return &IntegrityError{
						Code:       CodeCycleDetected,
						QuestionID: target,
						Path:       cycle,
						Message:    fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")),
					}
				}
				if !visited[target] {
					if err := visit(target); err != nil {
						return err
					}
				}
			}
		}

		onStack[id] = false
		path = path[:len(path)-1]
		return nil
	}

	for i := range questions {
		id := questions[i].ID
		if visited[id] {
			continue
		}
		path = path[:0]
		if err := visit(id); err != nil {
			return []IntegrityError{*err}
		}
	}
	return nil
}

// cycleStart trims the traversal path to begin at the node the back-edge
// returns to.
func cycleStart(path []string, target string) []string {
	for i, id := range path {
		if id == target {
			out := make([]string, len(path)-i)
			copy(out, path[i:])
			return out
		}
	}
	return append([]string(nil), path...)
}

func checkSelectRanges(questions []model.Question) []IntegrityError {
	var errs []IntegrityError
	for i := range questions {
		q := &questions[i]
		if q.Type != model.QuestionMultipleChoice || q.Validations == nil {
			continue
		}
		v := q.Validations
		if v.MinSelect != nil && *v.MinSelect < 0 {
			errs = append(errs, IntegrityError{
				Code:       CodeInvalidSelectRange,
				QuestionID: q.ID,
				Message:    fmt.Sprintf("question %q has minSelect %d; it must not be negative", q.ID, *v.MinSelect),
			})
		}
		if v.MaxSelect != nil && *v.MaxSelect < 1 {
			errs = append(errs, IntegrityError{
				Code:       CodeInvalidSelectRange,
				QuestionID: q.ID,
				Message:    fmt.Sprintf("question %q has maxSelect %d; it must be at least 1", q.ID, *v.MaxSelect),
			})
		}
		if v.MinSelect != nil && v.MaxSelect != nil && *v.MinSelect > *v.MaxSelect {
			errs = append(errs, IntegrityError{
				Code:       CodeInvalidSelectRange,
				QuestionID: q.ID,
				Message:    fmt.Sprintf("question %q has minSelect %d greater than maxSelect %d", q.ID, *v.MinSelect, *v.MaxSelect),
			})
		}
	}
	return errs
}

func checkRegexes(questions []model.Question) []IntegrityError {
	var errs []IntegrityError
	report := func(q *model.Question, pattern, where string) {
		if pattern == "" {
			return
		}
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, IntegrityError{
				Code:       CodeInvalidRegex,
				QuestionID: q.ID,
				Ref:        pattern,
				Message:    fmt.Sprintf("question %q %s has an invalid regex: %v", q.ID, where, err),
			})
		}
	}
	for i := range questions {
		q := &questions[i]
		if q.Validations != nil {
			report(q, q.Validations.Regex, "validations")
		}
		for _, item := range q.CompositeItems {
			if item.Validations != nil {
				report(q, item.Validations.Regex, "composite item "+item.Key)
			}
		}
	}
	return errs
}

func questionIndex(questions []model.Question) map[string]bool {
	index := make(map[string]bool, len(questions))
	for i := range questions {
		index[questions[i].ID] = true
	}
	return index
}
