package engine

import "formflow/internal/model"

// VisibilityPolicy names how multiple show-rules on one question aggregate.
// Both policies exist in the wild; the resolver makes the choice explicit
// instead of inferring it from call order.
type VisibilityPolicy string

const (
	// PolicyAll shows the question only when every show-rule is satisfied.
	// This is the default: each rule the author adds narrows visibility.
	PolicyAll VisibilityPolicy = "all"
	// PolicyAny shows the question when at least one show-rule is satisfied.
	PolicyAny VisibilityPolicy = "any"
)

// VisibilityResolver decides whether a question should currently be
// presented. The zero value aggregates with PolicyAll.
type VisibilityResolver struct {
	Policy VisibilityPolicy
}

// NewVisibilityResolver returns a resolver with the given policy, defaulting
// to PolicyAll when the policy is empty or unknown.
func NewVisibilityResolver(policy VisibilityPolicy) VisibilityResolver {
	if policy != PolicyAny {
		policy = PolicyAll
	}
	return VisibilityResolver{Policy: policy}
}

// IsVisible evaluates the question's show-rules against the answers of the
// questions they reference. A question with no show-rules is always visible.
// A rule whose referenced question has no recorded answer is unsatisfied
// unless its condition is absent (an unconditional rule has no leaves for
// the absence rule to fail).
func (r VisibilityResolver) IsVisible(q *model.Question, answers model.AnswersMap) bool {
	if q == nil {
		return false
	}
	if len(q.ShowRules) == 0 {
		return true
	}

	if r.Policy == PolicyAny {
		for _, rule := range q.ShowRules {
			if ruleSatisfied(rule, answers) {
				return true
			}
		}
		return false
	}

	for _, rule := range q.ShowRules {
		if !ruleSatisfied(rule, answers) {
			return false
		}
	}
	return true
}

func ruleSatisfied(rule model.ShowRule, answers model.AnswersMap) bool {
	return Evaluate(rule.When, answers[rule.RefQuestionID])
}
