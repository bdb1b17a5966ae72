package engine

import "formflow/internal/model"

// LiftCondition lifts a legacy flat condition into a one-predicate AND group
// so both condition dialects share the same evaluator. Evaluating the lifted
// tree is observably identical to evaluating the flat condition directly.
func LiftCondition(c model.FlatCondition) *model.BranchNode {
	return &model.BranchNode{
		Op: model.GroupAnd,
		Children: []*model.BranchNode{
			{SubKey: c.SubKey, Operator: c.Operator, Value: c.Value},
		},
	}
}

// NormalizeQuestions rewrites every legacy (schema v1) construct into the
// recursive rule model and returns the result; the input is not modified.
// Flat show conditions become show rules, flat branch rules become branch
// rules, a per-option next target becomes a branch rule matching that
// option's selection, and a per-item next target becomes a branch rule
// firing when the sub-field is answered non-empty. Schema v2 questions pass
// through unchanged, so normalization is idempotent.
func NormalizeQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i := range questions {
		out[i] = normalizeQuestion(questions[i])
	}
	return out
}

// NormalizeSurvey returns a schema v2 rendition of the survey. The runner
// calls this once per session start so routing and visibility only ever see
// the recursive rule model.
func NormalizeSurvey(s *model.Survey) *model.Survey {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = NormalizeQuestions(s.Questions)
	out.SchemaVersion = model.SchemaV2
	return &out
}

func normalizeQuestion(q model.Question) model.Question {
	q.BranchRules = append([]model.BranchRule(nil), q.BranchRules...)
	q.ShowRules = append([]model.ShowRule(nil), q.ShowRules...)

	for _, cond := range q.ShowConditions {
		q.ShowRules = append(q.ShowRules, model.ShowRule{
			RefQuestionID: cond.QuestionID,
			When:          LiftCondition(cond),
		})
	}
	q.ShowConditions = nil

	for _, rule := range q.BranchLogic {
		var when *model.BranchNode
		if rule.Condition != nil {
			when = LiftCondition(*rule.Condition)
		}
		q.BranchRules = append(q.BranchRules, model.BranchRule{
			When:           when,
			NextQuestionID: rule.NextQuestionID,
		})
	}
	q.BranchLogic = nil

	if hasLegacyTargets(q.Options, q.CompositeItems) {
		options := append([]model.Option(nil), q.Options...)
		for i := range options {
			target := options[i].NextQuestionID
			if target == "" {
				continue
			}
			op := model.OpEq
			if q.Type == model.QuestionMultipleChoice {
				op = model.OpContains
			}
			q.BranchRules = append(q.BranchRules, model.BranchRule{
				When:           &model.BranchNode{Operator: op, Value: options[i].Key},
				NextQuestionID: target,
			})
			options[i].NextQuestionID = ""
		}
		q.Options = options

		items := append([]model.CompositeItem(nil), q.CompositeItems...)
		for i := range items {
			target := items[i].NextQuestionID
			if target == "" {
				continue
			}
			q.BranchRules = append(q.BranchRules, model.BranchRule{
				When:           &model.BranchNode{SubKey: items[i].Key, Operator: model.OpNotEmpty},
				NextQuestionID: target,
			})
			items[i].NextQuestionID = ""
		}
		q.CompositeItems = items
	}

	return q
}

func hasLegacyTargets(options []model.Option, items []model.CompositeItem) bool {
	for _, opt := range options {
		if opt.NextQuestionID != "" {
			return true
		}
	}
	for _, item := range items {
		if item.NextQuestionID != "" {
			return true
		}
	}
	return false
}
