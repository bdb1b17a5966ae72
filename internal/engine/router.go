package engine

import "formflow/internal/model"

// NextQuestionID decides which question follows current, by fixed precedence:
// the explicit override, then the first branch rule whose condition holds
// against the current question's own answer, then the array successor. The
// empty string signals end of survey. Routing never fails: a target that
// names no existing question (a design-time defect integrity validation
// should have caught) degrades to end of survey rather than erroring.
func NextQuestionID(current *model.Question, questions []model.Question, answers model.AnswersMap) string {
	if current == nil {
		return ""
	}

	if current.NextQuestionID != "" {
		return resolveTarget(current.NextQuestionID, questions)
	}

	answer := answers[current.ID]
	for _, rule := range current.BranchRules {
		if Evaluate(rule.When, answer) {
			return resolveTarget(rule.NextQuestionID, questions)
		}
	}

	for i := range questions {
		if questions[i].ID == current.ID {
			if i+1 < len(questions) {
				return questions[i+1].ID
			}
			return ""
		}
	}
	return ""
}

func resolveTarget(id string, questions []model.Question) string {
	for i := range questions {
		if questions[i].ID == id {
			return id
		}
	}
	return ""
}
