package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"formflow/internal/model"
)

func linearQuestions(ids ...string) []model.Question {
	qs := make([]model.Question, len(ids))
	for i, id := range ids {
		qs[i] = model.Question{ID: id, Title: id, Type: model.QuestionShortText}
	}
	return qs
}

func TestNextQuestionID_OverrideBeatsBranchRules(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3", "q4")
	qs[0].NextQuestionID = "q4"
	qs[0].BranchRules = []model.BranchRule{
		// Rule would match, but the explicit override wins regardless.
		{When: pred(model.OpEq, "yes"), NextQuestionID: "q2"},
	}

	got := NextQuestionID(&qs[0], qs, model.AnswersMap{"q1": "yes"})
	assert.Equal(t, "q4", got)
}

func TestNextQuestionID_FirstMatchingRuleWins(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3", "q4")
	qs[0].Type = model.QuestionSingleChoice
	qs[0].Options = []model.Option{{Key: "a"}, {Key: "b"}}
	qs[0].BranchRules = []model.BranchRule{
		{When: pred(model.OpEq, "a"), NextQuestionID: "q3"},
		{When: pred(model.OpNeq, "zzz"), NextQuestionID: "q4"}, // would also match
	}

	got := NextQuestionID(&qs[0], qs, model.AnswersMap{"q1": "a"})
	assert.Equal(t, "q3", got, "first matching rule wins even when a later rule also matches")
}

func TestNextQuestionID_DefaultRuleMatchesUnconditionally(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3")
	qs[0].BranchRules = []model.BranchRule{
		{When: pred(model.OpEq, "never"), NextQuestionID: "q2"},
		{NextQuestionID: "q3"}, // no when: default/fallback
	}

	got := NextQuestionID(&qs[0], qs, model.AnswersMap{"q1": "something else"})
	assert.Equal(t, "q3", got)
}

func TestNextQuestionID_LinearFallback(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3")

	assert.Equal(t, "q2", NextQuestionID(&qs[0], qs, model.AnswersMap{}))
	assert.Equal(t, "q3", NextQuestionID(&qs[1], qs, model.AnswersMap{}))
}

func TestNextQuestionID_LastQuestionEndsSurvey(t *testing.T) {
	qs := linearQuestions("q1", "q2")
	assert.Equal(t, "", NextQuestionID(&qs[1], qs, model.AnswersMap{}))
}

func TestNextQuestionID_UnansweredRulesFallThrough(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3")
	qs[0].BranchRules = []model.BranchRule{
		{When: pred(model.OpNeq, "x"), NextQuestionID: "q3"},
	}

	// No answer recorded for q1: the predicate fails under the absence rule
	// and routing falls through to the array successor.
	assert.Equal(t, "q2", NextQuestionID(&qs[0], qs, model.AnswersMap{}))
}

func TestNextQuestionID_SubKeyNarrowing(t *testing.T) {
	qs := linearQuestions("q1", "q2", "q3")
	qs[0].Type = model.QuestionCompositeSingle
	qs[0].BranchRules = []model.BranchRule{
		{When: subPred("plan", model.OpEq, "pro"), NextQuestionID: "q3"},
	}

	answers := model.AnswersMap{"q1": map[string]any{"plan": "pro"}}
	assert.Equal(t, "q3", NextQuestionID(&qs[0], qs, answers))

	answers["q1"] = map[string]any{"plan": "free"}
	assert.Equal(t, "q2", NextQuestionID(&qs[0], qs, answers))
}

func TestNextQuestionID_DanglingTargetDegradesToEnd(t *testing.T) {
	qs := linearQuestions("q1", "q2")
	qs[0].NextQuestionID = "gone"

	// A dangling reference is a design-time defect; the router degrades to
	// end of survey instead of crashing the respondent session.
	assert.Equal(t, "", NextQuestionID(&qs[0], qs, model.AnswersMap{}))
}

func TestNextQuestionID_NilCurrent(t *testing.T) {
	assert.Equal(t, "", NextQuestionID(nil, linearQuestions("q1"), model.AnswersMap{}))
}
