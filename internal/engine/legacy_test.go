package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

// evalFlat is the legacy flat-condition evaluation the adapter replaces;
// lifted trees must behave identically against any answer.
func evalFlat(c model.FlatCondition, answer any) bool {
	return Evaluate(&model.BranchNode{SubKey: c.SubKey, Operator: c.Operator, Value: c.Value}, answer)
}

func TestLiftCondition_MatchesFlatEvaluation(t *testing.T) {
	conditions := []model.FlatCondition{
		{QuestionID: "q1", Operator: model.OpEq, Value: "yes"},
		{QuestionID: "q1", Operator: model.OpNeq, Value: "yes"},
		{QuestionID: "q1", Operator: model.OpContains, Value: "el"},
		{QuestionID: "q1", SubKey: "plan", Operator: model.OpEq, Value: "pro"},
		{QuestionID: "q1", Operator: model.OpGte, Value: float64(10)},
		{QuestionID: "q1", Operator: model.OpNotEmpty},
	}
	answers := []any{
		nil, "yes", "no", "hello", float64(12), "3",
		[]any{"yes", "no"},
		map[string]any{"plan": "pro"},
		map[string]any{"plan": "free"},
	}

	for _, c := range conditions {
		for _, answer := range answers {
			assert.Equal(t, evalFlat(c, answer), Evaluate(LiftCondition(c), answer),
				"lifted tree diverges for %+v against %v", c, answer)
		}
	}
}

func TestLiftCondition_ProducesSinglePredicateGroup(t *testing.T) {
	node := LiftCondition(model.FlatCondition{
		QuestionID: "q1", SubKey: "plan", Operator: model.OpEq, Value: "pro",
	})
	require.True(t, node.IsGroup())
	assert.Equal(t, model.GroupAnd, node.Op)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "plan", node.Children[0].SubKey)
	assert.Equal(t, model.OpEq, node.Children[0].Operator)
}

func TestNormalizeQuestions_ShowConditions(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice, Options: []model.Option{{Key: "a"}}},
		{ID: "q2", Type: model.QuestionShortText,
			ShowConditions: []model.FlatCondition{
				{QuestionID: "q1", Operator: model.OpEq, Value: "a"},
			}},
	}

	normalized := NormalizeQuestions(qs)

	require.Len(t, normalized[1].ShowRules, 1)
	assert.Equal(t, "q1", normalized[1].ShowRules[0].RefQuestionID)
	assert.Nil(t, normalized[1].ShowConditions)

	r := NewVisibilityResolver(PolicyAll)
	assert.True(t, r.IsVisible(&normalized[1], model.AnswersMap{"q1": "a"}))
	assert.False(t, r.IsVisible(&normalized[1], model.AnswersMap{"q1": "b"}))
}

func TestNormalizeQuestions_FlatBranchRules(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionShortText,
			BranchLogic: []model.FlatBranchRule{
				{Condition: &model.FlatCondition{QuestionID: "q1", Operator: model.OpEq, Value: "skip"},
					NextQuestionID: "q3"},
				{NextQuestionID: "q2"},
			}},
		{ID: "q2", Type: model.QuestionShortText},
		{ID: "q3", Type: model.QuestionShortText},
	}

	normalized := NormalizeQuestions(qs)
	require.Len(t, normalized[0].BranchRules, 2)
	assert.Nil(t, normalized[0].BranchLogic)

	assert.Equal(t, "q3", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": "skip"}))
	assert.Equal(t, "q2", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": "stay"}))
}

func TestNormalizeQuestions_OptionTargets(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice,
			Options: []model.Option{
				{Key: "a", NextQuestionID: "q3"},
				{Key: "b"},
			}},
		{ID: "q2", Type: model.QuestionShortText},
		{ID: "q3", Type: model.QuestionShortText},
	}

	normalized := NormalizeQuestions(qs)

	require.Len(t, normalized[0].BranchRules, 1)
	assert.Empty(t, normalized[0].Options[0].NextQuestionID,
		"legacy target moves into a branch rule")

	// Selecting "a" routes to q3; "b" falls through to the array successor.
	assert.Equal(t, "q3", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": "a"}))
	assert.Equal(t, "q2", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": "b"}))
}

func TestNormalizeQuestions_OptionTargetsMultiSelect(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionMultipleChoice,
			Options: []model.Option{
				{Key: "a", NextQuestionID: "q3"},
				{Key: "b"},
			}},
		{ID: "q2", Type: model.QuestionShortText},
		{ID: "q3", Type: model.QuestionShortText},
	}

	normalized := NormalizeQuestions(qs)

	// Multi-select answers are arrays, so the lifted rule matches by
	// membership rather than equality.
	assert.Equal(t, "q3", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": []any{"b", "a"}}))
	assert.Equal(t, "q2", NextQuestionID(&normalized[0], normalized, model.AnswersMap{"q1": []any{"b"}}))
}

func TestNormalizeQuestions_CompositeItemTargets(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionCompositeSingle,
			CompositeItems: []model.CompositeItem{
				{Key: "company", InputType: model.InputText, NextQuestionID: "q3"},
			}},
		{ID: "q2", Type: model.QuestionShortText},
		{ID: "q3", Type: model.QuestionShortText},
	}

	normalized := NormalizeQuestions(qs)

	withCompany := model.AnswersMap{"q1": map[string]any{"company": "Acme"}}
	without := model.AnswersMap{"q1": map[string]any{"company": ""}}
	assert.Equal(t, "q3", NextQuestionID(&normalized[0], normalized, withCompany))
	assert.Equal(t, "q2", NextQuestionID(&normalized[0], normalized, without))
}

func TestNormalizeQuestions_DoesNotMutateInput(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice,
			Options:        []model.Option{{Key: "a", NextQuestionID: "q2"}},
			ShowConditions: []model.FlatCondition{{QuestionID: "q1", Operator: model.OpNotEmpty}}},
		{ID: "q2", Type: model.QuestionShortText},
	}

	NormalizeQuestions(qs)

	assert.Equal(t, "q2", qs[0].Options[0].NextQuestionID)
	assert.Len(t, qs[0].ShowConditions, 1)
	assert.Empty(t, qs[0].BranchRules)
}

func TestNormalizeSurvey_IsIdempotentAndVersions(t *testing.T) {
	s := &model.Survey{
		ID:            "s1",
		SchemaVersion: model.SchemaV1,
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionSingleChoice,
				Options: []model.Option{{Key: "a", NextQuestionID: "q2"}}},
			{ID: "q2", Type: model.QuestionShortText},
		},
	}

	once := NormalizeSurvey(s)
	twice := NormalizeSurvey(once)

	assert.Equal(t, model.SchemaV2, once.SchemaVersion)
	assert.Equal(t, once.Questions, twice.Questions)
	assert.Equal(t, model.SchemaV1, s.SchemaVersion, "input survey untouched")
}
