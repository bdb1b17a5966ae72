package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func codesOf(report *IntegrityReport) []IntegrityCode {
	codes := make([]IntegrityCode, len(report.Errors))
	for i, e := range report.Errors {
		codes[i] = e.Code
	}
	return codes
}

func errorsWithCode(report *IntegrityReport, code IntegrityCode) []IntegrityError {
	var out []IntegrityError
	for _, e := range report.Errors {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

func TestValidateSurvey_ValidSurveyIsIdempotent(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice,
			Options: []model.Option{{Key: "a"}, {Key: "b"}},
			BranchRules: []model.BranchRule{
				{When: pred(model.OpEq, "a"), NextQuestionID: "q2"},
				{NextQuestionID: "q3"},
			}},
		{ID: "q2", Type: model.QuestionShortText, NextQuestionID: "q3"},
		{ID: "q3", Type: model.QuestionShortText},
	}

	first := ValidateSurvey(qs)
	second := ValidateSurvey(qs)

	assert.True(t, first.OK)
	assert.Empty(t, first.Errors)
	assert.True(t, second.OK)
	assert.Empty(t, second.Errors)
}

func TestValidateSurvey_DuplicateIDsAndKeys(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice,
			Options:        []model.Option{{Key: "a"}, {Key: "a"}},
			NextQuestionID: "q1dup"},
		{ID: "q1dup", Type: model.QuestionCompositeSingle,
			CompositeItems: []model.CompositeItem{
				{Key: "name", InputType: model.InputText},
				{Key: "name", InputType: model.InputText},
			}},
		{ID: "q1dup", Type: model.QuestionShortText},
	}

	report := ValidateSurvey(qs)
	require.False(t, report.OK)
	assert.Len(t, errorsWithCode(report, CodeDuplicateQuestionID), 1)
	assert.Len(t, errorsWithCode(report, CodeDuplicateOptionKey), 1)
	assert.Len(t, errorsWithCode(report, CodeDuplicateItemKey), 1)
}

func TestValidateSurvey_UnknownReferences(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionSingleChoice,
			Options: []model.Option{{Key: "a", NextQuestionID: "ghost1"}},
			BranchRules: []model.BranchRule{
				{NextQuestionID: "ghost2"},
			},
			ShowRules: []model.ShowRule{{RefQuestionID: "ghost3"}}},
		{ID: "q2", Type: model.QuestionShortText, NextQuestionID: "ghost4"},
	}

	report := ValidateSurvey(qs)
	require.False(t, report.OK)

	refs := make(map[string]bool)
	for _, e := range errorsWithCode(report, CodeUnknownReference) {
		refs[e.Ref] = true
	}
	for _, ghost := range []string{"ghost1", "ghost2", "ghost3", "ghost4"} {
		assert.True(t, refs[ghost], "expected unknown-reference error for %s", ghost)
	}
}

func TestValidateSurvey_CycleWithoutUnreachable(t *testing.T) {
	// q1 -> q2 -> q1: a cycle, but both questions are reachable.
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionShortText, NextQuestionID: "q2"},
		{ID: "q2", Type: model.QuestionShortText, NextQuestionID: "q1"},
	}

	report := ValidateSurvey(qs)
	require.False(t, report.OK)

	cycles := errorsWithCode(report, CodeCycleDetected)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"q1", "q2", "q1"}, cycles[0].Path)
	assert.Empty(t, errorsWithCode(report, CodeUnreachable),
		"cyclic questions are reachable, just cyclic: %v", codesOf(report))
}

func TestValidateSurvey_UnreachableQuestion(t *testing.T) {
	// q1 -> q2 declared; q2 declares no edge; q3 has no inbound edge.
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionShortText, NextQuestionID: "q2"},
		{ID: "q2", Type: model.QuestionShortText},
		{ID: "q3", Type: model.QuestionShortText},
	}

	report := ValidateSurvey(qs)
	require.False(t, report.OK)

	unreachable := errorsWithCode(report, CodeUnreachable)
	require.Len(t, unreachable, 1)
	assert.Equal(t, "q3", unreachable[0].QuestionID)
}

func TestValidateSurvey_FirstCycleOnly(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionShortText, NextQuestionID: "q2"},
		{ID: "q2", Type: model.QuestionShortText, NextQuestionID: "q1"},
		{ID: "q3", Type: model.QuestionShortText, NextQuestionID: "q4"},
		{ID: "q4", Type: model.QuestionShortText, NextQuestionID: "q3"},
	}

	report := ValidateSurvey(qs)
	assert.Len(t, errorsWithCode(report, CodeCycleDetected), 1,
		"cycle detection stops at the first cycle found")
}

func TestValidateSurvey_SelectRanges(t *testing.T) {
	tests := []struct {
		name string
		v    model.Validations
		want int
	}{
		{"negative min", model.Validations{MinSelect: intp(-1)}, 1},
		{"zero max", model.Validations{MaxSelect: intp(0)}, 1},
		{"min above max", model.Validations{MinSelect: intp(3), MaxSelect: intp(2)}, 1},
		{"valid range", model.Validations{MinSelect: intp(1), MaxSelect: intp(3)}, 0},
		{"equal bounds", model.Validations{MinSelect: intp(2), MaxSelect: intp(2)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			qs := []model.Question{{
				ID: "q1", Type: model.QuestionMultipleChoice,
				Options:     []model.Option{{Key: "a"}, {Key: "b"}, {Key: "c"}},
				Validations: &v,
			}}
			report := ValidateSurvey(qs)
			assert.Len(t, errorsWithCode(report, CodeInvalidSelectRange), tt.want)
		})
	}
}

func TestValidateSurvey_RegexCompilability(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionShortText,
			Validations: &model.Validations{Regex: `([`}},
		{ID: "q2", Type: model.QuestionCompositeSingle,
			ShowRules: []model.ShowRule{{RefQuestionID: "q1"}},
			CompositeItems: []model.CompositeItem{
				{Key: "zip", InputType: model.InputText,
					Validations: &model.Validations{Regex: `)`}},
			}},
	}
	// Keep the graph clean so only regex errors surface.
	qs[0].NextQuestionID = "q2"

	report := ValidateSurvey(qs)
	require.False(t, report.OK)
	assert.Len(t, errorsWithCode(report, CodeInvalidRegex), 2)
}

func TestValidateSurvey_ChecksAccumulate(t *testing.T) {
	qs := []model.Question{
		{ID: "q1", Type: model.QuestionMultipleChoice,
			Options:        []model.Option{{Key: "a"}, {Key: "a"}},
			Validations:    &model.Validations{MinSelect: intp(5), MaxSelect: intp(2), Regex: `([`},
			NextQuestionID: "ghost"},
		{ID: "q2", Type: model.QuestionShortText},
	}

	report := ValidateSurvey(qs)
	require.False(t, report.OK)

	counts := make(map[IntegrityCode]int)
	for _, e := range report.Errors {
		counts[e.Code]++
	}
	assert.Equal(t, 1, counts[CodeDuplicateOptionKey])
	assert.Equal(t, 1, counts[CodeUnknownReference])
	assert.Equal(t, 1, counts[CodeUnreachable], "q2 has no inbound declared edge")
	assert.Equal(t, 1, counts[CodeInvalidSelectRange])
	assert.Equal(t, 1, counts[CodeInvalidRegex])
}

func TestValidateSurvey_EmptySurvey(t *testing.T) {
	report := ValidateSurvey(nil)
	assert.True(t, report.OK)
	assert.Empty(t, report.Errors)
}
