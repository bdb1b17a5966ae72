package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

func TestValidateAnswer_RequiredShortCircuits(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Name", Type: model.QuestionShortText, Required: true,
		Validations: &model.Validations{MinLength: intp(3)},
	}

	for _, value := range []any{nil, ""} {
		report := ValidateAnswer(q, value)
		require.False(t, report.OK)
		// Only the required error: length checks do not run.
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0].Message, "required")
	}
}

func TestValidateAnswer_OptionalEmptyIsOK(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Nickname", Type: model.QuestionShortText,
		Validations: &model.Validations{MinLength: intp(3)},
	}
	assert.True(t, ValidateAnswer(q, nil).OK)
	assert.True(t, ValidateAnswer(q, "").OK)
}

func TestValidateAnswer_TextConstraints(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Code", Type: model.QuestionShortText,
		Validations: &model.Validations{
			MinLength: intp(2),
			MaxLength: intp(4),
			Regex:     `^[A-Z]+$`,
		},
	}

	assert.True(t, ValidateAnswer(q, "ABC").OK)

	report := ValidateAnswer(q, "a")
	require.False(t, report.OK)
	// Both the length and the format violations accumulate.
	assert.Len(t, report.Errors, 2)

	report = ValidateAnswer(q, "TOOLONG")
	require.False(t, report.OK)
	assert.Len(t, report.Errors, 1)
}

func TestValidateAnswer_BrokenRegexIgnoredAtRuntime(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Code", Type: model.QuestionShortText,
		Validations: &model.Validations{Regex: `([`},
	}
	// Compilability is a design-time integrity concern; the runtime
	// validator skips the broken pattern.
	assert.True(t, ValidateAnswer(q, "anything").OK)
}

func TestValidateAnswer_SingleChoice(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Color", Type: model.QuestionSingleChoice,
		Options: []model.Option{{Key: "red"}, {Key: "blue"}},
	}

	assert.True(t, ValidateAnswer(q, "red").OK)
	assert.False(t, ValidateAnswer(q, "green").OK)
	assert.False(t, ValidateAnswer(q, float64(1)).OK)
}

func TestValidateAnswer_MultipleChoiceSelectionCounts(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Toppings", Type: model.QuestionMultipleChoice,
		Options: []model.Option{
			{Key: "opt1"}, {Key: "opt2"}, {Key: "opt3"}, {Key: "opt4"},
		},
		Validations: &model.Validations{MinSelect: intp(2), MaxSelect: intp(3)},
	}

	report := ValidateAnswer(q, []any{"opt1"})
	require.False(t, report.OK)
	assert.Contains(t, report.Errors[0].Message, "minimum")

	report = ValidateAnswer(q, []any{"opt1", "opt2", "opt3", "opt4"})
	require.False(t, report.OK)
	assert.Contains(t, report.Errors[0].Message, "maximum")

	assert.True(t, ValidateAnswer(q, []any{"opt1", "opt2"}).OK)
	assert.True(t, ValidateAnswer(q, []any{"opt1", "opt2", "opt3"}).OK)
}

func TestValidateAnswer_MultipleChoiceExactCount(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Pick two", Type: model.QuestionMultipleChoice,
		Options:     []model.Option{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		Validations: &model.Validations{MinSelect: intp(2), MaxSelect: intp(2)},
	}

	assert.True(t, ValidateAnswer(q, []any{"a", "b"}).OK)

	report := ValidateAnswer(q, []any{"a"})
	require.False(t, report.OK)
	assert.Contains(t, report.Errors[0].Message, "exactly 2")
}

func TestValidateAnswer_MultipleChoiceUnknownKeys(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Toppings", Type: model.QuestionMultipleChoice,
		Options: []model.Option{{Key: "a"}, {Key: "b"}},
	}

	report := ValidateAnswer(q, []any{"a", "zzz"})
	require.False(t, report.OK)
	assert.Len(t, report.Errors, 1)

	assert.False(t, ValidateAnswer(q, "a").OK, "scalar answer for a multi-select")
}

func TestValidateAnswer_CompositeFields(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Contact", Type: model.QuestionCompositeSingle,
		CompositeItems: []model.CompositeItem{
			{Key: "name", Label: "Name", InputType: model.InputText, Required: true},
			{Key: "email", Label: "Email", InputType: model.InputEmail, Required: true},
			{Key: "age", Label: "Age", InputType: model.InputNumber,
				Validations: &model.Validations{Min: floatp(18), Max: floatp(120)}},
			{Key: "phone", Label: "Phone", InputType: model.InputTel},
		},
	}

	ok := map[string]any{"name": "Ada", "email": "ada@example.com", "age": float64(36)}
	assert.True(t, ValidateAnswer(q, ok).OK)

	report := ValidateAnswer(q, map[string]any{"email": "not-an-email", "age": float64(7)})
	require.False(t, report.OK)
	require.Len(t, report.Errors, 3)

	// Each violation is attributed to its sub-field.
	fields := make(map[string]bool)
	for _, e := range report.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["name"], "missing required name")
	assert.True(t, fields["email"], "malformed email")
	assert.True(t, fields["age"], "age below minimum")
}

func TestValidateAnswer_CompositeOptionalFieldSkipped(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Contact", Type: model.QuestionCompositeSingle,
		CompositeItems: []model.CompositeItem{
			{Key: "name", Label: "Name", InputType: model.InputText, Required: true},
			{Key: "phone", Label: "Phone", InputType: model.InputTel},
		},
	}
	assert.True(t, ValidateAnswer(q, map[string]any{"name": "Ada"}).OK)
}

func TestValidateAnswer_CompositeMultipleEntries(t *testing.T) {
	q := &model.Question{
		ID: "q1", Title: "Guests", Type: model.QuestionCompositeMultiple,
		CompositeItems: []model.CompositeItem{
			{Key: "name", Label: "Name", InputType: model.InputText, Required: true},
		},
	}

	entries := []any{
		map[string]any{"name": "Ada"},
		map[string]any{},
	}
	report := ValidateAnswer(q, entries)
	require.False(t, report.OK)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "entry 2")
}

func TestValidateAnswer_DescriptionNeverFails(t *testing.T) {
	q := &model.Question{ID: "q1", Title: "Intro", Type: model.QuestionDescription, Required: true}
	assert.True(t, ValidateAnswer(q, nil).OK)
}
