package engine

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"formflow/internal/model"
)

// FieldError is one human-readable violation found in a candidate answer.
// Field carries the composite item key when the violation belongs to one
// sub-field, so the UI can attribute it precisely.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AnswerReport is the outcome of validating one candidate answer.
type AnswerReport struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	telPattern   = regexp.MustCompile(`^\+?[0-9()\-\s]{6,20}$`)
)

// ValidateAnswer checks a candidate answer value against the question's
// declared constraints. A required question with a missing or empty-string
// answer short-circuits into a single error; every other check accumulates.
// Regex strings that do not compile are skipped here: compilability is a
// design-time integrity concern, not a runtime one.
func ValidateAnswer(q *model.Question, value any) *AnswerReport {
	if q == nil || q.Type == model.QuestionDescription {
		return &AnswerReport{OK: true}
	}

	if value == nil || value == "" {
		if q.Required {
			return &AnswerReport{OK: false, Errors: []FieldError{
				{Message: fmt.Sprintf("%q is required", q.Title)},
			}}
		}
		return &AnswerReport{OK: true}
	}

	var errs []FieldError
	switch {
	case q.Type.IsText():
		errs = validateText(q, value)
	case q.Type == model.QuestionSingleChoice, q.Type == model.QuestionDropdown:
		errs = validateSingleChoice(q, value)
	case q.Type == model.QuestionMultipleChoice:
		errs = validateMultipleChoice(q, value)
	case q.Type.IsComposite():
		errs = validateComposite(q, value)
	}

	return &AnswerReport{OK: len(errs) == 0, Errors: errs}
}

func validateText(q *model.Question, value any) []FieldError {
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%q expects a text answer", q.Title)}}
	}
	return checkString(s, q.Validations, "")
}

// checkString applies length and regex constraints to a string value,
// labeling each violation with field (empty for whole-answer checks).
func checkString(s string, v *model.Validations, field string) []FieldError {
	if v == nil {
		return nil
	}
	var errs []FieldError
	length := utf8.RuneCountInString(s)
	if v.MinLength != nil && length < *v.MinLength {
		errs = append(errs, FieldError{Field: field,
			Message: fmt.Sprintf("must be at least %d characters", *v.MinLength)})
	}
	if v.MaxLength != nil && length > *v.MaxLength {
		errs = append(errs, FieldError{Field: field,
			Message: fmt.Sprintf("must be at most %d characters", *v.MaxLength)})
	}
	if v.Regex != "" {
		if re, err := regexp.Compile(v.Regex); err == nil && !re.MatchString(s) {
			errs = append(errs, FieldError{Field: field, Message: "does not match the expected format"})
		}
	}
	return errs
}

func validateSingleChoice(q *model.Question, value any) []FieldError {
	key, ok := value.(string)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%q expects one option key", q.Title)}}
	}
	if q.OptionByKey(key) == nil {
		return []FieldError{{Message: fmt.Sprintf("%q is not an option of %q", key, q.Title)}}
	}
	return nil
}

func validateMultipleChoice(q *model.Question, value any) []FieldError {
	selected, ok := toSlice(value)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%q expects a list of option keys", q.Title)}}
	}

	var errs []FieldError
	for _, el := range selected {
		key, ok := el.(string)
		if !ok || q.OptionByKey(key) == nil {
			errs = append(errs, FieldError{Message: fmt.Sprintf("%v is not an option of %q", el, q.Title)})
		}
	}

	if v := q.Validations; v != nil {
		n := len(selected)
		switch {
		case v.MinSelect != nil && v.MaxSelect != nil && *v.MinSelect == *v.MaxSelect:
			if n != *v.MinSelect {
				errs = append(errs, FieldError{
					Message: fmt.Sprintf("select exactly %d options", *v.MinSelect)})
			}
		default:
			if v.MinSelect != nil && n < *v.MinSelect {
				errs = append(errs, FieldError{
					Message: fmt.Sprintf("select at least %d options (minimum)", *v.MinSelect)})
			}
			if v.MaxSelect != nil && n > *v.MaxSelect {
				errs = append(errs, FieldError{
					Message: fmt.Sprintf("select at most %d options (maximum)", *v.MaxSelect)})
			}
		}
	}
	return errs
}

func validateComposite(q *model.Question, value any) []FieldError {
	// composite_multiple answers may be a list of records; composite_single
	// is always one record. A single record is accepted for both.
	if records, ok := toSlice(value); ok && q.Type == model.QuestionCompositeMultiple {
		var errs []FieldError
		for i, rec := range records {
			errs = append(errs, validateRecord(q, rec, fmt.Sprintf("entry %d: ", i+1))...)
		}
		return errs
	}
	return validateRecord(q, value, "")
}

func validateRecord(q *model.Question, value any, prefix string) []FieldError {
	record, ok := value.(map[string]any)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%q expects named sub-fields", q.Title)}}
	}

	var errs []FieldError
	for i := range q.CompositeItems {
		item := &q.CompositeItems[i]
		raw, present := record[item.Key]
		empty := !present || raw == nil || raw == ""
		if empty {
			if item.Required {
				errs = append(errs, FieldError{Field: item.Key,
					Message: fmt.Sprintf("%s%s is required", prefix, item.Label)})
			}
			continue
		}
		for _, fe := range validateItemValue(item, raw) {
			fe.Message = prefix + fe.Message
			errs = append(errs, fe)
		}
	}
	return errs
}

func validateItemValue(item *model.CompositeItem, raw any) []FieldError {
	switch item.InputType {
	case model.InputNumber:
		n, ok := toNumber(raw)
		if !ok {
			return []FieldError{{Field: item.Key,
				Message: fmt.Sprintf("%s must be a number", item.Label)}}
		}
		var errs []FieldError
		if v := item.Validations; v != nil {
			if v.Min != nil && n < *v.Min {
				errs = append(errs, FieldError{Field: item.Key,
					Message: fmt.Sprintf("%s must be at least %v", item.Label, *v.Min)})
			}
			if v.Max != nil && n > *v.Max {
				errs = append(errs, FieldError{Field: item.Key,
					Message: fmt.Sprintf("%s must be at most %v", item.Label, *v.Max)})
			}
		}
		return errs

	case model.InputEmail:
		s, ok := raw.(string)
		if !ok || !emailPattern.MatchString(s) {
			return []FieldError{{Field: item.Key,
				Message: fmt.Sprintf("%s must be a valid email address", item.Label)}}
		}
		return labelErrors(item, checkString(s, item.Validations, item.Key))

	case model.InputTel:
		s, ok := raw.(string)
		if !ok || !telPattern.MatchString(s) {
			return []FieldError{{Field: item.Key,
				Message: fmt.Sprintf("%s must be a valid phone number", item.Label)}}
		}
		return labelErrors(item, checkString(s, item.Validations, item.Key))

	default:
		s, ok := raw.(string)
		if !ok {
			return []FieldError{{Field: item.Key,
				Message: fmt.Sprintf("%s must be text", item.Label)}}
		}
		return labelErrors(item, checkString(s, item.Validations, item.Key))
	}
}

func labelErrors(item *model.CompositeItem, errs []FieldError) []FieldError {
	for i := range errs {
		errs[i].Message = item.Label + " " + errs[i].Message
	}
	return errs
}
