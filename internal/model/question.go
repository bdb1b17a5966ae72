package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionShortText         QuestionType = "short_text"         // Single-line text input
	QuestionLongText          QuestionType = "long_text"          // Multi-line text input
	QuestionSingleChoice      QuestionType = "single_choice"      // Radio buttons, one option key
	QuestionMultipleChoice    QuestionType = "multiple_choice"    // Checkboxes, array of option keys
	QuestionDropdown          QuestionType = "dropdown"           // Select, one option key
	QuestionCompositeSingle   QuestionType = "composite_single"   // One record of named sub-fields
	QuestionCompositeMultiple QuestionType = "composite_multiple" // Repeatable record of named sub-fields
	QuestionDescription       QuestionType = "description"        // Display-only, never answered
)

// IsChoice reports whether the question type answers with option keys.
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultipleChoice || t == QuestionDropdown
}

// IsComposite reports whether the question type answers with named sub-fields.
func (t QuestionType) IsComposite() bool {
	return t == QuestionCompositeSingle || t == QuestionCompositeMultiple
}

// IsText reports whether the question type answers with free text.
func (t QuestionType) IsText() bool {
	return t == QuestionShortText || t == QuestionLongText
}

// ItemInputType defines the input widget of a composite sub-field
type ItemInputType string

const (
	InputText   ItemInputType = "text"
	InputNumber ItemInputType = "number"
	InputEmail  ItemInputType = "email"
	InputTel    ItemInputType = "tel"
)

// Validations holds the declared constraints of a question or composite item.
// Pointer fields distinguish "not set" from zero.
type Validations struct {
	Regex     string   `json:"regex,omitempty" bson:"regex,omitempty"`
	MinLength *int     `json:"minLength,omitempty" bson:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" bson:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" bson:"max,omitempty"`
	MinSelect *int     `json:"minSelect,omitempty" bson:"minSelect,omitempty"`
	MaxSelect *int     `json:"maxSelect,omitempty" bson:"maxSelect,omitempty"`
}

// Option is one selectable choice of a choice-type question
type Option struct {
	Key           string `json:"key" bson:"key"`
	Label         string `json:"label" bson:"label"`
	AllowFreeText bool   `json:"allowFreeText,omitempty" bson:"allowFreeText,omitempty"` // option carries a free-text sub-answer
	IsOther       bool   `json:"isOther,omitempty" bson:"isOther,omitempty"`
	// NextQuestionID is the legacy (schema v1) per-option routing target.
	// Schema v2 surveys route exclusively through BranchRules.
	NextQuestionID string `json:"nextQuestionId,omitempty" bson:"nextQuestionId,omitempty"`
}

// CompositeItem is one named sub-field of a composite question
type CompositeItem struct {
	Key         string        `json:"key" bson:"key"`
	Label       string        `json:"label" bson:"label"`
	InputType   ItemInputType `json:"inputType" bson:"inputType"`
	Required    bool          `json:"required,omitempty" bson:"required,omitempty"`
	Validations *Validations  `json:"validations,omitempty" bson:"validations,omitempty"`
	// NextQuestionID is the legacy (schema v1) routing target, taken when the
	// sub-field is answered non-empty. Schema v2 surveys use BranchRules.
	NextQuestionID string `json:"nextQuestionId,omitempty" bson:"nextQuestionId,omitempty"`
}

// Question is one item in a survey. The builder creates and reorders
// questions; the flow engine only ever reads them.
type Question struct {
	ID             string          `json:"id" bson:"id"`
	Title          string          `json:"title" bson:"title"`
	Type           QuestionType    `json:"type" bson:"type"`
	Required       bool            `json:"required,omitempty" bson:"required,omitempty"`
	Options        []Option        `json:"options,omitempty" bson:"options,omitempty"`
	CompositeItems []CompositeItem `json:"compositeItems,omitempty" bson:"compositeItems,omitempty"`
	BranchRules    []BranchRule    `json:"branchRules,omitempty" bson:"branchRules,omitempty"`
	ShowRules      []ShowRule      `json:"showRules,omitempty" bson:"showRules,omitempty"`
	Validations    *Validations    `json:"validations,omitempty" bson:"validations,omitempty"`
	// NextQuestionID is an explicit routing override. It beats every branch
	// rule and the array successor.
	NextQuestionID string `json:"nextQuestionId,omitempty" bson:"nextQuestionId,omitempty"`

	// Legacy (schema v1) flat conditions. Normalized into ShowRules and
	// BranchRules before evaluation; see engine.NormalizeQuestions.
	BranchLogic    []FlatBranchRule `json:"branchLogic,omitempty" bson:"branchLogic,omitempty"`
	ShowConditions []FlatCondition  `json:"showConditions,omitempty" bson:"showConditions,omitempty"`
}

// OptionByKey returns the declared option with the given key, or nil.
func (q *Question) OptionByKey(key string) *Option {
	for i := range q.Options {
		if q.Options[i].Key == key {
			return &q.Options[i]
		}
	}
	return nil
}

// ItemByKey returns the composite item with the given key, or nil.
func (q *Question) ItemByKey(key string) *CompositeItem {
	for i := range q.CompositeItems {
		if q.CompositeItems[i].Key == key {
			return &q.CompositeItems[i]
		}
	}
	return nil
}
