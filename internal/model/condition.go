package model

// Operator defines the comparison of a predicate leaf
type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpContains    Operator = "contains"     // substring for strings, membership for arrays
	OpContainsAny Operator = "contains_any" // any expected element present
	OpContainsAll Operator = "contains_all" // every expected element present
	OpGt          Operator = "gt"
	OpLt          Operator = "lt"
	OpGte         Operator = "gte"
	OpLte         Operator = "lte"
	OpIsEmpty     Operator = "is_empty"
	OpNotEmpty    Operator = "not_empty"
)

// GroupOp combines the children of a group node
type GroupOp string

const (
	GroupAnd GroupOp = "and"
	GroupOr  GroupOp = "or"
)

// BranchNode is one node of a condition tree: either a group (Op set,
// children combined with AND/OR) or a predicate leaf (Operator set,
// comparing the answer — or one sub-field of it — against Value).
// Nesting depth is unbounded.
type BranchNode struct {
	// Group fields
	Op       GroupOp       `json:"op,omitempty" bson:"op,omitempty"`
	Children []*BranchNode `json:"children,omitempty" bson:"children,omitempty"`

	// Predicate fields
	SubKey   string   `json:"subKey,omitempty" bson:"subKey,omitempty"`
	Operator Operator `json:"operator,omitempty" bson:"operator,omitempty"`
	Value    any      `json:"value,omitempty" bson:"value,omitempty"`
}

// IsGroup reports whether the node is a group. A group with zero children is
// still a group; predicates never carry a GroupOp.
func (n *BranchNode) IsGroup() bool {
	return n.Op != ""
}

// BranchRule routes the owning question to NextQuestionID when its condition
// holds against the owning question's own answer. A nil When matches
// unconditionally, which makes it a default rule.
type BranchRule struct {
	When           *BranchNode `json:"when,omitempty" bson:"when,omitempty"`
	NextQuestionID string      `json:"nextQuestionId" bson:"nextQuestionId"`
}

// ShowRule gates the owning question's visibility on the answer of
// RefQuestionID, which is usually a different question. A nil When is
// always satisfied.
type ShowRule struct {
	RefQuestionID string      `json:"refQuestionId" bson:"refQuestionId"`
	When          *BranchNode `json:"when,omitempty" bson:"when,omitempty"`
}

// FlatCondition is the legacy (schema v1) single-predicate condition shape.
// The engine lifts it into a one-child AND group before evaluation so both
// schemas share one evaluator.
type FlatCondition struct {
	QuestionID string   `json:"question_id" bson:"question_id"`
	SubKey     string   `json:"sub_key,omitempty" bson:"sub_key,omitempty"`
	Operator   Operator `json:"operator" bson:"operator"`
	Value      any      `json:"value,omitempty" bson:"value,omitempty"`
}

// FlatBranchRule is the legacy (schema v1) branch rule: one flat condition
// paired with a routing target. A nil Condition matches unconditionally.
type FlatBranchRule struct {
	Condition      *FlatCondition `json:"condition,omitempty" bson:"condition,omitempty"`
	NextQuestionID string         `json:"next_question_id" bson:"next_question_id"`
}
