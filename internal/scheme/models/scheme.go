package models

// CriterionType names an eligibility predicate. The set is closed and
// versioned; an unknown type is a catalog configuration error.
type CriterionType string

// CriterionVocabularyVersion is bumped whenever a predicate is added or removed.
const CriterionVocabularyVersion = 1

const (
	CriterionAgeBetween       CriterionType = "age_between"
	CriterionCategoryIn       CriterionType = "category_in"
	CriterionGenderIn         CriterionType = "gender_in"
	CriterionOccupationIn     CriterionType = "occupation_in"
	CriterionOccupationEquals CriterionType = "occupation_equals"
	CriterionStateIn          CriterionType = "state_in"
	CriterionIncomeBelow      CriterionType = "income_below"
	CriterionBPLCard          CriterionType = "bpl_card"
	CriterionExpression       CriterionType = "expression"
)

var criterionTypes = map[CriterionType]bool{
	CriterionAgeBetween:       true,
	CriterionCategoryIn:       true,
	CriterionGenderIn:         true,
	CriterionOccupationIn:     true,
	CriterionOccupationEquals: true,
	CriterionStateIn:          true,
	CriterionIncomeBelow:      true,
	CriterionBPLCard:          true,
	CriterionExpression:       true,
}

func (t CriterionType) IsValid() bool { return criterionTypes[t] }

// Criterion is one predicate over profile attributes. Which parameters are
// read depends on Type:
//   - age_between: MinAge and/or MaxAge (inclusive)
//   - category_in, gender_in, occupation_in, state_in: Values
//   - occupation_equals: Value
//   - income_below: Limit (strict)
//   - bpl_card: none
//   - expression: Expr, a CEL boolean over the profile
//
// Description overrides the generated unmet text.
type Criterion struct {
	Type        CriterionType `json:"type" yaml:"type"`
	MinAge      *int          `json:"min_age,omitempty" yaml:"min_age,omitempty"`
	MaxAge      *int          `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Values      []string      `json:"values,omitempty" yaml:"values,omitempty"`
	Value       string        `json:"value,omitempty" yaml:"value,omitempty"`
	Limit       *int64        `json:"limit,omitempty" yaml:"limit,omitempty"`
	Expr        string        `json:"expr,omitempty" yaml:"expr,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
}

// Scheme is read-only reference data loaded from the catalog.
type Scheme struct {
	ID                string      `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name"`
	Category          string      `json:"category" yaml:"category"`
	Description       string      `json:"description" yaml:"description"`
	Benefits          string      `json:"benefits" yaml:"benefits"`
	Criteria          []Criterion `json:"criteria" yaml:"criteria"`
	RequiredDocuments []string    `json:"required_documents" yaml:"required_documents"`
}

// Status has two values: any unmet criterion yields NearlyEligible.
type Status string

const (
	StatusEligible       Status = "eligible"
	StatusNearlyEligible Status = "nearly_eligible"
)

// Result is the outcome of evaluating one scheme against one profile.
// Unmet lists failing criteria in declaration order and is empty, not nil,
// when eligible.
type Result struct {
	SchemeID string   `json:"scheme_id"`
	Status   Status   `json:"status"`
	Unmet    []string `json:"unmet_criteria"`
}
