package oracle

import (
	"encoding/json"

	"lexi-drafting-be/pkg/store"
)

// Extraction is what one chunk contributed.
type Extraction struct {
	Variables []store.Variable
	Tags      []string
}

type Candidate struct {
	TemplateID    string  `json:"template_id"`
	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
}

// Match is a ranking answer. BestMatch is nil when the model explicitly
// reported that nothing fits.
type Match struct {
	BestMatch    *Candidate
	Alternatives []Candidate
}

type QuestionItem struct {
	VariableKey string `json:"variable_key"`
	Question    string `json:"question"`
	Hint        string `json:"hint"`
}

type wireVariable struct {
	Key         flexString   `json:"key"`
	Label       flexString   `json:"label"`
	Description flexString   `json:"description"`
	Example     flexString   `json:"example"`
	Required    flexBool     `json:"required"`
	Dtype       flexString   `json:"dtype"`
	Regex       flexString   `json:"regex"`
	EnumValues  []flexString `json:"enum_values"`
}

type wireExtraction struct {
	Variables []wireVariable `json:"variables"`
	Tags      []flexString   `json:"similarity_tags"`
}

type wireQuestion struct {
	VariableKey flexString `json:"variable_key"`
	Question    flexString `json:"question"`
	Hint        flexString `json:"hint"`
}

// BestMatch stays raw so an explicit null can be told apart from a missing key.
type wireMatch struct {
	BestMatch    json.RawMessage `json:"best_match"`
	Alternatives []Candidate     `json:"alternatives"`
}
