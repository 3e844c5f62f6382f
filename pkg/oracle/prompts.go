package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"lexi-drafting-be/pkg/store"
)

const extractionSystemPrompt = `You turn legal documents into reusable templates by finding the variable fields in them.

Rules:
1. Variable keys are snake_case identifiers, e.g. claimant_full_name, incident_date.
2. If a field means the same thing as a previously discovered variable, reuse that key.
3. Give each variable a professional label, a one-sentence description and a realistic example copied from the text when possible.
4. required is true when the document is not legally usable without the field.
5. dtype is one of: string, number, date, enum. Give enum_values for enum.
6. Add a validation regex for structured values such as dates, emails, phone or policy numbers.
7. similarity_tags describe jurisdiction, document type and subject matter.

Look for party names, dates, amounts, reference numbers, addresses, contact details, statutory references and forums.

Respond with JSON only:
{"variables":[{"key":"","label":"","description":"","example":"","required":true,"dtype":"string","regex":null,"enum_values":null}],"similarity_tags":[]}`

const matchSystemPrompt = `You match a drafting request to the best legal template from a catalogue.

Weigh document type, jurisdiction, subject matter and purpose.
Confidence: 0.9-1.0 exact, 0.7-0.9 strong, 0.5-0.7 related, below 0.5 poor.
If no template reaches 0.6, set best_match to null.

Respond with JSON only:
{"best_match":{"template_id":"tpl_x","confidence":0.85,"justification":""},"alternatives":[{"template_id":"tpl_y","confidence":0.7,"justification":""}]}`

const questionsSystemPrompt = `You help collect the facts needed to draft a legal document.

Rewrite each variable definition as one clear, friendly question a non-lawyer can answer.
Say why the value matters when it is not obvious, and put format guidance such as "YYYY-MM-DD" in hint.
Never show variable keys or technical jargon in the question text.

Respond with a JSON array only, one entry per variable in the given order:
[{"variable_key":"","question":"","hint":""}]`

const prefillSystemPrompt = `You pre-fill template variables from a user's drafting request.

Only use information stated explicitly in the request. Never guess or invent placeholder values.
Dates use YYYY-MM-DD. Omit variables the request does not mention.

Respond with a JSON object mapping variable_key to value, or {} if nothing applies.`

type promptVariable struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Example     string   `json:"example,omitempty"`
	Dtype       string   `json:"dtype,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`
}

func promptVariables(vars []store.Variable) string {
	out := make([]promptVariable, len(vars))
	for i, v := range vars {
		out[i] = promptVariable{
			Key:         v.Key,
			Label:       v.Label,
			Description: v.Description,
			Example:     v.Example,
			Dtype:       string(v.Dtype),
			EnumValues:  v.EnumValues,
		}
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return string(b)
}

func extractionPrompt(text string, known []store.Variable) string {
	var b strings.Builder
	b.WriteString("Extract variables from this legal document text:\n\n")
	b.WriteString(text)
	if len(known) > 0 {
		b.WriteString("\n\nPreviously discovered variables (reuse these keys for the same fields):\n")
		b.WriteString(promptVariables(known))
	}
	b.WriteString("\n\nReturn only valid JSON.")
	return b.String()
}

func matchPrompt(query string, templates []store.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %q\n\nAvailable templates:\n", query)
	for i, t := range templates {
		fmt.Fprintf(&b, "\nTemplate %d:\n- ID: %s\n- Title: %s\n- Description: %s\n- Document Type: %s\n- Jurisdiction: %s\n- Tags: %s\n",
			i+1, t.ID, t.Title, orNA(t.Description), orNA(t.DocType), orNA(t.Jurisdiction), strings.Join(t.Tags, ", "))
	}
	b.WriteString("\nReturn the best matching template and up to two alternatives.")
	return b.String()
}

func questionsPrompt(vars []store.Variable, context string) string {
	var b strings.Builder
	if context != "" {
		fmt.Fprintf(&b, "Template context: %s\n\n", context)
	}
	b.WriteString("Generate questions for these variables:\n\n")
	b.WriteString(promptVariables(vars))
	return b.String()
}

func prefillPrompt(query string, vars []store.Variable) string {
	return fmt.Sprintf("User request: %q\n\nVariables to fill:\n%s\n\nExtract only values the request states.", query, promptVariables(vars))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
