package types

import (
	"bytes"
	"encoding/json"
)

// Recipe represents a recipe as returned by the backend API
type Recipe struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
	Servings            int          `json:"servings"`
	Diets               []string     `json:"diets"`
	Summary             string       `json:"summary"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
	Nutrition           *Nutrition   `json:"nutrition"`

	// Instructions is resolved from either the instructions or the
	// analyzedInstructions field when the recipe is decoded.
	Instructions Instructions `json:"-"`
}

// Ingredient is a single entry of a recipe's ingredient list
type Ingredient struct {
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Name     string  `json:"name"`
	Original string  `json:"original"`
}

// Nutrition holds per-serving nutrient values
type Nutrition struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// Nutrient is a named nutrient amount
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// SearchResponse is the body of GET /recipes
type SearchResponse struct {
	Results      []Recipe `json:"results"`
	TotalResults int      `json:"totalResults"`
	Error        string   `json:"error,omitempty"`
}

// ErrorResponse is the body of a failed backend call
type ErrorResponse struct {
	Error string `json:"error"`
}

type recipeAlias Recipe

// UnmarshalJSON decodes a recipe and resolves its instructions. A non-empty
// instructions field wins over analyzedInstructions.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var wire struct {
		recipeAlias
		Instructions         json.RawMessage `json:"instructions"`
		AnalyzedInstructions json.RawMessage `json:"analyzedInstructions"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Recipe(wire.recipeAlias)

	var primary, analyzed Instructions
	if err := primary.UnmarshalJSON(wire.Instructions); err != nil {
		return err
	}
	if err := analyzed.UnmarshalJSON(wire.AnalyzedInstructions); err != nil {
		return err
	}

	switch {
	case !primary.IsZero():
		r.Instructions = primary
	case analyzed.Kind != InstructionsNone:
		r.Instructions = analyzed
	default:
		r.Instructions = primary
	}
	return nil
}

// InstructionsKind tags the shape an Instructions value was decoded from
type InstructionsKind int

const (
	InstructionsNone InstructionsKind = iota
	InstructionsPlainText
	InstructionsStepGroups
	InstructionsFlatSteps
)

// Instructions is one of: plain text, groups of analyzed steps, or a flat
// list of step strings
type Instructions struct {
	Kind   InstructionsKind
	Text   string
	Groups []StepGroup
	Steps  []string
}

// StepGroup is a named group of ordered steps
type StepGroup struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Step is a single analyzed instruction step
type Step struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// PlainTextInstructions builds a plain text value
func PlainTextInstructions(text string) Instructions {
	return Instructions{Kind: InstructionsPlainText, Text: text}
}

// StepGroupInstructions builds an analyzed instructions value
func StepGroupInstructions(groups ...StepGroup) Instructions {
	return Instructions{Kind: InstructionsStepGroups, Groups: groups}
}

// FlatStepInstructions builds a flat step list value
func FlatStepInstructions(steps ...string) Instructions {
	return Instructions{Kind: InstructionsFlatSteps, Steps: steps}
}

// IsZero reports whether the value carries nothing a reader would want to see.
// Empty text counts as absent, matching how the instructions field falls back
// to analyzedInstructions.
func (in Instructions) IsZero() bool {
	switch in.Kind {
	case InstructionsPlainText:
		return in.Text == ""
	case InstructionsStepGroups:
		for _, g := range in.Groups {
			if len(g.Steps) > 0 {
				return false
			}
		}
		return true
	case InstructionsFlatSteps:
		return len(in.Steps) == 0
	default:
		return true
	}
}

// UnmarshalJSON decodes any of the accepted shapes. Shapes that match none of
// them decode to InstructionsNone rather than failing the whole recipe.
func (in *Instructions) UnmarshalJSON(data []byte) error {
	*in = Instructions{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = PlainTextInstructions(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if len(items) > 0 && hasStepsField(items[0]) {
			var groups []StepGroup
			if err := json.Unmarshal(data, &groups); err != nil {
				return nil
			}
			*in = StepGroupInstructions(groups...)
			return nil
		}
		var steps []string
		if err := json.Unmarshal(data, &steps); err != nil {
			return nil
		}
		*in = FlatStepInstructions(steps...)
	}
	return nil
}

func hasStepsField(item json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(item, &probe); err != nil {
		return false
	}
	steps, ok := probe["steps"]
	return ok && !bytes.Equal(bytes.TrimSpace(steps), []byte("null"))
}
