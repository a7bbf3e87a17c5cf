package assessment

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind describes how a step's primary field is validated.
type Kind string

const (
	KindText      Kind = "text"       // required free text
	KindPhonePair Kind = "phone_pair" // phone plus matching confirmation field
	KindRadio     Kind = "radio"      // single choice, non-empty
	KindSelect    Kind = "select"     // single choice, non-empty
	KindScale     Kind = "scale"      // integer 1..5
	KindCheckbox  Kind = "checkbox"   // non-empty array; "other" requires companion text
	KindDate      Kind = "date"       // ISO date string
	KindCity      Kind = "city"       // select; "outside" requires companion text
	KindOptional  Kind = "optional"   // always valid
)

// Step defines one wizard step. Companion names the free-text field required
// when Key's value selects "other" (checkbox) or "outside" (city).
type Step struct {
	Number    int    `json:"number"`
	Key       string `json:"key"`
	Kind      Kind   `json:"kind"`
	Companion string `json:"companion,omitempty"`
	Label     string `json:"label,omitempty"`
}

// Registry holds the ordered step definitions. Deployments may override the
// defaults (country-specific question keys) with a JSON file.
type Registry struct {
	steps map[int]Step
	last  int
}

type stepsFile struct {
	Steps []Step `json:"steps"`
}

const (
	// Steps with special transition behavior.
	StepPhone    = 1
	StepCity     = 2
	StepBirthday = 22

	// FinalRequiredStep is the last step whose answer is mandatory; the
	// trailing step is optional.
	FinalRequiredStep = 22
	LastStep          = 23

	// City answer value that branches to the outside-city terminal state.
	CityOutside = "outside"

	MinimumAge = 18
)

// Terminal wizard states. No step progression happens from these.
const (
	TerminalUnderage    = "underage"
	TerminalOutsideCity = "outside_city"
)

func NewRegistry(steps []Step) (*Registry, error) {
	r := &Registry{steps: make(map[int]Step, len(steps))}
	for _, s := range steps {
		if s.Number < 1 {
			return nil, fmt.Errorf("step %q has invalid number %d", s.Key, s.Number)
		}
		if _, dup := r.steps[s.Number]; dup {
			return nil, fmt.Errorf("duplicate step number %d", s.Number)
		}
		r.steps[s.Number] = s
		if s.Number > r.last {
			r.last = s.Number
		}
	}
	return r, nil
}

// LoadFromFile reads step definitions from a JSON override file.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps config: %w", err)
	}

	var file stepsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse steps config: %w", err)
	}

	return NewRegistry(file.Steps)
}

// DefaultRegistry returns the compiled-in questionnaire.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultSteps())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Step(n int) (Step, bool) {
	s, ok := r.steps[n]
	return s, ok
}

func (r *Registry) Last() int {
	return r.last
}

func defaultSteps() []Step {
	return []Step{
		{Number: 1, Key: "phone", Kind: KindPhonePair, Companion: "phoneVerify", Label: "Phone number"},
		{Number: 2, Key: "city", Kind: KindCity, Companion: "specifiedCity", Label: "Your city"},
		{Number: 3, Key: "dinnerVibe", Kind: KindRadio, Label: "Ideal dinner vibe"},
		{Number: 4, Key: "dinnerLanguage", Kind: KindRadio, Label: "Dinner language"},
		{Number: 5, Key: "cuisinePreferences", Kind: KindCheckbox, Companion: "cuisineOther", Label: "Cuisines you enjoy"},
		{Number: 6, Key: "dietaryRestrictions", Kind: KindCheckbox, Companion: "dietaryOther", Label: "Dietary restrictions"},
		{Number: 7, Key: "drinksAlcohol", Kind: KindRadio, Label: "Do you drink alcohol"},
		{Number: 8, Key: "occupationField", Kind: KindSelect, Label: "Field of work"},
		{Number: 9, Key: "introvertScale", Kind: KindScale, Label: "Introvert to extrovert"},
		{Number: 10, Key: "opennessScale", Kind: KindScale, Label: "Openness to new experiences"},
		{Number: 11, Key: "spontaneityScale", Kind: KindScale, Label: "Planner to spontaneous"},
		{Number: 12, Key: "conversationDepthScale", Kind: KindScale, Label: "Small talk to deep talk"},
		{Number: 13, Key: "humorScale", Kind: KindScale, Label: "Serious to playful"},
		{Number: 14, Key: "idealFriday", Kind: KindRadio, Label: "Ideal Friday night"},
		{Number: 15, Key: "favoriteTopics", Kind: KindCheckbox, Companion: "topicsOther", Label: "Favorite conversation topics"},
		{Number: 16, Key: "meetingNewPeople", Kind: KindRadio, Label: "Meeting new people feels"},
		{Number: 17, Key: "punctuality", Kind: KindRadio, Label: "Punctuality"},
		{Number: 18, Key: "funFact", Kind: KindText, Label: "A fun fact about you"},
		{Number: 19, Key: "gender", Kind: KindRadio, Label: "Gender"},
		{Number: 20, Key: "relationshipStatus", Kind: KindRadio, Label: "Relationship status"},
		{Number: 21, Key: "referralSource", Kind: KindSelect, Label: "How did you hear about us"},
		{Number: 22, Key: "birthday", Kind: KindDate, Label: "Your birthday"},
		{Number: 23, Key: "anythingElse", Kind: KindOptional, Label: "Anything else we should know"},
	}
}
