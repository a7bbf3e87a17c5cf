package assessment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Answers is the sparse question-key to answer-value map. Values arrive as
// decoded JSON: strings, numbers, arrays of strings, or ISO date strings.
type Answers map[string]interface{}

func (a Answers) Str(key string) string {
	s, _ := a[key].(string)
	return strings.TrimSpace(s)
}

func (a Answers) Strs(key string) []string {
	raw, ok := a[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Scale returns the value as an integer scale answer. ok is false when the
// value is missing, non-numeric, or not integral.
func (a Answers) Scale(key string) (int, bool) {
	switch v := a[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func (a Answers) Date(key string) (time.Time, bool) {
	s := a.Str(key)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Merge overlays incoming answers onto the stored set. Keys the client did
// not send keep their saved values, so advancing with only the current
// step's fields never drops earlier answers.
func (a Answers) Merge(incoming Answers) Answers {
	merged := make(Answers, len(a)+len(incoming))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

// ValidateStep checks the answers against one step's rules. A nil error means
// the step is valid.
func ValidateStep(reg *Registry, answers Answers, step int) error {
	def, ok := reg.Step(step)
	if !ok {
		return fmt.Errorf("unknown step %d", step)
	}

	switch def.Kind {
	case KindOptional:
		return nil

	case KindText:
		if answers.Str(def.Key) == "" {
			return fmt.Errorf("%s is required", def.Key)
		}

	case KindPhonePair:
		phone := answers.Str(def.Key)
		verify := answers.Str(def.Companion)
		if phone == "" {
			return errors.New("phone number is required")
		}
		if phone != verify {
			return errors.New("phone numbers do not match")
		}

	case KindRadio, KindSelect:
		if answers.Str(def.Key) == "" {
			return fmt.Errorf("%s is required", def.Key)
		}

	case KindScale:
		v, ok := answers.Scale(def.Key)
		if !ok || v < 1 || v > 5 {
			return fmt.Errorf("%s must be a whole number between 1 and 5", def.Key)
		}

	case KindCheckbox:
		selected := answers.Strs(def.Key)
		if len(selected) == 0 {
			return fmt.Errorf("select at least one option for %s", def.Key)
		}
		for _, v := range selected {
			if v == "other" && answers.Str(def.Companion) == "" {
				return fmt.Errorf("please specify your %s answer", def.Key)
			}
		}

	case KindDate:
		if _, ok := answers.Date(def.Key); !ok {
			return fmt.Errorf("%s must be a valid date", def.Key)
		}

	case KindCity:
		city := answers.Str(def.Key)
		if city == "" {
			return errors.New("city is required")
		}
		if city == CityOutside && answers.Str(def.Companion) == "" {
			return errors.New("please tell us which city you live in")
		}

	default:
		return fmt.Errorf("unknown step kind %q", def.Kind)
	}
	return nil
}

// Outcome is the result of an Advance transition.
type Outcome struct {
	Step     int
	Terminal string
}

// Advance validates the current step and computes the next wizard state.
// Interrupt branches: an outside-city answer at the city step and an underage
// birthday at the final required step both leave Step unchanged and set a
// terminal state instead of advancing.
func Advance(reg *Registry, answers Answers, step int, now time.Time) (Outcome, error) {
	if err := ValidateStep(reg, answers, step); err != nil {
		return Outcome{Step: step}, err
	}

	if step == StepCity && answers.Str("city") == CityOutside {
		return Outcome{Step: step, Terminal: TerminalOutsideCity}, nil
	}

	if step == StepBirthday {
		if birthday, ok := answers.Date("birthday"); ok {
			if AgeAt(birthday, now) < MinimumAge {
				return Outcome{Step: step, Terminal: TerminalUnderage}, nil
			}
		}
	}

	if step >= reg.Last() {
		return Outcome{Step: step}, nil
	}
	return Outcome{Step: step + 1}, nil
}

// Back steps backwards without validation, flooring at step 1.
func Back(step int) int {
	if step <= 1 {
		return 1
	}
	return step - 1
}

// AgeAt computes whole years between birthday and now.
func AgeAt(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() ||
		(now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

// ResolveCity maps the city-step answers onto the profile city: the outside
// sentinel resolves to the free-text companion, anything else is literal.
func ResolveCity(answers Answers) string {
	city := answers.Str("city")
	if city == CityOutside {
		return answers.Str("specifiedCity")
	}
	return city
}
