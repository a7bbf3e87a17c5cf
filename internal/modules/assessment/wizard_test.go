package assessment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func completeAnswers() Answers {
	a := Answers{
		"phone":                  "912345678",
		"phoneVerify":            "912345678",
		"city":                   "Lisbon",
		"dinnerVibe":             "balanced",
		"dinnerLanguage":         "en",
		"cuisinePreferences":     []interface{}{"italian", "japanese"},
		"dietaryRestrictions":    []interface{}{"none"},
		"drinksAlcohol":          "sometimes",
		"occupationField":        "engineering",
		"idealFriday":            "dinner_with_friends",
		"favoriteTopics":         []interface{}{"travel", "food"},
		"meetingNewPeople":       "energizing",
		"punctuality":            "always_on_time",
		"funFact":                "I once cycled across Portugal",
		"gender":                 "female",
		"relationshipStatus":     "single",
		"referralSource":         "instagram",
		"birthday":               "1994-05-12",
		"introvertScale":         float64(3),
		"opennessScale":          float64(4),
		"spontaneityScale":       float64(2),
		"conversationDepthScale": float64(5),
		"humorScale":             float64(3),
	}
	return a
}

func TestValidateStepAllStepsCompleteAnswers(t *testing.T) {
	reg := DefaultRegistry()
	answers := completeAnswers()

	for step := 1; step <= LastStep; step++ {
		assert.NoError(t, ValidateStep(reg, answers, step), "step %d", step)
	}
}

func TestValidateStepRejectsMissingRequiredFields(t *testing.T) {
	reg := DefaultRegistry()

	for step := 1; step <= FinalRequiredStep; step++ {
		err := ValidateStep(reg, Answers{}, step)
		assert.Error(t, err, "step %d should reject empty answers", step)
	}

	// Trailing step is optional.
	assert.NoError(t, ValidateStep(reg, Answers{}, LastStep))
}

func TestValidateStepPhoneConfirmation(t *testing.T) {
	reg := DefaultRegistry()

	err := ValidateStep(reg, Answers{"phone": "912345678", "phoneVerify": "912345679"}, StepPhone)
	require.Error(t, err)

	err = ValidateStep(reg, Answers{"phone": "912345678", "phoneVerify": "912345678"}, StepPhone)
	require.NoError(t, err)
}

func TestValidateStepScaleBounds(t *testing.T) {
	reg := DefaultRegistry()
	const introvertStep = 9

	cases := []struct {
		value interface{}
		ok    bool
	}{
		{float64(1), true},
		{float64(5), true},
		{float64(3), true},
		{float64(0), false},
		{float64(6), false},
		{float64(2.5), false},
		{"3", false},
		{nil, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc.value), func(t *testing.T) {
			err := ValidateStep(reg, Answers{"introvertScale": tc.value}, introvertStep)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateStepCheckboxOtherRequiresCompanion(t *testing.T) {
	reg := DefaultRegistry()
	const cuisineStep = 5

	err := ValidateStep(reg, Answers{"cuisinePreferences": []interface{}{"other"}}, cuisineStep)
	require.Error(t, err)

	err = ValidateStep(reg, Answers{
		"cuisinePreferences": []interface{}{"other"},
		"cuisineOther":       "georgian",
	}, cuisineStep)
	require.NoError(t, err)
}

func TestAdvanceHappyPath(t *testing.T) {
	reg := DefaultRegistry()
	answers := completeAnswers()

	out, err := Advance(reg, answers, 3, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Step)
	assert.Empty(t, out.Terminal)
}

func TestAdvanceValidationFailureStays(t *testing.T) {
	reg := DefaultRegistry()

	out, err := Advance(reg, Answers{}, 3, testNow)
	require.Error(t, err)
	assert.Equal(t, 3, out.Step)
}

func TestAdvanceOutsideCityBranch(t *testing.T) {
	reg := DefaultRegistry()
	answers := Answers{"city": "outside", "specifiedCity": "Nairobi"}

	out, err := Advance(reg, answers, StepCity, testNow)
	require.NoError(t, err)
	assert.Equal(t, StepCity, out.Step, "step must not advance")
	assert.Equal(t, TerminalOutsideCity, out.Terminal)
}

func TestAdvanceUnderageBranch(t *testing.T) {
	reg := DefaultRegistry()
	answers := completeAnswers()
	// 17 years old relative to testNow.
	answers["birthday"] = testNow.AddDate(-17, 0, 0).Format("2006-01-02")

	out, err := Advance(reg, answers, StepBirthday, testNow)
	require.NoError(t, err)
	assert.Equal(t, StepBirthday, out.Step, "step must not advance")
	assert.Equal(t, TerminalUnderage, out.Terminal)
}

func TestAdvanceExactlyEighteenPasses(t *testing.T) {
	reg := DefaultRegistry()
	answers := completeAnswers()
	answers["birthday"] = testNow.AddDate(-18, 0, 0).Format("2006-01-02")

	out, err := Advance(reg, answers, StepBirthday, testNow)
	require.NoError(t, err)
	assert.Empty(t, out.Terminal)
	assert.Equal(t, StepBirthday+1, out.Step)
}

func TestMergeKeepsUnsentAnswers(t *testing.T) {
	stored := Answers{
		"phone":       "912345678",
		"phoneVerify": "912345678",
		"city":        "Lisbon",
	}

	merged := stored.Merge(Answers{"dinnerVibe": "balanced", "city": "Porto"})

	assert.Equal(t, "912345678", merged.Str("phone"))
	assert.Equal(t, "912345678", merged.Str("phoneVerify"))
	assert.Equal(t, "Porto", merged.Str("city"))
	assert.Equal(t, "balanced", merged.Str("dinnerVibe"))
	// the stored set is untouched
	assert.Equal(t, "Lisbon", stored.Str("city"))
	assert.Empty(t, stored.Str("dinnerVibe"))
}

func TestBackFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, Back(1))
	assert.Equal(t, 1, Back(2))
	assert.Equal(t, 9, Back(10))
}

func TestAgeAt(t *testing.T) {
	birthday := time.Date(2000, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, AgeAt(birthday, testNow), "birthday later this year")

	birthday = time.Date(2000, time.May, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 26, AgeAt(birthday, testNow), "birthday already passed")

	birthday = time.Date(2000, time.August, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 26, AgeAt(birthday, testNow), "birthday today")
}

func TestResolveCity(t *testing.T) {
	assert.Equal(t, "Lisbon", ResolveCity(Answers{"city": "Lisbon"}))
	assert.Equal(t, "Nairobi", ResolveCity(Answers{"city": "outside", "specifiedCity": "Nairobi"}))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Step{
		{Number: 1, Key: "a", Kind: KindText},
		{Number: 1, Key: "b", Kind: KindText},
	})
	require.Error(t, err)
}
