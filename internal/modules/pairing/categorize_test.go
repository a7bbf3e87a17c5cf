package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name      string
		introvert int
		openness  int
		want      string
	}{
		{"outgoing and open", 1, 5, CategoryConnector},
		{"outgoing threshold", 2, 4, CategoryConnector},
		{"reserved and open", 4, 5, CategoryExplorer},
		{"middle introvert open", 3, 4, CategoryExplorer},
		{"outgoing not open", 1, 2, CategoryAnchor},
		{"outgoing middle openness", 2, 3, CategoryAnchor},
		{"reserved and reserved", 5, 1, CategoryObserver},
		{"middle of the road", 3, 3, CategoryObserver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.introvert, tt.openness))
		})
	}
}

func TestCategoryAffinityCoversEveryPair(t *testing.T) {
	categories := []string{CategoryConnector, CategoryExplorer, CategoryAnchor, CategoryObserver}

	for _, a := range categories {
		for _, b := range categories {
			key := [2]string{a, b}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			assert.Greaterf(t, categoryAffinity[key], 0, "affinity missing for %s with %s", a, b)
		}
	}
}

func TestCompatibilityAnchorPairsScoreAffinity(t *testing.T) {
	anchor := Guest{Category: CategoryAnchor, IntrovertScale: 2, OpennessScale: 2}
	connector := Guest{Category: CategoryConnector, IntrovertScale: 1, OpennessScale: 5}
	explorer := Guest{Category: CategoryExplorer, IntrovertScale: 4, OpennessScale: 5}
	observers := Compatibility(
		Guest{Category: CategoryObserver, IntrovertScale: 4, OpennessScale: 2},
		Guest{Category: CategoryObserver, IntrovertScale: 4, OpennessScale: 2},
	)

	// Anchor pairings carry affinity 2 and must beat the declared-worst
	// observer-observer pairing even when that one gets the full scale
	// closeness bonus.
	assert.Greater(t, Compatibility(anchor, connector), observers)
	assert.GreaterOrEqual(t, Compatibility(anchor, connector), 20)
	assert.GreaterOrEqual(t, Compatibility(anchor, explorer), 20)
}

func TestCompatibilitySymmetric(t *testing.T) {
	a := Guest{Category: CategoryConnector, IntrovertScale: 1, OpennessScale: 5}
	b := Guest{Category: CategoryObserver, IntrovertScale: 4, OpennessScale: 2}

	assert.Equal(t, Compatibility(a, b), Compatibility(b, a))
}

func TestCompatibilityPrefersComplementaryPairs(t *testing.T) {
	connector := Guest{Category: CategoryConnector, IntrovertScale: 1, OpennessScale: 5}
	observer := Guest{Category: CategoryObserver, IntrovertScale: 4, OpennessScale: 2}
	secondConnector := Guest{Category: CategoryConnector, IntrovertScale: 1, OpennessScale: 5}

	complementary := Compatibility(connector, observer)
	clashing := Compatibility(connector, secondConnector)
	assert.Greater(t, complementary, clashing)
}
