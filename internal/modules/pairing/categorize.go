package pairing

// Categorize maps the two personality scale answers onto a category. Both
// scales run 1..5; an introvert score of 2 or less reads as outgoing, an
// openness score of 4 or more as open to new experiences.
func Categorize(introvertScale, opennessScale int) string {
	outgoing := introvertScale <= 2
	open := opennessScale >= 4
	switch {
	case outgoing && open:
		return CategoryConnector
	case !outgoing && open:
		return CategoryExplorer
	case outgoing && !open:
		return CategoryAnchor
	default:
		return CategoryObserver
	}
}

// categoryAffinity scores how well two categories sit at the same table.
// Complementary pairs score highest; two connectors talk over each other and
// two observers leave silences. Keys are stored in lexical order because the
// lookup sorts the pair before indexing.
var categoryAffinity = map[[2]string]int{
	{CategoryAnchor, CategoryAnchor}:       2,
	{CategoryAnchor, CategoryConnector}:    2,
	{CategoryAnchor, CategoryExplorer}:     2,
	{CategoryAnchor, CategoryObserver}:     3,
	{CategoryConnector, CategoryConnector}: 1,
	{CategoryConnector, CategoryExplorer}:  3,
	{CategoryConnector, CategoryObserver}:  3,
	{CategoryExplorer, CategoryExplorer}:   2,
	{CategoryExplorer, CategoryObserver}:   2,
	{CategoryObserver, CategoryObserver}:   1,
}

// Compatibility scores one guest pair. The category affinity dominates, with
// a small bonus for similar scale answers so near-identical profiles edge out
// distant ones within the same category pairing.
func Compatibility(a, b Guest) int {
	key := [2]string{a.Category, b.Category}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	score := categoryAffinity[key] * 10

	closeness := 8 - 2*(abs(a.IntrovertScale-b.IntrovertScale)+abs(a.OpennessScale-b.OpennessScale))
	if closeness > 0 {
		score += closeness
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
