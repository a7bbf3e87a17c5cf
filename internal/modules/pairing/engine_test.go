package pairing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gA = uuid.MustParse("11111111-0000-0000-0000-000000000001")
	gB = uuid.MustParse("11111111-0000-0000-0000-000000000002")
	gC = uuid.MustParse("11111111-0000-0000-0000-000000000003")
	gD = uuid.MustParse("11111111-0000-0000-0000-000000000004")
	gE = uuid.MustParse("11111111-0000-0000-0000-000000000005")

	r1 = uuid.MustParse("22222222-0000-0000-0000-000000000001")
	t1 = uuid.MustParse("33333333-0000-0000-0000-000000000001")
	t2 = uuid.MustParse("33333333-0000-0000-0000-000000000002")
)

func anchor(id uuid.UUID, gender string) Guest {
	return Guest{ID: id, Gender: gender, Category: CategoryAnchor, IntrovertScale: 2, OpennessScale: 2}
}

func tablesOf(plan Plan) map[uuid.UUID]uuid.UUID {
	out := make(map[uuid.UUID]uuid.UUID)
	for _, s := range plan.Seatings {
		out[s.GuestID] = s.TableID
	}
	return out
}

func TestSolveMustWithSharesTable(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gA, "male"), anchor(gB, "female"), anchor(gC, "male"), anchor(gD, "female")},
		Tables: []Table{
			{ID: t1, RestaurantID: r1, Capacity: 2},
			{ID: t2, RestaurantID: r1, Capacity: 2},
		},
		Constraints: []Constraint{
			{Type: ConstraintMustWith, GuestIDs: []uuid.UUID{gA, gB}},
		},
	}

	plan, err := Solve(in)
	require.NoError(t, err)
	require.Empty(t, plan.Unplaced)
	require.Len(t, plan.Seatings, 4)

	seats := tablesOf(plan)
	assert.Equal(t, seats[gA], seats[gB])
	assert.Equal(t, seats[gC], seats[gD])
	assert.NotEqual(t, seats[gA], seats[gC])
}

func TestSolveNotWithSeparates(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gA, "male"), anchor(gB, "male")},
		Tables: []Table{
			{ID: t1, RestaurantID: r1, Capacity: 2},
			{ID: t2, RestaurantID: r1, Capacity: 2},
		},
		Constraints: []Constraint{
			{Type: ConstraintNotWith, GuestIDs: []uuid.UUID{gA, gB}},
		},
	}

	plan, err := Solve(in)
	require.NoError(t, err)
	require.Empty(t, plan.Unplaced)

	seats := tablesOf(plan)
	assert.NotEqual(t, seats[gA], seats[gB])
}

func TestSolveContradiction(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gA, "male"), anchor(gB, "male")},
		Tables: []Table{{ID: t1, RestaurantID: r1, Capacity: 4}},
		Constraints: []Constraint{
			{Type: ConstraintMustWith, GuestIDs: []uuid.UUID{gA, gB}},
			{Type: ConstraintNotWith, GuestIDs: []uuid.UUID{gA, gB}},
		},
	}

	_, err := Solve(in)
	require.ErrorIs(t, err, ErrContradiction)
}

func TestSolveCapacityOverflow(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gA, "male"), anchor(gB, "male"), anchor(gC, "male")},
		Tables: []Table{{ID: t1, RestaurantID: r1, Capacity: 2}},
	}

	plan, err := Solve(in)
	require.NoError(t, err)
	assert.Len(t, plan.Seatings, 2)
	assert.Len(t, plan.Unplaced, 1)
}

func TestSolveMaxGroupSize(t *testing.T) {
	in := Input{
		Guests: []Guest{
			anchor(gA, "male"), anchor(gB, "male"), anchor(gC, "male"),
			anchor(gD, "male"), anchor(gE, "male"),
		},
		Tables: []Table{{ID: t1, RestaurantID: r1, Capacity: 8}},
		Constraints: []Constraint{
			{Type: ConstraintMaxGroupSize, Value: 4},
		},
	}

	plan, err := Solve(in)
	require.NoError(t, err)
	assert.Len(t, plan.Seatings, 4)
	assert.Len(t, plan.Unplaced, 1)
}

func TestSolveClusterFollowsFixedMate(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gA, "male"), anchor(gB, "female")},
		Tables: []Table{
			{ID: t1, RestaurantID: r1, Capacity: 4},
			{ID: t2, RestaurantID: r1, Capacity: 4},
		},
		Constraints: []Constraint{
			{Type: ConstraintKeepGroupTogether, GuestIDs: []uuid.UUID{gA, gB}},
		},
		Fixed: []Seating{
			{GuestID: gA, TableID: t2, RestaurantID: r1, Seat: 1},
		},
	}

	plan, err := Solve(in)
	require.NoError(t, err)
	require.Len(t, plan.Seatings, 1)
	assert.Equal(t, gB, plan.Seatings[0].GuestID)
	assert.Equal(t, t2, plan.Seatings[0].TableID)
	assert.Equal(t, 2, plan.Seatings[0].Seat)
}

func TestSolveGenderBalance(t *testing.T) {
	in := Input{
		Guests: []Guest{anchor(gC, "male")},
		Tables: []Table{
			{ID: t1, RestaurantID: r1, Capacity: 3},
			{ID: t2, RestaurantID: r1, Capacity: 3},
		},
		Constraints: []Constraint{
			{Type: ConstraintBalanceGender},
		},
		Fixed: []Seating{
			{GuestID: gA, TableID: t1, RestaurantID: r1, Seat: 1},
			{GuestID: gB, TableID: t2, RestaurantID: r1, Seat: 1},
		},
	}
	// gA is a seated man, gB a seated woman; the new man should join her.
	in.Guests = append(in.Guests, anchor(gA, "male"), anchor(gB, "female"))

	plan, err := Solve(in)
	require.NoError(t, err)
	require.Len(t, plan.Seatings, 1)
	assert.Equal(t, t2, plan.Seatings[0].TableID)
}

func TestSolveDeterministic(t *testing.T) {
	in := Input{
		Guests: []Guest{
			anchor(gA, "male"), anchor(gB, "female"), anchor(gC, "male"),
			anchor(gD, "female"), anchor(gE, "male"),
		},
		Tables: []Table{
			{ID: t1, RestaurantID: r1, Capacity: 3},
			{ID: t2, RestaurantID: r1, Capacity: 3},
		},
		Constraints: []Constraint{
			{Type: ConstraintMustWith, GuestIDs: []uuid.UUID{gC, gE}},
			{Type: ConstraintBalanceGender},
		},
	}

	first, err := Solve(in)
	require.NoError(t, err)
	second, err := Solve(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
