package pairing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ErrContradiction means the constraint set cannot be satisfied at all, as
// opposed to a guest the tables simply have no room for.
var ErrContradiction = errors.New("contradictory constraints")

// Guest, Table, Constraint and Seating are the engine's in-memory view of the
// stored pairing entities. The engine is pure: same input, same plan.
type Guest struct {
	ID             uuid.UUID
	Gender         string
	Category       string
	IntrovertScale int
	OpennessScale  int
}

type Table struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Capacity     int
}

type Constraint struct {
	Type     string
	GuestIDs []uuid.UUID
	Value    int
}

type Seating struct {
	GuestID      uuid.UUID
	TableID      uuid.UUID
	RestaurantID uuid.UUID
	Seat         int
}

type Input struct {
	Guests      []Guest
	Tables      []Table
	Constraints []Constraint

	// Fixed seatings are never moved. The service passes every existing
	// assignment here for an incremental run, and only locked and manual
	// ones for a full rebalance.
	Fixed []Seating
}

type Plan struct {
	Seatings []Seating
	Unplaced []uuid.UUID
}

// Solve seats the unfixed guests. Guests bound by must_with or
// keep_group_together are clustered first and always land on one table;
// clusters go largest-first onto the table that scores best on personality
// compatibility and gender balance. not_with pairs, capacity and
// max_group_size are hard limits. Ties break on UUID order so reruns over
// unchanged input produce the identical plan.
func Solve(in Input) (Plan, error) {
	known := make(map[uuid.UUID]Guest, len(in.Guests))
	for _, g := range in.Guests {
		known[g.ID] = g
	}

	uf := newUnionFind()
	notWith := make(map[[2]uuid.UUID]bool)
	maxGroup := 0
	balanceGender := false

	for _, c := range in.Constraints {
		ids := knownIDs(c.GuestIDs, known)
		switch c.Type {
		case ConstraintMustWith, ConstraintKeepGroupTogether:
			for i := 1; i < len(ids); i++ {
				uf.union(ids[0], ids[i])
			}
		case ConstraintNotWith:
			for i := 0; i < len(ids); i++ {
				for j := i + 1; j < len(ids); j++ {
					notWith[pairKey(ids[i], ids[j])] = true
				}
			}
		case ConstraintMaxGroupSize:
			if c.Value > 0 && (maxGroup == 0 || c.Value < maxGroup) {
				maxGroup = c.Value
			}
		case ConstraintBalanceGender:
			balanceGender = true
		}
	}

	for key := range notWith {
		if uf.find(key[0]) == uf.find(key[1]) {
			return Plan{}, fmt.Errorf("%w: guests %s and %s are both separated and grouped",
				ErrContradiction, key[0], key[1])
		}
	}

	state := newTableState(in.Tables, in.Fixed, known)
	fixed := make(map[uuid.UUID]bool, len(in.Fixed))
	for _, s := range in.Fixed {
		fixed[s.GuestID] = true
	}

	clusters := buildClusters(in.Guests, uf, fixed)

	plan := Plan{}
	for _, cluster := range clusters {
		// A cluster sharing a root with a fixed guest must join that
		// guest's table or stay unplaced.
		required := state.tableOfRoot(uf, cluster)

		best := -1
		bestScore := 0
		for ti, t := range state.tables {
			if required != nil && t.id != *required {
				continue
			}
			if !state.fits(ti, cluster, notWith, maxGroup) {
				continue
			}
			score := state.score(ti, cluster, balanceGender)
			if best == -1 || score > bestScore ||
				(score == bestScore && t.id.String() < state.tables[best].id.String()) {
				best = ti
				bestScore = score
			}
		}

		if best == -1 {
			for _, g := range cluster {
				plan.Unplaced = append(plan.Unplaced, g.ID)
			}
			continue
		}
		plan.Seatings = append(plan.Seatings, state.seat(best, cluster)...)
	}

	sort.Slice(plan.Unplaced, func(i, j int) bool {
		return plan.Unplaced[i].String() < plan.Unplaced[j].String()
	})
	return plan, nil
}

// --- table state during placement ---

type tableSlot struct {
	id           uuid.UUID
	restaurantID uuid.UUID
	capacity     int
	occupants    []Guest
	nextSeat     int
}

type tableState struct {
	tables []tableSlot
	// seatedTable maps an already seated guest to their table index.
	seatedTable map[uuid.UUID]int
}

func newTableState(tables []Table, fixed []Seating, known map[uuid.UUID]Guest) *tableState {
	st := &tableState{seatedTable: make(map[uuid.UUID]int)}
	for _, t := range tables {
		st.tables = append(st.tables, tableSlot{
			id:           t.ID,
			restaurantID: t.RestaurantID,
			capacity:     t.Capacity,
			nextSeat:     1,
		})
	}
	sort.Slice(st.tables, func(i, j int) bool {
		if st.tables[i].capacity != st.tables[j].capacity {
			return st.tables[i].capacity > st.tables[j].capacity
		}
		return st.tables[i].id.String() < st.tables[j].id.String()
	})

	index := make(map[uuid.UUID]int, len(st.tables))
	for i, t := range st.tables {
		index[t.id] = i
	}
	for _, s := range fixed {
		ti, ok := index[s.TableID]
		if !ok {
			continue
		}
		g, ok := known[s.GuestID]
		if !ok {
			continue
		}
		st.tables[ti].occupants = append(st.tables[ti].occupants, g)
		if s.Seat >= st.tables[ti].nextSeat {
			st.tables[ti].nextSeat = s.Seat + 1
		}
		st.seatedTable[s.GuestID] = ti
	}
	return st
}

// tableOfRoot returns the table a cluster is pinned to through a fixed
// clustermate, or nil when the cluster is free to go anywhere.
func (st *tableState) tableOfRoot(uf *unionFind, cluster []Guest) *uuid.UUID {
	root := uf.find(cluster[0].ID)
	var pinned *uuid.UUID
	for seatedID, ti := range st.seatedTable {
		if uf.find(seatedID) != root {
			continue
		}
		id := st.tables[ti].id
		if pinned == nil || id.String() < pinned.String() {
			pinned = &id
		}
	}
	return pinned
}

func (st *tableState) fits(ti int, cluster []Guest, notWith map[[2]uuid.UUID]bool, maxGroup int) bool {
	t := st.tables[ti]
	if len(t.occupants)+len(cluster) > t.capacity {
		return false
	}
	if maxGroup > 0 && len(t.occupants)+len(cluster) > maxGroup {
		return false
	}
	for _, g := range cluster {
		for _, o := range t.occupants {
			if notWith[pairKey(g.ID, o.ID)] {
				return false
			}
		}
	}
	return true
}

func (st *tableState) score(ti int, cluster []Guest, balanceGender bool) int {
	t := st.tables[ti]
	score := 0
	for _, g := range cluster {
		for _, o := range t.occupants {
			score += Compatibility(g, o)
		}
	}
	if balanceGender {
		males, females := 0, 0
		for _, g := range append(append([]Guest{}, t.occupants...), cluster...) {
			switch g.Gender {
			case "male":
				males++
			case "female":
				females++
			}
		}
		if imbalance := abs(males - females); imbalance > 1 {
			score -= 5 * (imbalance - 1)
		}
	}
	return score
}

func (st *tableState) seat(ti int, cluster []Guest) []Seating {
	t := &st.tables[ti]
	seatings := make([]Seating, 0, len(cluster))
	for _, g := range cluster {
		seatings = append(seatings, Seating{
			GuestID:      g.ID,
			TableID:      t.id,
			RestaurantID: t.restaurantID,
			Seat:         t.nextSeat,
		})
		t.nextSeat++
		t.occupants = append(t.occupants, g)
		st.seatedTable[g.ID] = ti
	}
	return seatings
}

// buildClusters groups the unfixed guests by union-find root, largest cluster
// first, guests inside a cluster and equal-sized clusters ordered by UUID.
func buildClusters(guests []Guest, uf *unionFind, fixed map[uuid.UUID]bool) [][]Guest {
	byRoot := make(map[uuid.UUID][]Guest)
	for _, g := range guests {
		if fixed[g.ID] {
			continue
		}
		root := uf.find(g.ID)
		byRoot[root] = append(byRoot[root], g)
	}

	clusters := make([][]Guest, 0, len(byRoot))
	for _, cluster := range byRoot {
		sort.Slice(cluster, func(i, j int) bool {
			return cluster[i].ID.String() < cluster[j].ID.String()
		})
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0].ID.String() < clusters[j][0].ID.String()
	})
	return clusters
}

// --- helpers ---

type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[uuid.UUID]uuid.UUID)}
}

func (u *unionFind) find(id uuid.UUID) uuid.UUID {
	p, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if p == id {
		return id
	}
	root := u.find(p)
	u.parent[id] = root
	return root
}

func (u *unionFind) union(a, b uuid.UUID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Smaller UUID becomes the root to keep roots input-order independent.
	if rb.String() < ra.String() {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}

func pairKey(a, b uuid.UUID) [2]uuid.UUID {
	if b.String() < a.String() {
		a, b = b, a
	}
	return [2]uuid.UUID{a, b}
}

func knownIDs(ids []uuid.UUID, known map[uuid.UUID]Guest) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
