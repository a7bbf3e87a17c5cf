package pairing

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/modules/assessment"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// AnswerSource supplies a user's submitted assessment answers. The assessment
// service implements it.
type AnswerSource interface {
	AnswersFor(userID uuid.UUID) (assessment.Answers, error)
}

type Service struct {
	db      *gorm.DB
	answers AnswerSource
}

func NewService(db *gorm.DB, answers AnswerSource) *Service {
	return &Service{db: db, answers: answers}
}

// --- guests ---

func (s *Service) ListGuests(eventID uuid.UUID) ([]PairingGuest, error) {
	var guests []PairingGuest
	err := s.db.Where("event_id = ?", eventID).Order("name ASC").Find(&guests).Error
	return guests, err
}

func (s *Service) AddGuest(eventID uuid.UUID, req UpsertGuestRequest) (*PairingGuest, error) {
	guest := PairingGuest{
		ID:             uuid.New(),
		EventID:        eventID,
		Name:           strings.TrimSpace(req.Name),
		Gender:         req.Gender,
		IntrovertScale: req.IntrovertScale,
		OpennessScale:  req.OpennessScale,
		DietaryNotes:   req.DietaryNotes,
	}
	if guest.IntrovertScale > 0 && guest.OpennessScale > 0 {
		guest.Category = Categorize(guest.IntrovertScale, guest.OpennessScale)
	}
	if err := s.db.Create(&guest).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return &guest, nil
}

func (s *Service) UpdateGuest(eventID, guestID uuid.UUID, req UpsertGuestRequest) (*PairingGuest, error) {
	var guest PairingGuest
	if err := s.db.First(&guest, "id = ? AND event_id = ?", guestID, eventID).Error; err != nil {
		return nil, ErrNotFound
	}
	guest.Name = strings.TrimSpace(req.Name)
	guest.Gender = req.Gender
	guest.IntrovertScale = req.IntrovertScale
	guest.OpennessScale = req.OpennessScale
	guest.DietaryNotes = req.DietaryNotes
	if guest.IntrovertScale > 0 && guest.OpennessScale > 0 {
		guest.Category = Categorize(guest.IntrovertScale, guest.OpennessScale)
	}
	if err := s.db.Save(&guest).Error; err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	return &guest, nil
}

func (s *Service) DeleteGuest(eventID, guestID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", guestID).Delete(&PairingAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND event_id = ?", guestID, eventID).Delete(&PairingGuest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// attendeeRow joins an active booking to its user's profile.
type attendeeRow struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
}

// ImportGuests creates a pairing guest for every active booking that does not
// have one yet, pulling personality answers from the booker's assessment.
// Friends of a booker are unknown to the system and stay manual additions.
func (s *Service) ImportGuests(eventID uuid.UUID) (int, error) {

	var rows []attendeeRow
	err := s.db.Table("bookings").
		Select("bookings.user_id, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = bookings.user_id").
		Where("bookings.event_id = ? AND bookings.status IN ?",
			eventID, []string{"pending", "confirmed"}).
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load attendees: %w", err)
	}

	created := 0
	for _, row := range rows {
		var existing int64
		if err := s.db.Model(&PairingGuest{}).
			Where("event_id = ? AND user_id = ?", eventID, row.UserID).
			Count(&existing).Error; err != nil {
			return created, err
		}
		if existing > 0 {
			continue
		}

		userID := row.UserID
		guest := PairingGuest{
			ID:      uuid.New(),
			EventID: eventID,
			UserID:  &userID,
			Name:    strings.TrimSpace(row.FirstName + " " + row.LastName),
		}
		s.fillFromAnswers(&guest)
		if err := s.db.Create(&guest).Error; err != nil {
			return created, fmt.Errorf("failed to import guest: %w", err)
		}
		created++
	}
	return created, nil
}

// CategorizeAll recomputes every guest's category, refreshing scales from
// assessment answers where the guest is a known user. Returns how many guests
// ended up categorized.
func (s *Service) CategorizeAll(eventID uuid.UUID) (int, error) {
	guests, err := s.ListGuests(eventID)
	if err != nil {
		return 0, err
	}

	categorized := 0
	for i := range guests {
		g := &guests[i]
		if g.UserID != nil {
			s.fillFromAnswers(g)
		} else if g.IntrovertScale > 0 && g.OpennessScale > 0 {
			g.Category = Categorize(g.IntrovertScale, g.OpennessScale)
		}
		if g.Category == "" {
			continue
		}
		if err := s.db.Model(g).Updates(map[string]interface{}{
			"category":        g.Category,
			"introvert_scale": g.IntrovertScale,
			"openness_scale":  g.OpennessScale,
			"gender":          g.Gender,
			"dietary_notes":   g.DietaryNotes,
		}).Error; err != nil {
			return categorized, err
		}
		categorized++
	}
	return categorized, nil
}

func (s *Service) fillFromAnswers(g *PairingGuest) {
	if g.UserID == nil || s.answers == nil {
		return
	}
	answers, err := s.answers.AnswersFor(*g.UserID)
	if err != nil {
		return
	}
	if v, ok := answers.Scale("introvertScale"); ok {
		g.IntrovertScale = v
	}
	if v, ok := answers.Scale("opennessScale"); ok {
		g.OpennessScale = v
	}
	if v := answers.Str("gender"); v != "" {
		g.Gender = v
	}
	if diet := answers.Strs("dietaryRestrictions"); len(diet) > 0 {
		g.DietaryNotes = strings.Join(diet, ", ")
	}
	if g.IntrovertScale > 0 && g.OpennessScale > 0 {
		g.Category = Categorize(g.IntrovertScale, g.OpennessScale)
	}
}

// --- restaurants and tables ---

func (s *Service) ListRestaurants(eventID uuid.UUID) ([]PairingRestaurant, error) {
	var restaurants []PairingRestaurant
	err := s.db.Where("event_id = ?", eventID).Order("name ASC").Find(&restaurants).Error
	return restaurants, err
}

func (s *Service) AddRestaurant(eventID uuid.UUID, req UpsertRestaurantRequest) (*PairingRestaurant, error) {
	r := PairingRestaurant{
		ID:      uuid.New(),
		EventID: eventID,
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}
	return &r, nil
}

func (s *Service) DeleteRestaurant(eventID, restaurantID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tableIDs []uuid.UUID
		if err := tx.Model(&PairingTable{}).
			Where("restaurant_id = ?", restaurantID).
			Pluck("id", &tableIDs).Error; err != nil {
			return err
		}
		if len(tableIDs) > 0 {
			if err := tx.Where("table_id IN ?", tableIDs).Delete(&PairingAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&PairingTable{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND event_id = ?", restaurantID, eventID).Delete(&PairingRestaurant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) ListTables(eventID uuid.UUID) ([]PairingTable, error) {
	var tables []PairingTable
	err := s.db.Where("event_id = ?", eventID).Order("label ASC").Find(&tables).Error
	return tables, err
}

func (s *Service) AddTable(eventID uuid.UUID, req UpsertTableRequest) (*PairingTable, error) {
	if req.Capacity < 2 {
		return nil, fmt.Errorf("table capacity must be at least 2")
	}
	var restaurant PairingRestaurant
	if err := s.db.First(&restaurant, "id = ? AND event_id = ?", req.RestaurantID, eventID).Error; err != nil {
		return nil, ErrNotFound
	}
	t := PairingTable{
		ID:           uuid.New(),
		EventID:      eventID,
		RestaurantID: req.RestaurantID,
		Label:        req.Label,
		Capacity:     req.Capacity,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &t, nil
}

func (s *Service) DeleteTable(eventID, tableID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", tableID).Delete(&PairingAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND event_id = ?", tableID, eventID).Delete(&PairingTable{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- constraints ---

func (s *Service) ListConstraints(eventID uuid.UUID) ([]PairingConstraint, error) {
	var constraints []PairingConstraint
	err := s.db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&constraints).Error
	return constraints, err
}

func (s *Service) AddConstraint(eventID uuid.UUID, req CreateConstraintRequest) (*PairingConstraint, error) {
	switch req.Type {
	case ConstraintNotWith, ConstraintMustWith, ConstraintKeepGroupTogether:
		if len(req.GuestIDs) < 2 {
			return nil, fmt.Errorf("%s constraints need at least two guests", req.Type)
		}
	case ConstraintMaxGroupSize:
		if req.Value < 2 {
			return nil, fmt.Errorf("max_group_size needs a value of at least 2")
		}
	case ConstraintBalanceGender:
		// applies event-wide, no guests needed
	default:
		return nil, fmt.Errorf("unknown constraint type %q", req.Type)
	}

	ids, err := json.Marshal(req.GuestIDs)
	if err != nil {
		return nil, err
	}
	c := PairingConstraint{
		ID:       uuid.New(),
		EventID:  eventID,
		Type:     req.Type,
		GuestIDs: ids,
		Value:    req.Value,
		Note:     req.Note,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create constraint: %w", err)
	}
	return &c, nil
}

func (s *Service) DeleteConstraint(eventID, constraintID uuid.UUID) error {
	res := s.db.Where("id = ? AND event_id = ?", constraintID, eventID).Delete(&PairingConstraint{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- assignments and the solver ---

func (s *Service) ListAssignments(eventID uuid.UUID) ([]PairingAssignment, error) {
	var assignments []PairingAssignment
	err := s.db.Where("event_id = ?", eventID).
		Order("table_id ASC, seat ASC").Find(&assignments).Error
	return assignments, err
}

// ManualAssign seats one guest by hand, replacing any previous assignment.
func (s *Service) ManualAssign(eventID uuid.UUID, req ManualAssignRequest) (*PairingAssignment, error) {
	var table PairingTable
	if err := s.db.First(&table, "id = ? AND event_id = ?", req.TableID, eventID).Error; err != nil {
		return nil, ErrNotFound
	}
	var guest PairingGuest
	if err := s.db.First(&guest, "id = ? AND event_id = ?", req.GuestID, eventID).Error; err != nil {
		return nil, ErrNotFound
	}

	var assignment PairingAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", req.GuestID).Delete(&PairingAssignment{}).Error; err != nil {
			return err
		}
		assignment = PairingAssignment{
			ID:           uuid.New(),
			EventID:      eventID,
			GuestID:      req.GuestID,
			RestaurantID: table.RestaurantID,
			TableID:      req.TableID,
			Seat:         req.Seat,
			Manual:       true,
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign guest: %w", err)
	}
	return &assignment, nil
}

func (s *Service) Unassign(eventID, guestID uuid.UUID) error {
	res := s.db.Where("event_id = ? AND guest_id = ? AND locked = false", eventID, guestID).
		Delete(&PairingAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Generate runs the solver. An incremental run keeps locked and manual
// seatings and only places guests without one; a full run throws away
// everything but manual seatings first.
func (s *Service) Generate(eventID uuid.UUID, incremental bool) (*GenerateResponse, error) {

	input, err := s.loadInput(eventID, incremental)
	if err != nil {
		return nil, err
	}

	plan, err := Solve(*input)
	if err != nil {
		return nil, err
	}

	var out GenerateResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		del := tx.Where("event_id = ? AND locked = false AND manual = false", eventID)
		if incremental {
			del = del.Where("guest_id NOT IN (?)", seatedGuestIDs(input.Fixed))
		}
		if err := del.Delete(&PairingAssignment{}).Error; err != nil {
			return err
		}

		for _, seating := range plan.Seatings {
			a := PairingAssignment{
				ID:           uuid.New(),
				EventID:      eventID,
				GuestID:      seating.GuestID,
				RestaurantID: seating.RestaurantID,
				TableID:      seating.TableID,
				Seat:         seating.Seat,
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
			out.Assignments = append(out.Assignments, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store assignments: %w", err)
	}
	out.Unplaced = plan.Unplaced
	return &out, nil
}

func (s *Service) loadInput(eventID uuid.UUID, incremental bool) (*Input, error) {
	guests, err := s.ListGuests(eventID)
	if err != nil {
		return nil, err
	}
	tables, err := s.ListTables(eventID)
	if err != nil {
		return nil, err
	}
	constraints, err := s.ListConstraints(eventID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.ListAssignments(eventID)
	if err != nil {
		return nil, err
	}

	input := &Input{}
	for _, g := range guests {
		input.Guests = append(input.Guests, Guest{
			ID:             g.ID,
			Gender:         g.Gender,
			Category:       g.Category,
			IntrovertScale: g.IntrovertScale,
			OpennessScale:  g.OpennessScale,
		})
	}
	for _, t := range tables {
		input.Tables = append(input.Tables, Table{
			ID:           t.ID,
			RestaurantID: t.RestaurantID,
			Capacity:     t.Capacity,
		})
	}
	for _, c := range constraints {
		var ids []uuid.UUID
		if len(c.GuestIDs) > 0 {
			if err := json.Unmarshal(c.GuestIDs, &ids); err != nil {
				return nil, fmt.Errorf("constraint %s has malformed guest list: %w", c.ID, err)
			}
		}
		input.Constraints = append(input.Constraints, Constraint{
			Type:     c.Type,
			GuestIDs: ids,
			Value:    c.Value,
		})
	}
	// Manual and locked seatings survive both modes; generated ones only
	// survive an incremental run.
	for _, a := range assignments {
		if !a.Locked && !a.Manual && !incremental {
			continue
		}
		input.Fixed = append(input.Fixed, Seating{
			GuestID:      a.GuestID,
			TableID:      a.TableID,
			RestaurantID: a.RestaurantID,
			Seat:         a.Seat,
		})
	}
	return input, nil
}

// Suggest returns the top pairings by compatibility among guests that are not
// kept apart by a not_with constraint.
func (s *Service) Suggest(eventID uuid.UUID, limit int) ([]SuggestionResponse, error) {
	input, err := s.loadInput(eventID, true)
	if err != nil {
		return nil, err
	}

	notWith := make(map[[2]uuid.UUID]bool)
	for _, c := range input.Constraints {
		if c.Type != ConstraintNotWith {
			continue
		}
		for i := 0; i < len(c.GuestIDs); i++ {
			for j := i + 1; j < len(c.GuestIDs); j++ {
				notWith[pairKey(c.GuestIDs[i], c.GuestIDs[j])] = true
			}
		}
	}

	var suggestions []SuggestionResponse
	for i := 0; i < len(input.Guests); i++ {
		for j := i + 1; j < len(input.Guests); j++ {
			a, b := input.Guests[i], input.Guests[j]
			if a.Category == "" || b.Category == "" {
				continue
			}
			if notWith[pairKey(a.ID, b.ID)] {
				continue
			}
			ga, gb := a.ID, b.ID
			if gb.String() < ga.String() {
				ga, gb = gb, ga
			}
			suggestions = append(suggestions, SuggestionResponse{
				GuestA: ga,
				GuestB: gb,
				Score:  Compatibility(a, b),
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		if suggestions[i].GuestA != suggestions[j].GuestA {
			return suggestions[i].GuestA.String() < suggestions[j].GuestA.String()
		}
		return suggestions[i].GuestB.String() < suggestions[j].GuestB.String()
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// --- lock and dashboard ---

type lockSnapshot struct {
	Guests      []PairingGuest      `json:"guests"`
	Restaurants []PairingRestaurant `json:"restaurants"`
	Tables      []PairingTable      `json:"tables"`
	Constraints []PairingConstraint `json:"constraints"`
	Assignments []PairingAssignment `json:"assignments"`
}

// Lock snapshots the full pairing state into the audit log and freezes every
// assignment. The snapshot is additive: locking twice leaves two entries.
func (s *Service) Lock(eventID uuid.UUID, actorID *uuid.UUID) (*PairingAudit, error) {
	snapshot := lockSnapshot{}
	var err error
	if snapshot.Guests, err = s.ListGuests(eventID); err != nil {
		return nil, err
	}
	if snapshot.Restaurants, err = s.ListRestaurants(eventID); err != nil {
		return nil, err
	}
	if snapshot.Tables, err = s.ListTables(eventID); err != nil {
		return nil, err
	}
	if snapshot.Constraints, err = s.ListConstraints(eventID); err != nil {
		return nil, err
	}
	if snapshot.Assignments, err = s.ListAssignments(eventID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	audit := PairingAudit{
		ID:      uuid.New(),
		EventID: eventID,
		Action:  "lock",
		Payload: payload,
		ActorID: actorID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
		return tx.Model(&PairingAssignment{}).
			Where("event_id = ?", eventID).
			Update("locked", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lock pairing: %w", err)
	}
	return &audit, nil
}

func (s *Service) AuditLog(eventID uuid.UUID) ([]PairingAudit, error) {
	var entries []PairingAudit
	err := s.db.Where("event_id = ?", eventID).
		Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (s *Service) IsLocked(eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&PairingAudit{}).
		Where("event_id = ? AND action = ?", eventID, "lock").
		Count(&count).Error
	return count > 0, err
}

func (s *Service) Dashboard(eventID uuid.UUID) (*DashboardResponse, error) {
	out := &DashboardResponse{}
	db := s.db

	if err := db.Model(&PairingGuest{}).Where("event_id = ?", eventID).
		Count(&out.Guests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&PairingGuest{}).Where("event_id = ? AND category <> ''", eventID).
		Count(&out.Categorized).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&PairingRestaurant{}).Where("event_id = ?", eventID).
		Count(&out.Restaurants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&PairingTable{}).Where("event_id = ?", eventID).
		Count(&out.Tables).Error; err != nil {
		return nil, err
	}
	var capacity struct{ Total int }
	if err := db.Model(&PairingTable{}).Select("COALESCE(SUM(capacity),0) AS total").
		Where("event_id = ?", eventID).Scan(&capacity).Error; err != nil {
		return nil, err
	}
	out.Capacity = capacity.Total
	if err := db.Model(&PairingConstraint{}).Where("event_id = ?", eventID).
		Count(&out.Constraints).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&PairingAssignment{}).Where("event_id = ?", eventID).
		Count(&out.Assigned).Error; err != nil {
		return nil, err
	}
	locked, err := s.IsLocked(eventID)
	if err != nil {
		return nil, err
	}
	out.Locked = locked
	return out, nil
}

func seatedGuestIDs(fixed []Seating) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(fixed))
	for _, s := range fixed {
		ids = append(ids, s.GuestID)
	}
	if len(ids) == 0 {
		ids = append(ids, uuid.Nil)
	}
	return ids
}
