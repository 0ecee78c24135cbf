package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// memoryStore is the in-process implementation of Store.
// Slices hold ids in display order; maps hold the canonical values.
type memoryStore struct {
	mu sync.RWMutex

	properties    map[string]*models.Property
	propertyOrder []string // newest first

	users     map[string]*models.UserProfile
	userOrder []string // sign-up order

	reports     map[string]*models.Report
	reportOrder []string // newest first

	bookings []*models.Booking // newest first
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		properties: make(map[string]*models.Property),
		users:      make(map[string]*models.UserProfile),
		reports:    make(map[string]*models.Report),
	}
}

func (s *memoryStore) UpsertProperty(p *models.Property) error {
	if err := ValidateProperty(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := p.Clone()
	if existing, ok := s.properties[p.ID]; ok {
		stored.Reported = existing.Reported
	} else {
		stored.Reported = false
		s.propertyOrder = append([]string{p.ID}, s.propertyOrder...)
	}
	s.properties[p.ID] = stored
	return nil
}

func (s *memoryStore) DeleteProperty(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return false
	}
	delete(s.properties, id)
	s.propertyOrder = removeID(s.propertyOrder, id)
	return true
}

func (s *memoryStore) FindProperty(id string) (*models.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *memoryStore) ListProperties() []*models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Property, 0, len(s.propertyOrder))
	for _, id := range s.propertyOrder {
		out = append(out, s.properties[id].Clone())
	}
	return out
}

func (s *memoryStore) UpsertUser(u *models.UserProfile) error {
	if err := ValidateUser(u); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		s.userOrder = append(s.userOrder, u.ID)
	}
	s.users[u.ID] = u.Clone()
	return nil
}

func (s *memoryStore) FindUser(id string) (*models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

func (s *memoryStore) ListUsers() []*models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.UserProfile, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id].Clone())
	}
	return out
}

func (s *memoryStore) InsertReport(r *models.Report) error {
	if err := ValidateReport(r); err != nil {
		return err
	}
	if r.Status != models.ReportPending {
		return fmt.Errorf("%w: new reports must be pending, got %s", models.ErrInvalidState, r.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[r.PropertyID]; !ok {
		return fmt.Errorf("%w: property %s", models.ErrNotFound, r.PropertyID)
	}
	if _, ok := s.users[r.ReporterID]; !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, r.ReporterID)
	}
	if _, ok := s.reports[r.ID]; ok {
		return fmt.Errorf("%w: report %s already exists", models.ErrInvalidState, r.ID)
	}

	s.reports[r.ID] = r.Clone()
	s.reportOrder = append([]string{r.ID}, s.reportOrder...)
	return nil
}

func (s *memoryStore) SettleReport(id string, status models.ReportStatus, adminID, note string, at time.Time) (*models.Report, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("%w: outcome must be resolved or rejected, got %q", models.ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: report %s", models.ErrNotFound, id)
	}
	if r.Status != models.ReportPending {
		return nil, fmt.Errorf("%w: report %s is already %s", models.ErrInvalidState, id, r.Status)
	}

	settledAt := at
	r.Status = status
	r.AdminNote = note
	r.AdjudicatedBy = adminID
	r.AdjudicatedAt = &settledAt
	return r.Clone(), nil
}

func (s *memoryStore) FindReport(id string) (*models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

func (s *memoryStore) ListReports(status *models.ReportStatus) []*models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Report, 0, len(s.reportOrder))
	for _, id := range s.reportOrder {
		r := s.reports[id]
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

func (s *memoryStore) RecomputeReported(propertyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recomputeReportedLocked(propertyID)
}

func (s *memoryStore) recomputeReportedLocked(propertyID string) bool {
	p, ok := s.properties[propertyID]
	if !ok {
		return false
	}

	pending := false
	for _, r := range s.reports {
		if r.PropertyID == propertyID && r.Status == models.ReportPending {
			pending = true
			break
		}
	}
	p.Reported = pending
	return pending
}

func (s *memoryStore) InsertBooking(b *models.Booking) error {
	if b == nil || b.ID == "" || b.PropertyID == "" || b.BuyerID == "" {
		return fmt.Errorf("%w: booking requires id, property and buyer", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking := *b
	s.bookings = append([]*models.Booking{&booking}, s.bookings...)
	return nil
}

func (s *memoryStore) ListBookings(buyerID string) []*models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Booking{}
	for _, b := range s.bookings {
		if b.BuyerID == buyerID {
			booking := *b
			out = append(out, &booking)
		}
	}
	return out
}

func (s *memoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TakenAt:    time.Now().UTC(),
		Properties: make([]*models.Property, 0, len(s.propertyOrder)),
		Users:      make([]*models.UserProfile, 0, len(s.userOrder)),
		Reports:    make([]*models.Report, 0, len(s.reportOrder)),
		Bookings:   make([]*models.Booking, 0, len(s.bookings)),
	}
	for _, id := range s.propertyOrder {
		snap.Properties = append(snap.Properties, s.properties[id].Clone())
	}
	for _, id := range s.userOrder {
		snap.Users = append(snap.Users, s.users[id].Clone())
	}
	for _, id := range s.reportOrder {
		snap.Reports = append(snap.Reports, s.reports[id].Clone())
	}
	for _, b := range s.bookings {
		booking := *b
		snap.Bookings = append(snap.Bookings, &booking)
	}
	return snap
}

func (s *memoryStore) Restore(snap Snapshot) error {
	// Validate everything before touching state.
	for _, p := range snap.Properties {
		if err := ValidateProperty(p); err != nil {
			return fmt.Errorf("invalid property in snapshot: %w", err)
		}
	}
	for _, u := range snap.Users {
		if err := ValidateUser(u); err != nil {
			return fmt.Errorf("invalid user in snapshot: %w", err)
		}
	}
	for _, r := range snap.Reports {
		if err := ValidateReport(r); err != nil {
			return fmt.Errorf("invalid report in snapshot: %w", err)
		}
	}

	properties := make(map[string]*models.Property, len(snap.Properties))
	propertyOrder := make([]string, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		if _, dup := properties[p.ID]; dup {
			continue
		}
		properties[p.ID] = p.Clone()
		propertyOrder = append(propertyOrder, p.ID)
	}

	users := make(map[string]*models.UserProfile, len(snap.Users))
	userOrder := make([]string, 0, len(snap.Users))
	for _, u := range snap.Users {
		if _, dup := users[u.ID]; dup {
			continue
		}
		users[u.ID] = u.Clone()
		userOrder = append(userOrder, u.ID)
	}

	reports := make(map[string]*models.Report, len(snap.Reports))
	reportOrder := make([]string, 0, len(snap.Reports))
	for _, r := range snap.Reports {
		if _, dup := reports[r.ID]; dup {
			continue
		}
		reports[r.ID] = r.Clone()
		reportOrder = append(reportOrder, r.ID)
	}

	bookings := make([]*models.Booking, 0, len(snap.Bookings))
	for _, b := range snap.Bookings {
		if b == nil {
			continue
		}
		booking := *b
		bookings = append(bookings, &booking)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.properties, s.propertyOrder = properties, propertyOrder
	s.users, s.userOrder = users, userOrder
	s.reports, s.reportOrder = reports, reportOrder
	s.bookings = bookings

	// Snapshots may predate the last adjudication; never trust the stored flag.
	for id := range s.properties {
		s.recomputeReportedLocked(id)
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
