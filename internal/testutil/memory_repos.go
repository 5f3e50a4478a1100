package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/models"
	"achievo/internal/pagination"
	"achievo/internal/repository"
	"achievo/internal/timeutil"
)

// MemoryUsers is an in-memory repository.Users backed by a map.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

// NewMemoryUsers creates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[primitive.ObjectID]models.User)}
}

func (m *MemoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) findBy(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.Username == username })
}

func (m *MemoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.Email == email })
}

func (m *MemoryUsers) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return m.findBy(func(u models.User) bool { return u.GoogleID == googleID })
}

func (m *MemoryUsers) UsernameTakenByOther(_ context.Context, username string, self primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Username == username && id != self {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryUsers) EmailTakenByOther(_ context.Context, email string, self primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Email == email && id != self {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryUsers) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// MemoryGoals is an in-memory repository.Goals.
type MemoryGoals struct {
	mu    sync.Mutex
	goals map[primitive.ObjectID]models.Goal
}

// NewMemoryGoals creates an empty in-memory goal store.
func NewMemoryGoals() *MemoryGoals {
	return &MemoryGoals{goals: make(map[primitive.ObjectID]models.Goal)}
}

func (m *MemoryGoals) FindByID(_ context.Context, id primitive.ObjectID) (*models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func matchesFilter(g models.Goal, f repository.GoalFilter) bool {
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	if f.Priority != "" && g.Priority != f.Priority {
		return false
	}
	if f.Status == "completed" && !g.Completed {
		return false
	}
	if f.Status == "pending" && g.Completed {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(g.Text), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (m *MemoryGoals) List(_ context.Context, userID primitive.ObjectID, filter repository.GoalFilter, page pagination.PageRequest) ([]models.Goal, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Goal
	for _, g := range m.goals {
		if g.UserID == userID && matchesFilter(g, filter) {
			matched = append(matched, g)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + page.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MemoryGoals) ListAll(_ context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryGoals) DistinctCategories(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	for _, g := range m.goals {
		if g.UserID == userID && g.Category != "" {
			seen[g.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryGoals) Counts(_ context.Context, userID primitive.ObjectID) (repository.GoalCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var counts repository.GoalCounts
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		counts.Total++
		if g.Completed {
			counts.Completed++
		}
	}
	return counts, nil
}

func (m *MemoryGoals) Insert(_ context.Context, goal *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if goal.ID.IsZero() {
		goal.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	if goal.UpdatedAt.IsZero() {
		goal.UpdatedAt = now
	}
	m.goals[goal.ID] = *goal
	return nil
}

func (m *MemoryGoals) Update(_ context.Context, goal *models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[goal.ID]; !ok {
		return repository.ErrNotFound
	}
	goal.UpdatedAt = time.Now()
	m.goals[goal.ID] = *goal
	return nil
}

func (m *MemoryGoals) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *MemoryGoals) DeleteByOwner(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, g := range m.goals {
		if g.UserID == userID {
			delete(m.goals, id)
			n++
		}
	}
	return n, nil
}

// MemoryHabits is an in-memory repository.Habits.
type MemoryHabits struct {
	mu     sync.Mutex
	habits map[primitive.ObjectID]models.Habit
}

// NewMemoryHabits creates an empty in-memory habit store.
func NewMemoryHabits() *MemoryHabits {
	return &MemoryHabits{habits: make(map[primitive.ObjectID]models.Habit)}
}

func (m *MemoryHabits) FindByID(_ context.Context, id primitive.ObjectID) (*models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (m *MemoryHabits) list(userID primitive.ObjectID, activeOnly bool) []models.Habit {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Habit
	for _, h := range m.habits {
		if h.UserID != userID {
			continue
		}
		if activeOnly && !h.IsActive {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryHabits) ListActiveByOwner(_ context.Context, userID primitive.ObjectID) ([]models.Habit, error) {
	return m.list(userID, true), nil
}

func (m *MemoryHabits) ListByOwner(_ context.Context, userID primitive.ObjectID) ([]models.Habit, error) {
	return m.list(userID, false), nil
}

func (m *MemoryHabits) Insert(_ context.Context, habit *models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if habit.ID.IsZero() {
		habit.ID = primitive.NewObjectID()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	m.habits[habit.ID] = *habit
	return nil
}

func (m *MemoryHabits) Update(_ context.Context, habit *models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[habit.ID]; !ok {
		return repository.ErrNotFound
	}
	m.habits[habit.ID] = *habit
	return nil
}

func (m *MemoryHabits) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.habits, id)
	return nil
}

func (m *MemoryHabits) DeleteByOwner(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, h := range m.habits {
		if h.UserID == userID {
			delete(m.habits, id)
			n++
		}
	}
	return n, nil
}

// MemoryHabitLogs is an in-memory repository.HabitLogs that enforces
// the one-document-per-habit-per-day rule the same way the unique
// Mongo index does.
type MemoryHabitLogs struct {
	mu   sync.Mutex
	logs map[primitive.ObjectID]models.HabitLog
}

// NewMemoryHabitLogs creates an empty in-memory habit log store.
func NewMemoryHabitLogs() *MemoryHabitLogs {
	return &MemoryHabitLogs{logs: make(map[primitive.ObjectID]models.HabitLog)}
}

func (m *MemoryHabitLogs) FindByHabitAndDate(_ context.Context, habitID, userID primitive.ObjectID, date time.Time) (*models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.HabitID == habitID && l.UserID == userID && timeutil.SameDate(l.Date, date) {
			l := l
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryHabitLogs) LogCompletion(_ context.Context, habitID, userID primitive.ObjectID, date time.Time, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.logs {
		if l.HabitID == habitID && timeutil.SameDate(l.Date, date) {
			l.CompletedCount++
			m.logs[id] = l
			return nil
		}
	}
	log := models.HabitLog{
		ID:             primitive.NewObjectID(),
		HabitID:        habitID,
		UserID:         userID,
		CompletedCount: 1,
		Completed:      false,
		Notes:          notes,
		Date:           date,
	}
	m.logs[log.ID] = log
	return nil
}

func (m *MemoryHabitLogs) ListByHabit(_ context.Context, habitID, userID primitive.ObjectID) ([]models.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HabitLog
	for _, l := range m.logs {
		if l.HabitID == habitID && l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (m *MemoryHabitLogs) DeleteByHabit(_ context.Context, habitID, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.logs {
		if l.HabitID == habitID && l.UserID == userID {
			delete(m.logs, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryHabitLogs) DeleteByOwner(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.logs {
		if l.UserID == userID {
			delete(m.logs, id)
			n++
		}
	}
	return n, nil
}

// Put stores a prebuilt log, used by analytics-oriented tests that need
// the legacy completed flag set.
func (m *MemoryHabitLogs) Put(log models.HabitLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	m.logs[log.ID] = log
}

// MemoryBills is an in-memory repository.Bills.
type MemoryBills struct {
	mu    sync.Mutex
	bills map[primitive.ObjectID]models.UtilityBill
}

// NewMemoryBills creates an empty in-memory bill store.
func NewMemoryBills() *MemoryBills {
	return &MemoryBills{bills: make(map[primitive.ObjectID]models.UtilityBill)}
}

func (m *MemoryBills) FindByID(_ context.Context, id primitive.ObjectID) (*models.UtilityBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bills[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (m *MemoryBills) ListByType(_ context.Context, userID primitive.ObjectID, billType models.BillType, newestFirst bool, limit int64) ([]models.UtilityBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UtilityBill
	for _, b := range m.bills {
		if b.UserID == userID && b.BillType == billType {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryBills) MonthlyTotals(_ context.Context, userID primitive.ObjectID, billType models.BillType, monthStart time.Time) (repository.BillTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var totals repository.BillTotals
	for _, b := range m.bills {
		if b.UserID == userID && b.BillType == billType && !b.Date.Before(monthStart) {
			totals.Amount += b.Amount
			totals.Consumption += b.Consumption
		}
	}
	return totals, nil
}

func (m *MemoryBills) Insert(_ context.Context, bill *models.UtilityBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bill.ID.IsZero() {
		bill.ID = primitive.NewObjectID()
	}
	m.bills[bill.ID] = *bill
	return nil
}

func (m *MemoryBills) Update(_ context.Context, bill *models.UtilityBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bills[bill.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bills[bill.ID] = *bill
	return nil
}

func (m *MemoryBills) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bills[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bills, id)
	return nil
}

func (m *MemoryBills) DeleteByOwner(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, b := range m.bills {
		if b.UserID == userID {
			delete(m.bills, id)
			n++
		}
	}
	return n, nil
}

// MemoryPreferences is an in-memory repository.Preferences.
type MemoryPreferences struct {
	mu    sync.Mutex
	prefs map[primitive.ObjectID]models.UserPreferences
}

// NewMemoryPreferences creates an empty in-memory preference store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{prefs: make(map[primitive.ObjectID]models.UserPreferences)}
}

func (m *MemoryPreferences) FindByOwner(_ context.Context, userID primitive.ObjectID) (*models.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryPreferences) Insert(_ context.Context, prefs *models.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prefs.ID.IsZero() {
		prefs.ID = primitive.NewObjectID()
	}
	m.prefs[prefs.UserID] = *prefs
	return nil
}

func (m *MemoryPreferences) Upsert(_ context.Context, prefs *models.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.prefs[prefs.UserID]; ok {
		prefs.ID = existing.ID
	} else if prefs.ID.IsZero() {
		prefs.ID = primitive.NewObjectID()
	}
	m.prefs[prefs.UserID] = *prefs
	return nil
}

func (m *MemoryPreferences) DeleteByOwner(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, userID)
	return nil
}
