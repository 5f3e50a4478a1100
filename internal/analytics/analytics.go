// Package analytics derives read-only aggregate metrics from a user's
// goals, habits, and habit logs. All computations are pure folds over
// data fetched once by the caller; day boundaries follow the calendar
// day of the reference time's location, spanning
// [00:00:00, 23:59:59.999999].
package analytics

import (
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievo/internal/models"
	"achievo/internal/timeutil"
)

const (
	goalStreakWindowDays  = 30
	habitStreakWindowDays = 365
	weeklyWindowDays      = 7
)

// milestones is the fixed ascending list of completed-goal counts that
// unlock an achievement.
var milestones = []int{1, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100, 150}

// GoalStats summarizes a user's goal counts.
type GoalStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// PriorityBreakdown counts goals per priority.
type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CategoryCount is one (category, count) pair.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DayCount is one day of a timeseries, labeled by weekday abbreviation.
type DayCount struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

// Achievements holds the gamification metrics.
type Achievements struct {
	CurrentStreak      int     `json:"current_streak"`
	UserLevel          string  `json:"user_level"`
	AchievementsCount  int     `json:"achievements_count"`
	MonthlyImprovement float64 `json:"monthly_improvement"`
	MostProductiveTime string  `json:"most_productive_time"`
}

// HabitStats summarizes a user's habits.
type HabitStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	CompletedToday int     `json:"completed_today"`
	CompletionRate float64 `json:"completion_rate"`
	LongestStreak  int     `json:"longest_streak"`
	AverageStreak  float64 `json:"average_streak"`
}

// FrequencyBreakdown counts habits per frequency; unknown frequencies
// count as daily.
type FrequencyBreakdown struct {
	Daily   int `json:"Daily"`
	Weekly  int `json:"Weekly"`
	Monthly int `json:"Monthly"`
}

// Result is the full analytics document.
type Result struct {
	Goals                   GoalStats          `json:"goals"`
	PriorityBreakdown       PriorityBreakdown  `json:"priority_breakdown"`
	Categories              []CategoryCount    `json:"categories"`
	WeeklyProgress          []DayCount         `json:"weekly_progress"`
	Achievements            Achievements       `json:"achievements"`
	Habits                  HabitStats         `json:"habits"`
	HabitCategories         []CategoryCount    `json:"habit_categories"`
	HabitFrequencyBreakdown FrequencyBreakdown `json:"habit_frequency_breakdown"`
	HabitWeeklyProgress     []DayCount         `json:"habit_weekly_progress"`
}

// Compute folds a user's goals, active habits, and per-habit logs into
// the analytics document. now fixes "today" and its location fixes the
// day boundaries.
func Compute(goals []models.Goal, habits []models.Habit, logsByHabit map[primitive.ObjectID][]models.HabitLog, now time.Time) Result {
	res := Result{}

	completed := 0
	for _, g := range goals {
		if g.Completed {
			completed++
		}
		switch g.Priority {
		case models.PriorityHigh:
			res.PriorityBreakdown.High++
		case models.PriorityMedium:
			res.PriorityBreakdown.Medium++
		case models.PriorityLow:
			res.PriorityBreakdown.Low++
		}
	}
	res.Goals = GoalStats{
		Total:          len(goals),
		Completed:      completed,
		Pending:        len(goals) - completed,
		CompletionRate: rate(completed, len(goals)),
	}

	res.Categories = categoryCounts(goalCategories(goals))
	res.WeeklyProgress = weeklyGoalProgress(goals, now)
	res.Achievements = Achievements{
		CurrentStreak:      CurrentStreak(goals, now),
		UserLevel:          UserLevel(completed),
		AchievementsCount:  AchievementCount(completed),
		MonthlyImprovement: MonthlyImprovement(goals, now),
		MostProductiveTime: MostProductiveTime(goals, now.Location()),
	}

	res.Habits, res.HabitCategories, res.HabitFrequencyBreakdown = habitStats(habits, logsByHabit, now)
	res.HabitWeeklyProgress = habitWeeklyProgress(habits, logsByHabit, now)
	return res
}

// rate returns completed/total as a percentage with one decimal, or 0
// when total is 0.
func rate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(completed) / float64(total) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// completedWithin counts goals whose completed flag is set and whose
// updated_at falls inside [from, to].
func completedWithin(goals []models.Goal, from, to time.Time) int {
	n := 0
	for _, g := range goals {
		if g.Completed && !g.UpdatedAt.Before(from) && !g.UpdatedAt.After(to) {
			n++
		}
	}
	return n
}

// CurrentStreak counts consecutive calendar days ending today on which
// at least one goal was completed, scanning at most 30 days back. A day
// without completions terminates the streak; if today has none the
// streak is 0.
func CurrentStreak(goals []models.Goal, now time.Time) int {
	streak := 0
	for i := 0; i < goalStreakWindowDays; i++ {
		day := now.AddDate(0, 0, -i)
		if completedWithin(goals, timeutil.DayStart(day), timeutil.DayEnd(day)) == 0 {
			break
		}
		streak++
	}
	return streak
}

// UserLevel maps a completed-goal count onto the highest tier whose
// threshold is met.
func UserLevel(completed int) string {
	switch {
	case completed >= 100:
		return "Goal Master"
	case completed >= 50:
		return "Goal Expert"
	case completed >= 25:
		return "Goal Achiever"
	case completed >= 10:
		return "Goal Seeker"
	case completed >= 5:
		return "Goal Starter"
	default:
		return "Newcomer"
	}
}

// AchievementCount returns how many milestones the completed-goal count
// has reached.
func AchievementCount(completed int) int {
	n := 0
	for _, m := range milestones {
		if completed >= m {
			n++
		}
	}
	return n
}

// MonthlyImprovement is the percentage change in completions between the
// trailing 30-day window and the 30 days before it, one decimal, 0 when
// the prior window had none. The result can be negative.
func MonthlyImprovement(goals []models.Goal, now time.Time) float64 {
	lastStart := timeutil.DayStart(now.AddDate(0, 0, -30))
	prevStart := timeutil.DayStart(now.AddDate(0, 0, -60))

	last := 0
	prev := 0
	for _, g := range goals {
		if !g.Completed {
			continue
		}
		switch {
		case !g.UpdatedAt.Before(lastStart):
			last++
		case !g.UpdatedAt.Before(prevStart):
			prev++
		}
	}

	if prev == 0 {
		return 0
	}
	return round1(float64(last-prev) / float64(prev) * 100)
}

// MostProductiveTime buckets completed goals by the hour of their
// updated_at and names the time of day with the most completions,
// defaulting to morning.
func MostProductiveTime(goals []models.Goal, loc *time.Location) string {
	counts := map[int]int{}
	for _, g := range goals {
		if g.Completed {
			counts[g.UpdatedAt.In(loc).Hour()]++
		}
	}

	best := 9 // defaults to morning
	bestCount := 0
	for hour := 0; hour < 24; hour++ {
		if counts[hour] > bestCount {
			best = hour
			bestCount = counts[hour]
		}
	}
	return TimeOfDay(best)
}

// TimeOfDay names the bucket an hour falls into: morning 5-11,
// afternoon 12-16, evening 17-20, night otherwise.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// weeklyGoalProgress returns 7 entries, oldest first, counting completed
// goals whose updated_at falls on each calendar day.
func weeklyGoalProgress(goals []models.Goal, now time.Time) []DayCount {
	out := make([]DayCount, 0, weeklyWindowDays)
	for i := weeklyWindowDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		out = append(out, DayCount{
			Date:      day.Format("Mon"),
			Completed: completedWithin(goals, timeutil.DayStart(day), timeutil.DayEnd(day)),
		})
	}
	return out
}

func goalCategories(goals []models.Goal) map[string]int {
	counts := map[string]int{}
	for _, g := range goals {
		counts[g.Category]++
	}
	return counts
}

// categoryCounts flattens a category histogram into a deterministic
// (insertion-independent) sorted list.
func categoryCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for _, cat := range sortedKeys(counts) {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat]})
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// logIndex keys a habit's logs by their storage-form date.
func logIndex(logs []models.HabitLog) map[string]models.HabitLog {
	idx := make(map[string]models.HabitLog, len(logs))
	for _, l := range logs {
		idx[timeutil.FormatDate(l.Date)] = l
	}
	return idx
}

// StreakByFlag counts consecutive days ending today with a log whose
// completed flag is set, scanning at most 365 days back. This is the
// analytics-view streak definition and is intentionally distinct from
// StreakByTarget.
func StreakByFlag(logs []models.HabitLog, now time.Time) int {
	idx := logIndex(logs)
	streak := 0
	for i := 0; i < habitStreakWindowDays; i++ {
		day := timeutil.DateOf(now.AddDate(0, 0, -i))
		log, ok := idx[timeutil.FormatDate(day)]
		if !ok || !log.Completed {
			break
		}
		streak++
	}
	return streak
}

// StreakByTarget counts consecutive days ending today with a log whose
// completed_count reached the habit's target. This is the habits-list
// streak definition and is intentionally distinct from StreakByFlag.
func StreakByTarget(logs []models.HabitLog, targetCount int, now time.Time) int {
	idx := logIndex(logs)
	streak := 0
	for i := 0; ; i++ {
		day := timeutil.DateOf(now.AddDate(0, 0, -i))
		log, ok := idx[timeutil.FormatDate(day)]
		if !ok || log.CompletedCount < targetCount {
			break
		}
		streak++
	}
	return streak
}

func habitStats(habits []models.Habit, logsByHabit map[primitive.ObjectID][]models.HabitLog, now time.Time) (HabitStats, []CategoryCount, FrequencyBreakdown) {
	stats := HabitStats{Total: len(habits)}
	freq := FrequencyBreakdown{}
	categories := map[string]int{}

	today := timeutil.FormatDate(timeutil.DateOf(now))
	activeThreshold := timeutil.DateOf(now.AddDate(0, 0, -(weeklyWindowDays - 1)))

	totalLogs := 0
	completedLogs := 0
	streakSum := 0

	for _, h := range habits {
		switch h.Frequency {
		case models.FrequencyWeekly:
			freq.Weekly++
		case models.FrequencyMonthly:
			freq.Monthly++
		default:
			freq.Daily++
		}
		categories[h.Category]++

		logs := logsByHabit[h.ID]
		totalLogs += len(logs)
		for _, l := range logs {
			if l.Completed {
				completedLogs++
			}
		}
		for _, l := range logs {
			if !l.Date.Before(activeThreshold) {
				stats.Active++
				break
			}
		}
		if log, ok := logIndex(logs)[today]; ok && log.Completed {
			stats.CompletedToday++
		}

		streak := StreakByFlag(logs, now)
		streakSum += streak
		if streak > stats.LongestStreak {
			stats.LongestStreak = streak
		}
	}

	if totalLogs > 0 {
		stats.CompletionRate = round1(float64(completedLogs) / float64(totalLogs) * 100)
	}
	if len(habits) > 0 {
		stats.AverageStreak = round1(float64(streakSum) / float64(len(habits)))
	}
	return stats, categoryCounts(categories), freq
}

// habitWeeklyProgress returns 7 entries, oldest first, counting habits
// with a flag-completed log on each calendar day.
func habitWeeklyProgress(habits []models.Habit, logsByHabit map[primitive.ObjectID][]models.HabitLog, now time.Time) []DayCount {
	out := make([]DayCount, 0, weeklyWindowDays)
	for i := weeklyWindowDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := timeutil.FormatDate(timeutil.DateOf(day))

		n := 0
		for _, h := range habits {
			if log, ok := logIndex(logsByHabit[h.ID])[key]; ok && log.Completed {
				n++
			}
		}
		out = append(out, DayCount{Date: day.Format("Mon"), Completed: n})
	}
	return out
}
