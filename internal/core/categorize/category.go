package categorize

import (
	"time"

	"taskcraftify/internal/core/domain"
)

type Category string

const (
	CategoryOverdue       Category = "overdue"
	CategoryToday         Category = "today"
	CategoryTomorrow      Category = "tomorrow"
	CategoryThisWeek      Category = "this_week"
	CategoryHighPriority  Category = "high_priority"
	CategoryRecentlyAdded Category = "recently_added"
	CategoryActive        Category = "active"
)

// Exclusive lists the buckets a task can occupy besides Active, in precedence order.
var Exclusive = []Category{
	CategoryOverdue,
	CategoryToday,
	CategoryTomorrow,
	CategoryThisWeek,
	CategoryHighPriority,
	CategoryRecentlyAdded,
}

// All is every category, Active last.
var All = append(append([]Category{}, Exclusive...), CategoryActive)

const DefaultRecentWindow = 72 * time.Hour

type Options struct {
	Location     *time.Location
	WeekStart    time.Weekday
	RecentWindow time.Duration
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = DefaultRecentWindow
	}
	return o
}

type Result struct {
	Buckets map[Category][]domain.Task
	Counts  map[Category]int
	// Assigned maps a task id to its exclusive bucket; "" means Active only.
	// Closed tasks are absent.
	Assigned map[string]Category
}

// Categorize walks tasks once and places each open task in Active plus at
// most one exclusive bucket, first match wins.
func Categorize(tasks []domain.Task, now time.Time, opts Options) Result {
	opts = opts.withDefaults()
	w := newWindow(now, opts)

	res := Result{
		Buckets:  make(map[Category][]domain.Task, len(Exclusive)+1),
		Counts:   make(map[Category]int, len(Exclusive)+1),
		Assigned: make(map[string]Category, len(tasks)),
	}
	for _, c := range All {
		res.Buckets[c] = []domain.Task{}
		res.Counts[c] = 0
	}

	for _, task := range tasks {
		if task.Status.Closed() {
			continue
		}
		res.Buckets[CategoryActive] = append(res.Buckets[CategoryActive], task)
		res.Counts[CategoryActive]++

		c := w.classify(task)
		res.Assigned[task.ID()] = c
		if c == "" {
			continue
		}
		res.Buckets[c] = append(res.Buckets[c], task)
		res.Counts[c]++
	}
	return res
}

// Classify returns the exclusive bucket for a single task, "" when the task
// only belongs to Active, and ok=false when it is closed.
func Classify(task domain.Task, now time.Time, opts Options) (Category, bool) {
	if task.Status.Closed() {
		return "", false
	}
	return newWindow(now, opts.withDefaults()).classify(task), true
}

type window struct {
	now          time.Time
	loc          *time.Location
	today        time.Time
	tomorrow     time.Time
	weekStart    time.Time
	weekEnd      time.Time
	recentWindow time.Duration
}

func newWindow(now time.Time, opts Options) window {
	today := startOfDay(now, opts.Location)
	offset := (int(today.Weekday()) - int(opts.WeekStart) + 7) % 7
	weekStart := addDays(today, -offset)
	return window{
		now:          now,
		loc:          opts.Location,
		today:        today,
		tomorrow:     addDays(today, 1),
		weekStart:    weekStart,
		weekEnd:      addDays(weekStart, 7),
		recentWindow: opts.RecentWindow,
	}
}

func (w window) classify(task domain.Task) Category {
	if task.HasDueDate() {
		due := startOfDay(*task.DueDate, w.loc)
		switch {
		case due.Before(w.today):
			return CategoryOverdue
		case due.Equal(w.today):
			return CategoryToday
		case due.Equal(w.tomorrow):
			return CategoryTomorrow
		case !due.Before(w.weekStart) && due.Before(w.weekEnd):
			return CategoryThisWeek
		}
	}
	if task.Priority == domain.TaskPriorityHigh || task.Priority == domain.TaskPriorityUrgent {
		return CategoryHighPriority
	}
	if !task.CreatedAt.IsZero() && w.now.Sub(task.CreatedAt) < w.recentWindow {
		return CategoryRecentlyAdded
	}
	return ""
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func addDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}
