// Package holidays abstracts the holiday calendar. Sourcing real holidays is
// a collaborator concern; the core only asks yes/no per civil date.
package holidays

// Calendar reports whether a civil date is a holiday, which overrides the
// weekday when resolving prices.
type Calendar interface {
	IsHoliday(date string) bool
}

// None is the stub calendar: no date is ever a holiday.
type None struct{}

func (None) IsHoliday(string) bool { return false }

// Fixed marks an explicit set of dates as holidays. Handy for venues that
// maintain their own list, and for tests.
type Fixed map[string]bool

func (f Fixed) IsHoliday(date string) bool { return f[date] }
