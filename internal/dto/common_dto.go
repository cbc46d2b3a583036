package dto

import "time"

const DateLayout = "2006-01-02"

// FormatDate renders a calendar date; nil stays nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseDate accepts an empty string as "not given".
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
