package models

import (
	"fmt"
	"strings"
)

// Window is a ranking time range.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// ParseWindow accepts the window names used by the /ranking command.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "today":
		return WindowDaily, nil
	case "weekly", "week":
		return WindowWeekly, nil
	case "monthly", "month":
		return WindowMonthly, nil
	}
	return "", fmt.Errorf("unknown ranking window %q", s)
}
