package event

import "strings"

// Filter selects the events a subscription receives.
//
// An event matches when it shares a bit with Categories (or Categories is
// zero) and its type is listed in Types (or Types is empty).
type Filter struct {
	Categories Category
	Types      []Type
}

// AllEvents matches every event.
func AllEvents() Filter {
	return Filter{}
}

// ByCategory matches events in any of the given categories.
func ByCategory(c Category) Filter {
	return Filter{Categories: c}
}

// ByType matches events of the listed types.
func ByType(types ...Type) Filter {
	return Filter{Types: types}
}

// Match reports whether ev passes the filter.
func (f Filter) Match(ev Event) bool {
	if ev == nil {
		return false
	}
	if f.Categories != 0 && !ev.InCategory(f.Categories) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	t := ev.Type()
	for _, ft := range f.Types {
		if ft == t {
			return true
		}
	}
	return false
}

func (f Filter) String() string {
	if f.Categories == 0 && len(f.Types) == 0 {
		return "all"
	}
	var parts []string
	if f.Categories != 0 {
		parts = append(parts, "category="+f.Categories.String())
	}
	if len(f.Types) > 0 {
		names := make([]string, len(f.Types))
		for i, t := range f.Types {
			names[i] = t.String()
		}
		parts = append(parts, "type="+strings.Join(names, ","))
	}
	return strings.Join(parts, " ")
}
