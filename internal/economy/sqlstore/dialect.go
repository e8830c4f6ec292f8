package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// dialect hides the placeholder difference between sqlite and postgres.
// Queries are written with '?' and rebound for numbered drivers.
type dialect struct {
	name     string
	numbered bool
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return dialect{name: driver}, nil
	case DriverPostgres:
		return dialect{name: driver, numbered: true}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d dialect) rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}

	var builder strings.Builder
	builder.Grow(len(query) + 8)
	n := 0
	for idx := 0; idx < len(query); idx++ {
		if query[idx] != '?' {
			builder.WriteByte(query[idx])
			continue
		}
		n++
		builder.WriteByte('$')
		builder.WriteString(strconv.Itoa(n))
	}
	return builder.String()
}
