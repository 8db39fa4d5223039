package descriptor

import (
	"fmt"
	"io"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

const restaurantLines = 6

var rolePrefixes = []struct {
	role   domain.Role
	prefix string
}{
	{domain.RoleCook, "Cooks: "},
	{domain.RoleServer, "Servers: "},
	{domain.RoleManager, "Managers: "},
	{domain.RoleReceiver, "Receivers: "},
}

// ParseRestaurant builds a restaurant from its six-line descriptor: the
// table count, one staff list per role and a trailing empty line.
func ParseRestaurant(file string, r io.Reader) (*domain.Restaurant, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) != restaurantLines {
		return nil, fmt.Errorf("%s has %d lines: %w", file, len(lines), ErrLineCount)
	}

	c := NewCursor(file, lines)
	tables, err := c.IntField("Tables: ")
	if err != nil {
		return nil, err
	}
	rest, err := domain.NewRestaurant(tables)
	if err != nil {
		return nil, c.Fail(err)
	}
	for _, rp := range rolePrefixes {
		value, err := c.Field(rp.prefix)
		if err != nil {
			return nil, err
		}
		for _, name := range SplitList(value) {
			if err := rest.Hire(rp.role, name); err != nil {
				return nil, c.Fail(err)
			}
		}
	}
	if err := c.Blank(); err != nil {
		return nil, err
	}
	return rest, nil
}
