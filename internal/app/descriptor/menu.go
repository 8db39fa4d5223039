package descriptor

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

const modHeader = "Mod"

// LoadMenu adds every menu block to the restaurant's catalog. A block is the
// item name, its price, "<amount> <ingredient>" lines and any number of
// modification sub-blocks, each introduced by a "Mod" line and made of the
// modification name, "<delta> <ingredient>" lines and a closing price delta.
func LoadMenu(file string, r io.Reader, rest *domain.Restaurant) error {
	lines, err := ReadLines(r)
	if err != nil {
		return err
	}
	c := NewCursor(file, lines)
	for !c.Done() {
		if err := loadMenuItem(c, rest); err != nil {
			return err
		}
	}
	return nil
}

func loadMenuItem(c *Cursor, rest *domain.Restaurant) error {
	name, _ := c.Next()
	nameLine := c.Line()
	if name == "" {
		return c.Fail(ErrSyntax)
	}
	price, err := nextDecimal(c)
	if err != nil {
		return err
	}
	requirements, err := readAmounts(c, rest)
	if err != nil {
		return err
	}
	item, err := domain.NewMenuItem(name, price, requirements)
	if err != nil {
		return c.FailAt(nameLine, err)
	}

	for {
		line, ok := c.Peek()
		if !ok || line != modHeader {
			break
		}
		c.Next()
		mod, modLine, err := readModification(c, rest)
		if err != nil {
			return err
		}
		if err := item.AddModification(mod); err != nil {
			return c.FailAt(modLine, err)
		}
	}

	if err := rest.AddMenuItem(item); err != nil {
		return c.FailAt(nameLine, err)
	}
	return c.Terminator()
}

// readAmounts consumes "<int> <ingredient>" lines up to a blank line, a
// "Mod" header or the end of input.
func readAmounts(c *Cursor, rest *domain.Restaurant) (map[string]int, error) {
	amounts := make(map[string]int)
	for {
		line, ok := c.Peek()
		if !ok || line == "" || line == modHeader {
			return amounts, nil
		}
		c.Next()
		amount, ingredient, err := ParseAmount(line)
		if err != nil {
			return nil, c.Fail(err)
		}
		if !rest.HasIngredient(ingredient) {
			return nil, c.Fail(fmt.Errorf("ingredient %q: %w", ingredient, domain.ErrNotFound))
		}
		if _, dup := amounts[ingredient]; dup {
			return nil, c.Fail(fmt.Errorf("ingredient %q: %w", ingredient, domain.ErrDuplicateKey))
		}
		amounts[ingredient] = amount
	}
}

func readModification(c *Cursor, rest *domain.Restaurant) (*domain.Modification, int, error) {
	name, err := c.Next()
	if err != nil {
		return nil, 0, err
	}
	nameLine := c.Line()
	if name == "" || name == modHeader {
		return nil, 0, c.Fail(ErrSyntax)
	}

	var info []string
	for {
		line, ok := c.Peek()
		if !ok || line == "" || line == modHeader {
			break
		}
		c.Next()
		info = append(info, line)
	}
	if len(info) == 0 {
		// the price delta line is missing
		c.Next()
		return nil, 0, c.Fail(ErrSyntax)
	}

	first := c.Line() - len(info) + 1
	deltas := make(map[string]int, len(info)-1)
	for i, line := range info[:len(info)-1] {
		delta, ingredient, err := ParseAmount(line)
		if err != nil {
			return nil, 0, c.FailAt(first+i, err)
		}
		if !rest.HasIngredient(ingredient) {
			return nil, 0, c.FailAt(first+i, fmt.Errorf("ingredient %q: %w", ingredient, domain.ErrNotFound))
		}
		if _, dup := deltas[ingredient]; dup {
			return nil, 0, c.FailAt(first+i, fmt.Errorf("ingredient %q: %w", ingredient, domain.ErrDuplicateKey))
		}
		deltas[ingredient] = delta
	}

	priceDelta, err := decimal.NewFromString(info[len(info)-1])
	if err != nil {
		return nil, 0, c.Fail(fmt.Errorf("price delta: %w", ErrSyntax))
	}
	mod, err := domain.NewModification(name, priceDelta, deltas)
	if err != nil {
		return nil, 0, c.FailAt(nameLine, err)
	}
	return mod, nameLine, nil
}

func nextDecimal(c *Cursor) (decimal.Decimal, error) {
	line, err := c.Next()
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(line)
	if err != nil {
		return decimal.Zero, c.Fail(fmt.Errorf("price %q: %w", line, ErrSyntax))
	}
	return d, nil
}
