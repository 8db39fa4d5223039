package descriptor

import (
	"io"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

// LoadIngredients registers every ingredient block (name, threshold,
// starting amount, blank line) in the restaurant's ledger.
func LoadIngredients(file string, r io.Reader, rest *domain.Restaurant) error {
	lines, err := ReadLines(r)
	if err != nil {
		return err
	}
	c := NewCursor(file, lines)
	for !c.Done() {
		name, _ := c.Next()
		start := c.Line()
		if name == "" {
			return c.Fail(ErrSyntax)
		}
		threshold, err := c.IntField("Threshold: ")
		if err != nil {
			return err
		}
		if threshold < 0 {
			return c.Fail(domain.ErrInvalidArgument)
		}
		starting, err := c.IntField("Starting: ")
		if err != nil {
			return err
		}
		if starting < 0 {
			return c.Fail(domain.ErrInvalidArgument)
		}
		if err := rest.AddIngredient(name, threshold, starting); err != nil {
			return c.FailAt(start, err)
		}
		if err := c.Terminator(); err != nil {
			return err
		}
	}
	return nil
}
