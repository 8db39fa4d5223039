package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

const restaurantTxt = "\uFEFFTables: 3\nCooks: Alice, Bob\nServers: Sam\nManagers: Mia\nReceivers: \n\n"

const ingredientsTxt = `Bun
Threshold: 5
Starting: 20

Patty
Threshold: 5
Starting: 3

Lettuce
Threshold: 2
Starting: 10
`

const menuTxt = `Burger
8.00
1 Bun
1 Patty
Mod
No bun
-1 Bun
2 Lettuce
-0.50
Mod
Double
1 Patty
2.25

Salad
5.5
3 Lettuce
`

func lineOf(t *testing.T, err error) int {
	t.Helper()
	var le *LineError
	require.True(t, errors.As(err, &le), "expected a LineError, got %v", err)
	return le.Line
}

func loaded(t *testing.T) *domain.Restaurant {
	t.Helper()
	rest, err := ParseRestaurant("restaurant.txt", strings.NewReader(restaurantTxt))
	require.NoError(t, err)
	require.NoError(t, LoadIngredients("ingredients.txt", strings.NewReader(ingredientsTxt), rest))
	require.NoError(t, LoadMenu("menu.txt", strings.NewReader(menuTxt), rest))
	return rest
}

func TestReadLinesStripsByteOrderMark(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("\uFEFFOrder 1\r\nTable: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Order 1", "Table: 2"}, lines)
}

func TestLineErrorMessage(t *testing.T) {
	err := NewCursor("events.txt", nil).FailAt(7, ErrSyntax)
	assert.EqualError(t, err, "could not parse events.txt line 7")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseRestaurant(t *testing.T) {
	rest := loaded(t)
	assert.Equal(t, 3, rest.NumTables())
	assert.True(t, rest.HasStaff(domain.RoleCook, "Alice"))
	assert.True(t, rest.HasStaff(domain.RoleCook, "Bob"))
	assert.True(t, rest.HasStaff(domain.RoleServer, "Sam"))
	assert.True(t, rest.HasStaff(domain.RoleManager, "Mia"))
	assert.False(t, rest.HasStaff(domain.RoleReceiver, ""))
}

func TestParseRestaurantErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"bad table count", "Tables: x\nCooks: A\nServers: B\nManagers: C\nReceivers: D\n\n", 1},
		{"negative table count", "Tables: -1\nCooks: A\nServers: B\nManagers: C\nReceivers: D\n\n", 1},
		{"wrong prefix", "Tables: 1\nChefs: A\nServers: B\nManagers: C\nReceivers: D\n\n", 2},
		{"duplicate server", "Tables: 1\nCooks: A\nServers: B, B\nManagers: C\nReceivers: D\n\n", 3},
		{"last line not empty", "Tables: 1\nCooks: A\nServers: B\nManagers: C\nReceivers: D\nx\n", 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRestaurant("restaurant.txt", strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Equal(t, tc.line, lineOf(t, err))
		})
	}

	_, err := ParseRestaurant("restaurant.txt", strings.NewReader("Tables: 1\nCooks: A\n"))
	assert.ErrorIs(t, err, ErrLineCount)
}

func TestLoadIngredients(t *testing.T) {
	rest := loaded(t)
	assert.Equal(t, []domain.IngredientLevel{
		{Name: "Bun", Threshold: 5, Amount: 20},
		{Name: "Lettuce", Threshold: 2, Amount: 10},
		{Name: "Patty", Threshold: 5, Amount: 3},
	}, rest.InventorySnapshot())

	var initial []domain.RestockNeeded
	for _, ev := range rest.Drain() {
		if r, ok := ev.(domain.RestockNeeded); ok {
			initial = append(initial, r)
		}
	}
	assert.Equal(t, []domain.RestockNeeded{{Ingredient: "Patty", Threshold: 5, Amount: 3, Initial: true}}, initial)
}

func TestLoadIngredientsErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"bad threshold", "Bun\nThreshold: five\nStarting: 1\n\n", 2},
		{"negative starting", "Bun\nThreshold: 1\nStarting: -1\n\n", 3},
		{"missing separator", "Bun\nThreshold: 1\nStarting: 1\nPatty\n", 4},
		{"truncated block", "Bun\nThreshold: 1\n", 3},
		{"duplicate", "Bun\nThreshold: 1\nStarting: 1\n\nBun\nThreshold: 1\nStarting: 1\n\n", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rest, err := domain.NewRestaurant(1)
			require.NoError(t, err)
			err = LoadIngredients("ingredients.txt", strings.NewReader(tc.input), rest)
			require.Error(t, err)
			assert.Equal(t, tc.line, lineOf(t, err))
		})
	}
}

func TestLoadMenu(t *testing.T) {
	rest := loaded(t)

	burger, ok := rest.Menu().Item("Burger")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("8.00").Equal(burger.Price()))
	assert.Equal(t, map[string]int{"Bun": 1, "Patty": 1}, burger.Requirements())

	noBun, ok := burger.Modification("No bun")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"Bun": -1, "Lettuce": 2}, noBun.IngredientDeltas())
	assert.Equal(t, "-0.50", noBun.PriceDelta().StringFixed(2))

	double, ok := burger.Modification("Double")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"Patty": 1}, double.IngredientDeltas())

	salad, ok := rest.Menu().Item("Salad")
	require.True(t, ok)
	assert.Equal(t, "5.50", salad.Price().StringFixed(2))
	assert.Empty(t, salad.Modifications())
}

func TestLoadMenuErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"bad price", "Burger\neight\n\n", 2},
		{"unknown ingredient", "Burger\n8.00\n1 Bun\n1 Cheese\n\n", 4},
		{"bad amount", "Burger\n8.00\nx Bun\n\n", 3},
		{"mod without price", "Burger\n8.00\nMod\nNo bun\n\n", 5},
		{"bad mod delta", "Burger\n8.00\nMod\nNo bun\nminus Bun\n-0.50\n\n", 5},
		{"bad mod price", "Burger\n8.00\nMod\nNo bun\n-1 Bun\nfree\n\n", 6},
		{"duplicate mod", "Burger\n8.00\nMod\nX\n0\nMod\nX\n0\n\n", 7},
		{"duplicate item", "Burger\n8.00\n\nBurger\n9.00\n\n", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rest, err := domain.NewRestaurant(1)
			require.NoError(t, err)
			require.NoError(t, rest.AddIngredient("Bun", 1, 5))
			err = LoadMenu("menu.txt", strings.NewReader(tc.input), rest)
			require.Error(t, err)
			assert.Equal(t, tc.line, lineOf(t, err))
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("1, 2, 10")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 10}, ids)

	_, err = ParseIDs("1,2")
	assert.ErrorIs(t, err, ErrSyntax)
	_, err = ParseIDs("")
	assert.ErrorIs(t, err, ErrSyntax)
}
