package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/config"
)

func TestParsePizza(t *testing.T) {
	cases := []struct {
		arg string
		want services.PizzaChoice
	}{
		{"cowabunga-classic:medium", services.PizzaChoice{PizzaID: "cowabunga-classic", Size: "medium"}},
		{"build-your-own:large:thin-ninja:bacon+olives:2", services.PizzaChoice{
			PizzaID: "build-your-own", Size: "large", Crust: "thin-ninja", Toppings: []string{"bacon", "olives"}, Quantity: 2,
		}},
		{"cowabunga-classic:small::none", services.PizzaChoice{PizzaID: "cowabunga-classic", Size: "small", Toppings: []string{}}},
	}
	for _, tc := range cases {
		got, err := parsePizza(tc.arg)
		require.NoError(t, err, tc.arg)
		assert.Equal(t, tc.want, got, tc.arg)
	}

	got, err := parsePizza("cowabunga-classic:small:")
	require.NoError(t, err)
	assert.Nil(t, got.Toppings, "omitted toppings keep the defaults")

	for _, bad := range []string{"cowabunga-classic", "a:b:c:d:e:f", "a:b:c:d:two"} {
		_, err := parsePizza(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBeverage(t *testing.T) {
	got, err := parseBeverage("mutant-ooze:large:3")
	require.NoError(t, err)
	assert.Equal(t, services.BeverageChoice{BeverageID: "mutant-ooze", Size: "large", Quantity: 3}, got)

	_, err = parseBeverage("mutant-ooze")
	assert.Error(t, err)
	_, err = parseBeverage("mutant-ooze:large:x")
	assert.Error(t, err)
}

var orderIDPattern = regexp.MustCompile(`ORD-[0-9a-f-]+`)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", filepath.Join(dir, "data"), "--store", "flatfile", "--disk", "local"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPickupOrderFromTheCommandLine(t *testing.T) {
	dir := t.TempDir()
	config.Set("STORAGE_LOCAL_ROOT", filepath.Join(dir, "disk"))

	out, err := run(t, dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "3 records created")

	out, err = run(t, dir, "order", "place", "--user", "customer", "--type", "pickup",
		"--payment", "Cash", "--pizza", "cowabunga-classic:medium::pepperoni")
	require.NoError(t, err)
	assert.Contains(t, out, "$15.65")
	id := orderIDPattern.FindString(out)
	require.NotEmpty(t, id)

	for _, ev := range []string{"start-prep", "mark-ready", "pick-up"} {
		_, err = run(t, dir, "order", "advance", id, ev)
		require.NoError(t, err, ev)
	}

	_, err = run(t, dir, "order", "cancel", id)
	assert.Error(t, err, "delivered orders cannot be cancelled")

	out, err = run(t, dir, "order", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Delivered")
	assert.Contains(t, out, "pick-up")

	out, err = run(t, dir, "report", "daily")
	require.NoError(t, err)
	assert.Regexp(t, `Cash / card\s+\$15\.65 / \$0\.00`, out)

	_, err = run(t, dir, "reset-sales")
	assert.ErrorIs(t, err, services.ErrConfirmationRequired)

	out, err = run(t, dir, "reset-sales", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 orders")

	out, err = run(t, dir, "order", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders.")
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "/api/orders/{id}/cancel")
	assert.Contains(t, out, "driver.claim")
}

func TestNewScheduler(t *testing.T) {
	s, err := newScheduler(nil, "off")
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = newScheduler(nil, "every night")
	assert.Error(t, err)

	s, err = newScheduler(nil, "30 2 * * *")
	require.NoError(t, err)
	assert.Equal(t, []string{"backup  [30 2 * * *]"}, s.List())
}
