package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"regionprice/internal/catalog"
)

func TestDefault_CollapsesDuplicates(t *testing.T) {
	t.Parallel()

	c := catalog.Default()
	seen := map[string]bool{}
	for _, r := range c.All() {
		require.Falsef(t, seen[r.Code], "duplicate region %s", r.Code)
		seen[r.Code] = true
		require.Len(t, r.Code, 2)
		require.NotEmpty(t, r.Name)
	}
	require.Equal(t, 163, c.Len())

	fj, ok := c.Lookup("fj")
	require.True(t, ok)
	require.Equal(t, "Fiji", fj.Name)
}

func TestBaseRegion(t *testing.T) {
	t.Parallel()

	c := catalog.Default()
	cases := map[string]string{
		"USD": "US",
		"gbp": "GB",
		"JPY": "JP",
		"AUD": "AU",
		"EUR": "DZ", // no "EU" storefront; first catalog entry
		"X":   "DZ",
		"":    "DZ",
	}
	for currency, want := range cases {
		require.Equalf(t, want, c.BaseRegion(currency).Code, "currency %q", currency)
	}
}

func TestBaseRegion_EmptyCatalog(t *testing.T) {
	t.Parallel()

	require.Equal(t, catalog.Region{}, catalog.New(nil).BaseRegion("USD"))
}

func TestSubset(t *testing.T) {
	t.Parallel()

	c := catalog.New([]catalog.Region{{Code: "US", Name: "United States"}, {Code: "de", Name: "Germany"}, {Code: "JP", Name: "Japan"}})

	sub, err := c.Subset([]string{"jp", "US"})
	require.NoError(t, err)
	require.Equal(t, []catalog.Region{{Code: "US", Name: "United States"}, {Code: "JP", Name: "Japan"}}, sub.All())

	same, err := c.Subset(nil)
	require.NoError(t, err)
	require.Equal(t, 3, same.Len())

	_, err = c.Subset([]string{"ZZ"})
	require.Error(t, err)
}

func TestAll_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := catalog.New([]catalog.Region{{Code: "US", Name: "United States"}})
	all := c.All()
	all[0].Name = "changed"
	r, _ := c.Lookup("US")
	require.Equal(t, "United States", r.Name)
}
