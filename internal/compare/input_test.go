package compare_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"regionprice/internal/compare"
)

func TestParseAppID(t *testing.T) {
	t.Parallel()

	ok := map[string]string{
		"389801252":  "389801252",
		" id389801252 ": "389801252",
		"https://apps.apple.com/us/app/instagram/id389801252":        "389801252",
		"https://apps.apple.com/gb/app/id389801252?l=en&mt=8":        "389801252",
		"apps.apple.com/tr/app/video-editor/id1500855883?platform=x": "1500855883",
	}
	for in, want := range ok {
		got, err := compare.ParseAppID(in)
		require.NoErrorf(t, err, "input %q", in)
		require.Equal(t, want, got)
	}

	for _, in := range []string{"", "abc", "https://example.com/id123", "https://apps.apple.com/us/app/name"} {
		_, err := compare.ParseAppID(in)
		require.ErrorIsf(t, err, compare.ErrInvalidAppID, "input %q", in)
	}
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	got, err := compare.ParseCurrency(" sgd ")
	require.NoError(t, err)
	require.Equal(t, "SGD", got)

	for _, in := range []string{"", "US", "USDT", "U$D"} {
		_, err := compare.ParseCurrency(in)
		require.ErrorIsf(t, err, compare.ErrInvalidCurrency, "input %q", in)
	}
}
