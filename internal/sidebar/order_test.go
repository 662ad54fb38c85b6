package sidebar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderKey_LandingPage_ReturnsZero(t *testing.T) {
	require.EqualValues(t, 0, OrderKey("index.md"))
}

func TestOrderKey_LeftmostDigitRun_Wins(t *testing.T) {
	cases := []struct {
		name string
		want int64
	}{
		{"10-guide.md", 10},
		{"2-quickstart.md", 2},
		{"a2b30.md", 2}, // leftmost run "2", not "30"
		{"007-intro.md", 7},
		{"install-v3.md", 3},
	}
	for _, tc := range cases {
		require.EqualValues(t, tc.want, OrderKey(tc.name), tc.name)
	}
}

func TestOrderKey_NoDigits_ReturnsSentinel(t *testing.T) {
	require.EqualValues(t, 999, OrderKey("about.md"))
	require.EqualValues(t, 999, OrderKey("faq.markdown"))
	require.EqualValues(t, 999, OrderKey(""))
}

func TestOrderKey_OverflowingDigitRun_SortsAfterEverything(t *testing.T) {
	huge := OrderKey("999999999999999999999999999999-x.md")
	require.Greater(t, huge, OrderKey("about.md"))
	require.Greater(t, huge, OrderKey("998-x.md"))
}

func TestFilterAndSort_RemovesIgnoreArtifact(t *testing.T) {
	in := []string{".DS_Store", "1-a.md", ".DS_Store", "2-b.md", ".DS_Store"}
	out := FilterAndSort(in)
	require.Equal(t, []string{"1-a.md", "2-b.md"}, out)
}

func TestFilterAndSort_Stable_TiesKeepInputOrder(t *testing.T) {
	in := []string{"zeta.md", "about.md", "misc.md"}
	out := FilterAndSort(in)
	// All sentinel keys: relative order must be preserved.
	require.Equal(t, in, out)
}

func TestFilterAndSort_Idempotent(t *testing.T) {
	in := []string{"about.md", "index.md", "10-install.md", "2-quickstart.md", ".DS_Store", "99-faq.md"}
	once := FilterAndSort(in)
	twice := FilterAndSort(once)
	require.Equal(t, once, twice)
}

func TestFilterAndSort_EndToEndExample(t *testing.T) {
	in := []string{"about.md", "index.md", "10-install.md", "2-quickstart.md", ".DS_Store", "99-faq.md"}
	out := FilterAndSort(in)
	require.Equal(t, []string{"index.md", "2-quickstart.md", "10-install.md", "99-faq.md", "about.md"}, out)
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	in := []string{"9-z.md", "1-a.md"}
	_ = FilterAndSort(in)
	require.Equal(t, []string{"9-z.md", "1-a.md"}, in)
}

func TestFilterAndSort_EmptyInput_EmptyOutput(t *testing.T) {
	require.Empty(t, FilterAndSort(nil))
	require.Empty(t, FilterAndSort([]string{}))
}
