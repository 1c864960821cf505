package discovery

import (
	"errors"
	"testing"
	"time"

	"github.com/Josh596/Punchng.com-webscraping/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func punchClassifier() Classifier {
	return NewClassifier(scraper.PunchSiteConfig())
}

// TestIsSectionLink_Prefixed verifies prefixed links are sections
func TestIsSectionLink_Prefixed(t *testing.T) {
	c := punchClassifier()

	assert.True(t, c.IsSectionLink("https://punchng.com/topics/news/"))
	assert.True(t, c.IsSectionLink("https://punchng.com/topics"))
}

// TestIsSectionLink_Rejects verifies empty, substring and case variants are
// not sections
func TestIsSectionLink_Rejects(t *testing.T) {
	c := punchClassifier()

	inputs := []string{
		"",
		"https://punchng.com/tags/politics",
		"/topics/news",
		"see https://punchng.com/topics/news",
		"https://example.com/?next=https://punchng.com/topics/news",
		"HTTPS://PUNCHNG.COM/TOPICS/news",
		"http://punchng.com/topics/news",
	}
	for _, href := range inputs {
		assert.False(t, c.IsSectionLink(href), "should reject %q", href)
	}
}

// TestIsTagLink verifies the tag prefix is anchored
func TestIsTagLink(t *testing.T) {
	c := punchClassifier()

	assert.True(t, c.IsTagLink("https://punchng.com/tags/economy"))
	assert.False(t, c.IsTagLink(""))
	assert.False(t, c.IsTagLink("https://punchng.com/topics/news"))
	assert.False(t, c.IsTagLink("x https://punchng.com/tags/economy"))
}

// TestClassifier_EmptyPrefix verifies an unconfigured prefix matches nothing
func TestClassifier_EmptyPrefix(t *testing.T) {
	c := Classifier{}

	assert.False(t, c.IsSectionLink("https://punchng.com/topics/news"))
	assert.False(t, c.IsTagLink("anything"))
}

// TestIsWithinTrailingWindow_Boundaries verifies the window is exclusive at
// its start
func TestIsWithinTrailingWindow_Boundaries(t *testing.T) {
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want bool
	}{
		// The window is strict: published must be after now minus 30
		// days, and 31 March minus 30 days is 1 March, so 1 March is out
		// and 2 March is the first day in.
		{"1 March 2024", false},
		{"2 March 2024", true},
		{"3 March 2024", true},
		{"1 January 2024", false},
		{"31 March 2024", true},
		{"30 March 2024", true},
	}

	for _, tt := range tests {
		got, err := IsWithinTrailingWindow(tt.date, 30, now)
		require.NoError(t, err, tt.date)
		assert.Equal(t, tt.want, got, tt.date)
	}
}

// TestIsWithinTrailingWindow_DayFormats verifies one and two digit days
func TestIsWithinTrailingWindow_DayFormats(t *testing.T) {
	now := time.Date(2022, 4, 20, 12, 0, 0, 0, time.UTC)

	got, err := IsWithinTrailingWindow("9 April 2022", 30, now)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = IsWithinTrailingWindow("09 April 2022", 30, now)
	require.NoError(t, err)
	assert.True(t, got)
}

// TestIsWithinTrailingWindow_NonUTCNow verifies the cutoff is the same
// instant whatever zone now is expressed in
func TestIsWithinTrailingWindow_NonUTCNow(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	// 2024-03-31 00:30 WAT is 2024-03-30 23:30 UTC, so the cutoff is
	// 2024-02-29 23:30 UTC
	now := time.Date(2024, 3, 31, 0, 30, 0, 0, lagos)

	got, err := IsWithinTrailingWindow("1 March 2024", 30, now)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = IsWithinTrailingWindow("29 February 2024", 30, now)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestIsWithinTrailingWindow_ParseError verifies mismatched text fails
func TestIsWithinTrailingWindow_ParseError(t *testing.T) {
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	for _, text := range []string{"", "2024-03-30", "March 30, 2024", "30 Mars 2024"} {
		_, err := IsWithinTrailingWindow(text, 30, now)
		require.Error(t, err, text)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), text)
		assert.Equal(t, text, parseErr.Text)
		assert.Equal(t, DateLayout, parseErr.Layout)
	}
}

// TestToPageIndex verifies numeric and non-numeric labels
func TestToPageIndex(t *testing.T) {
	assert.Equal(t, 3, ToPageIndex("3"))
	assert.Equal(t, 12, ToPageIndex(" 12\n"))
	assert.Equal(t, 0, ToPageIndex("Next"))
	assert.Equal(t, 0, ToPageIndex(""))
	assert.Equal(t, 0, ToPageIndex("…"))
	assert.Equal(t, 0, ToPageIndex("2.5"))
}
