package store

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/errors"
)

func TestParseListOptions_Pagination(t *testing.T) {
	opts, err := ParseListOptions(ListOptions{}, url.Values{
		"limit":  {"2"},
		"offset": {"2"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Limit)
	assert.Equal(t, 2, opts.Offset)
}

func TestParseListOptions_BadLimitIsHardError(t *testing.T) {
	_, err := ParseListOptions(ListOptions{}, url.Values{"limit": {"abc"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = ParseListOptions(ListOptions{}, url.Values{"offset": {"-1"}}, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestParseListOptions_ActivePresence(t *testing.T) {
	// active="" still counts; it's the presence that matters.
	opts, err := ParseListOptions(ListOptions{}, url.Values{"active": {""}}, nil)
	require.NoError(t, err)
	assert.True(t, opts.ActiveOnly)

	opts, err = ParseListOptions(ListOptions{}, url.Values{}, nil)
	require.NoError(t, err)
	assert.False(t, opts.ActiveOnly)
}

func TestParseListOptions_Includes(t *testing.T) {
	opts, err := ParseListOptions(ListOptions{}, url.Values{
		"withStories": {""},
		"withAuthors": {""},
		"withBogus":   {""},
		"with":        {""},
	}, []string{"stories", "authors"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stories", "authors"}, opts.Include)
	assert.True(t, opts.WithInclude("stories"))
	assert.False(t, opts.WithInclude("bogus"))
}

func TestParseListOptions_BaseIsPreserved(t *testing.T) {
	base := ListOptions{Limit: 50, Name: "flintstone"}
	opts, err := ParseListOptions(base, url.Values{}, nil)
	require.NoError(t, err)
	assert.Equal(t, base, opts)
}
