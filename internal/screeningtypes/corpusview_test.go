package screeningtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCorpusViewNormalizesOnce(t *testing.T) {
	view, err := NewCorpusView([]CorpusEntry{
		{SourceID: "1", ListCode: "OFAC", PrimaryName: "HSBC-Holdings", Aliases: []string{"HSBC Grp"}},
	}, nil)
	require.NoError(t, err)
	require.Len(t, view.Entries(), 1)

	entry := view.Entries()[0]
	assert.Equal(t, "hsbc holdings", entry.NormalizedPrimary)
	assert.Equal(t, []string{"hsbc grp"}, entry.NormalizedAliases)
	assert.NotEmpty(t, entry.Fingerprint)
}

func TestNewCorpusViewSkipsEmptyPrimaryName(t *testing.T) {
	view, err := NewCorpusView([]CorpusEntry{
		{SourceID: "1", ListCode: "OFAC", PrimaryName: ""},
		{SourceID: "2", ListCode: "OFAC", PrimaryName: "John Smith"},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, view.Entries(), 1)
	require.Len(t, view.LoadWarnings(), 1)
	assert.Equal(t, "1", view.LoadWarnings()[0].SourceID)
}

func TestNewCorpusViewDefaultActiveListCodes(t *testing.T) {
	view, err := NewCorpusView([]CorpusEntry{
		{SourceID: "1", ListCode: "OFAC", PrimaryName: "John Smith"},
		{SourceID: "2", ListCode: "EU", PrimaryName: "Jane Doe"},
	}, nil)
	require.NoError(t, err)
	assert.True(t, view.ActiveListCodes()["OFAC"])
	assert.True(t, view.ActiveListCodes()["EU"])
}

func TestNewCorpusViewRestrictedActiveListCodes(t *testing.T) {
	restricted := map[string]bool{"OFAC": true}
	view, err := NewCorpusView([]CorpusEntry{
		{SourceID: "1", ListCode: "OFAC", PrimaryName: "John Smith"},
	}, restricted)
	require.NoError(t, err)
	assert.False(t, view.ActiveListCodes()["EU"])
}
