package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	// An exact title wins even when a fuzzier strategy would also hit.
	titles := []string{"Asha Rao", "asha rao", "Asha"}

	got, err := Resolve(titles, "asha rao")
	require.NoError(t, err)
	assert.Equal(t, "asha rao", got)

	got, err = Resolve(titles, "Asha Rao")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got)
}

func TestResolveCaseFold(t *testing.T) {
	got, err := Resolve([]string{"ASHA RAO"}, "asha rao")
	require.NoError(t, err)
	assert.Equal(t, "ASHA RAO", got)
}

func TestResolveSubstring(t *testing.T) {
	titles := []string{"Winnish Allwin G J", "Sheet1", "Template"}

	got, err := Resolve(titles, "Winnish")
	require.NoError(t, err)
	assert.Equal(t, "Winnish Allwin G J", got)

	// Also the other direction: short tab title, long account name.
	got, err = Resolve([]string{"Asha"}, "Asha Rao")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got)
}

func TestResolveTokenOverlap(t *testing.T) {
	// No substring relation between the full strings, but a shared token.
	got, err := Resolve([]string{"Rao, Asha"}, "Asha K")
	require.NoError(t, err)
	assert.Equal(t, "Rao, Asha", got)
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve([]string{"Vikram", "Meera"}, "Asha")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestResolveExactRejectsNearMatches(t *testing.T) {
	titles := []string{"Winnish Allwin G J"}

	_, err := ResolveExact(titles, "Winnish")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	got, err := ResolveExact(titles, "Winnish Allwin G J")
	require.NoError(t, err)
	assert.Equal(t, "Winnish Allwin G J", got)
}

func TestListDataSheets(t *testing.T) {
	titles := []string{
		"Winnish Allwin G J",
		"Sheet1",
		"Template",
		"KPI Example",
		"  ",
		"Asha Rao",
	}

	assert.Equal(t, []string{"Winnish Allwin G J", "Asha Rao"}, ListDataSheets(titles))
}
