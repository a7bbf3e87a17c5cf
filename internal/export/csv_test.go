package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVEscapesEmbeddedDelimiters(t *testing.T) {
	data, err := CSV(
		[]string{"name", "notes"},
		[][]string{
			{"Ana Costa", `vegan, no "shellfish"`},
			{"Luís", "line one\nline two"},
		},
	)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"vegan, no ""shellfish"""`)
	assert.Contains(t, out, "\"line one\nline two\"")
}

func TestCSVRejectsRaggedRows(t *testing.T) {
	_, err := CSV([]string{"a", "b"}, [][]string{{"only one"}})
	require.Error(t, err)
}
