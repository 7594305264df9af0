package familylib

import (
	"testing"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/family"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinFamilies(t *testing.T) {
	assert.Equal(t, []string{
		"escmid/2025/programme",
		"escmid/2025/programme-html",
		"escmid/2025/session",
		"idweek/2025/faculty",
		"idweek/2025/poster",
		"idweek/2025/session",
	}, family.Store.Names())

	table, err := family.Store.Lookup("ESCMID/2025/programme")
	require.NoError(t, err)
	assert.Equal(t, document.Text, table.Kind)
	assert.NotNil(t, table.Container)
}
