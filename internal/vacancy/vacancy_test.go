package vacancy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

func TestParseValidFile(t *testing.T) {
	data := []byte(`[
		{"en": "Driver", "ru": "Водитель", "es": "Conductor"},
		{"en": "Cook", "de": "Koch"}
	]`)
	c, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	assert.Equal(t, []string{"Водитель", "Cook"}, c.Labels(i18n.Russian))
	assert.Equal(t, []string{"Conductor", "Cook"}, c.Labels(i18n.Spanish))

	l, ok := c.Find(i18n.Russian, "Driver")
	require.True(t, ok, "english fallback must match in any language")
	assert.Equal(t, "Водитель", l.Label(i18n.Russian))

	_, ok = c.Find(i18n.English, "Водитель")
	assert.False(t, ok, "a russian label does not match in english")
}

func TestParseRejectsMissingEnglish(t *testing.T) {
	_, err := Parse([]byte(`[{"ru": "Водитель"}]`))
	assert.Error(t, err)
}

func TestParseRejectsEmptyEnglish(t *testing.T) {
	_, err := Parse([]byte(`[{"en": ""}]`))
	assert.Error(t, err)
}

func TestParseRejectsNonArray(t *testing.T) {
	_, err := Parse([]byte(`{"en": "Driver"}`))
	assert.Error(t, err)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := Load(context.Background(), filepath.Join(dir, "nope.json"))
	assert.Equal(t, 0, missing.Len())

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("[{"), 0o600))
	assert.Equal(t, 0, Load(context.Background(), broken).Len())
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacancies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"en": "Driver"}]`), 0o600))
	c := Load(context.Background(), path)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Driver", c.Listings()[0].Fallback)
}

func TestCatalogIsDetachedFromInput(t *testing.T) {
	labels := map[i18n.Language]string{i18n.English: "Driver"}
	c := NewCatalog(Listing{Labels: labels, Fallback: "Driver"}, Listing{Labels: nil})
	labels[i18n.English] = "Changed"

	require.Equal(t, 1, c.Len(), "listing without fallback is skipped")
	assert.Equal(t, "Driver", c.Labels(i18n.English)[0])

	var nilCatalog *Catalog
	assert.Equal(t, 0, nilCatalog.Len())
	_, ok := nilCatalog.Find(i18n.English, "Driver")
	assert.False(t, ok)
}
