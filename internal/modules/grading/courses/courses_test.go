package courses

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfiles(t *testing.T) {
	r := Default()
	ee := r.Lookup("ee2101")
	assert.Equal(t, "EE2101", ee.Code)
	assert.Contains(t, ee.Persona, "EE2101")
	assert.True(t, ee.MatchesVision([]string{"Voltage Source", "Resistor"}))
	assert.False(t, ee.MatchesVision([]string{"Cat", "Tree"}))

	other := r.Lookup("MA1001")
	assert.Equal(t, "MA1001", other.Code)
	assert.Equal(t, []string{"circuit", "voltage", "current"}, other.PartialKeywords)
}

func TestLoadFromFileInheritsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default:
  persona: base persona
  vision_keywords: [gear]
  partial_keywords: [torque]
courses:
  ME1000:
    title: Mechanics
    partial_keywords: []
`), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	me := r.Lookup("ME1000")
	assert.Equal(t, "Mechanics", me.Title)
	assert.Equal(t, "base persona", me.Persona)
	assert.Equal(t, []string{"gear"}, me.VisionKeywords)
	assert.NotNil(t, me.PartialKeywords)
	assert.Empty(t, me.PartialKeywords)
	assert.Equal(t, []string{"ME1000"}, r.Codes())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Parse([]byte("courses: [not, a, map]"))
	assert.Error(t, err)
}
