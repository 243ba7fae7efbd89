package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	yaml := `
version: "1"
defaults:
  tier: draft
  introduced: "3.5"
symbols:
  - name: ucsdet_open
  - name: utext_clone
    introduced: "3.4"
  - name: u_init
    tier: stable
    introduced: "2.6"
`

	m, err := ParseManifest([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", m.Version)
	require.Len(t, m.Symbols, 3)

	decls := m.Declarations()
	assert.Equal(t, []Declaration{
		{Name: "ucsdet_open", Tier: "draft", IntroducedVersion: "3.5"},
		{Name: "utext_clone", Tier: "draft", IntroducedVersion: "3.4"},
		{Name: "u_init", Tier: "stable", IntroducedVersion: "2.6"},
	}, decls)
}

func TestParseManifest_Minimal(t *testing.T) {
	m, err := ParseManifest([]byte("symbols:\n  - name: a\n    tier: draft\n"))
	require.NoError(t, err)

	assert.Equal(t, ManifestVersion, m.Version)
	require.Len(t, m.Symbols, 1)
	assert.Empty(t, m.Declarations()[0].IntroducedVersion)
}

func TestParseManifest_Empty(t *testing.T) {
	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Symbols)
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "symbols:\n  - name: a\n    teir: draft\n",
			want: "field teir not found",
		},
		{
			name: "unsupported version",
			yaml: "version: \"2\"\nsymbols: []\n",
			want: `unsupported registry manifest version "2"`,
		},
		{
			name: "malformed",
			yaml: "symbols: [",
			want: "failed to parse registry manifest YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadManifest_RecordsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := "defaults:\n  tier: draft\n  introduced: \"3.5\"\nsymbols:\n  - name: utext_clone\n  - name: utext_clone\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	decls := m.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, path+":5", decls[0].Source)
	assert.Equal(t, path+":6", decls[1].Source)

	_, diags := Build(decls)

	var dup *DuplicateSymbolError
	require.ErrorAs(t, diags.Err(), &dup)
	assert.Equal(t, path+":5", dup.FirstSource)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifestFromDeclarations(t *testing.T) {
	m := ManifestFromDeclarations([]Declaration{
		{Name: "utext_setup", Tier: "draft", IntroducedVersion: "3.4"},
		{Name: "u_fclose", Tier: "Draft", IntroducedVersion: "3.0"},
	})

	data, err := MarshalManifest(m)
	require.NoError(t, err)

	assert.Equal(t, `version: "1"
symbols:
  - name: u_fclose
    tier: draft
    introduced: "3.0"
  - name: utext_setup
    tier: draft
    introduced: "3.4"
`, string(data))

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteManifest(m, path))

	back, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, back.Symbols, 2)
}
