package gen

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"apitier-generator/internal/common"
	"apitier-generator/internal/plan"
	"apitier-generator/internal/registry"
)

// DefaultToolName is written into the banner of generated headers.
const DefaultToolName = "apitier-generator"

// GeneratorConfig holds configuration for header generation.
type GeneratorConfig struct {
	// MacroPrefix is prepended to the gate and renaming macros ("U_" gives
	// U_HIDE_DRAFT_API and U_DISABLE_RENAMING). Symbol names are not prefixed.
	MacroPrefix string
	// Files maps each tier to its header file name. Tiers missing from the
	// map fall back to DefaultFiles.
	Files map[registry.Tier]string
	// Banner enables the machine-generated notice at the top of each header.
	Banner bool
	// ToolName is the generator name written into the banner.
	ToolName string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Files:    DefaultFiles(),
		Banner:   true,
		ToolName: DefaultToolName,
	}
}

// DefaultFiles returns the conventional header name of each hideable tier.
func DefaultFiles() map[registry.Tier]string {
	return map[registry.Tier]string{
		registry.TierDraft:      "udraft.h",
		registry.TierDeprecated: "udeprecated.h",
		registry.TierInternal:   "uintrnal.h",
		registry.TierObsolete:   "uobslete.h",
	}
}

// GeneratedFile represents a generated header.
type GeneratedFile struct {
	// Filename is the base name of the file (e.g., "udraft.h").
	Filename string
	// Content is the header text.
	Content []byte
}

// Generator renders rename plans as headers.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.ToolName == "" {
		config.ToolName = DefaultToolName
	}

	return &Generator{config: config}
}

// headerData holds everything the header template needs.
type headerData struct {
	Tool      string
	Banner    bool
	Filename  string
	Guard     string
	Tier      string
	Gate      string
	Renaming  string
	Unrenamed []plan.Rule
	Renamed   []plan.Rule
}

// Generate renders one header per plan block, in plan order. Nothing is
// returned unless every header renders.
func (g *Generator) Generate(p *plan.RenamePlan) ([]GeneratedFile, error) {
	if p == nil {
		return nil, errors.New("rename plan is required")
	}

	if g.config.MacroPrefix != "" && !common.IsCIdent(g.config.MacroPrefix) {
		return nil, fmt.Errorf("macro prefix %q is not a valid identifier", g.config.MacroPrefix)
	}

	files := make([]GeneratedFile, 0, len(p.Blocks))
	seen := make(map[string]registry.Tier)

	for _, block := range p.Blocks {
		name, err := g.filename(block.Tier)
		if err != nil {
			return nil, err
		}

		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("tiers %s and %s both map to header %s", other, block.Tier, name)
		}

		seen[name] = block.Tier

		content, err := g.render(name, block)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", name, err)
		}

		files = append(files, GeneratedFile{Filename: name, Content: content})
	}

	return files, nil
}

func (g *Generator) render(filename string, block plan.TierBlock) ([]byte, error) {
	data := &headerData{
		Tool:      g.config.ToolName,
		Banner:    g.config.Banner,
		Filename:  filename,
		Guard:     GuardMacro(filename),
		Tier:      block.Tier.String(),
		Gate:      g.config.MacroPrefix + block.Policy.Gate,
		Renaming:  g.config.MacroPrefix + plan.RenamingSwitch,
		Unrenamed: block.Branch(true).Rules,
		Renamed:   block.Branch(false).Rules,
	}

	var buf bytes.Buffer
	if err := headerTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) filename(t registry.Tier) (string, error) {
	name := g.config.Files[t]
	if name == "" {
		name = DefaultFiles()[t]
	}

	if name == "" {
		return "", fmt.Errorf("no header file name for tier %s", t)
	}

	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("header file name %q for tier %s must not contain a directory", name, t)
	}

	return name, nil
}

// GuardMacro derives an include guard from a file name: "udraft.h" -> "UDRAFT_H".
func GuardMacro(filename string) string {
	guard := common.IdentFragment(strings.ToUpper(filename))
	if !common.IsCIdent(guard) {
		guard = "H_" + guard
	}

	return guard
}

var headerTemplate = template.Must(template.New("header").Parse(`{{if .Banner}}/*
 * Code generated by {{.Tool}}. DO NOT EDIT.
 *
 * file name: {{.Filename}}
 *
 * Redirects {{.Tier}} API symbols to unusable names when {{.Gate}}
 * is defined, so that code still calling them fails to link.
 */

{{end}}#ifndef {{.Guard}}
#define {{.Guard}}

#ifdef {{.Gate}}

#  if {{.Renaming}}
{{range .Unrenamed}}#    define {{.From}} {{.To}}
{{end}}#  else
{{range .Renamed}}#    define {{.From}} {{.To}}
{{end}}#  endif /* {{.Renaming}} */

#endif /* {{.Gate}} */
#endif /* {{.Guard}} */
`))
