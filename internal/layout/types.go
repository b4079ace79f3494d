package layout

import "io/fs"

// Layout is a parsed Project Layout manifest. Paths and contents are still
// templates; call Resolve to obtain concrete values.
type Layout struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Root         string        `yaml:"root" json:"root"`
	Directories  []string      `yaml:"directories" json:"directories"`
	Files        []FileSpec    `yaml:"files,omitempty" json:"files,omitempty"`
	Components   []Component   `yaml:"components,omitempty" json:"components,omitempty"`
	Requirements []Requirement `yaml:"requirements,omitempty" json:"requirements,omitempty"`

	// templates is where FileSpec.Template names are looked up.
	templates fs.FS
}

// FileSpec declares one file. With neither Template nor Content set the
// file is written empty. Raw copies the template or content verbatim, for
// files whose text contains "{{" of its own (JSX, Handlebars, Helm).
type FileSpec struct {
	Path     string `yaml:"path" json:"path"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
	Mode     string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Raw      bool   `yaml:"raw,omitempty" json:"raw,omitempty"`
}

// Component is a subtree of the project (backend, web, mobile) populated by
// external tools and stub files.
type Component struct {
	Name  string     `yaml:"name" json:"name"`
	Dir   string     `yaml:"dir" json:"dir"`
	Tools []Tool     `yaml:"tools,omitempty" json:"tools,omitempty"`
	Files []FileSpec `yaml:"files,omitempty" json:"files,omitempty"`
}

// Tool is an external generator invocation. Args are passed verbatim; no
// shell is involved.
type Tool struct {
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Command string   `yaml:"command" json:"command"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// DisplayName returns Name, or Command when no name was given.
func (t Tool) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Command
}

// Requirement is a host tool the layout expects on PATH.
type Requirement struct {
	Name        string   `yaml:"name" json:"name"`
	VersionArgs []string `yaml:"version_args,omitempty" json:"version_args,omitempty"`
	MinVersion  string   `yaml:"min_version,omitempty" json:"min_version,omitempty"`
}

// DefaultFileMode applies to files that do not declare a mode.
const DefaultFileMode fs.FileMode = 0644
