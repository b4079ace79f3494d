package layout

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Data holds the variables available to path and content templates.
type Data struct {
	ProjectName string // e.g., "aenzbi-business"
	DisplayName string // e.g., "Aenzbi-Business"
	Description string
	Year        int
}

// NewData derives template data for a project name.
func NewData(projectName, description string) Data {
	return Data{
		ProjectName: projectName,
		DisplayName: cases.Title(language.English).String(projectName),
		Description: description,
		Year:        time.Now().Year(),
	}
}

// Plan is a resolved layout. All paths are relative to the invocation root
// and already cleaned.
type Plan struct {
	Name         string
	Root         string
	Directories  []string
	Files        []PlannedFile
	Components   []PlannedComponent
	Requirements []Requirement
}

// PlannedFile is a file with its final path and rendered content.
type PlannedFile struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// PlannedComponent is a resolved component.
type PlannedComponent struct {
	Name  string
	Dir   string
	Tools []Tool
	Files []PlannedFile
}

// Resolve expands every path and content template against d. Common files
// are placed at the invocation root; component files under their component
// directory inside the project root.
func (l *Layout) Resolve(d Data) (*Plan, error) {
	if d.Description == "" {
		d.Description = l.Description
	}

	root, err := resolvePath(l.Root, d)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	plan := &Plan{
		Name:         l.Name,
		Root:         root,
		Requirements: l.Requirements,
	}

	for i, dir := range l.Directories {
		p, err := resolvePath(dir, d)
		if err != nil {
			return nil, fmt.Errorf("directories[%d]: %w", i, err)
		}
		plan.Directories = append(plan.Directories, p)
	}

	plan.Files, err = l.resolveFiles("", l.Files, d)
	if err != nil {
		return nil, err
	}

	for _, c := range l.Components {
		rel, err := resolvePath(c.Dir, d)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		dir := filepath.Join(root, rel)
		files, err := l.resolveFiles(dir, c.Files, d)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		plan.Components = append(plan.Components, PlannedComponent{
			Name:  c.Name,
			Dir:   dir,
			Tools: c.Tools,
			Files: files,
		})
	}

	return plan, nil
}

func (l *Layout) resolveFiles(base string, specs []FileSpec, d Data) ([]PlannedFile, error) {
	files := make([]PlannedFile, 0, len(specs))
	for _, spec := range specs {
		rel, err := resolvePath(spec.Path, d)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", spec.Path, err)
		}
		content, err := l.renderContent(spec, d)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", spec.Path, err)
		}
		mode, err := parseMode(spec.Mode)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", spec.Path, err)
		}
		files = append(files, PlannedFile{
			Path:    filepath.Join(base, rel),
			Content: content,
			Mode:    mode,
		})
	}
	return files, nil
}

func (l *Layout) renderContent(spec FileSpec, d Data) ([]byte, error) {
	var text string
	switch {
	case spec.Template != "":
		if l.templates == nil {
			return nil, fmt.Errorf("template %s: no template source", spec.Template)
		}
		raw, err := fs.ReadFile(l.templates, spec.Template)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", spec.Template, err)
		}
		text = string(raw)
	case spec.Content != "":
		text = spec.Content
	default:
		return []byte{}, nil
	}
	if spec.Raw {
		return []byte(text), nil
	}
	return execute(spec.Path, text, d)
}

// resolvePath renders a path template and rejects results that are absolute
// or climb out of the invocation root.
func resolvePath(tmpl string, d Data) (string, error) {
	out, err := execute(tmpl, tmpl, d)
	if err != nil {
		return "", err
	}
	p := filepath.Clean(filepath.FromSlash(string(out)))
	if p == "." || p == "" {
		return "", fmt.Errorf("path %q resolves to the root itself", tmpl)
	}
	if filepath.IsAbs(p) || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the project root", tmpl)
	}
	return p, nil
}

func execute(name, text string, d Data) ([]byte, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func parseMode(s string) (fs.FileMode, error) {
	if s == "" {
		return DefaultFileMode, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	return fs.FileMode(v), nil
}
