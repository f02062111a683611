package workspace

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/aretw0/syllabus/pkg/domain"
)

//go:embed all:templates
var templatesFS embed.FS

// Template directories per project kind. Files ending in .tmpl are rendered with
// text/template and lose the suffix; everything else is copied as is.
var scaffoldDirs = map[domain.ProjectKind]string{
	domain.ProjectPrimary:   "primary",
	domain.ProjectSecondary: "secondary",
}

const templateSuffix = ".tmpl"

func builtinTemplates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	return sub
}

type scaffoldFile struct {
	path    string
	content string
}

// scaffoldData is the template context.
type scaffoldData struct {
	Project string
	Kind    domain.ProjectKind
	Topic   domain.Topic
	Package string
}

func renderScaffold(templates fs.FS, strategy domain.Strategy, topic domain.Topic) ([]scaffoldFile, error) {
	dir, ok := scaffoldDirs[strategy.Project]
	if !ok {
		return nil, fmt.Errorf("no scaffold for project kind '%s'", strategy.Project)
	}

	data := scaffoldData{
		Project: strategy.Name,
		Kind:    strategy.Project,
		Topic:   topic,
		Package: javaPackage(strategy.Name),
	}

	var files []scaffoldFile
	err := fs.WalkDir(templates, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		raw, err := fs.ReadFile(templates, p)
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(p, dir+"/")
		content := string(raw)
		if strings.HasSuffix(rel, templateSuffix) {
			rel = strings.TrimSuffix(rel, templateSuffix)
			rel = strings.ReplaceAll(rel, "__package__", path.Join(strings.Split(data.Package, ".")...))
			content, err = execute(p, content, data)
			if err != nil {
				return err
			}
		}
		files = append(files, scaffoldFile{path: rel, content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("render %s scaffold: %w", strategy.Project, err)
	}
	return files, nil
}

func execute(name, text string, data scaffoldData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// javaPackage derives a package name from a project directory: java-automation -> com.example.javaautomation.
func javaPackage(project string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(project) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "p" + name
	}
	return "com.example." + name
}
