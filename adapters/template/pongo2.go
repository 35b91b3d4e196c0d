package lettertemplate

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Pongo2Executor renders Django-style templates from an fs.FS. Compiled
// templates are cached; the executor is safe for concurrent use.
type Pongo2Executor struct {
	mu    sync.Mutex
	set   *pongo2.TemplateSet
	ext   string
	cache map[string]*pongo2.Template
}

// NewPongo2Executor creates an executor over files. Names without an
// extension get ext appended.
func NewPongo2Executor(files fs.FS, ext string) *Pongo2Executor {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = ".html"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Pongo2Executor{
		set:   pongo2.NewSet("letters", pongo2.NewFSLoader(files)),
		ext:   ext,
		cache: make(map[string]*pongo2.Template),
	}
}

// ExecuteTemplate implements TemplateExecutor.
func (e *Pongo2Executor) ExecuteTemplate(w io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return fmt.Errorf("pongo2 executor not initialized")
	}
	tmpl, err := e.template(name)
	if err != nil {
		return err
	}
	viewContext, err := asContext(data)
	if err != nil {
		return err
	}
	return tmpl.ExecuteWriter(viewContext, w)
}

func (e *Pongo2Executor) template(name string) (*pongo2.Template, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

func asContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	return nil, fmt.Errorf("unsupported template data type %T", data)
}
