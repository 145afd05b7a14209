package torchscript

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

const (
	headerT  = "header"
	initT    = "init"
	forwardT = "forward"
)

// templates reads section templates from a provided filesystem.
type templates struct {
	FS fs.FS
}

//go:embed templates/*.py.tpl
var templateFS embed.FS

// torchTemplates is the single template reader used across the package.
var torchTemplates = &templates{FS: templateFS}

// Read returns the template with the given name. Templates are embedded so a
// missing template is a programming error.
func (tr *templates) Read(name string) string {
	content, err := fs.ReadFile(tr.FS, path.Join("templates", name+".py.tpl"))
	if err != nil {
		panic(fmt.Sprintf("failed to load template %s: %v", name, err))
	}
	return string(content)
}
