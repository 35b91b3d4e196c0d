package lettertemplate

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded letter templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "assets")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
