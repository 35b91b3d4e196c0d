package letter

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FontEmbedMode selects how resolved fonts are referenced from markup.
type FontEmbedMode string

const (
	// FontEmbedDataURI inlines font bytes as base64 data URIs.
	FontEmbedDataURI FontEmbedMode = "data-uri"
	// FontEmbedFilePath references fonts by absolute file:// URL.
	FontEmbedFilePath FontEmbedMode = "file-path"
)

// FontSpec names one font face the letter depends on.
type FontSpec struct {
	Family string
	File   string
}

// DefaultFontSpecs covers the Latin and Devanagari ranges the letter uses.
func DefaultFontSpecs() []FontSpec {
	return []FontSpec{
		{Family: "Noto Sans", File: "NotoSans-Regular.ttf"},
		{Family: "Noto Sans Devanagari", File: "NotoSansDevanagari-Regular.ttf"},
	}
}

// ResolvedFont is a font face located on disk.
type ResolvedFont struct {
	Family string
	Path   string
	Size   int64
}

// FontResolver locates the font files referenced by the letter template.
// A missing file is a font-resolution failure, never a silent fallback.
type FontResolver struct {
	Dir   string
	Faces []FontSpec
	Embed FontEmbedMode
}

// NewFontResolver creates a resolver over dir with the default faces.
func NewFontResolver(dir string) *FontResolver {
	return &FontResolver{Dir: dir, Faces: DefaultFontSpecs(), Embed: FontEmbedDataURI}
}

// Resolve locates every configured face on disk.
func (r *FontResolver) Resolve() ([]ResolvedFont, error) {
	if r == nil {
		return nil, NewError(KindFontResolution, "font resolver not configured", nil)
	}
	if strings.TrimSpace(r.Dir) == "" {
		return nil, NewError(KindFontResolution, "font directory not configured", nil)
	}
	faces := r.Faces
	if len(faces) == 0 {
		faces = DefaultFontSpecs()
	}

	resolved := make([]ResolvedFont, 0, len(faces))
	for _, face := range faces {
		path := filepath.Join(r.Dir, face.File)
		info, err := os.Stat(path)
		if err != nil {
			return nil, NewError(KindFontResolution, fmt.Sprintf("font file %q not found", face.File), err)
		}
		if info.IsDir() {
			return nil, NewError(KindFontResolution, fmt.Sprintf("font file %q is a directory", face.File), nil)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		resolved = append(resolved, ResolvedFont{Family: face.Family, Path: abs, Size: info.Size()})
	}
	return resolved, nil
}

// FaceCSS renders @font-face rules for the resolved fonts, referencing each
// file per the configured embed mode.
func (r *FontResolver) FaceCSS() (string, error) {
	fonts, err := r.Resolve()
	if err != nil {
		return "", err
	}

	mode := r.Embed
	if mode == "" {
		mode = FontEmbedDataURI
	}

	var b strings.Builder
	for _, font := range fonts {
		src := ""
		switch mode {
		case FontEmbedFilePath:
			src = fmt.Sprintf("url('file://%s') format('%s')", font.Path, fontFormat(font.Path))
		default:
			uri, err := fontDataURI(font.Path)
			if err != nil {
				return "", err
			}
			src = fmt.Sprintf("url('%s') format('%s')", uri, fontFormat(font.Path))
		}
		fmt.Fprintf(&b, "@font-face { font-family: '%s'; src: %s; }\n", font.Family, src)
	}
	return b.String(), nil
}

func fontDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewError(KindFontResolution, fmt.Sprintf("font file %q unreadable", filepath.Base(path)), err)
	}
	return "data:" + fontMIME(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func fontMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".otf":
		return "font/otf"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "font/ttf"
	}
}

func fontFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".otf":
		return "opentype"
	case ".woff":
		return "woff"
	case ".woff2":
		return "woff2"
	default:
		return "truetype"
	}
}
