package letterhttp

import "net/http"

// FontAssetsHandler serves the letter font directory so browser previews can
// load the same faces the PDF embeds.
func FontAssetsHandler(prefix, dir string) http.Handler {
	prefix = ensureTrailingSlash(prefix)
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return "/"
	}
	if value[len(value)-1] == '/' {
		return value
	}
	return value + "/"
}
