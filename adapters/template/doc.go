// Package lettertemplate renders the bilingual internship offer letter as a
// self-contained HTML document.
//
// The renderer validates the record, resolves fonts into inline @font-face
// rules, and executes a Django-style template through pongo2. User-entered
// fields are HTML-escaped before they reach the template; the template marks
// them safe so the output does not depend on engine autoescape settings.
package lettertemplate
