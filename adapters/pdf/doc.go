// Package letterpdf converts rendered letter markup into PDF bytes.
//
// Conversion goes through a pluggable engine (wkhtmltopdf or headless
// Chromium via chromedp). Both print A4 portrait by default; the letter
// embeds its own fonts, so engines run with external assets blocked where
// the engine supports it.
package letterpdf
