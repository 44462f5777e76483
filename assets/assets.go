// Package assets embeds the viewer page sources.
package assets

import _ "embed"

// IndexTemplate is the page skeleton; CSS and JS are inlined at startup.
//
//go:embed index.html.tpl
var IndexTemplate string

//go:embed style.css
var Style string

//go:embed script.js
var Script string
