// ABOUTME: Embeds web/static/ CSS for serving under /static/.
package web

import "embed"

//go:embed static/css/*.css
var StaticFS embed.FS
