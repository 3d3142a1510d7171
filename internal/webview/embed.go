// ABOUTME: Embeds HTML templates into the binary using go:embed
// ABOUTME: Provides templateFS for loading templates at runtime

package webview

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
