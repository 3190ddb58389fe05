// Package web holds the HTML views compiled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"

	"rapidxcel/internal/pricing"
)

//go:embed templates
var templates embed.FS

// Engine returns the view engine over the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("inr", pricing.FormatINR)
	return engine
}
