// Package views renders the HTML pages served by the web package.
// Components are written in templ; run `templ generate` after editing a
// .templ file.
package views
