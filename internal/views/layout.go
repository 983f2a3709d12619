// Package views holds the site's HTML components. Each page is a
// templ.Component; Page wraps one in the shared layout with navigation,
// the notification surface, and the footer.
package views

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/bytehatacademy/academy/internal/csrf"
	"github.com/bytehatacademy/academy/internal/notify"
)

const siteName = "ByteHat Academy"

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// MetaTag is emitted as <meta http-equiv> in every page head.
type MetaTag struct {
	HTTPEquiv string
	Content   string
}

// Page carries the per-request data the layout needs.
type Page struct {
	Title       string
	Description string
	// Path is the request path, used for the active nav link and as the
	// return target of the theme toggle.
	Path      string
	Theme     string
	CSRFToken string
	Query     string
	Year      int
	Meta      []MetaTag
	Toasts    []notify.Notification
}

// FullTitle is the document title.
func (p Page) FullTitle() string {
	if p.Title == "" {
		return siteName
	}
	return p.Title + " | " + siteName
}

// NextTheme is the theme the toggle switches to.
func (p Page) NextTheme() string {
	if p.Theme == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Render wraps body in the site layout.
func Render(p Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.render(templ.WithChildren(ctx, body), Layout(p))
	})
}

// Layout renders the document shell around its children.
func Layout(p Page) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		theme := p.Theme
		if theme != ThemeLight {
			theme = ThemeDark
		}

		b.raw(`<!DOCTYPE html><html lang="en" data-theme="`, theme, `"><head><meta charset="utf-8">`)
		b.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		for _, m := range p.Meta {
			b.raw(`<meta http-equiv="`)
			b.text(m.HTTPEquiv)
			b.raw(`" content="`)
			b.text(m.Content)
			b.raw(`">`)
		}
		b.raw(`<title>`)
		b.text(p.FullTitle())
		b.raw(`</title>`)
		if p.Description != "" {
			b.raw(`<meta name="description" content="`)
			b.text(p.Description)
			b.raw(`">`)
		}
		b.raw(`<link rel="stylesheet" href="/static/app.css"></head><body>`)

		b.render(ctx, navbar(p))
		b.render(ctx, Toasts(p.Toasts, p.CSRFToken))
		b.raw(`<main><div class="container">`)
		b.render(ctx, templ.GetChildren(ctx))
		b.raw(`</div></main>`)
		b.render(ctx, footer(p))

		b.raw(`<script src="/static/app.js" defer></script></body></html>`)
	})
}

var navLinks = []struct {
	href, label string
}{
	{"/", "Home"},
	{"/courses", "Courses"},
	{"/blog", "Blog"},
	{"/about", "About"},
	{"/contact", "Contact"},
}

func isActive(path, href string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

func navbar(p Page) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<nav class="site"><div class="container">`)
		b.raw(`<a class="brand" href="/">ByteHat<span>Academy</span></a><div class="links">`)
		for _, l := range navLinks {
			b.raw(`<a href="`, l.href, `"`)
			if isActive(p.Path, l.href) {
				b.raw(` class="active" aria-current="page"`)
			}
			b.raw(`>`, l.label, `</a>`)
		}
		b.raw(`</div>`)

		b.raw(`<form class="search-bar" action="/search" method="get" role="search">`)
		b.raw(`<input id="search-input" type="search" name="q" placeholder="Search courses and articles" autocomplete="off" value="`)
		b.text(p.Query)
		b.raw(`"><div id="search-dropdown" class="search-dropdown" hidden></div></form>`)

		b.raw(`<form action="/theme" method="post">`)
		b.render(ctx, csrfField(p.CSRFToken))
		b.raw(`<input type="hidden" name="return" value="`)
		b.text(p.Path)
		b.raw(`"><input type="hidden" name="theme" value="`, p.NextTheme(), `">`)
		b.raw(`<button class="btn secondary" type="submit" aria-label="Toggle theme">`)
		if p.NextTheme() == ThemeLight {
			b.raw(`Light`)
		} else {
			b.raw(`Dark`)
		}
		b.raw(`</button></form>`)

		b.raw(`</div></nav>`)
	})
}

// Toasts renders the active notifications, oldest first. data-duration is
// the time each toast has left, so the page script removes it when the
// server-side surface does.
func Toasts(active []notify.Notification, token string) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		now := time.Now()
		b.raw(`<div id="toasts" class="toasts" aria-live="polite">`)
		for _, n := range active {
			id := templ.EscapeString(n.ID)
			b.raw(`<div id="toast-`, id, `" class="toast toast-`, string(n.Severity), `" role="status" data-id="`, id,
				`" data-duration="`, strconv.FormatInt(n.Remaining(now).Milliseconds(), 10), `"><p>`)
			b.text(n.Text)
			b.raw(`</p><form action="/notifications/`, id, `/dismiss" method="post">`)
			b.render(ctx, csrfField(token))
			b.raw(`<button type="submit" aria-label="Dismiss">&times;</button></form></div>`)
		}
		b.raw(`</div>`)
	})
}

func csrfField(token string) templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<input type="hidden" name="`, csrf.FieldName, `" value="`)
		b.text(token)
		b.raw(`">`)
	})
}

func footer(p Page) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<footer class="site"><div class="container"><div class="cols">`)

		b.raw(`<div><h3>ByteHat Academy</h3><p>Empowering the next generation of cybersecurity professionals through hands-on training and cutting-edge education.</p>`)
		b.raw(`<p><a href="https://x.com/ByteHatAcademy" rel="noopener noreferrer" target="_blank">X</a> · `)
		b.raw(`<a href="https://www.linkedin.com/company/bytehatacademy/" rel="noopener noreferrer" target="_blank">LinkedIn</a> · `)
		b.raw(`<a href="https://www.instagram.com/bytehatacademy" rel="noopener noreferrer" target="_blank">Instagram</a> · `)
		b.raw(`<a href="mailto:bytehatacademy@gmail.com">Email</a></p></div>`)

		b.raw(`<div><h4>Quick Links</h4><ul>`)
		b.raw(`<li><a href="/courses">Courses</a></li><li><a href="/about">About Us</a></li>`)
		b.raw(`<li><a href="/blog">Blog</a></li><li><a href="/contact">Contact</a></li></ul></div>`)

		b.raw(`<div><h4>Quick Contact</h4><p>Have a question? Send us a quick message.</p>`)
		b.raw(`<form class="stacked" action="/contact/quick" method="post" data-submit-once>`)
		b.render(ctx, csrfField(p.CSRFToken))
		b.raw(`<input type="hidden" name="return" value="`)
		b.text(p.Path)
		b.raw(`"><input type="email" name="email" placeholder="Your email" required>`)
		b.raw(`<textarea name="message" rows="3" placeholder="Your message" required></textarea>`)
		b.raw(`<button class="btn" type="submit" data-busy="Sending...">Send Message</button></form></div>`)

		b.raw(`</div><p class="copy">&copy; `, strconv.Itoa(p.Year), ` ByteHat Academy. All rights reserved.</p></div></footer>`)
	})
}
