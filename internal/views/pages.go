package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/bytehatacademy/academy/internal/content"
	"github.com/bytehatacademy/academy/internal/search"
)

// ContactForm is the contact form state. After a rejected submission the
// fields hold what the visitor typed; after an accepted one they are empty.
type ContactForm struct {
	Name      string
	Email     string
	Message   string
	CSRFToken string
}

// EnrollForm is the enrollment form state on a course page.
type EnrollForm struct {
	Email     string
	CSRFToken string
}

func Home(featured []content.Course, latest []content.Article) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>Master Cybersecurity with ByteHat Academy</h1>`)
		b.raw(`<p>Hands-on training in ethical hacking, defensive security, cloud security and DevSecOps, taught by practitioners.</p>`)
		b.raw(`<p><a class="btn" href="/courses">Explore Courses</a> <a class="btn secondary" href="/contact">Contact Us</a></p></section>`)

		b.raw(`<section><h2>Featured Courses</h2><div class="grid">`)
		for i := range featured {
			b.render(ctx, courseCard(&featured[i]))
		}
		b.raw(`</div></section>`)

		if len(latest) > 0 {
			b.raw(`<section><h2>Latest from the Blog</h2><div class="grid">`)
			for i := range latest {
				b.render(ctx, articleCard(&latest[i]))
			}
			b.raw(`</div></section>`)
		}
	})
}

func About() templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>About ByteHat Academy</h1>`)
		b.raw(`<p>We train the next generation of cybersecurity professionals through hands-on labs and real-world scenarios.</p></section>`)
		b.raw(`<section><h2>Our Mission</h2><p>Security skills are learned by doing. Every course pairs theory with practical labs `)
		b.raw(`so that students leave able to attack, defend and secure real systems.</p>`)
		b.raw(`<h2>What We Teach</h2><ul>`)
		b.raw(`<li>Offensive security and penetration testing</li><li>Security operations and incident response</li>`)
		b.raw(`<li>Cloud and IoT security</li><li>Secure development and DevSecOps</li></ul>`)
		b.raw(`<p><a class="btn" href="/contact">Get in Touch</a></p></section>`)
	})
}

func CourseList(courses []content.Course) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>Our Courses</h1><p>Industry-focused training programs for every stage of your security career.</p></section>`)
		b.raw(`<div class="grid">`)
		for i := range courses {
			b.render(ctx, courseCard(&courses[i]))
		}
		b.raw(`</div>`)
	})
}

func courseCard(c *content.Course) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<div class="card" id="`)
		b.text(c.Slug)
		b.raw(`">`)
		if c.Image != "" {
			b.raw(`<img src="`)
			b.text(c.Image)
			b.raw(`" alt="`)
			b.text(c.Title)
			b.raw(`" loading="lazy">`)
		}
		b.raw(`<div class="body"><h3>`)
		b.text(c.Title)
		b.raw(`</h3><p class="meta">`)
		b.text(c.Duration)
		b.raw(` · `)
		b.text(c.Level)
		b.raw(`</p><p>`)
		b.text(c.Description)
		b.raw(`</p><p>`)
		b.render(ctx, statusBadge(c))
		b.raw(` <a href="`)
		b.text(c.Path())
		b.raw(`">View details</a></p></div></div>`)
	})
}

func statusBadge(c *content.Course) templ.Component {
	return component(func(_ context.Context, b *writer) {
		if c.Enrollable() {
			b.raw(`<span class="badge">Open</span>`)
			return
		}
		b.raw(`<span class="badge soon">`)
		b.text(c.Status.Label())
		b.raw(`</span>`)
	})
}

// CourseDetail shows a course with its syllabus link and, when the course
// is open, the enrollment form.
func CourseDetail(c content.Course, form EnrollForm) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<article class="post">`)
		if c.Image != "" {
			b.raw(`<img class="cover" src="`)
			b.text(c.Image)
			b.raw(`" alt="`)
			b.text(c.Title)
			b.raw(`">`)
		}
		b.raw(`<h1>`)
		b.text(c.Title)
		b.raw(`</h1><p class="meta">Duration: `)
		b.text(c.Duration)
		b.raw(` · Level: `)
		b.text(c.Level)
		b.raw(`</p><p>`)
		b.text(c.Description)
		b.raw(`</p><p><a class="btn secondary" href="`)
		b.text(c.SyllabusPath())
		b.raw(`" target="_blank" rel="noopener">Download Syllabus</a></p>`)

		if !c.Enrollable() {
			b.raw(`<p>`)
			b.render(ctx, statusBadge(&c))
			b.raw(` Enrollment for this course opens soon.</p></article>`)
			return
		}

		b.raw(`<h2>Enroll Now</h2><form class="stacked" action="`)
		b.text(c.Path())
		b.raw(`/enroll" method="post" data-submit-once>`)
		b.render(ctx, csrfField(form.CSRFToken))
		b.raw(`<label for="enroll-email">Email</label><input id="enroll-email" type="email" name="email" required value="`)
		b.text(form.Email)
		b.raw(`"><button class="btn" type="submit" data-busy="Sending...">Request Enrollment</button></form></article>`)
	})
}

func BlogList(articles []content.Article) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>Cybersecurity Blog</h1><p>Insights, tutorials and industry news from our instructors.</p></section>`)
		b.raw(`<div class="grid">`)
		for i := range articles {
			b.render(ctx, articleCard(&articles[i]))
		}
		b.raw(`</div>`)
	})
}

func articleCard(a *content.Article) templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<div class="card">`)
		if a.Image != "" {
			b.raw(`<img src="`)
			b.text(a.Image)
			b.raw(`" alt="`)
			b.text(a.Title)
			b.raw(`" loading="lazy">`)
		}
		b.raw(`<div class="body"><span class="meta">`)
		b.text(a.CategoryLabel())
		b.raw(`</span><h3><a href="`)
		b.text(a.Path())
		b.raw(`">`)
		b.text(a.Title)
		b.raw(`</a></h3><p>`)
		b.text(a.Excerpt)
		b.raw(`</p><p class="meta">`)
		b.text(a.Author)
		b.raw(` · `)
		b.text(a.Date)
		b.raw(`</p></div></div>`)
	})
}

// BlogPost renders an article body with its related articles.
func BlogPost(a content.Article, related []content.Article) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<article class="post"><p><a href="/blog">&larr; Back to Blog</a></p>`)
		if a.Image != "" {
			b.raw(`<img class="cover" src="`)
			b.text(a.Image)
			b.raw(`" alt="`)
			b.text(a.Title)
			b.raw(`">`)
		}
		b.raw(`<span class="badge">`)
		b.text(a.CategoryLabel())
		b.raw(`</span><h1>`)
		b.text(a.Title)
		b.raw(`</h1><p class="meta">`)
		b.text(a.Author)
		b.raw(` · <time datetime="`, a.Published.Format("2006-01-02"), `">`)
		b.text(a.Date)
		b.raw(`</time> · `, strconv.Itoa(a.ReadingMinutes()), ` min read</p>`)

		b.raw(`<div class="content">`)
		// body is sanitized at catalog load
		b.render(ctx, templ.Raw(string(a.HTML)))
		b.raw(`</div></article>`)

		if len(related) > 0 {
			b.raw(`<section><h2>Related Articles</h2><div class="grid">`)
			for i := range related {
				b.render(ctx, articleCard(&related[i]))
			}
			b.raw(`</div></section>`)
		}
	})
}

func Contact(form ContactForm) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>Contact Us</h1><p>Questions about a course or training for your team? Send us a message.</p></section>`)
		b.raw(`<form class="stacked" action="/contact" method="post" data-submit-once>`)
		b.render(ctx, csrfField(form.CSRFToken))

		b.raw(`<label for="contact-name">Name</label><input id="contact-name" name="name" required value="`)
		b.text(form.Name)
		b.raw(`">`)

		b.raw(`<label for="contact-email">Email</label><input id="contact-email" type="email" name="email" required value="`)
		b.text(form.Email)
		b.raw(`">`)

		b.raw(`<label for="contact-message">Message</label><textarea id="contact-message" name="message" rows="6" required>`)
		b.text(form.Message)
		b.raw(`</textarea>`)

		b.raw(`<button class="btn" type="submit" data-busy="Sending...">Send Message</button></form>`)
	})
}

// SearchPage renders the full results page. A blank query and a query with
// no matches produce different states.
func SearchPage(res search.Result) templ.Component {
	return component(func(_ context.Context, b *writer) {
		if !res.Active {
			b.raw(`<section class="hero"><h1>Search</h1><p>Enter a search term to find courses and articles.</p></section>`)
			return
		}

		b.raw(`<section class="hero"><h1>Search Results for &quot;`)
		b.text(res.Query)
		b.raw(`&quot;</h1><p>`, strconv.Itoa(res.Total()), ` result(s)</p></section>`)

		if res.Empty() {
			b.raw(`<p class="empty">No results found. Try a different search term or browse our <a href="/courses">courses</a> and <a href="/blog">blog</a>.</p>`)
			return
		}

		if len(res.Courses) > 0 {
			b.raw(`<section><h2>Courses</h2><div class="grid">`)
			for _, c := range res.Courses {
				b.raw(`<div class="card"><div class="body"><span class="meta">Course</span><h3><a href="`)
				b.text(c.Target)
				b.raw(`">`)
				b.text(c.Title)
				b.raw(`</a></h3><p>`)
				b.text(c.Description)
				b.raw(`</p></div></div>`)
			}
			b.raw(`</div></section>`)
		}

		if len(res.Articles) > 0 {
			b.raw(`<section><h2>Articles</h2><div class="grid">`)
			for _, a := range res.Articles {
				b.raw(`<div class="card"><div class="body"><span class="meta">Blog</span><h3><a href="`)
				b.text(a.Target)
				b.raw(`">`)
				b.text(a.Title)
				b.raw(`</a></h3><p>`)
				b.text(a.Excerpt)
				b.raw(`</p><p class="meta">`)
				b.text(a.Author)
				b.raw(` · `)
				b.text(a.PublishedDate)
				b.raw(`</p></div></div>`)
			}
			b.raw(`</div></section>`)
		}
	})
}

func NotFound() templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<section class="hero"><h1>404</h1><h2>Page Not Found</h2>`)
		b.raw(`<p>The page you're looking for doesn't exist or has been moved.</p>`)
		b.raw(`<p><a class="btn" href="/">Return to Home</a></p></section>`)
	})
}
