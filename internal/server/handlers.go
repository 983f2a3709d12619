package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/bytehatacademy/academy/internal/contact"
	"github.com/bytehatacademy/academy/internal/csrf"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/session"
	"github.com/bytehatacademy/academy/internal/version"
	"github.com/bytehatacademy/academy/internal/views"
)

const (
	maxFormBytes   = 64 << 10
	featuredCount  = 3
	latestCount    = 3
	themeCookieAge = 365 * 24 * time.Hour
)

var syllabusFile = regexp.MustCompile(`^([a-z0-9]+(?:-[a-z0-9]+)*)\.pdf$`)

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the browser session before calling fn.
func (s *Server) withSession(fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Resolve(w, r)
		if err != nil {
			s.logger.Error(r.Context(), err, "Failed to resolve session")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		fn(w, r, sess)
	}
}

func (s *Server) page(r *http.Request, sess *session.Session, title, description string) views.Page {
	token, err := csrf.New(sess).EnsureToken()
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to issue form token")
	}

	return views.Page{
		Title:       title,
		Description: description,
		Path:        r.URL.Path,
		Theme:       s.theme(r),
		CSRFToken:   token,
		Year:        time.Now().Year(),
		Meta:        s.security.MetaTags(),
		Toasts:      s.hub.For(sess.ID()).Surface.Active(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, p views.Page, body templ.Component) {
	templ.Handler(views.Render(p, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) theme(r *http.Request) string {
	if c, err := r.Cookie(s.config.Session.ThemeCookieName); err == nil && c.Value == views.ThemeLight {
		return views.ThemeLight
	}
	return views.ThemeDark
}

// statusFor picks the response code for a rejected form.
func statusFor(err error) int {
	switch {
	case errors.IsSecurityError(err):
		return http.StatusForbidden
	case errors.IsType(err, errors.ErrorTypeRateLimit):
		return http.StatusTooManyRequests
	case errors.IsType(err, errors.ErrorTypeTransport):
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// safeReturn keeps redirects on this site.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func refererPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	return safeReturn(u.Path)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	courses := s.catalog.Courses()
	if len(courses) > featuredCount {
		courses = courses[:featuredCount]
	}
	p := s.page(r, sess, "", "Hands-on cybersecurity training: ethical hacking, SOC, cloud security and DevSecOps.")
	s.render(w, r, http.StatusOK, p, views.Home(courses, s.catalog.Latest(latestCount)))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := s.page(r, sess, "About", "About ByteHat Academy and our mission.")
	s.render(w, r, http.StatusOK, p, views.About())
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := s.page(r, sess, "Courses", "Cybersecurity courses at ByteHat Academy.")
	s.render(w, r, http.StatusOK, p, views.CourseList(s.catalog.Courses()))
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	course, ok := s.catalog.Course(r.PathValue("slug"))
	if !ok {
		s.handleNotFound(w, r, sess)
		return
	}
	p := s.page(r, sess, course.Title, course.Description)
	s.render(w, r, http.StatusOK, p, views.CourseDetail(course, views.EnrollForm{CSRFToken: p.CSRFToken}))
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	course, ok := s.catalog.Course(r.PathValue("slug"))
	if !ok {
		s.handleNotFound(w, r, sess)
		return
	}
	if !s.parseForm(w, r) {
		return
	}

	out := s.contact.Enroll(r.Context(), sess, contact.Enrollment{
		CourseSlug: course.Slug,
		Email:      r.PostFormValue("email"),
		CSRFToken:  r.PostFormValue(csrf.FieldName),
	})
	if out.Accepted {
		http.Redirect(w, r, course.Path(), http.StatusSeeOther)
		return
	}

	p := s.page(r, sess, course.Title, course.Description)
	p.Path = course.Path()
	form := views.EnrollForm{Email: out.Retained.Email, CSRFToken: p.CSRFToken}
	s.render(w, r, statusFor(out.Err), p, views.CourseDetail(course, form))
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := s.page(r, sess, "Blog", "Cybersecurity insights and tutorials.")
	s.render(w, r, http.StatusOK, p, views.BlogList(s.catalog.Latest(-1)))
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	article, ok := s.catalog.Article(r.PathValue("slug"))
	if !ok {
		s.handleNotFound(w, r, sess)
		return
	}
	p := s.page(r, sess, article.Title, article.Excerpt)
	s.render(w, r, http.StatusOK, p, views.BlogPost(article, s.catalog.RelatedTo(article.Slug)))
}

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := s.page(r, sess, "Contact", "Get in touch with ByteHat Academy.")
	s.render(w, r, http.StatusOK, p, views.Contact(views.ContactForm{CSRFToken: p.CSRFToken}))
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !s.parseForm(w, r) {
		return
	}

	out := s.contact.Submit(r.Context(), sess, contact.Submission{
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Message:   r.PostFormValue("message"),
		CSRFToken: r.PostFormValue(csrf.FieldName),
	})
	if out.Accepted {
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	p := s.page(r, sess, "Contact", "Get in touch with ByteHat Academy.")
	form := views.ContactForm{
		Name:      out.Retained.Name,
		Email:     out.Retained.Email,
		Message:   out.Retained.Message,
		CSRFToken: p.CSRFToken,
	}
	s.render(w, r, statusFor(out.Err), p, views.Contact(form))
}

// handleQuickContact always returns to the page the footer form was on; the
// outcome is reported by the notification.
func (s *Server) handleQuickContact(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !s.parseForm(w, r) {
		return
	}

	s.contact.Quick(r.Context(), sess, contact.QuickMessage{
		Email:     r.PostFormValue("email"),
		Message:   r.PostFormValue("message"),
		CSRFToken: r.PostFormValue(csrf.FieldName),
	})
	http.Redirect(w, r, safeReturn(r.PostFormValue("return")), http.StatusSeeOther)
}

func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query().Get("q")
	res := s.index.Search(q)

	title := "Search"
	if res.Active {
		title = `Search Results for "` + res.Query + `"`
	}
	p := s.page(r, sess, title, "Find courses and articles at ByteHat Academy.")
	p.Query = q
	s.render(w, r, http.StatusOK, p, views.SearchPage(res))
}

func (s *Server) handleSearchAPI(w http.ResponseWriter, r *http.Request) {
	res := s.index.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !s.parseForm(w, r) {
		return
	}
	back := safeReturn(r.PostFormValue("return"))
	dispatcher := s.hub.For(sess.ID()).Dispatcher

	if !csrf.New(sess).Validate(r.PostFormValue(csrf.FieldName)) {
		dispatcher.Show(errors.UserMessage(errors.ErrCSRF()), notify.SeverityWarning, 0)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	theme := views.ThemeDark
	if r.PostFormValue("theme") == views.ThemeLight {
		theme = views.ThemeLight
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.ThemeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(themeCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	dispatcher.Show("Switched to "+theme+" theme", notify.SeverityInfo, 0)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if !s.parseForm(w, r) {
		return
	}
	if csrf.New(sess).Validate(r.PostFormValue(csrf.FieldName)) {
		s.hub.For(sess.ID()).Surface.Dismiss(r.PathValue("id"))
	}
	http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.live.ServeSession(w, r, sess.ID())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"version":      version.Short(),
		"uptime":       time.Since(s.started).Round(time.Second).String(),
		"sessions":     s.sessions.Len(),
		"live_clients": s.live.ConnectedClients(),
		"courses":      len(s.catalog.Courses()),
		"articles":     len(s.catalog.Articles()),
	})
}

func (s *Server) staticHandler() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(views.Static())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// handleSyllabus serves <slug>.pdf from the syllabus directory for known
// courses only.
func (s *Server) handleSyllabus(w http.ResponseWriter, r *http.Request) {
	m := syllabusFile.FindStringSubmatch(r.PathValue("file"))
	if m == nil {
		http.NotFound(w, r)
		return
	}
	if _, ok := s.catalog.Course(m[1]); !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.config.Content.SyllabusDir, m[0]))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	p := s.page(r, sess, "Page Not Found", "The page you're looking for cannot be found.")
	s.render(w, r, http.StatusNotFound, p, views.NotFound())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
