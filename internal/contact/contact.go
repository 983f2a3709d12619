// Package contact runs the contact and enrollment submission pipeline.
// Every submission passes, in order, the in-flight guard, the CSRF check,
// field validation, and the per-session rate limit before anything is sent.
// Each call publishes exactly one notification to the session's dispatcher.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/content"
	"github.com/bytehatacademy/academy/internal/csrf"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/mail"
	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/validation"
)

// User-facing texts.
const (
	MsgContactSent  = "Message sent successfully! We will get back to you soon."
	MsgEnrollSent   = "Thank you for your interest! We will contact you soon."
	MsgQuickSent    = "Message sent! We will get back to you soon."
	MsgCourseClosed = "Enrollment for this course is not open yet."
	MsgQuickMissing = "Please fill in all fields"
)

// Session is the per-browser state the pipeline reads and updates.
type Session interface {
	csrf.TokenStore
	ID() string
	TryBegin() bool
	End()
	LastSubmission() time.Time
	RecordSubmission(t time.Time)
}

// Submission is the contact form as posted.
type Submission struct {
	Name      string
	Email     string
	Message   string
	CSRFToken string
}

// Enrollment is the course enrollment form as posted.
type Enrollment struct {
	CourseSlug string
	Email      string
	CSRFToken  string
}

// QuickMessage is the footer form.
type QuickMessage struct {
	Email     string
	Message   string
	CSRFToken string
}

// Outcome is what the page renders after a submission. When Accepted is
// false the form is shown again with Retained; otherwise it is cleared.
type Outcome struct {
	Accepted     bool
	Retained     Submission
	Notification notify.Notification
	Err          error
}

// Service runs submissions against a mail sender.
type Service struct {
	hub         *notify.Hub
	sender      mail.Sender
	catalog     *content.Catalog
	recipient   string
	minInterval time.Duration
	timeout     time.Duration
	now         func() time.Time
	logger      logging.Logger
	errs        *errors.ErrorHandler
}

// NewService creates the submission service.
func NewService(cfg *config.Config, hub *notify.Hub, sender mail.Sender, catalog *content.Catalog, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("contact")
	return &Service{
		hub:         hub,
		sender:      sender,
		catalog:     catalog,
		recipient:   cfg.Contact.Recipient,
		minInterval: cfg.Contact.MinInterval,
		timeout:     cfg.Mail.Timeout,
		now:         time.Now,
		logger:      logger,
		errs:        errors.NewErrorHandler(logger),
	}
}

// Submit runs the contact pipeline.
func (s *Service) Submit(ctx context.Context, sess Session, sub Submission) Outcome {
	retained := Submission{Name: sub.Name, Email: sub.Email, Message: sub.Message}

	return s.run(ctx, sess, "contact", sub.CSRFToken, retained, MsgContactSent, func() (mail.Message, error) {
		name := validation.CleanField(sub.Name)
		email := strings.TrimSpace(sub.Email)
		message := validation.CleanField(sub.Message)

		if err := validateContact(name, email, message); err != nil {
			return mail.Message{}, err
		}
		return mail.Message{
			To:       s.recipient,
			FromName: name,
			Message:  message,
			ReplyTo:  email,
		}, nil
	})
}

// Quick runs the footer form: the sender's email doubles as their name.
func (s *Service) Quick(ctx context.Context, sess Session, q QuickMessage) Outcome {
	retained := Submission{Email: q.Email, Message: q.Message}

	return s.run(ctx, sess, "quick", q.CSRFToken, retained, MsgQuickSent, func() (mail.Message, error) {
		email := strings.TrimSpace(q.Email)
		message := validation.CleanField(q.Message)

		if email == "" || message == "" {
			return mail.Message{}, errors.NewValidationError(errors.ErrCodeValidationFailed, MsgQuickMissing)
		}
		if fe := validation.ValidateEmail(email); fe != nil {
			return mail.Message{}, fe.ToAcademyError()
		}
		return mail.Message{
			To:       s.recipient,
			FromName: email,
			Message:  message,
			ReplyTo:  email,
		}, nil
	})
}

// Enroll runs the enrollment pipeline for an open course.
func (s *Service) Enroll(ctx context.Context, sess Session, en Enrollment) Outcome {
	retained := Submission{Email: en.Email}

	return s.run(ctx, sess, "enroll", en.CSRFToken, retained, MsgEnrollSent, func() (mail.Message, error) {
		course, ok := s.catalog.Course(en.CourseSlug)
		if !ok {
			return mail.Message{}, errors.ErrNotFound("course", en.CourseSlug)
		}
		if !course.Enrollable() {
			return mail.Message{}, errors.NewValidationError(errors.ErrCodeValidationFailed, MsgCourseClosed)
		}

		email := strings.TrimSpace(en.Email)
		if fe := validation.ValidateEmail(email); fe != nil {
			return mail.Message{}, fe.ToAcademyError()
		}
		return mail.Message{
			To:       s.recipient,
			FromName: email,
			Message:  "Enrollment request for " + course.Title,
			ReplyTo:  email,
		}, nil
	})
}

// run holds the steps shared by every form: in-flight guard, CSRF check,
// the form's own validation, rate limit, send, and exactly one
// notification.
func (s *Service) run(
	ctx context.Context,
	sess Session,
	form, token string,
	retained Submission,
	successText string,
	prepare func() (mail.Message, error),
) Outcome {
	if !sess.TryBegin() {
		return s.reject(ctx, sess, retained, errors.ErrInFlight())
	}
	defer sess.End()

	if !csrf.New(sess).Validate(token) {
		logging.LogSecurityEvent(ctx, s.logger, "csrf_rejected", map[string]interface{}{
			"session": logging.SanitizeForLog(sess.ID()),
			"form":    form,
		})
		return s.reject(ctx, sess, retained, errors.ErrCSRF())
	}

	msg, err := prepare()
	if err != nil {
		return s.reject(ctx, sess, retained, err)
	}

	if err := s.checkRate(sess); err != nil {
		return s.reject(ctx, sess, retained, err)
	}

	if err := s.send(ctx, msg); err != nil {
		return s.reject(ctx, sess, retained, err)
	}

	s.logger.Info(ctx, "Submission accepted", "form", form, "message_len", len(msg.Message))
	return s.accept(ctx, sess, successText)
}

// validateContact reports the first invalid field in form order.
func validateContact(name, email, message string) error {
	if fe := validation.ValidateName(name); fe != nil {
		return fe.ToAcademyError()
	}
	if fe := validation.ValidateEmail(email); fe != nil {
		return fe.ToAcademyError()
	}
	if fe := validation.ValidateMessage(message); fe != nil {
		return fe.ToAcademyError()
	}
	return nil
}

func (s *Service) checkRate(sess Session) error {
	if s.minInterval <= 0 {
		return nil
	}
	last := sess.LastSubmission()
	if !last.IsZero() && s.now().Sub(last) < s.minInterval {
		return errors.ErrRateLimited()
	}
	return nil
}

// send treats any error or non-200 status as a transport failure.
func (s *Service) send(ctx context.Context, msg mail.Message) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.sender.Send(ctx, msg)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeTransport) {
			return err
		}
		return errors.ErrSendFailed(err)
	}
	if resp.Status != mail.StatusOK {
		return errors.ErrSendFailed(nil).
			WithContext("status", resp.Status).
			WithContext("body", resp.Text)
	}
	return nil
}

func (s *Service) accept(ctx context.Context, sess Session, text string) Outcome {
	sess.RecordSubmission(s.now())
	if _, err := csrf.New(sess).Rotate(); err != nil {
		s.logger.Error(ctx, err, "Failed to rotate form token")
	}

	n := s.publish(sess, text, notify.SeveritySuccess)
	return Outcome{Accepted: true, Notification: n}
}

func (s *Service) reject(ctx context.Context, sess Session, retained Submission, err error) Outcome {
	s.errs.Handle(ctx, err)

	severity := notify.ParseSeverity(errors.SeverityFor(err))
	n := s.publish(sess, errors.UserMessage(err), severity)
	return Outcome{Retained: retained, Notification: n, Err: err}
}

func (s *Service) publish(sess Session, text string, severity notify.Severity) notify.Notification {
	d := s.hub.For(sess.ID()).Dispatcher
	n := d.Build(text, severity, 0)
	d.Publish(n)
	return n
}
