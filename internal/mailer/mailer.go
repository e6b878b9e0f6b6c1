package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/niftrix/referral-admin/internal/config"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("no recipients specified")

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outgoing email.
type Message struct {
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Result describes an accepted message.
type Result struct {
	MessageID  string
	PreviewURL string
}

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
	OpenSession(ctx context.Context) (Session, error)
}

// Session reuses one SMTP connection for many messages.
type Session interface {
	Send(ctx context.Context, msg Message) (Result, error)
	Close() error
}

// Dialer opens SMTP connections. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// Mailer is the gomail backed Sender.
type Mailer struct {
	cfg    config.MailConfig
	dialer Dialer
	logger *zap.Logger
}

// New builds a Mailer from configuration.
func New(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	host := cfg.Host
	if host == "" && cfg.SandboxMode {
		host = "localhost"
	}
	d := gomail.NewDialer(host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseTLS || cfg.Port == 465
	return NewWithDialer(cfg, d, logger)
}

// NewWithDialer builds a Mailer over a custom dialer.
func NewWithDialer(cfg config.MailConfig, d Dialer, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, dialer: d, logger: logger}
}

// Send dials, delivers one message and hangs up. It gives up when ctx or
// the configured mail timeout expires, whichever comes first.
func (m *Mailer) Send(ctx context.Context, msg Message) (Result, error) {
	if len(msg.To) == 0 {
		return Result{}, ErrNoRecipient
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout())
	defer cancel()

	return m.run(ctx, func() (Result, error) {
		sc, err := m.dialer.Dial()
		if err != nil {
			return Result{}, fmt.Errorf("dial smtp: %w", err)
		}
		defer sc.Close()
		return m.deliver(sc, msg)
	})
}

// OpenSession dials once; the caller must Close the session.
func (m *Mailer) OpenSession(ctx context.Context) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout())
	defer cancel()

	type dialed struct {
		sc  gomail.SendCloser
		err error
	}
	ch := make(chan dialed, 1)
	go func() {
		sc, err := m.dialer.Dial()
		ch <- dialed{sc: sc, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if d := <-ch; d.err == nil {
				_ = d.sc.Close()
			}
		}()
		return nil, fmt.Errorf("dial smtp: %w", ctx.Err())
	case d := <-ch:
		if d.err != nil {
			return nil, fmt.Errorf("dial smtp: %w", d.err)
		}
		return &session{mailer: m, sc: d.sc}, nil
	}
}

func (m *Mailer) run(ctx context.Context, fn func() (Result, error)) (Result, error) {
	type outcome struct {
		res Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := fn()
		ch <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("send mail: %w", ctx.Err())
	case o := <-ch:
		return o.res, o.err
	}
}

func (m *Mailer) deliver(sc gomail.SendCloser, msg Message) (Result, error) {
	id := uuid.NewString()
	gm := m.compose(msg, id)
	if err := gomail.Send(sc, gm); err != nil {
		return Result{}, fmt.Errorf("send mail: %w", err)
	}

	res := Result{MessageID: id}
	if m.cfg.SandboxMode {
		res.PreviewURL = m.previewURL(id)
	}
	m.logger.Debug("mail accepted",
		zap.String("message_id", id),
		zap.Strings("to", msg.To),
		zap.Bool("sandbox", m.cfg.SandboxMode),
	)
	return res, nil
}

func (m *Mailer) compose(msg Message, id string) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.FromAddress)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetHeader("Message-ID", "<"+id+"@"+messageDomain(m.cfg.FromAddress)+">")

	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
	default:
		gm.SetBody("text/plain", msg.Text)
	}

	for _, a := range msg.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(content))
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		gm.Attach(a.Filename, settings...)
	}
	return gm
}

func (m *Mailer) previewURL(id string) string {
	return strings.TrimRight(m.cfg.SandboxPreviewURL, "/") + "/messages/" + id
}

func messageDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}

type session struct {
	mailer *Mailer

	mu sync.Mutex
	sc gomail.SendCloser
	// stray is closed once a send abandoned on timeout returns.
	stray chan struct{}
}

type attempt struct {
	sc  gomail.SendCloser
	res Result
	err error
}

// Send delivers msg on the session connection. A send that times out leaves
// its connection behind; the next Send waits for it to return and redials.
func (s *session) Send(ctx context.Context, msg Message) (Result, error) {
	if len(msg.To) == 0 {
		return Result{}, ErrNoRecipient
	}
	ctx, cancel := context.WithTimeout(ctx, s.mailer.cfg.Timeout())
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stray != nil {
		select {
		case <-s.stray:
			s.stray = nil
		case <-ctx.Done():
			return Result{}, fmt.Errorf("send mail: %w", ctx.Err())
		}
	}

	ch := make(chan attempt, 1)
	go func(sc gomail.SendCloser) {
		a := attempt{sc: sc}
		if a.sc == nil {
			var err error
			if a.sc, err = s.mailer.dialer.Dial(); err != nil {
				a.sc, a.err = nil, fmt.Errorf("dial smtp: %w", err)
				ch <- a
				return
			}
		}
		a.res, a.err = s.mailer.deliver(a.sc, msg)
		ch <- a
	}(s.sc)

	select {
	case a := <-ch:
		s.sc = a.sc
		return a.res, a.err
	case <-ctx.Done():
		s.sc = nil
		done := make(chan struct{})
		s.stray = done
		go s.abandon(ch, msg.To, done)
		return Result{}, fmt.Errorf("send mail: %w", ctx.Err())
	}
}

func (s *session) abandon(ch <-chan attempt, to []string, done chan<- struct{}) {
	defer close(done)
	a := <-ch
	if a.sc == nil {
		return
	}
	if a.err == nil {
		s.mailer.logger.Warn("mail delivered after timeout",
			zap.String("message_id", a.res.MessageID),
			zap.Strings("to", to),
		)
	}
	_ = a.sc.Close()
}

// Close waits for any abandoned send and hangs up.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stray != nil {
		<-s.stray
		s.stray = nil
	}
	if s.sc == nil {
		return nil
	}
	err := s.sc.Close()
	s.sc = nil
	return err
}
