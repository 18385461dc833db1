package mail

import (
	"errors"
	"io"

	gomail "gopkg.in/gomail.v2"

	"signcraft/internal/config"
)

// ErrNotConfigured is returned when SMTP host/user/pass are unset. Callers
// surface it as a distinct failure without rolling back committed rows.
var ErrNotConfigured = errors.New("smtp is not configured on the server")

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          string
	ReplyTo     string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender is the outbound mail interface; tests swap in a recorder.
type Sender interface {
	Send(msg Message) error
}

type Mailer struct {
	cfg config.SMTP
}

func New(cfg config.SMTP) *Mailer { return &Mailer{cfg: cfg} }

func (m *Mailer) Send(msg Message) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	for _, a := range msg.Attachments {
		content := a.Content
		gm.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	return d.DialAndSend(gm)
}
