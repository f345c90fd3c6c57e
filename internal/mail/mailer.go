// Package mail sends transactional mail over SMTP. Delivery is
// fire-and-forget from the caller's point of view: failures are logged,
// never propagated.
package mail

import (
	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"auctionhub/api/internal/config"
)

// Sender is what services depend on; satisfied by Mailer and by test fakes.
type Sender interface {
	Send(to, subject, htmlBody string)
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

func New(cfg config.MailConfig, log zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (m *Mailer) Send(to, subject, htmlBody string) {
	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", htmlBody)

		if err := m.dialer.DialAndSend(msg); err != nil {
			m.log.Error().Err(err).Str("to", to).Msg("mail delivery failed")
			return
		}
		m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	}()
}
