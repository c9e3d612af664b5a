package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"github.com/bloggerhq/blogger/internal/app/notify"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

// SMTPMailer implements notify.Sender over SMTP. A client is dialed per send;
// the dispatcher's worker pool keeps the connection rate low.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTPUser),
		gomail.WithPassword(cfg.SMTPPass),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.SMTPPort == 465 {
		opts = append(opts, gomail.WithSSL())
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "smtp client")
	}
	return &SMTPMailer{client: client, from: cfg.EmailFrom}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg notify.Message) error {
	mm := gomail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return customErrors.WrapInternal(err, "mail from")
	}
	if err := mm.To(msg.To); err != nil {
		return customErrors.WrapInternal(err, "mail to")
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		mm.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return customErrors.WrapInternal(err, "send mail")
	}
	return nil
}
