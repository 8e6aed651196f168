// internal/notifications/email.go

package notifications

import (
    "context"
    "fmt"
    "log"

    "github.com/sendgrid/sendgrid-go"
    "github.com/sendgrid/sendgrid-go/helpers/mail"
    "gopkg.in/gomail.v2"
)

// EmailProvider sends transactional email for notifications.
type EmailProvider interface {
    Send(ctx context.Context, msg *EmailMessage) error
}

// SendGridProvider sends email through the SendGrid API.
type SendGridProvider struct {
    apiKey   string
    from     string
    fromName string
}

func NewSendGridProvider(apiKey, from, fromName string) (*SendGridProvider, error) {
    if apiKey == "" || from == "" {
        return nil, fmt.Errorf("incomplete SendGrid configuration")
    }
    if fromName == "" {
        fromName = "Coha"
    }
    return &SendGridProvider{apiKey: apiKey, from: from, fromName: fromName}, nil
}

func (p *SendGridProvider) Send(ctx context.Context, msg *EmailMessage) error {
    from := mail.NewEmail(p.fromName, p.from)
    to := mail.NewEmail("", msg.To)

    html := msg.HTML
    if html == "" {
        html = msg.Body
    }
    message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

    client := sendgrid.NewSendClient(p.apiKey)
    resp, err := client.Send(message)
    if err != nil {
        log.Printf("Failed to send email to %s: %v", msg.To, err)
        return err
    }
    if resp.StatusCode >= 400 {
        log.Printf("SendGrid rejected email to %s: status %d", msg.To, resp.StatusCode)
        return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
    }

    return nil
}

// SMTPProvider sends email through a plain SMTP relay.
type SMTPProvider struct {
    from     string
    fromName string
    dialer   *gomail.Dialer
}

func NewSMTPProvider(host string, port int, username, password, from, fromName string) (*SMTPProvider, error) {
    if host == "" || username == "" || password == "" || from == "" {
        return nil, fmt.Errorf("incomplete SMTP configuration")
    }
    if fromName == "" {
        fromName = "Coha"
    }

    return &SMTPProvider{
        from:     from,
        fromName: fromName,
        dialer:   gomail.NewDialer(host, port, username, password),
    }, nil
}

func (p *SMTPProvider) Send(ctx context.Context, msg *EmailMessage) error {
    m := gomail.NewMessage()
    m.SetHeader("From", m.FormatAddress(p.from, p.fromName))
    m.SetHeader("To", msg.To)
    m.SetHeader("Subject", msg.Subject)

    if msg.HTML != "" {
        m.SetBody("text/html", msg.HTML)
        if msg.Body != "" {
            m.AddAlternative("text/plain", msg.Body)
        }
    } else {
        m.SetBody("text/plain", msg.Body)
    }

    if err := p.dialer.DialAndSend(m); err != nil {
        log.Printf("Failed to send email to %s: %v", msg.To, err)
        return err
    }

    return nil
}

// MockEmailProvider records emails instead of sending them.
type MockEmailProvider struct {
    Sent []*EmailMessage
}

func NewMockEmailProvider() *MockEmailProvider {
    return &MockEmailProvider{Sent: make([]*EmailMessage, 0)}
}

func (p *MockEmailProvider) Send(ctx context.Context, msg *EmailMessage) error {
    p.Sent = append(p.Sent, msg)
    log.Printf("Mock email to %s: %s", msg.To, msg.Subject)
    return nil
}
