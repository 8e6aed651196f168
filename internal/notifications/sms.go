// internal/notifications/sms.go

package notifications

import (
    "context"
    "fmt"
    "log"

    "github.com/twilio/twilio-go"
    twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSProvider sends text messages for notifications.
type SMSProvider interface {
    Send(ctx context.Context, msg *SMSMessage) error
}

// TwilioProvider sends SMS through Twilio.
type TwilioProvider struct {
    client *twilio.RestClient
    from   string
}

func NewTwilioProvider(accountSID, authToken, from string) (*TwilioProvider, error) {
    if accountSID == "" || authToken == "" || from == "" {
        return nil, fmt.Errorf("incomplete Twilio configuration")
    }

    client := twilio.NewRestClientWithParams(twilio.ClientParams{
        Username: accountSID,
        Password: authToken,
    })

    return &TwilioProvider{client: client, from: from}, nil
}

func (p *TwilioProvider) Send(ctx context.Context, msg *SMSMessage) error {
    params := &twilioApi.CreateMessageParams{}
    params.SetTo(msg.To)
    params.SetFrom(p.from)
    params.SetBody(msg.Body)

    resp, err := p.client.Api.CreateMessage(params)
    if err != nil {
        log.Printf("Failed to send SMS to %s: %v", msg.To, err)
        return err
    }

    if resp.Sid != nil {
        log.Printf("Sent SMS to %s with SID %s", msg.To, *resp.Sid)
    }

    return nil
}

// MockSMSProvider records messages instead of sending them.
type MockSMSProvider struct {
    Sent []*SMSMessage
}

func NewMockSMSProvider() *MockSMSProvider {
    return &MockSMSProvider{Sent: make([]*SMSMessage, 0)}
}

func (p *MockSMSProvider) Send(ctx context.Context, msg *SMSMessage) error {
    p.Sent = append(p.Sent, msg)
    log.Printf("Mock SMS to %s: %s", msg.To, msg.Body)
    return nil
}
