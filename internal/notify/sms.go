package notify

import (
	"fmt"
	"os"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier sends text messages through Twilio. It is optional
// infrastructure: callers must tolerate a nil notifier.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
}

// NewSMSNotifierFromEnv builds a notifier from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER. Returns nil when any of them
// is unset, which disables SMS entirely.
func NewSMSNotifierFromEnv() *SMSNotifier {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if sid == "" || token == "" || from == "" {
		return nil
	}
	return &SMSNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: from,
	}
}

// Send delivers body to the given phone number.
func (n *SMSNotifier) Send(to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending sms to %s: %w", to, err)
	}
	return nil
}
