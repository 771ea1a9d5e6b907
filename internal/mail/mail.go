package mail

import (
	"context"
	"fmt"
)

const Topic = "email_events"

type Message struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Publisher hands a message to the out-of-process delivery queue.
// Fire-and-forget: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

func VerificationMessage(domain, email, token string) Message {
	link := fmt.Sprintf("http://%s/api/v1.0/auth/verify_email/%s", domain, token)
	body := fmt.Sprintf(`<h1>Verify your Email Address</h1>
<p>Please click on the <a href=%q>link</a> to verify your account</p>`, link)

	return Message{
		Recipients: []string{email},
		Subject:    "Verify your email",
		Body:       body,
	}
}
