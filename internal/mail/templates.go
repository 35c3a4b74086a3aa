package mail

import (
	"fmt"
	"html"
	"net/url"
)

const setupSubject = "Set Your Password"

// SetupLink builds the client URL a user follows to choose a password.
func SetupLink(clientURL, rawToken, email string) string {
	q := url.Values{}
	q.Set("token", rawToken)
	if email != "" {
		q.Set("email", email)
	}
	return clientURL + "/set-password?" + q.Encode()
}

// SetupPasswordMessage is the email carrying a password setup link.
func SetupPasswordMessage(to, name, link string) Message {
	body := fmt.Sprintf(`<h2>Hello %s</h2>
<p>Please set your password by clicking the link below:</p>
<a href="%s" target="_blank">Set Password</a>
<p>This link is valid for 24 hours.</p>`, html.EscapeString(name), html.EscapeString(link))

	return Message{
		To:      to,
		Subject: setupSubject,
		Body:    body,
		HTML:    true,
	}
}
