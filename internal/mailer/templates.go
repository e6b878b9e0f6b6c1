package mailer

import (
	"fmt"
	"html"
	"strings"
)

const verificationSubject = "Congratulations! Your Robiz3190 Account is Verified! 🎉"

const verificationText = `%s

We are excited to inform you that your Robiz3190 account has been successfully verified! You can now enjoy all the features of the Robiz3190 app and start connecting with fellow Rotarians and Rotaractors for amazing business opportunities.

We wish you the best in your networking journey. If you have any questions or need assistance, feel free to reach out to our support team at support@niftrix.com.

Happy Networking!

Best Regards,
Robiz3190 - Admin Team
https://robiz3190.com`

const verificationHTML = `<p>%s</p>
<p>We are excited to inform you that your <strong>Robiz3190</strong> account has been successfully verified! You can now enjoy all the features of the Robiz3190 app and start connecting with fellow Rotarians and Rotaractors for amazing business opportunities.</p>
<p>We wish you the best in your networking journey. If you have any questions or need assistance, feel free to reach out to our support team at <a href="mailto:support@niftrix.com">support@niftrix.com</a>.</p>
<p>Happy Networking!</p>
<p>Best Regards,<br/>
Robiz3190 - Admin Team<br/>
<a href="https://robiz3190.com">https://robiz3190.com</a></p>`

// VerificationEmail renders the welcome message sent when an account is
// activated. An empty name greets "Dear User,".
func VerificationEmail(to, fullName string) Message {
	greeting := "Dear User,"
	if name := strings.TrimSpace(fullName); name != "" {
		greeting = "Dear " + name + ","
	}
	return Message{
		To:      []string{to},
		Subject: verificationSubject,
		Text:    fmt.Sprintf(verificationText, greeting),
		HTML:    fmt.Sprintf(verificationHTML, html.EscapeString(greeting)),
	}
}

// NotificationEmail wraps a free-text broadcast.
func NotificationEmail(to, body string, attachments []Attachment) Message {
	escaped := html.EscapeString(body)
	return Message{
		To:          []string{to},
		Subject:     "Notification",
		Text:        body,
		HTML:        "<p>" + strings.ReplaceAll(escaped, "\n", "<br/>") + "</p>",
		Attachments: attachments,
	}
}
