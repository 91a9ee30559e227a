package notification

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/dmitrymomot/bookspace/internal/user"
	"github.com/dmitrymomot/bookspace/pkg/email"
)

const emailTag = "notification"

var (
	subjectTmpl = texttemplate.Must(texttemplate.New("subject").Parse(
		`{{ .Notification.Title }}`))

	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`Hi {{ .Name }},

{{ .Notification.Message }}
{{ with .URL }}
Open: {{ . }}
{{ end }}`))

	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hi {{ .Name }},</p>
<h2>{{ .Notification.Title }}</h2>
<p>{{ .Notification.Message }}</p>
{{ with .URL }}<p><a href="{{ . }}">Open</a></p>{{ end }}
</body>
</html>`))
)

type emailData struct {
	Name         string
	URL          string
	Notification *Notification
}

// renderEmail builds the message for n addressed to u. Relative links are
// resolved against baseURL.
func renderEmail(n *Notification, u *user.User, baseURL string) (email.SendEmailParams, error) {
	data := emailData{
		Name:         u.Name,
		URL:          absoluteLink(n.Link, baseURL),
		Notification: n,
	}
	if data.Name == "" {
		data.Name = "there"
	}

	var subject, text, html strings.Builder
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return email.SendEmailParams{}, err
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return email.SendEmailParams{}, err
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return email.SendEmailParams{}, err
	}

	return email.SendEmailParams{
		SendTo:   u.Email,
		Subject:  subject.String(),
		BodyText: text.String(),
		BodyHTML: html.String(),
		Tag:      emailTag,
	}, nil
}

func absoluteLink(link, baseURL string) string {
	if link == "" || !strings.HasPrefix(link, "/") || baseURL == "" {
		return link
	}
	return strings.TrimRight(baseURL, "/") + link
}
