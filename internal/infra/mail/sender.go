package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

const welcomeTemplate = `
<html>
<body>
	<h2>Welcome to Cursive, {{.Name}}!</h2>
	<p>Your workspace <strong>{{.WorkspaceName}}</strong> is ready.</p>
	<p>Your first matched leads are on their way and will show up on your
	dashboard shortly.</p>
</body>
</html>
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     user,
	}
}

func (s *EmailSender) SendWelcome(to, name, workspaceName string) error {
	t, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return fmt.Errorf("parse welcome template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, WelcomeEmailData{Name: name, WorkspaceName: workspaceName}); err != nil {
		return fmt.Errorf("render welcome template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Cursive")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	return nil
}
