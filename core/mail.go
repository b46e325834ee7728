package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}

	emailTemplate struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}
)

var (
	templates map[string]emailTemplate
	tmplInit  sync.Once

	emailSources = map[string][2]string{ // name: {text, html}
		"welcome": {
			`Hi {{.Data.Name}},

Welcome to {{.AppName}}! Tell us what you care about and see where your interests meet your classmates'.

{{.FrontendBaseURL}}`,
			`<p>Hi {{.Data.Name}},</p>
<p>Welcome to {{.AppName}}! Tell us what you care about and see where your interests meet your classmates'.</p>
<p><a href="{{.FrontendBaseURL}}">{{.FrontendBaseURL}}</a></p>`,
		},
	}
)

func parseTemplates() {
	templates = make(map[string]emailTemplate, len(emailSources))
	for name, src := range emailSources {
		templates[name] = emailTemplate{
			text: texttmpl.Must(texttmpl.New(name).Option("missingkey=error").Parse(src[0])),
			html: htmltmpl.Must(htmltmpl.New(name).Option("missingkey=error").Parse(src[1])),
		}
	}
}

// Render fills TextContent and HTMLContent from BodyStr or the named template.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(parseTemplates)
	tmpl, ok := templates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}
	data := ContextData{AppName: conf.AppName, FrontendBaseURL: conf.FrontendBaseURL, Data: m.TemplateData}

	var buff bytes.Buffer
	if err := tmpl.text.Execute(&buff, data); err != nil {
		return errors.Wrap(err, "rendering text")
	}
	m.TextContent = buff.String()

	buff.Reset()
	if err := tmpl.html.Execute(&buff, data); err != nil {
		return errors.Wrap(err, "rendering html")
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
