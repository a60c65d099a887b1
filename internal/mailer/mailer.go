// Package mailer sends the notification emails of the academic record
// service. Delivery is best-effort: callers log failures and move on, the
// triggering state change never depends on it.
package mailer

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"
)

type Message struct {
	To      mail.Address
	Subject string

	TextContent string
	HTMLContent string
}

// Mailer is any service that can deliver a rendered message.
type Mailer interface {
	Send(msg *Message) error
}

// CertificateSignedData feeds the "certificat signé" templates.
type CertificateSignedData struct {
	NomEtudiant      string
	Filiere          string
	NiveauValide     string
	NomResponsable   string
	CodeVerification string
}

const certificateSignedText = `Bonjour {{.NomEtudiant}},

Votre certificat de réussite ({{.Filiere}}, niveau {{.NiveauValide}}) a été
signé par {{.NomResponsable}}.

Code de vérification : {{.CodeVerification}}

MedCampus`

const certificateSignedHTML = `<p>Bonjour {{.NomEtudiant}},</p>
<p>Votre certificat de réussite (<strong>{{.Filiere}}</strong>, niveau
<strong>{{.NiveauValide}}</strong>) a été signé par {{.NomResponsable}}.</p>
<p>Code de vérification : <code>{{.CodeVerification}}</code></p>
<p>MedCampus</p>`

var (
	certSignedTextTmpl = texttmpl.Must(texttmpl.New("certificate_signed.txt").Parse(certificateSignedText))
	certSignedHTMLTmpl = htmltmpl.Must(htmltmpl.New("certificate_signed.gohtml").Parse(certificateSignedHTML))
)

// NewCertificateSignedMessage renders the post-signing notification for one
// student.
func NewCertificateSignedMessage(to mail.Address, data CertificateSignedData) (*Message, error) {
	var text, html bytes.Buffer
	if err := certSignedTextTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := certSignedHTMLTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	return &Message{
		To:          to,
		Subject:     "Votre certificat a été signé",
		TextContent: text.String(),
		HTMLContent: html.String(),
	}, nil
}
