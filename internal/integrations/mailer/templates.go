package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var ownerSummaryTemplate = template.Must(template.New("owner").Parse(`<p>Nouveau rendez-vous n°{{.AppointmentID}}{{if .AgentName}} pour {{.AgentName}}{{end}}.</p>
<ul>
<li>Date : {{.Date}} à {{.Time}} ({{.DurationMinutes}} min)</li>
<li>Nom : {{.VisitorName}}</li>
{{- if .VisitorPhone}}
<li>Téléphone : {{.VisitorPhone}}</li>
{{- end}}
{{- if .VisitorEmail}}
<li>E-mail : {{.VisitorEmail}}</li>
{{- end}}
{{- if .Service}}
<li>Service : {{.Service}}</li>
{{- end}}
</ul>
`))

var visitorConfirmationTemplate = template.Must(template.New("visitor").Parse(`<p>Bonjour {{.VisitorName}},</p>
<p>Votre rendez-vous{{if .BusinessName}} chez {{.BusinessName}}{{end}} est confirmé le {{.Date}} à {{.Time}}.</p>
{{- if .Service}}
<p>Service : {{.Service}}</p>
{{- end}}
{{- if .AgentName}}
<p>Vous serez reçu(e) par {{.AgentName}}.</p>
{{- end}}
<p>Référence : {{.AppointmentID}}</p>
`))

// RenderOwnerSummary письмо владельцу с кратким описанием записи
// Агент, которому назначена запись, получает копию
func RenderOwnerSummary(to string, cc []string, s Summary) (*Message, error) {
	body, err := render(ownerSummaryTemplate, s)
	if err != nil {
		return nil, err
	}
	return &Message{
		To:      []string{to},
		Cc:      cc,
		Subject: fmt.Sprintf("Nouveau rendez-vous : %s le %s à %s", s.VisitorName, s.Date, s.Time),
		HTML:    body,
	}, nil
}

// RenderVisitorConfirmation письмо-подтверждение посетителю
func RenderVisitorConfirmation(to string, s Summary) (*Message, error) {
	body, err := render(visitorConfirmationTemplate, s)
	if err != nil {
		return nil, err
	}
	return &Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Confirmation de votre rendez-vous du %s à %s", s.Date, s.Time),
		HTML:    body,
	}, nil
}

func render(t *template.Template, s Summary) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.Name(), err)
	}
	return buf.String(), nil
}
