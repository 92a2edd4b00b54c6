// Package submission turns a confirmed questionnaire into an application
// record and fans it out to the operator's delivery channels.
package submission

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/recruitbot/internal/dialog"
	"github.com/m3rciful/recruitbot/internal/i18n"
)

// Application is one confirmed submission.
type Application struct {
	ID          uuid.UUID
	UserID      int64
	Username    string
	Language    i18n.Language
	Answers     dialog.Answers
	SubmittedAt time.Time
}

// New stamps answers with a fresh ID and the submission time.
func New(userID int64, username string, lang i18n.Language, answers dialog.Answers, now time.Time) Application {
	return Application{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		Language:    lang,
		Answers:     answers,
		SubmittedAt: now.UTC(),
	}
}

const recordHeader = "New application:"

// Format renders the operator record. Labels are always English so the
// operator reads one format regardless of the applicant's language.
func Format(app Application) string {
	var b strings.Builder
	b.WriteString(recordHeader)
	b.WriteByte('\n')
	dialog.WriteFields(&b, dialog.Fields(i18n.English, app.Answers))
	return b.String()
}

// Subject is the email subject line for app.
func Subject(app Application) string {
	return fmt.Sprintf("New Application — %s", app.Answers.Name)
}

var htmlRecord = template.Must(template.New("application").Parse(`<h3>New application</h3>
<table>
{{- range .Fields}}
<tr><td><b>{{.Label}}</b></td><td>{{.Value}}</td></tr>
{{- end}}
</table>
<p><small>ID {{.ID}} · {{.Lang}} · {{.SubmittedAt}}{{if .Username}} · @{{.Username}}{{end}}</small></p>
`))

// FormatHTML renders the record as an HTML fragment for the email alternative part.
// Applicant input is escaped.
func FormatHTML(app Application) (string, error) {
	data := struct {
		Fields      []dialog.Field
		ID          string
		Lang        string
		SubmittedAt string
		Username    string
	}{
		Fields:      dialog.Fields(i18n.English, app.Answers),
		ID:          app.ID.String(),
		Lang:        app.Language.Code(),
		SubmittedAt: app.SubmittedAt.Format(time.RFC3339),
		Username:    app.Username,
	}
	var buf bytes.Buffer
	if err := htmlRecord.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("submission: render html: %w", err)
	}
	return buf.String(), nil
}
