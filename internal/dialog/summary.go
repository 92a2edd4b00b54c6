package dialog

import (
	"strings"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

// Field is one labelled line of an application summary.
type Field struct {
	Label string
	Value string
}

// Fields lists the answers with labels in lang, vacancy first.
func Fields(lang i18n.Language, a Answers) []Field {
	return []Field{
		{i18n.Text(lang, i18n.FieldVacancy), a.Vacancy},
		{i18n.Text(lang, i18n.FieldName), a.Name},
		{i18n.Text(lang, i18n.FieldContact), a.Contact},
		{i18n.Text(lang, i18n.FieldExperience), a.Experience},
		{i18n.Text(lang, i18n.FieldState), a.Region},
		{i18n.Text(lang, i18n.FieldCityZip), a.CityOrZip},
		{i18n.Text(lang, i18n.FieldDriver), a.Driver},
	}
}

// WriteFields renders fields as "Label: value" lines.
func WriteFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
}

// Summary is the confirmation prompt: the localized header followed by every answer.
func Summary(lang i18n.Language, a Answers) string {
	var b strings.Builder
	b.WriteString(i18n.Text(lang, i18n.Confirm))
	b.WriteByte('\n')
	WriteFields(&b, Fields(lang, a))
	return b.String()
}
