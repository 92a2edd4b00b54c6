package dialog

import (
	"github.com/m3rciful/recruitbot/internal/i18n"
	"github.com/m3rciful/recruitbot/internal/vacancy"
)

// Keyboard is an ordered grid of reply labels. Pressing a label sends it back
// verbatim as the next message.
type Keyboard struct {
	Rows    [][]string
	OneTime bool
}

// Labels flattens the grid in reading order.
func (k Keyboard) Labels() []string {
	var out []string
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

const vacanciesPerRow = 2

func languageKeyboard() Keyboard {
	rows := make([][]string, 0, len(i18n.Languages))
	for _, l := range i18n.Languages {
		rows = append(rows, []string{l.Label()})
	}
	return Keyboard{Rows: rows, OneTime: true}
}

func mainMenuKeyboard(lang i18n.Language) Keyboard {
	return Keyboard{Rows: [][]string{
		{i18n.Text(lang, i18n.BtnVacancies)},
		{i18n.Text(lang, i18n.BtnChangeLanguage)},
	}}
}

func navRow(lang i18n.Language) []string {
	return []string{i18n.Text(lang, i18n.BtnBack), i18n.Text(lang, i18n.BtnMainMenu)}
}

func navKeyboard(lang i18n.Language) Keyboard {
	return Keyboard{Rows: [][]string{navRow(lang)}}
}

func experienceKeyboard(lang i18n.Language) Keyboard {
	rows := make([][]string, 0, len(i18n.ExperienceKeys)+1)
	for _, k := range i18n.ExperienceKeys {
		rows = append(rows, []string{i18n.Text(lang, k)})
	}
	return Keyboard{Rows: append(rows, navRow(lang))}
}

func stateKeyboard(lang i18n.Language) Keyboard {
	return Keyboard{Rows: [][]string{
		{i18n.Text(lang, i18n.BtnStateNY), i18n.Text(lang, i18n.BtnStateNJ)},
		{i18n.Text(lang, i18n.BtnStatePA), i18n.Text(lang, i18n.BtnStateDC)},
		navRow(lang),
	}}
}

func driverKeyboard(lang i18n.Language) Keyboard {
	row := make([]string, 0, len(i18n.DriverKeys))
	for _, k := range i18n.DriverKeys {
		row = append(row, i18n.Text(lang, k))
	}
	return Keyboard{Rows: [][]string{row, navRow(lang)}}
}

func confirmKeyboard(lang i18n.Language) Keyboard {
	return Keyboard{Rows: [][]string{
		{i18n.Text(lang, i18n.BtnConfirm)},
		navRow(lang),
	}}
}

// vacancyKeyboard lists the catalog two labels per row, followed by navigation.
func vacancyKeyboard(lang i18n.Language, catalog *vacancy.Catalog) Keyboard {
	labels := catalog.Labels(lang)
	rows := make([][]string, 0, len(labels)/vacanciesPerRow+2)
	for i := 0; i < len(labels); i += vacanciesPerRow {
		end := min(i+vacanciesPerRow, len(labels))
		rows = append(rows, labels[i:end])
	}
	return Keyboard{Rows: append(rows, navRow(lang))}
}
