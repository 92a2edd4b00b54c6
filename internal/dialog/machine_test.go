package dialog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/recruitbot/internal/i18n"
	"github.com/m3rciful/recruitbot/internal/vacancy"
)

func testCatalog() *vacancy.Catalog {
	return vacancy.NewCatalog(
		vacancy.Listing{
			Labels:   map[i18n.Language]string{i18n.English: "Driver", i18n.Russian: "Водитель", i18n.Spanish: "Conductor"},
			Fallback: "Driver",
		},
		vacancy.Listing{
			Labels:   map[i18n.Language]string{i18n.English: "Cook"},
			Fallback: "Cook",
		},
	)
}

// feed runs inputs through the machine, carrying the session forward.
func feed(t *testing.T, m *Machine, sess Session, inputs ...string) (Session, Result) {
	t.Helper()
	var res Result
	for _, in := range inputs {
		res = m.Step(sess, in)
		sess = res.Session
	}
	return sess, res
}

func atStep(step Step, lang i18n.Language, prev Step) Session {
	s := Session{UserID: 1, Step: step, Language: lang}
	return s.withPrevious(prev)
}

func TestMachineCompleteApplication(t *testing.T) {
	m := NewMachine(testCatalog())
	sess := NewSession(42)

	sess, res := feed(t, m, sess,
		"English", "💼 Vacancies", "Driver", "Jane Doe", "+1 555 0100",
		"1–3 years", "New York", "10001", "✅ Yes",
	)
	require.Equal(t, Confirm, sess.Step)
	require.NotNil(t, res.Reply)
	assert.True(t, strings.HasPrefix(res.Reply.Text, "📋 Please confirm your application:"))
	assert.Contains(t, res.Reply.Text, "✍️ Name: Jane Doe")
	assert.Contains(t, res.Reply.Text, "🏘️ City/ZIP: 10001")
	assert.Equal(t, confirmKeyboard(i18n.English), res.Reply.Keyboard)

	sess, res = feed(t, m, sess, "✅ Confirm and Submit")
	require.NotNil(t, res.Submitted)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Equal(t, Answers{
		Vacancy:    "Driver",
		VacancyKey: "Driver",
		Name:       "Jane Doe",
		Contact:    "+1 555 0100",
		Experience: "1–3 years",
		Region:     "New York",
		CityOrZip:  "10001",
		Driver:     "✅ Yes",
	}, *res.Submitted)

	assert.Equal(t, Session{UserID: 42, Step: MainMenu, Language: i18n.English}, sess)
	assert.Equal(t, i18n.Text(i18n.English, i18n.Applied), res.Reply.Text)
	assert.Equal(t, mainMenuKeyboard(i18n.English), res.Reply.Keyboard)
}

func TestMachineLocalizedVacancyFrozenAtSelection(t *testing.T) {
	m := NewMachine(testCatalog())
	sess, _ := feed(t, m, NewSession(1), "Русский", "💼 Вакансии", "Водитель")
	require.Equal(t, AskName, sess.Step)
	assert.Equal(t, "Водитель", sess.Answers.Vacancy)
	assert.Equal(t, "Driver", sess.Answers.VacancyKey)

	// English fallback is accepted too.
	sess, _ = feed(t, m, NewSession(1), "Español", "💼 Vacantes", "Cook")
	require.Equal(t, AskName, sess.Step)
	assert.Equal(t, "Cook", sess.Answers.Vacancy)
}

func TestMachineInvalidLanguage(t *testing.T) {
	m := NewMachine(testCatalog())
	sess := NewSession(7)
	res := m.Step(sess, "Deutsch")
	assert.Equal(t, sess, res.Session)
	assert.Equal(t, OutcomeInvalid, res.Outcome)
	require.NotNil(t, res.Reply)
	assert.Equal(t, i18n.InvalidLanguage, res.Reply.Text)
	assert.Equal(t, []string{"English", "Русский", "Español"}, res.Reply.Keyboard.Labels())
	assert.True(t, res.Reply.Keyboard.OneTime)
}

func TestMachineRejectsInvalidOptions(t *testing.T) {
	m := NewMachine(testCatalog())
	cases := []struct {
		name string
		sess Session
		in   string
		kb   Keyboard
	}{
		{"main menu", Session{UserID: 1, Step: MainMenu, Language: i18n.English}, "hello", mainMenuKeyboard(i18n.English)},
		{"vacancy", atStep(ChooseVacancy, i18n.English, MainMenu), "Pilot", vacancyKeyboard(i18n.English, testCatalog())},
		{"experience", atStep(AskExperience, i18n.English, AskContact), "10 years", experienceKeyboard(i18n.English)},
		{"experience other language", atStep(AskExperience, i18n.Spanish, AskContact), "1–3 years", experienceKeyboard(i18n.Spanish)},
		{"driver", atStep(AskDriver, i18n.Russian, AskCityZip), "maybe", driverKeyboard(i18n.Russian)},
		{"confirm", atStep(Confirm, i18n.English, AskDriver), "sure", confirmKeyboard(i18n.English)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res := m.Step(tc.sess, tc.in)
			assert.Equal(t, tc.sess, res.Session)
			assert.Equal(t, OutcomeInvalid, res.Outcome)
			assert.Nil(t, res.Submitted)
			require.NotNil(t, res.Reply)
			assert.Equal(t, i18n.Text(tc.sess.Language, i18n.InvalidOption), res.Reply.Text)
			assert.Equal(t, tc.kb, res.Reply.Keyboard)
		})
	}
}

func TestMachineFreeTextStored(t *testing.T) {
	m := NewMachine(testCatalog())
	sess := atStep(AskState, i18n.English, AskExperience)
	res := m.Step(sess, "Ohio")
	assert.Equal(t, AskCityZip, res.Session.Step)
	assert.Equal(t, "Ohio", res.Session.Answers.Region)
	prev, ok := res.Session.Previous()
	assert.True(t, ok)
	assert.Equal(t, AskState, prev)
}

func TestMachineBack(t *testing.T) {
	m := NewMachine(testCatalog())

	t.Run("restores previous step", func(t *testing.T) {
		sess, _ := feed(t, m, NewSession(1), "English", "💼 Vacancies", "Driver", "Jane")
		require.Equal(t, AskContact, sess.Step)

		res := m.Step(sess, "⬅️ Back")
		assert.Equal(t, OutcomeBack, res.Outcome)
		assert.Equal(t, AskName, res.Session.Step)
		assert.Equal(t, "Jane", res.Session.Answers.Name)
		require.NotNil(t, res.Reply)
		assert.Equal(t, i18n.Text(i18n.English, i18n.AskName), res.Reply.Text)
		_, ok := res.Session.Previous()
		assert.False(t, ok)

		// A second back has nowhere to go.
		again := m.Step(res.Session, "⬅️ Back")
		assert.Equal(t, OutcomeIgnored, again.Outcome)
		assert.Nil(t, again.Reply)
		assert.Equal(t, res.Session, again.Session)
	})

	t.Run("answer after back overwrites the old one", func(t *testing.T) {
		sess, res := feed(t, m, NewSession(1), "English", "💼 Vacancies", "Driver", "Jane", "⬅️ Back", "  Janet  ")
		assert.Equal(t, OutcomeAdvanced, res.Outcome)
		assert.Equal(t, AskContact, sess.Step)
		assert.Equal(t, "  Janet  ", sess.Answers.Name)
		prev, ok := sess.Previous()
		assert.True(t, ok)
		assert.Equal(t, AskName, prev)
	})

	t.Run("from vacancy menu returns to main menu", func(t *testing.T) {
		sess, _ := feed(t, m, NewSession(1), "English", "💼 Vacancies")
		res := m.Step(sess, "⬅️ Back")
		assert.Equal(t, MainMenu, res.Session.Step)
		assert.Equal(t, mainMenuKeyboard(i18n.English), res.Reply.Keyboard)
	})

	t.Run("from confirm returns to driver question", func(t *testing.T) {
		sess := atStep(Confirm, i18n.Spanish, AskDriver)
		res := m.Step(sess, "⬅️ Atrás")
		assert.Equal(t, AskDriver, res.Session.Step)
		assert.Equal(t, driverKeyboard(i18n.Spanish), res.Reply.Keyboard)
	})

	t.Run("without previous is ignored", func(t *testing.T) {
		sess := Session{UserID: 1, Step: AskName, Language: i18n.English}
		res := m.Step(sess, "⬅️ Back")
		assert.Equal(t, sess, res.Session)
		assert.Nil(t, res.Reply)
	})

	t.Run("label of another language is plain input", func(t *testing.T) {
		sess := atStep(AskName, i18n.English, ChooseVacancy)
		res := m.Step(sess, "⬅️ Назад")
		assert.Equal(t, AskContact, res.Session.Step)
		assert.Equal(t, "⬅️ Назад", res.Session.Answers.Name)
	})
}

func TestMachineMainMenuKeepsAnswers(t *testing.T) {
	m := NewMachine(testCatalog())
	sess, _ := feed(t, m, NewSession(1), "English", "💼 Vacancies", "Driver", "Jane", "+1")
	require.Equal(t, AskExperience, sess.Step)

	res := m.Step(sess, "🏠 Main Menu")
	assert.Equal(t, OutcomeMainMenu, res.Outcome)
	assert.Equal(t, MainMenu, res.Session.Step)
	assert.Equal(t, "Jane", res.Session.Answers.Name)
	_, ok := res.Session.Previous()
	assert.False(t, ok)
	require.NotNil(t, res.Reply)
	assert.Equal(t, i18n.Text(i18n.English, i18n.MainMenu), res.Reply.Text)
}

func TestMachineChangeLanguage(t *testing.T) {
	m := NewMachine(testCatalog())
	sess := Session{UserID: 1, Step: MainMenu, Language: i18n.Russian}

	res := m.Step(sess, "🌐 Сменить язык")
	assert.Equal(t, ChooseLanguage, res.Session.Step)
	assert.Equal(t, i18n.Russian, res.Session.Language)
	require.NotNil(t, res.Reply)
	assert.Equal(t, i18n.Text(i18n.Russian, i18n.ChooseLanguage), res.Reply.Text)
	assert.Equal(t, languageKeyboard(), res.Reply.Keyboard)

	res = m.Step(res.Session, "Español")
	assert.Equal(t, MainMenu, res.Session.Step)
	assert.Equal(t, i18n.Spanish, res.Session.Language)
	assert.Equal(t, mainMenuKeyboard(i18n.Spanish), res.Reply.Keyboard)
}

func TestMachineEmptyCatalog(t *testing.T) {
	m := NewMachine(vacancy.NewCatalog())
	sess, res := feed(t, m, NewSession(1), "English", "💼 Vacancies")
	require.Equal(t, ChooseVacancy, sess.Step)
	assert.Equal(t, [][]string{navRow(i18n.English)}, res.Reply.Keyboard.Rows)

	res = m.Step(sess, "Driver")
	assert.Equal(t, OutcomeInvalid, res.Outcome)
}

func TestMachineUnsetLanguageForcesSelection(t *testing.T) {
	m := NewMachine(testCatalog())
	res := m.Step(Session{UserID: 3, Step: AskName}, "Jane")
	assert.Equal(t, ChooseLanguage, res.Session.Step)
	require.NotNil(t, res.Reply)
	assert.Equal(t, i18n.LanguagePrompt, res.Reply.Text)
}

func TestVacancyKeyboardLayout(t *testing.T) {
	cat := vacancy.NewCatalog(
		vacancy.Listing{Fallback: "A"},
		vacancy.Listing{Fallback: "B"},
		vacancy.Listing{Fallback: "C"},
	)
	kb := vacancyKeyboard(i18n.English, cat)
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}, navRow(i18n.English)}, kb.Rows)
}

func TestSummaryFieldOrder(t *testing.T) {
	a := Answers{Vacancy: "Cook", Name: "N", Contact: "C", Experience: "E", Region: "R", CityOrZip: "Z", Driver: "D"}
	got := Summary(i18n.English, a)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "🏢 Vacancy: Cook", lines[1])
	assert.Equal(t, "🚗 Driver: D", lines[7])
}

func TestMachineSubmitMatchesStoreReset(t *testing.T) {
	m := NewMachine(testCatalog())
	sess := atStep(Confirm, i18n.Spanish, AskDriver)
	sess.Answers.Name = "Ana"

	res := m.Step(sess, i18n.Text(i18n.Spanish, i18n.BtnConfirm))
	require.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Equal(t, NewMemoryStore().Reset(1, i18n.Spanish), res.Session)
	assert.Equal(t, NewExpiringStore(time.Hour).Reset(1, i18n.Spanish), res.Session)
}
