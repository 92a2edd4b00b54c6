package dialog

import (
	"github.com/m3rciful/recruitbot/internal/i18n"
	"github.com/m3rciful/recruitbot/internal/vacancy"
)

// Reply is one outbound prompt with its keyboard.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Outcome classifies a transition for logging.
type Outcome string

const (
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeMainMenu  Outcome = "main_menu"
	OutcomeBack      Outcome = "back"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeSubmitted Outcome = "submitted"
)

// Result is the outcome of feeding one message to the machine.
type Result struct {
	Session Session
	// Reply is nil when nothing should be sent.
	Reply *Reply
	// Submitted carries the finished answers when the applicant confirmed.
	// Session is already reset to the main menu in that case.
	Submitted *Answers
	Outcome   Outcome
}

// Machine advances sessions. It holds no per-user state and is safe for
// concurrent use.
type Machine struct {
	vacancies *vacancy.Catalog
}

// NewMachine returns a machine offering the given vacancies.
func NewMachine(vacancies *vacancy.Catalog) *Machine {
	return &Machine{vacancies: vacancies}
}

// Step applies input to sess and returns the next session and reply.
// Rejected input never changes the session.
func (m *Machine) Step(sess Session, input string) Result {
	if sess.Step == ChooseLanguage {
		return m.chooseLanguage(sess, input)
	}

	lang := sess.Language
	if !lang.Valid() {
		// Only reachable through a hand-built session; force selection again.
		next := NewSession(sess.UserID)
		return m.result(next, OutcomeInvalid)
	}

	if key, ok := i18n.Match(lang, input, i18n.BtnMainMenu, i18n.BtnBack); ok {
		if key == i18n.BtnMainMenu {
			next := sess.withoutPrevious()
			next.Step = MainMenu
			return m.result(next, OutcomeMainMenu)
		}
		prev, ok := sess.Previous()
		if !ok {
			return Result{Session: sess, Outcome: OutcomeIgnored}
		}
		next := sess.withoutPrevious()
		next.Step = prev
		return m.result(next, OutcomeBack)
	}

	switch sess.Step {
	case MainMenu:
		return m.mainMenu(sess, input)
	case ChooseVacancy:
		listing, ok := m.vacancies.Find(lang, input)
		if !ok {
			return m.invalid(sess)
		}
		return m.advance(sess, AskName, func(a *Answers) {
			a.Vacancy = listing.Label(lang)
			a.VacancyKey = listing.Fallback
		})
	case AskName:
		return m.advance(sess, AskContact, func(a *Answers) { a.Name = input })
	case AskContact:
		return m.advance(sess, AskExperience, func(a *Answers) { a.Contact = input })
	case AskExperience:
		if _, ok := i18n.Match(lang, input, i18n.ExperienceKeys...); !ok {
			return m.invalid(sess)
		}
		return m.advance(sess, AskState, func(a *Answers) { a.Experience = input })
	case AskState:
		return m.advance(sess, AskCityZip, func(a *Answers) { a.Region = input })
	case AskCityZip:
		return m.advance(sess, AskDriver, func(a *Answers) { a.CityOrZip = input })
	case AskDriver:
		if _, ok := i18n.Match(lang, input, i18n.DriverKeys...); !ok {
			return m.invalid(sess)
		}
		return m.advance(sess, Confirm, func(a *Answers) { a.Driver = input })
	case Confirm:
		if _, ok := i18n.Match(lang, input, i18n.BtnConfirm); !ok {
			return m.invalid(sess)
		}
		submitted := sess.Answers
		next := newCycle(sess.UserID, lang)
		return Result{
			Session:   next,
			Reply:     &Reply{Text: i18n.Text(lang, i18n.Applied), Keyboard: mainMenuKeyboard(lang)},
			Submitted: &submitted,
			Outcome:   OutcomeSubmitted,
		}
	}
	return m.invalid(sess)
}

// Prompt returns the prompt for the session's current step.
func (m *Machine) Prompt(sess Session) Reply {
	lang := sess.Language
	switch sess.Step {
	case ChooseLanguage:
		text := i18n.LanguagePrompt
		if lang.Valid() {
			text = i18n.Text(lang, i18n.ChooseLanguage)
		}
		return Reply{Text: text, Keyboard: languageKeyboard()}
	case MainMenu:
		return Reply{Text: i18n.Text(lang, i18n.MainMenu), Keyboard: mainMenuKeyboard(lang)}
	case ChooseVacancy:
		return Reply{Text: i18n.Text(lang, i18n.ChooseVacancy), Keyboard: vacancyKeyboard(lang, m.vacancies)}
	case AskName:
		return Reply{Text: i18n.Text(lang, i18n.AskName), Keyboard: navKeyboard(lang)}
	case AskContact:
		return Reply{Text: i18n.Text(lang, i18n.AskContact), Keyboard: navKeyboard(lang)}
	case AskExperience:
		return Reply{Text: i18n.Text(lang, i18n.AskExperience), Keyboard: experienceKeyboard(lang)}
	case AskState:
		return Reply{Text: i18n.Text(lang, i18n.AskState), Keyboard: stateKeyboard(lang)}
	case AskCityZip:
		return Reply{Text: i18n.Text(lang, i18n.AskCityZip), Keyboard: navKeyboard(lang)}
	case AskDriver:
		return Reply{Text: i18n.Text(lang, i18n.AskDriver), Keyboard: driverKeyboard(lang)}
	case Confirm:
		return Reply{Text: Summary(lang, sess.Answers), Keyboard: confirmKeyboard(lang)}
	}
	return Reply{Text: i18n.Text(lang, i18n.MainMenu), Keyboard: mainMenuKeyboard(lang)}
}

func (m *Machine) chooseLanguage(sess Session, input string) Result {
	lang, ok := i18n.FromLabel(input)
	if !ok {
		return Result{
			Session: sess,
			Reply:   &Reply{Text: i18n.InvalidLanguage, Keyboard: languageKeyboard()},
			Outcome: OutcomeInvalid,
		}
	}
	next := sess.withoutPrevious()
	next.Language = lang
	next.Step = MainMenu
	return m.result(next, OutcomeAdvanced)
}

func (m *Machine) mainMenu(sess Session, input string) Result {
	key, ok := i18n.Match(sess.Language, input, i18n.BtnChangeLanguage, i18n.BtnVacancies)
	if !ok {
		return m.invalid(sess)
	}
	next := sess.withoutPrevious()
	if key == i18n.BtnChangeLanguage {
		next.Step = ChooseLanguage
	} else {
		next = next.withPrevious(MainMenu)
		next.Step = ChooseVacancy
	}
	return m.result(next, OutcomeAdvanced)
}

// advance records an answer and moves forward, remembering the departed step for "back".
func (m *Machine) advance(sess Session, to Step, record func(*Answers)) Result {
	next := sess.withPrevious(sess.Step)
	record(&next.Answers)
	next.Step = to
	return m.result(next, OutcomeAdvanced)
}

func (m *Machine) invalid(sess Session) Result {
	prompt := m.Prompt(sess)
	return Result{
		Session: sess,
		Reply:   &Reply{Text: i18n.Text(sess.Language, i18n.InvalidOption), Keyboard: prompt.Keyboard},
		Outcome: OutcomeInvalid,
	}
}

func (m *Machine) result(next Session, outcome Outcome) Result {
	reply := m.Prompt(next)
	return Result{Session: next, Reply: &reply, Outcome: outcome}
}
