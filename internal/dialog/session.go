// Package dialog implements the per-user questionnaire: the session record,
// its in-memory store and the state machine that advances it one message at
// a time.
package dialog

import "github.com/m3rciful/recruitbot/internal/i18n"

// Step identifies a position in the questionnaire.
type Step uint8

const (
	ChooseLanguage Step = iota
	MainMenu
	ChooseVacancy
	AskName
	AskContact
	AskExperience
	AskState
	AskCityZip
	AskDriver
	Confirm
)

var stepNames = [...]string{
	ChooseLanguage: "choose_language",
	MainMenu:       "main_menu",
	ChooseVacancy:  "choose_vacancy",
	AskName:        "ask_name",
	AskContact:     "ask_contact",
	AskExperience:  "ask_experience",
	AskState:       "ask_state",
	AskCityZip:     "ask_city_zip",
	AskDriver:      "ask_driver",
	Confirm:        "confirm",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Answers is the partially filled application. Empty strings are unanswered.
type Answers struct {
	// Vacancy is the label shown to the applicant when they picked it.
	Vacancy string
	// VacancyKey is the listing's English fallback label.
	VacancyKey string
	Name       string
	Contact    string
	Experience string
	Region     string
	CityOrZip  string
	Driver     string
}

// Session is one user's dialogue progress. It is a value type: the machine
// returns a modified copy instead of mutating in place.
type Session struct {
	UserID   int64
	Step     Step
	Language i18n.Language
	Answers  Answers

	previous    Step
	hasPrevious bool
}

// NewSession returns the session synthesized on first contact.
func NewSession(userID int64) Session {
	return Session{UserID: userID, Step: ChooseLanguage}
}

// newCycle is the session after a submission or reset: main menu, answers
// cleared, language kept.
func newCycle(userID int64, lang i18n.Language) Session {
	return Session{UserID: userID, Step: MainMenu, Language: lang}
}

// Previous returns the step "back" would restore, if any.
func (s Session) Previous() (Step, bool) {
	return s.previous, s.hasPrevious
}

func (s Session) withPrevious(step Step) Session {
	s.previous = step
	s.hasPrevious = true
	return s
}

func (s Session) withoutPrevious() Session {
	s.previous = 0
	s.hasPrevious = false
	return s
}
