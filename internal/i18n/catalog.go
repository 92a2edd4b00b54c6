package i18n

// Key identifies one localized string.
type Key uint8

// Prompts.
const (
	ChooseLanguage Key = iota
	MainMenu
	ChooseVacancy
	AskName
	AskContact
	AskExperience
	AskState
	AskCityZip
	AskDriver
	Confirm
	Applied
	InvalidOption

	// Buttons.
	BtnVacancies
	BtnChangeLanguage
	BtnBack
	BtnMainMenu
	BtnExperienceNone
	BtnExperienceMid
	BtnExperienceSenior
	BtnYes
	BtnNo
	BtnConfirm
	BtnStateNY
	BtnStateNJ
	BtnStatePA
	BtnStateDC

	// Summary field labels.
	FieldVacancy
	FieldName
	FieldContact
	FieldExperience
	FieldState
	FieldCityZip
	FieldDriver

	keyCount
)

// ExperienceKeys are the accepted experience buckets, in keyboard order.
var ExperienceKeys = []Key{BtnExperienceNone, BtnExperienceMid, BtnExperienceSenior}

// DriverKeys are the accepted driver-license answers, in keyboard order.
var DriverKeys = []Key{BtnYes, BtnNo}

// StateKeys are the suggested regions offered on the state keyboard.
var StateKeys = []Key{BtnStateNY, BtnStateNJ, BtnStatePA, BtnStateDC}

type catalog [keyCount]string

var catalogs = map[Language]*catalog{
	English: {
		ChooseLanguage:      "🌐 Please choose your language:",
		MainMenu:            "🏠 Main Menu",
		ChooseVacancy:       "💼 Choose a vacancy:",
		AskName:             "✍️ Please enter your full name:",
		AskContact:          "📱 Please enter your contact (WhatsApp/Telegram with country code):",
		AskExperience:       "💼 Please select your experience:",
		AskState:            "🏙️ Please choose your state or type it:",
		AskCityZip:          "🏘️ Enter your city or ZIP code (either is fine):",
		AskDriver:           "🚗 Do you have a driver’s license?",
		Confirm:             "📋 Please confirm your application:",
		Applied:             "🎉 Your application has been sent!\n\nFollow our channel: https://t.me/GIGINVESTR",
		InvalidOption:       "⚠️ Please select an option from the menu.",
		BtnVacancies:        "💼 Vacancies",
		BtnChangeLanguage:   "🌐 Change Language",
		BtnBack:             "⬅️ Back",
		BtnMainMenu:         "🏠 Main Menu",
		BtnExperienceNone:   "0 years",
		BtnExperienceMid:    "1–3 years",
		BtnExperienceSenior: "3+ years",
		BtnYes:              "✅ Yes",
		BtnNo:               "❌ No",
		BtnConfirm:          "✅ Confirm and Submit",
		BtnStateNY:          "New York",
		BtnStateNJ:          "New Jersey",
		BtnStatePA:          "Pennsylvania",
		BtnStateDC:          "District of Columbia",
		FieldVacancy:        "🏢 Vacancy",
		FieldName:           "✍️ Name",
		FieldContact:        "📱 Contact",
		FieldExperience:     "💼 Experience",
		FieldState:          "🏙️ State",
		FieldCityZip:        "🏘️ City/ZIP",
		FieldDriver:         "🚗 Driver",
	},
	Russian: {
		ChooseLanguage:      "🌐 Пожалуйста, выберите язык:",
		MainMenu:            "🏠 Главное меню",
		ChooseVacancy:       "💼 Выберите вакансию:",
		AskName:             "✍️ Введите ваше полное имя:",
		AskContact:          "📱 Введите ваш контакт (WhatsApp/Telegram с кодом страны):",
		AskExperience:       "💼 Выберите ваш опыт:",
		AskState:            "🏙️ Пожалуйста, выберите штат или введите его:",
		AskCityZip:          "🏘️ Введите ваш город или ZIP код:",
		AskDriver:           "🚗 У вас есть водительское удостоверение?",
		Confirm:             "📋 Пожалуйста, подтвердите вашу заявку:",
		Applied:             "🎉 Ваша заявка была отправлена!\n\nПодпишитесь на наш канал: https://t.me/GIGINVESTR",
		InvalidOption:       "⚠️ Пожалуйста, выберите вариант из меню.",
		BtnVacancies:        "💼 Вакансии",
		BtnChangeLanguage:   "🌐 Сменить язык",
		BtnBack:             "⬅️ Назад",
		BtnMainMenu:         "🏠 Главное меню",
		BtnExperienceNone:   "0 лет",
		BtnExperienceMid:    "1–3 года",
		BtnExperienceSenior: "3+ лет",
		BtnYes:              "✅ Да",
		BtnNo:               "❌ Нет",
		BtnConfirm:          "✅ Подтвердить и отправить",
		BtnStateNY:          "Нью-Йорк",
		BtnStateNJ:          "Нью-Джерси",
		BtnStatePA:          "Пенсильвания",
		BtnStateDC:          "Округ Колумбия",
		FieldVacancy:        "🏢 Вакансия",
		FieldName:           "✍️ Имя",
		FieldContact:        "📱 Контакт",
		FieldExperience:     "💼 Опыт",
		FieldState:          "🏙️ Штат",
		FieldCityZip:        "🏘️ Город/ZIP",
		FieldDriver:         "🚗 Водительские права",
	},
	Spanish: {
		ChooseLanguage:      "🌐 Por favor, elige tu idioma:",
		MainMenu:            "🏠 Menú Principal",
		ChooseVacancy:       "💼 Elige una vacante:",
		AskName:             "✍️ Por favor, escribe tu nombre completo:",
		AskContact:          "📱 Escribe tu contacto (WhatsApp/Telegram con código de país):",
		AskExperience:       "💼 Por favor selecciona tu experiencia:",
		AskState:            "🏙️ Elige tu estado o escríbelo:",
		AskCityZip:          "🏘️ Escribe tu ciudad o código postal:",
		AskDriver:           "🚗 ¿Tienes licencia de conducir?",
		Confirm:             "📋 Por favor confirma tu aplicación:",
		Applied:             "🎉 ¡Tu aplicación ha sido enviada!\n\nSigue nuestro canal: https://t.me/GIGINVESTR",
		InvalidOption:       "⚠️ Por favor selecciona una opción válida.",
		BtnVacancies:        "💼 Vacantes",
		BtnChangeLanguage:   "🌐 Cambiar idioma",
		BtnBack:             "⬅️ Atrás",
		BtnMainMenu:         "🏠 Menú Principal",
		BtnExperienceNone:   "0 años",
		BtnExperienceMid:    "1–3 años",
		BtnExperienceSenior: "3+ años",
		BtnYes:              "✅ Sí",
		BtnNo:               "❌ No",
		BtnConfirm:          "✅ Confirmar y Enviar",
		BtnStateNY:          "Nueva York",
		BtnStateNJ:          "Nueva Jersey",
		BtnStatePA:          "Pensilvania",
		BtnStateDC:          "Distrito de Columbia",
		FieldVacancy:        "🏢 Vacante",
		FieldName:           "✍️ Nombre",
		FieldContact:        "📱 Contacto",
		FieldExperience:     "💼 Experiencia",
		FieldState:          "🏙️ Estado",
		FieldCityZip:        "🏘️ Ciudad/Código postal",
		FieldDriver:         "🚗 Licencia de conducir",
	},
}
