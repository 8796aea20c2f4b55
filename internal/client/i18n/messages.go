package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgLoginRequired  = "Please log in to continue"
	MsgSessionExpired = "Your session has expired, please log in again"
	MsgLoggedOut      = "You have been logged out"
	MsgWelcome        = "Welcome, %s"
	MsgRegistered     = "Registration complete"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		MsgLoginRequired:  MsgLoginRequired,
		MsgSessionExpired: MsgSessionExpired,
		MsgLoggedOut:      MsgLoggedOut,
		MsgWelcome:        MsgWelcome,
		MsgRegistered:     MsgRegistered,
	},
	language.Hebrew: {
		MsgLoginRequired:  "יש להתחבר כדי להמשיך",
		MsgSessionExpired: "פג תוקף ההתחברות, יש להתחבר מחדש",
		MsgLoggedOut:      "התנתקת בהצלחה",
		MsgWelcome:        "ברוך הבא, %s",
		MsgRegistered:     "ההרשמה הושלמה",
	},
	language.Arabic: {
		MsgLoginRequired:  "يرجى تسجيل الدخول للمتابعة",
		MsgSessionExpired: "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مرة أخرى",
		MsgLoggedOut:      "تم تسجيل الخروج",
		MsgWelcome:        "مرحبا، %s",
		MsgRegistered:     "اكتمل التسجيل",
	},
	language.Spanish: {
		MsgLoginRequired:  "Inicia sesión para continuar",
		MsgSessionExpired: "Tu sesión ha caducado, vuelve a iniciar sesión",
		MsgLoggedOut:      "Has cerrado sesión",
		MsgWelcome:        "Bienvenido, %s",
		MsgRegistered:     "Registro completado",
	},
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Fallback))
	for tag, msgs := range translations {
		for key, text := range msgs {
			// keys are constants, SetString only fails on malformed input
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}
