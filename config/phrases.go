package config

// Phrases groups every fixed phrase table the bot relies on: canned replies,
// session command synonyms, the output-safety blocklist and the grounding term
// set. Keeping them as data makes localization and testing a config change
// rather than a code change.
type Phrases struct {
	// WelcomeMessage is the country-selection menu shown to new sessions.
	WelcomeMessage string

	// FallbackMessage replaces any answer the bot cannot back with context.
	FallbackMessage string

	// ResetConfirmation precedes the welcome menu after a "reset" command.
	ResetConfirmation string

	// CountryConfirmation is sent once a country has been recognized.
	CountryConfirmation string

	// FeedbackPrompt answers a negative-feedback message.
	FeedbackPrompt string

	// SessionExpiredNotice prefixes the first reply after an inactivity reset.
	SessionExpiredNotice string

	// CourtesyReplies maps greeting/thanks/farewell phrases to canned replies.
	CourtesyReplies map[string]string

	// NegativeFeedback phrases mark the previous answer as wrong.
	NegativeFeedback []string

	// ResetCommands clear history and context but keep the country.
	ResetCommands []string

	// ChangeCountryCommands additionally clear the selected country.
	ChangeCountryCommands []string

	// BlocklistSnippets reject a delegated reply when found as a substring.
	BlocklistSnippets []string

	// RefusalPatterns are regular expressions matching generic model refusals.
	RefusalPatterns []string

	// ForbiddenTerms must not appear in a delegated reply unless the supplied
	// context mentions them.
	ForbiddenTerms []string

	// AddressSynonyms and ScheduleSynonyms gate the address/schedule sections
	// of the assembled context.
	AddressSynonyms  []string
	ScheduleSynonyms []string

	// BranchURLs holds the per-country business-centres page used when an
	// address or schedule lookup finds nothing.
	BranchURLs map[string]string
}

// DefaultPhrases returns the Spanish (Central America) phrase tables.
func DefaultPhrases() Phrases {
	return Phrases{
		WelcomeMessage: "¡Bienvenido! ¿Desde qué país nos visitas?\n" +
			"1️⃣ Costa Rica 🇨🇷\n" +
			"2️⃣ Nicaragua 🇳🇮\n" +
			"3️⃣ Panamá 🇵🇦\n" +
			"4️⃣ El Salvador 🇸🇻\n" +
			"Por favor respondé con el número (1, 2, 3 o 4) o el nombre del país.",

		FallbackMessage: "Lo siento, no encontré información para ayudarte con eso. " +
			"¿Podés reformular tu pregunta?",

		ResetConfirmation: "He reiniciado tu sesión. ¿Desde qué país nos visitas?\n",

		CountryConfirmation: "¡Gracias! Ahora podés preguntarme lo que necesités. 😊",

		FeedbackPrompt: "Gracias por avisar. ¿Podés decirme con qué tema específico " +
			"necesitás ayuda para mejorar la respuesta?",

		SessionExpiredNotice: "Tu sesión ha expirado por inactividad. He reiniciado la conversación. 😊\n\n",

		CourtesyReplies: map[string]string{
			"gracias":       "¡Con mucho gusto! ¿Te puedo ayudar en algo más? 😊",
			"hola":          "¡Hola! ¿En qué puedo ayudarte hoy?",
			"buenos días":   "¡Buenos días! ¿Cómo puedo asistirte?",
			"buenas tardes": "¡Buenas tardes! ¿Necesitás ayuda con algo?",
			"buenas noches": "¡Buenas noches! ¿Te ayudo con horarios o direcciones?",
			"adiós":         "¡Hasta luego! Fue un gusto ayudarte. 👋",
			"chao":          "¡Chao! ¡Que tengas un excelente día! 👋",
		},

		NegativeFeedback: []string{
			"no", "no es eso", "eso no era", "incorrecto", "equivocado",
			"no me sirve", "no responde", "no aplica", "nada que ver",
		},

		ResetCommands: []string{"reiniciar", "reset", "limpiar", "borrar"},

		ChangeCountryCommands: []string{
			"cambiar pais", "cambiar país", "menu", "menú", "pais", "país",
		},

		BlocklistSnippets: []string{
			"soy un asistente de ai", "puedo ayudarte con programación",
			"no tengo información sobre ti", "puedo ayudarte con temas generales",
			"estoy aquí para ayudarte", "según internet", "encontré en la web",
			"puedes buscar en google", "paypal", "tarjeta crédito", "interbancario",
			"asistente virtual", "como modelo de lenguaje", "no tengo acceso a internet",
		},

		RefusalPatterns: []string{
			`no (tengo|tengo suficiente) información`,
			`no puedo ayudarte con eso`,
			`no estoy seguro`,
			`no encontr[ée] información`,
			`no recib[ií] respuesta`,
		},

		ForbiddenTerms: []string{
			"hipotecario", "hipoteca", "hipotecarios",
			"automotriz", "auto", "vehicular",
			"empresarial", "empresa", "negocio",
			"tarjeta de crédito", "tarjeta crédito",
		},

		AddressSynonyms: []string{
			"direccion", "ubicacion", "donde", "ubicado", "ubicada", "sitio",
			"localizacion", "zona", "sucursal", "oficina", "waze", "mapa",
		},

		ScheduleSynonyms: []string{
			"horario", "horarios", "abre", "cierra", "hora", "apertura", "cierre",
		},

		BranchURLs: map[string]string{
			"cr":  "https://www.instacredit.com/centros_de_negocio/",
			"pa":  "https://www.instacredit.com.pa/centros_de_negocio/",
			"nic": "https://www.instacredit.com.ni/centros_de_negocio/",
			"slv": "https://www.instacredit.sv/centros_de_negocio/",
		},
	}
}

// SystemPrompt is the instruction block for the delegated model: Spanish only,
// context only, links verbatim, fixed refusal string.
const SystemPrompt = "Eres un asistente que responde únicamente en español y SOLO con la información incluida en el CONTEXTO.\n" +
	"Prohibido inventar, asumir o añadir datos no presentes en el contexto.\n" +
	"No inventes tipos de productos, tasas, requisitos, montos ni políticas si no están explícitos.\n" +
	"Si el contexto no contiene la respuesta, contesta exactamente:\n" +
	"'Lo siento, no encontré información para ayudarte con eso. ¿Podés reformular tu pregunta?'\n" +
	"Si el contexto incluye enlaces o acciones (CTAs), inclúyelos tal cual, sin modificarlos.\n" +
	"Responde breve, clara y literalmente con base en los datos del contexto."
