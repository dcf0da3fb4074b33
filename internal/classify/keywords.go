package classify

import "github.com/cortezalberto/aulaguard/internal/model"

// Keyword tables are bilingual (Spanish/English) because the platform
// serves both. All matching is done on the lowercased message.

// intentKeywords scores the message per intent category. The category with
// the highest match count wins; ties break by model.IntentPriority.
var intentKeywords = map[model.Intent][]string{
	model.IntentDelegation: {
		"dame", "hazme", "haz el", "escribe el", "escribime",
		"resuelve", "genera el", "necesito el código",
		"give me", "write me", "do the", "solve", "generate the",
		"make me", "code it",
	},
	model.IntentDebugging: {
		"error", "bug", "falla", "no funciona", "se rompe", "excepción",
		"exception", "doesn't work", "crashes", "stack trace", "segfault",
		"nullpointer", "no compila", "won't compile",
	},
	model.IntentClarification: {
		"qué es", "qué significa", "no entiendo", "explica", "explicame",
		"cómo funciona", "what is", "what does", "i don't understand",
		"explain", "how does", "can you clarify", "qué diferencia",
	},
	model.IntentValidation: {
		"está bien", "es correcto", "revisa", "verifica", "chequea",
		"is this right", "is this correct", "review my", "check my",
		"does this look", "am i right",
	},
	model.IntentExploration: {
		"qué pasaría", "por qué", "comparar", "alternativas", "ventajas",
		"what if", "why does", "compare", "trade-off", "tradeoff",
		"pros and cons", "difference between", "diferencia entre",
	},
}

// delegationPhrases is the dedicated full-solution-request list. It is
// independent of the intent score: a message classified elsewhere in tone
// still trips total delegation if any phrase appears.
var delegationPhrases = []string{
	"código completo", "solución completa", "todo el código",
	"hazlo por mí", "hacelo por mi", "resuélvelo por mí",
	"para entregar", "listo para entregar",
	"complete code", "full code", "complete solution", "entire solution",
	"do it for me", "solve it for me", "write the whole",
	"ready to submit", "ready to hand in",
}

// evasionPhrases detect attempts to talk the tutor out of its rules.
var evasionPhrases = []string{
	"ignora tus reglas", "ignora las instrucciones", "olvida las reglas",
	"sin restricciones", "actúa como si", "modo desarrollador",
	"ignore your rules", "ignore previous instructions", "forget your rules",
	"without restrictions", "pretend you are", "developer mode", "jailbreak",
}

// firstPersonMarkers signal the student reasoning on their own.
var firstPersonMarkers = []string{
	"creo que", "pienso que", "mi enfoque", "mi idea", "yo haría",
	"me parece", "intenté", "mi hipótesis", "probé",
	"i think", "my approach", "my idea", "i would", "i tried",
	"my hypothesis", "it seems to me",
}

// alternativeMarkers signal the student weighing more than one option.
var alternativeMarkers = []string{
	"o podría", "otra opción", "otra forma", "en vez de", "alternativa",
	"or i could", "another option", "another way", "instead of",
	"alternatively", "or maybe",
}

// explanationMarkers signal a request to understand, not just to receive.
var explanationMarkers = []string{
	"por qué", "explica", "explicame", "para entender", "razona",
	"why", "explain", "help me understand", "walk me through",
}

// cognitiveStateKeywords is a second, independent table. First row with a
// match wins, in declared order; no match defaults to implementation.
var cognitiveStateKeywords = []struct {
	state    model.CognitiveState
	keywords []string
}{
	{model.StateDebugging, []string{
		"error", "bug", "falla", "excepción", "no funciona", "se rompe",
		"exception", "doesn't work", "crashes", "stack trace", "no compila",
	}},
	{model.StatePlanning, []string{
		"cómo implemento", "cómo empiezo", "por dónde empiezo", "diseñar",
		"planificar", "how do i implement", "how do i start",
		"where do i start", "design", "plan out",
	}},
	{model.StateValidation, []string{
		"probar", "verificar", "comprobar", "testear", "revisa",
		"test", "verify", "check my", "review my",
	}},
	{model.StateExploration, []string{
		"qué pasaría", "comparar", "explorar", "what if", "compare",
		"explore", "difference between", "diferencia entre",
	}},
}
