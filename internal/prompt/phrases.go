package prompt

import (
	"fmt"
	"strings"
)

// Locale selects the language of every fixed prompt text.
type Locale string

const (
	English Locale = "en"
	French  Locale = "fr"
)

// Locales lists the supported locales in display order.
var Locales = []Locale{English, French}

// ParseLocale maps a config value to a Locale.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case English, French:
		return l, nil
	case "":
		return English, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", s)
	}
}

// phrases holds the fixed texts for one locale. Opening takes the
// category as its only verb.
type phrases struct {
	opening       []string
	continuation  string
	answerMarker  string
	fallback      string
	questionLabel string
	evaluation    []string
}

var tables = map[Locale]phrases{
	English: {
		opening: []string{
			"Imagine you are a technical examiner in %s at an intermediate to advanced level.",
			"Your questions are precise and call for short answers.",
			"Your questions may cover any topic closely or loosely related to this field.",
			"Ask one question at a time.",
			"Do not give the answers to your questions.",
			"Evaluate my answer after each of your questions.",
			"Ask your first question.",
		},
		continuation:  "Ask another question.",
		answerMarker:  "My answer: ",
		fallback:      "I don't know.",
		questionLabel: "Question",
		evaluation: []string{
			"Above is a list of questions, each followed by my answer.",
			"Evaluate whether each answer is correct for its question.",
			"Give each answer a score from 0 to 5.",
			"Add the correct answer to each evaluation.",
			"Write exactly one line per question, in order, with this shape:",
			"status : score : correct answer",
			"where status is either correct or incorrect.",
			"Evaluate every question and do not skip any.",
		},
	},
	French: {
		opening: []string{
			"Imagine que tu es un examinateur technique en %s de niveau intermediaire a avance.",
			"Tes questions sont precises et appellent des reponses courtes.",
			"Tes questions peuvent porter sur tout sujet proche ou lointain de ce domaine.",
			"Pose une seule question a la fois.",
			"Ne donne pas les reponses a tes questions.",
			"Evalue ma reponse apres chacune de tes questions.",
			"Pose ta premiere question.",
		},
		continuation:  "Pose une autre question.",
		answerMarker:  "Ma reponse: ",
		fallback:      "Je ne sais pas.",
		questionLabel: "Question",
		evaluation: []string{
			"Ci-dessus se trouve une liste de questions, chacune suivie de ma reponse.",
			"Evalue si chaque reponse est correcte pour sa question.",
			"Donne a chaque reponse une note de 0 a 5.",
			"Ajoute la reponse correcte a chaque evaluation.",
			"Ecris exactement une ligne par question, dans l'ordre, sous cette forme :",
			"statut : note : reponse correcte",
			"ou statut vaut correcte ou incorrecte.",
			"Evalue toutes les questions sans en sauter aucune.",
		},
	},
}

// AnswerMarkers returns the answer prefix of every locale. Parsers use it
// to strip scaffolding regardless of the locale a session ran in.
func AnswerMarkers() []string {
	out := make([]string, 0, len(Locales))
	for _, l := range Locales {
		out = append(out, tables[l].answerMarker)
	}
	return out
}
