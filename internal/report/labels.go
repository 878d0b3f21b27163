package report

// labels are the headings printed in rendered documents.
type labels struct {
	Title      string
	Category   string
	Overall    string
	Questions  string
	Time       string
	Question   string
	Answer     string
	Correction string
	Score      string
	Correct    string
	Incorrect  string
}

var labelTables = map[string]labels{
	"en": {
		Title:      "Interview report",
		Category:   "Category",
		Overall:    "Overall score",
		Questions:  "Questions",
		Time:       "Time",
		Question:   "Question",
		Answer:     "Answer",
		Correction: "Correction",
		Score:      "Score",
		Correct:    "correct",
		Incorrect:  "incorrect",
	},
	"fr": {
		Title:      "Rapport d'entretien",
		Category:   "Categorie",
		Overall:    "Note Générale",
		Questions:  "Nbr questions",
		Time:       "Temps",
		Question:   "Question",
		Answer:     "Reponse",
		Correction: "Correction",
		Score:      "Note",
		Correct:    "correcte",
		Incorrect:  "incorrecte",
	},
}

func labelsFor(locale string) labels {
	if l, ok := labelTables[locale]; ok {
		return l
	}
	return labelTables["en"]
}
