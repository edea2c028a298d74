package catalog

import "github.com/lernzeit/quizgen/internal/question"

// distinctFrom returns a constraint requiring the drawn value to differ
// from all of the named, previously resolved parameters.
func distinctFrom(others ...string) func(v any, resolved map[string]any) bool {
	return func(v any, resolved map[string]any) bool {
		for _, o := range others {
			if resolved[o] == v {
				return false
			}
		}
		return true
	}
}

// matchNouns is the pool for article-matching templates. Every entry must
// be present in the answer calculator's article table.
var matchNouns = []string{
	"Hund", "Katze", "Haus", "Blume", "Auto", "Brot", "Sonne", "Kind", "Ball", "Tür",
}

func germanTemplates() []Template {
	return []Template{
		{
			ID: "ger-g1-syllables", Subject: SubjectGerman, Grade: 1,
			Shape: question.ShapeTextInput,
			Text:  "Wie viele Silben hat das Wort {w}?",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"Banane", "Schule", "Hund", "Schmetterling", "Auto", "Sonne", "Elefant",
				}},
			},
			Rule:        RuleSyllableCount,
			Explanation: "Klatsche das Wort {w} mit: es hat {answer} Silben.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"syllables"},
		},
		{
			ID: "ger-g1-articles", Subject: SubjectGerman, Grade: 1,
			Shape: question.ShapeMatching,
			Text:  "Ordne die Wörter dem richtigen Artikel zu: {w1}, {w2}, {w3}, {w4}",
			Params: []ParamSpec{
				{Name: "w1", Kind: KindList, AllowedValues: matchNouns},
				{Name: "w2", Kind: KindList, AllowedValues: matchNouns, Constraint: distinctFrom("w1"), ConstraintDesc: "distinct words"},
				{Name: "w3", Kind: KindList, AllowedValues: matchNouns, Constraint: distinctFrom("w1", "w2"), ConstraintDesc: "distinct words"},
				{Name: "w4", Kind: KindList, AllowedValues: matchNouns, Constraint: distinctFrom("w1", "w2", "w3"), ConstraintDesc: "distinct words"},
			},
			Rule:        RuleArticleMatch,
			Explanation: "Jedes Nomen hat seinen festen Artikel: der, die oder das.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"articles"},
		},
		{
			ID: "ger-g2-plural", Subject: SubjectGerman, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Wie heißt die Mehrzahl von {w}?",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"Hund", "Katze", "Haus", "Kind", "Baum", "Buch", "Apfel", "Blume",
				}},
			},
			Rule:        RulePlural,
			Explanation: "Die Mehrzahl von {w} ist {answer}.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"plural"},
		},
		{
			ID: "ger-g2-plural-mc", Subject: SubjectGerman, Grade: 2,
			Shape: question.ShapeMultipleChoice,
			Text:  "Wie heißt die Mehrzahl von {w}?",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"Maus", "Stuhl", "Bild", "Auge",
				}},
			},
			Rule:        RulePlural,
			Explanation: "Die Mehrzahl von {w} ist {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"plural"},
		},
		{
			ID: "ger-g2-nouns", Subject: SubjectGerman, Grade: 2,
			Shape: question.ShapeWordSelection,
			Text:  "Wähle alle Nomen aus!",
			Params: []ParamSpec{
				{Name: "satz", Kind: KindList, AllowedValues: []string{
					"Der *Hund* bellt im *Garten*",
					"Die *Katze* schläft auf dem *Sofa*",
					"Mein *Bruder* isst einen *Apfel*",
					"Die *Kinder* spielen mit dem *Ball*",
				}},
			},
			Rule:        RuleMarkedTokens,
			Explanation: "Nomen schreibt man groß: {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"nouns", "word-types"},
		},
		{
			ID: "ger-g2-compound", Subject: SubjectGerman, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Welches neue Wort entsteht aus {paar}?",
			Params: []ParamSpec{
				{Name: "paar", Kind: KindEnum, AllowedValues: []string{
					"Fuß + Ball", "Haus + Tür", "Sonnen + Blume", "Schul + Hof", "Regen + Schirm",
				}},
			},
			Rule:        RuleCompoundWord,
			Explanation: "Aus {paar} wird {answer}.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"compound-words"},
		},
		{
			ID: "ger-g3-past", Subject: SubjectGerman, Grade: 3,
			Shape: question.ShapeTextInput,
			Text:  "Wie lautet die Vergangenheitsform (Präteritum) von {w}? Beispiel: ich {w} → ich ...",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"gehen", "essen", "sehen", "laufen", "spielen", "machen", "lachen",
				}},
			},
			Rule:        RulePastTense,
			Explanation: "Das Präteritum von {w} heißt {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"verbs", "past-tense"},
		},
		{
			ID: "ger-g3-comparative", Subject: SubjectGerman, Grade: 3,
			Shape: question.ShapeTextInput,
			Text:  "Wie heißt die Steigerung von {w}? Beispiel: klein → kleiner",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"gut", "schnell", "groß", "schön", "hoch", "viel",
				}},
			},
			Rule:        RuleComparative,
			Explanation: "Die Steigerung von {w} ist {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"adjectives", "comparison"},
		},
		{
			ID: "ger-g3-synonym", Subject: SubjectGerman, Grade: 3,
			Shape: question.ShapeMultipleChoice,
			Text:  "Welches Wort bedeutet fast das Gleiche wie {w}?",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"schnell", "sprechen", "schauen", "froh",
				}},
			},
			Rule:        RuleSynonym,
			Explanation: "{w} und {answer} bedeuten fast das Gleiche.",
			Difficulty:  DifficultyHard,
			Topics:      []string{"synonyms", "vocabulary"},
		},
		{
			ID: "ger-g3-verbs", Subject: SubjectGerman, Grade: 3,
			Shape: question.ShapeWordSelection,
			Text:  "Wähle alle Verben aus!",
			Params: []ParamSpec{
				{Name: "satz", Kind: KindList, AllowedValues: []string{
					"Lisa *rennt* zur Schule und *lacht*",
					"Der Hund *bellt* und *springt* hoch",
					"Wir *singen* und *tanzen* im Kreis",
				}},
			},
			Rule:        RuleMarkedTokens,
			Explanation: "Verben sagen, was jemand tut: {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"verbs", "word-types"},
		},
		{
			ID: "ger-g4-superlative", Subject: SubjectGerman, Grade: 4,
			Shape: question.ShapeTextInput,
			Text:  "Wie heißt die höchste Steigerungsform von {w}? Beispiel: klein → am kleinsten",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"gut", "schnell", "groß", "hoch", "nah",
				}},
			},
			Rule:        RuleSuperlative,
			Explanation: "Die höchste Steigerungsform von {w} ist {answer}.",
			Difficulty:  DifficultyHard,
			Topics:      []string{"adjectives", "comparison"},
		},
		{
			ID: "ger-g4-antonym", Subject: SubjectGerman, Grade: 4,
			Shape: question.ShapeTextInput,
			Text:  "Wie heißt das Gegenteil von {w}?",
			Params: []ParamSpec{
				{Name: "w", Kind: KindEnum, AllowedValues: []string{
					"groß", "hell", "laut", "schnell", "alt",
				}},
			},
			Rule:        RuleAntonym,
			Explanation: "Das Gegenteil von {w} ist {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"antonyms", "vocabulary"},
		},
	}
}
