// Package i18n holds the UI strings of the slideshow.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is the language the timeline was written in.
var Default = language.BrazilianPortuguese

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		"progress.counter":        "Evento %d de %d",
		"nav.previous":            "Anterior",
		"nav.next":                "Próximo",
		"nav.home":                "Início",
		"media.placeholder":       "📸 Adicione sua mídia aqui",
		"media.video_unsupported": "Seu navegador não suporta vídeo.",
		"quiz.open":               "Responder Quiz 💕",
		"quiz.correct":            "🎉 Correto!",
		"quiz.wrong":              "💔 Ops, não foi dessa vez!",
		"quiz.your_answer":        "Sua resposta:",
		"quiz.right_answer":       "Resposta correta:",
		"timeline.heading":        "Nossa Linha do Tempo 💕",
		"timeline.dot_title":      "Evento %d: %s",
		"footer.made_with":        "Feito com muito carinho para o meu amor",
		"footer.moments":          "%d Momentos",
		"footer.quizzes":          "%d Quiz Interativo",
		"footer.love":             "100%% Amor",
		"error.not_found":         "Evento não encontrado",
	},
	language.AmericanEnglish: {
		"progress.counter":        "Event %d of %d",
		"nav.previous":            "Previous",
		"nav.next":                "Next",
		"nav.home":                "Home",
		"media.placeholder":       "📸 Add your media here",
		"media.video_unsupported": "Your browser does not support video.",
		"quiz.open":               "Take the quiz 💕",
		"quiz.correct":            "🎉 Correct!",
		"quiz.wrong":              "💔 Oops, not this time!",
		"quiz.your_answer":        "Your answer:",
		"quiz.right_answer":       "Correct answer:",
		"timeline.heading":        "Our Timeline 💕",
		"timeline.dot_title":      "Event %d: %s",
		"footer.made_with":        "Made with lots of love for my love",
		"footer.moments":          "%d Moments",
		"footer.quizzes":          "%d Interactive Quizzes",
		"footer.love":             "100%% Love",
		"error.not_found":         "Event not found",
	},
}

var cat = mustBuildCatalog()

func mustBuildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Default))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return b
}

// Supported returns the languages with a catalog.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(cat))
}

// Match maps any tag to the closest supported one.
func Match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default, false
	}
	return supported[idx], true
}

// ParseAcceptLanguage picks the best supported language from an
// Accept-Language header.
func ParseAcceptLanguage(header string) (language.Tag, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default, false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default, false
	}
	return supported[idx], true
}
