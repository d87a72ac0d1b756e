// Package locale maps puzzle states and UI strings to per-language labels.
// Catalogues are gettext .po files embedded under assets/locales.
package locale

import (
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// Fallback is used for unknown or missing languages.
const Fallback = "en"

var (
	mu      sync.Mutex
	catalog = map[string]*gotext.Po{}
)

// po returns the parsed catalogue for lang, loading it on first use.
// A nil result means neither lang nor the fallback could be loaded.
func po(lang string) *gotext.Po {
	mu.Lock()
	defer mu.Unlock()
	return load(lang)
}

// load must be called with mu held.
func load(lang string) *gotext.Po {
	if p, ok := catalog[lang]; ok {
		return p
	}
	data, err := assets.Locale(lang)
	if err != nil {
		if lang == Fallback {
			log.Error().Err(err).Msg("fallback locale missing")
			return nil
		}
		log.Debug().Str("locale", lang).Msg("no catalogue, using fallback")
		p := load(Fallback)
		catalog[lang] = p
		return p
	}
	p := gotext.NewPo()
	p.Parse(data)
	catalog[lang] = p
	return p
}

// Get translates msgid for lang, formatting vars into the translation.
func Get(lang, msgid string, vars ...interface{}) string {
	p := po(lang)
	if p == nil {
		return msgid
	}
	return p.Get(msgid, vars...)
}

// Label returns the localized name of a cell state,
// e.g. "correcto" for StateCorrect in "es".
func Label(lang string, s puzzle.State) string {
	return Get(lang, string(s))
}

// Labels returns every state label for lang.
func Labels(lang string) map[puzzle.State]string {
	return map[puzzle.State]string{
		puzzle.StateDefault: Label(lang, puzzle.StateDefault),
		puzzle.StateCorrect: Label(lang, puzzle.StateCorrect),
		puzzle.StateWrong:   Label(lang, puzzle.StateWrong),
	}
}
