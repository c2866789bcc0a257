package language

import (
	"errors"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

var ErrUndetected = errors.New("language: undetected")

// StoreLanguages are the languages the Ethiopian storefronts serve. Trigram
// scoring over every latin profile mislabels short English reviews as
// German, Romanian or Afrikaans, so candidates are limited to these.
var StoreLanguages = map[whatlanggo.Lang]bool{
	whatlanggo.Eng: true,
	whatlanggo.Orm: true,
	whatlanggo.Amh: true,
	whatlanggo.Tir: true,
}

// Whatlang is the trigram detector used in production runs. On latin text a
// guess other than Default is kept only when whatlanggo reports it reliable.
type Whatlang struct {
	Options whatlanggo.Options
	Default whatlanggo.Lang
}

func NewWhatlang() Whatlang {
	return Whatlang{
		Options: whatlanggo.Options{Whitelist: StoreLanguages},
		Default: whatlanggo.Eng,
	}
}

func (w Whatlang) Detect(s string) (string, error) {
	info := whatlanggo.DetectWithOptions(s, w.Options)
	if info.Lang < 0 {
		return "", ErrUndetected
	}
	lang := info.Lang
	if info.Script == unicode.Latin && lang != w.Default && !info.IsReliable() {
		lang = w.Default
	}
	code := lang.Iso6391()
	if code == "" {
		return "", ErrUndetected
	}
	return code, nil
}
