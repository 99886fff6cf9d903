// Package voices holds the fixed catalogue of IBM Cloud Text to Speech voices
// used to render a wakeword, grouped by language family.
package voices

// Voice names a locale and speaker pair, e.g. "en-US_AllisonV3Voice".
type Voice string

// Family is a named group of voices sharing a language.
type Family struct {
	Name   string
	Voices []Voice
}

var (
	german = []Voice{"de-DE_BirgitV3Voice", "de-DE_DieterV3Voice", "de-DE_ErikaV3Voice"}

	englishUK = []Voice{"en-GB_CharlotteV3Voice", "en-GB_JamesV3Voice", "en-GB_KateV3Voice"}

	englishUS = []Voice{
		"en-US_AllisonV3Voice",
		"en-US_KevinV3Voice",
		"en-US_MichaelV3Voice",
		"en-US_OliviaV3Voice",
	}

	french = []Voice{"fr-CA_LouiseV3Voice", "fr-FR_NicolasV3Voice", "fr-FR_ReneeV3Voice"}
)

// Families returns the language families in synthesis order.
func Families() []Family {
	return []Family{
		{Name: "German", Voices: clone(german)},
		{Name: "English-UK", Voices: clone(englishUK)},
		{Name: "English-US", Voices: clone(englishUS)},
		{Name: "French", Voices: clone(french)},
	}
}

// All returns every voice, German, English-UK, English-US then French.
func All() []Voice {
	var all []Voice
	for _, f := range Families() {
		all = append(all, f.Voices...)
	}
	return all
}

// Lookup reports whether name is a catalogue voice.
func Lookup(name string) (Voice, bool) {
	for _, v := range All() {
		if string(v) == name {
			return v, true
		}
	}
	return "", false
}

func clone(v []Voice) []Voice {
	out := make([]Voice, len(v))
	copy(out, v)
	return out
}
