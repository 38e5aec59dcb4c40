package voice

import "sort"

// numberWords maps spoken Portuguese number words to their digit strings.
// "cento" is intentionally absent: it belongs to the "por cento" phrase.
var numberWords = map[string]string{
	// Units
	"zero": "0",
	"um": "1", "uma": "1",
	"dois": "2", "duas": "2",
	"três": "3", "tres": "3",
	"quatro": "4", "cinco": "5", "seis": "6", "sete": "7", "oito": "8", "nove": "9",

	// Ten to nineteen
	"dez": "10", "onze": "11", "doze": "12", "treze": "13",
	"catorze": "14", "quatorze": "14",
	"quinze":    "15",
	"dezesseis": "16", "dezasseis": "16",
	"dezessete": "17", "dezassete": "17",
	"dezoito":  "18",
	"dezenove": "19", "dezanove": "19",

	// Tens
	"vinte": "20", "trinta": "30", "quarenta": "40", "cinquenta": "50",
	"sessenta": "60", "setenta": "70", "oitenta": "80", "noventa": "90",

	// Hundreds
	"cem":       "100",
	"duzentos":  "200", "duzentas": "200",
	"trezentos": "300", "trezentas": "300",
	"quatrocentos": "400", "quatrocentas": "400",
	"quinhentos": "500", "quinhentas": "500",
	"seiscentos": "600", "seiscentas": "600",
	"setecentos": "700", "setecentas": "700",
	"oitocentos": "800", "oitocentas": "800",
	"novecentos": "900", "novecentas": "900",

	"mil": "1000",
}

// LookupNumber returns the digit string for a spoken number word.
func LookupNumber(word string) (string, bool) {
	digits, ok := numberWords[word]
	return digits, ok
}

// Lexicon returns a copy of the number-word table.
func Lexicon() map[string]string {
	out := make(map[string]string, len(numberWords))
	for k, v := range numberWords {
		out[k] = v
	}
	return out
}

// LexiconWords returns the lexicon keys in sorted order.
func LexiconWords() []string {
	words := make([]string, 0, len(numberWords))
	for k := range numberWords {
		words = append(words, k)
	}
	sort.Strings(words)
	return words
}
