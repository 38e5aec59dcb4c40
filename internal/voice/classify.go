package voice

import "strings"

type keywordGroup struct {
	triggers []string
	command  Command
}

// keywordGroups are checked in order; the first group with any trigger
// contained in the transcript decides the command.
var keywordGroups = []keywordGroup{
	{[]string{"científica"}, Navigate(ModeScientific)},
	{[]string{"normal", "básica"}, Navigate(ModeNormal)},
	{[]string{"financeira", "juros", "taxas"}, Navigate(ModeFinance)},
	{[]string{"conversão", "conversor"}, Navigate(ModeConverter)},
	{[]string{"histórico", "compras"}, Navigate(ModeHistory)},

	{[]string{"salvar", "guardar"}, Action(ActionSave)},
	{[]string{"limpar", "apagar tudo"}, Action(ActionClear)},
	{[]string{"voltar", "corrigir"}, Action(ActionBackspace)},
	{[]string{"igual", "resultado", "calcula"}, Action(ActionEquals)},
}

// mathSignals route a transcript to the normalizer even before any number
// word has been turned into a digit.
var mathSignals = []string{"negativo", "positivo", "vezes", "mais", "menos"}

// Classify decides what a finalized transcript asks for. Matching is plain
// substring containment over the lowercased text, so a keyword inside an
// unrelated word still triggers its group.
func Classify(transcript string) Command {
	t := strings.ToLower(transcript)

	for _, g := range keywordGroups {
		if containsAny(t, g.triggers) {
			return g.command
		}
	}

	if hasDigit(t) || containsAny(t, mathSignals) {
		return Math(Normalize(t))
	}
	return None()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
