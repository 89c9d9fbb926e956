// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package actions

import "github.com/pdiddy/transform-engine/pkg/types"

var languageNames = map[string]string{
	types.LanguageEnglish: "English",
	types.LanguageArabic:  "Arabic",
}

// OtherLanguage returns the counterpart of code in the English/Arabic pair.
func OtherLanguage(code string) string {
	if code == types.LanguageArabic {
		return types.LanguageEnglish
	}
	return types.LanguageArabic
}

// TargetLanguage resolves the language an action should write in.
// Translations never target the source language: a missing or identical
// targetLanguage falls back to the other language of the pair. Other actions
// honour targetLanguage when given and otherwise keep the source language.
func TargetLanguage(action types.QuickAction, doc types.Document, params map[string]string) string {
	return outputLanguage(action, PromptInput{Document: doc, Parameters: params})
}

func sourceLanguage(doc types.Document) string {
	if doc.Language == "" {
		return types.LanguageEnglish
	}
	return doc.Language
}

func outputLanguage(action types.QuickAction, in PromptInput) string {
	src := sourceLanguage(in.Document)
	target := in.Parameters["targetLanguage"]

	if action == types.ActionTranslate {
		if target == "" || target == src {
			return OtherLanguage(src)
		}
		return target
	}

	if target == "" {
		return src
	}
	return target
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
