// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when a quick action name is not recognized.
var ErrUnknownAction = errors.New("unknown quick action")

// QuickAction identifies one atomic transformation kind.
type QuickAction string

const (
	ActionSummarize       QuickAction = "summarize"
	ActionTranslate       QuickAction = "translate"
	ActionConvertToSlides QuickAction = "convertToSlides"
	ActionGenerateScript  QuickAction = "generateScript"
	ActionSocialPost      QuickAction = "socialPost"
	ActionExtractAssets   QuickAction = "extractAssets"
	ActionChatbotSnippet  QuickAction = "chatbotSnippet"
	ActionVoiceover       QuickAction = "voiceover"
)

// OutputFormat describes how a transformation output's content is shaped.
type OutputFormat string

const (
	FormatText   OutputFormat = "text"
	FormatSlides OutputFormat = "slides"
	FormatScript OutputFormat = "script"
	FormatJSON   OutputFormat = "json"
)

var actionFormats = map[QuickAction]OutputFormat{
	ActionSummarize:       FormatText,
	ActionTranslate:       FormatText,
	ActionConvertToSlides: FormatSlides,
	ActionGenerateScript:  FormatScript,
	ActionSocialPost:      FormatText,
	ActionExtractAssets:   FormatJSON,
	ActionChatbotSnippet:  FormatJSON,
	ActionVoiceover:       FormatScript,
}

// AllQuickActions returns every quick action in display order.
func AllQuickActions() []QuickAction {
	return []QuickAction{
		ActionSummarize,
		ActionTranslate,
		ActionConvertToSlides,
		ActionGenerateScript,
		ActionSocialPost,
		ActionExtractAssets,
		ActionChatbotSnippet,
		ActionVoiceover,
	}
}

// Valid reports whether a is one of the known quick actions.
func (a QuickAction) Valid() bool {
	_, ok := actionFormats[a]
	return ok
}

// DefaultFormat returns the output format used when wrapping results of a.
// Unknown actions fall back to plain text.
func (a QuickAction) DefaultFormat() OutputFormat {
	if f, ok := actionFormats[a]; ok {
		return f
	}
	return FormatText
}

// ParseQuickAction converts a name into a QuickAction.
func ParseQuickAction(name string) (QuickAction, error) {
	a := QuickAction(name)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a, nil
}
