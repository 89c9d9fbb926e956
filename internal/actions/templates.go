// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package actions

import (
	"text/template"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// preamble is shared by every prompt. It states both languages so the model
// reads the source in one and writes in the other.
const preamble = `You are a communications specialist working from the uploaded document "{{.Title}}".
The document is written in {{.SourceLanguage}}. Write your answer in {{.TargetLanguage}}.
Ground every statement in the document and cite the passages you rely on.
{{- with .Previous}}

Work from this previous result rather than the raw document where it applies:
---
{{.}}
---
{{- end}}

`

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(preamble + body))
}

var defaultTemplates = map[types.QuickAction]*template.Template{
	types.ActionSummarize: mustTemplate("summarize", `Summarize the document.
{{- with index .Params "maxLength"}} Keep the summary under {{.}} characters.{{end}}
{{- with index .Params "audience"}} The audience is {{.}} readers.{{end}}
Lead with the main decision or finding, then the supporting points.`),

	types.ActionTranslate: mustTemplate("translate", `Translate the content from {{.SourceLanguage}} into {{.TargetLanguage}}.
Preserve meaning, numbers, names and formatting. Use formal register.
Do not add, omit or soften any statement.`),

	types.ActionConvertToSlides: mustTemplate("convertToSlides", `Convert the content into a slide outline
{{- with index .Params "slideCount"}} of {{.}} slides{{end}}.
For each slide give a title line starting with "Slide N:" followed by three to five bullet points.`),

	types.ActionGenerateScript: mustTemplate("generateScript", `Write a narration script based on the content
{{- with index .Params "durationMinutes"}} lasting about {{.}} minutes{{end}}
{{- with index .Params "format"}} in {{.}} format{{end}}.
Mark speaker turns and scene changes on their own lines.`),

	types.ActionSocialPost: mustTemplate("socialPost", `Write a social media post about the content
{{- with index .Params "platform"}} for {{.}}{{end}}.
Respect the platform's length conventions and end with a clear call to action. Avoid hype.`),

	types.ActionExtractAssets: mustTemplate("extractAssets", `Extract reusable assets from the content
{{- with index .Params "assetType"}}, focusing on {{.}} assets{{end}}.
Respond with a JSON array of objects with fields "type" (quote, statistic or keyTerm), "content" and "source".`),

	types.ActionChatbotSnippet: mustTemplate("chatbotSnippet", `Produce knowledge snippets for a customer service chatbot
{{- with index .Params "style"}} in {{.}} style{{end}}.
Respond with a JSON array of objects with fields "question" and "answer".`),

	types.ActionVoiceover: mustTemplate("voiceover", `Write a voiceover script from the content
{{- with index .Params "voice"}} for a {{.}} voice{{end}}.
Use short sentences suited to speech and mark pauses with "[pause]".`),
}
