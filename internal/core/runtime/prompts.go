package runtime

import (
	"fmt"
	"strings"
)

const classifierSystemPrompt = `You are a request router for a website builder. Reply with a single JSON object of the shape {"type":"chat"|"code","confidence":number,"reasoning":string} and nothing else.`

func classificationPrompt(prompt string, history []ChatMessage) string {
	var builder strings.Builder
	builder.WriteString(`Analyze the following user request and classify it as either a 'chat' request or a 'code' request.
Consider the conversation history for context.

Classification criteria:
- 'code': requests for code generation or modification, programming help, web development, HTML/CSS/JS creation, fixing bugs, creating components, building websites, technical implementation
- 'chat': general questions, explanations, discussions, non-coding inquiries, conceptual questions
`)
	if transcript := renderTranscript(history); transcript != "" {
		builder.WriteString("\nConversation history:\n")
		builder.WriteString(transcript)
	}
	builder.WriteString("\nCurrent user request: ")
	builder.WriteString(prompt)
	return builder.String()
}

func chatSystemPrompt(documentContext string) string {
	var builder strings.Builder
	builder.WriteString(`You are a helpful assistant inside pagewright, a tool that builds static websites and deploys them to GitHub Pages.
You have access to the full conversation history, so you can remember what users told you about themselves, reference earlier parts of the conversation, and personalize answers.
Keep responses conversational and friendly.`)
	if documentContext != "" {
		builder.WriteString("\n\nUploaded documents:\n")
		builder.WriteString(documentContext)
		builder.WriteString("\nWhen you use information from these documents, say that it came from the uploaded files.")
	}
	return builder.String()
}

func incrementalCodePrompt(req Request, history []ChatMessage) string {
	language := req.EditorLanguage
	if language == "" {
		language = "html"
	}
	var builder strings.Builder
	builder.WriteString("You are an expert web developer. The user has existing code and wants modifications. Make targeted changes instead of replacing everything.\n\n")
	fmt.Fprintf(&builder, "CURRENT CODE:\n```%s\n%s\n```\n\n", language, req.EditorCode)
	fmt.Fprintf(&builder, "MODIFICATION REQUEST: %s\n", req.Prompt)
	if transcript := renderTranscript(history); transcript != "" {
		builder.WriteString("\nConversation history:\n")
		builder.WriteString(transcript)
	}
	builder.WriteString(`
Respond in exactly this format:

EXPLANATION: [brief explanation of the changes]
INCREMENTAL_OPERATIONS:
[
  {
    "operation": "replace|insert|delete|append|prepend",
    "target": "line number, function name, or selector",
    "old_content": "content to replace (for replace operations)",
    "new_content": "new content to insert",
    "line_start": number,
    "line_end": number
  }
]

Rules:
- use "replace" for changing existing content
- use "insert" for adding content at a specific line
- use "append"/"prepend" for the end/start of the file
- use "delete" for removing content
- provide line numbers when possible
- make minimal, targeted changes`)
	return builder.String()
}

func fullCodePrompt(req Request, history []ChatMessage, documentContext string) string {
	var builder strings.Builder
	builder.WriteString("You are an expert web developer specializing in modern, responsive, accessible static websites destined for GitHub Pages.\n")
	if documentContext != "" {
		builder.WriteString("\nUploaded user information (use their real name, experience, and skills; no placeholder data):\n")
		builder.WriteString(documentContext)
		builder.WriteString("\n")
	}
	if transcript := renderTranscript(history); transcript != "" {
		builder.WriteString("\nConversation history:\n")
		builder.WriteString(transcript)
	}
	if strings.TrimSpace(req.EditorCode) != "" {
		language := req.EditorLanguage
		if language == "" {
			language = "html"
		}
		filename := req.EditorFilename
		if filename == "" {
			filename = "index.html"
		}
		fmt.Fprintf(&builder, "\nCurrent code in the editor (%s, %s):\n```%s\n%s\n```\n", filename, language, language, truncate(req.EditorCode, 1000))
		builder.WriteString("If the user asks for modifications, update the existing code rather than starting over.\n")
	}
	fmt.Fprintf(&builder, "\nCurrent user request: %s\n", req.Prompt)
	builder.WriteString(`
Generate production-ready code. Format your response as:
EXPLANATION: [brief explanation of what was created]
CODE: [the complete code]
FILENAME: [suggested filename]
LANGUAGE: [language]`)
	return builder.String()
}

func renderTranscript(history []ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, msg := range history {
		role := "User"
		if msg.Role == RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&builder, "%s: %s\n", role, msg.Content)
	}
	return builder.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
