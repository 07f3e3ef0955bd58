// Package prompts holds the instructions sent to the completion backend.
package prompts

import (
	"fmt"
	"strings"
)

const qaGeneration = `You are a specialized AI trained to create high-quality question-answer pairs for training data.

Content to process:
%s

Instructions:
- Create as many diverse question-answer pairs from the given content as possible
- Make sure to touch every part of the topic so that no question is missed
- Questions should test different aspects of understanding
- Ensure questions are clear and unambiguous
- Answers should be comprehensive but concise
- Focus on important information and key concepts
- Avoid redundant or trivial questions
%s

Output Format Requirements:
- Each pair MUST start with 'Q1:', 'Q2:', or 'Q3:' for questions
- Each answer MUST start with 'A1:', 'A2:', or 'A3:' respectively
- Questions and answers MUST alternate (Q1, A1, Q2, A2, Q3, A3)
- Questions and answers MUST NOT be empty
- DO NOT include any additional formatting or text

Example Format:
Q1: What is the main concept discussed in the text?
A1: The main concept is...
Q2: How does the text explain...?
A2: The text explains this by...
Q3: What are the key implications of...?
A3: The key implications are...`

const contextInstruction = `
Previous Context:
%s
Consider this context while generating questions to maintain continuity and avoid repetition.`

const errorRecovery = `The previous attempt to generate QA pairs encountered an error. Please try again with the following content, focusing on simpler, more straightforward questions:

Content:
%s

%s`

const chunkSummary = `Create a brief summary of the following content that captures the key points and context. This will be used to maintain continuity between chunks.

Content:
%s

Keep the summary focused on main ideas that might be relevant for the next section.`

const validation = `Please validate the following question-answer pairs for quality and relevance:

%s

For each pair, verify:
1. Question clarity and specificity
2. Answer accuracy and completeness
3. Relevance to the source material

Provide feedback in the following format:
VALID: [true/false]
FEEDBACK: [specific issues if any]`

// ContextInstruction renders the previous-context block, empty when there is no context.
func ContextInstruction(context string) string {
	if context == "" {
		return ""
	}
	return fmt.Sprintf(contextInstruction, context)
}

func QAGeneration(chunk, context string) string {
	return fmt.Sprintf(qaGeneration, chunk, ContextInstruction(context))
}

// ErrorRecovery is the simplified prompt used after a failed generation attempt.
func ErrorRecovery(chunk, context string) string {
	return fmt.Sprintf(errorRecovery, chunk, ContextInstruction(context))
}

func ChunkSummary(chunk string) string {
	return fmt.Sprintf(chunkSummary, chunk)
}

// Validation renders the batch as alternating "Q:"/"A:" lines.
func Validation(pairs [][2]string) string {
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", p[0], p[1]))
	}
	return fmt.Sprintf(validation, strings.Join(lines, "\n"))
}

const (
	errorRecoveryPrefix = "The previous attempt to generate QA pairs encountered an error."
	summaryPrefix       = "Create a brief summary of the following content"
	validationPrefix    = "Please validate the following question-answer pairs"
)

// IsErrorRecovery reports whether prompt was built by ErrorRecovery.
func IsErrorRecovery(prompt string) bool {
	return strings.HasPrefix(prompt, errorRecoveryPrefix)
}

func IsChunkSummary(prompt string) bool {
	return strings.HasPrefix(prompt, summaryPrefix)
}

func IsValidation(prompt string) bool {
	return strings.HasPrefix(prompt, validationPrefix)
}

// ExtractChunk returns the content embedded in a generation, recovery or
// summary prompt. Other prompts yield "".
func ExtractChunk(prompt string) string {
	var body, end string
	switch {
	case IsErrorRecovery(prompt) || IsChunkSummary(prompt):
		_, body, _ = strings.Cut(prompt, "Content:\n")
		end = "\n\nKeep the summary focused"
		if IsErrorRecovery(prompt) {
			end = "\nPrevious Context:"
		}
	case strings.HasPrefix(prompt, "You are a specialized AI"):
		_, body, _ = strings.Cut(prompt, "Content to process:\n")
		end = "\n\nInstructions:\n"
	default:
		return ""
	}

	if i := strings.LastIndex(body, end); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}
