package services

import (
	"fmt"
	"strings"

	"github.com/bobarin/podcaster/internal/models"
)

const (
	plannerSystemPrompt = "You are a professional podcast scriptwriter and content analyst. " +
		"You organize long reference documents into podcast episodes."

	writerSystemPrompt = "You are a professional podcast scriptwriter and content analyst. " +
		"You turn reference material into natural spoken scripts for a single host."

	tocFunctionName        = "create_table_of_contents"
	tocFunctionDescription = "Split the document into ordered podcast chapters, each with a title and the verbatim portion of the text it covers."
)

// buildContextMessage carries the full document into the planning
// conversation so the following turns can refer to it.
func buildContextMessage(title, body string) string {
	return fmt.Sprintf(`Read the following document and remember it. You will be asked to organize it into a podcast next.
Reply only with a short acknowledgement.

Title: %s

Content:
%s`, title, body)
}

func buildTableOfContentsRequest(title string) string {
	return fmt.Sprintf(`Using the document "%s" you just read, build the table of contents for a podcast.

RULES:
- Split the whole document into chapters in their original order. Every part of the text must belong to exactly one chapter.
- Keep the narrative flow: never cut a chapter in the middle of a topic or a story.
- Keep chapters roughly even in length.
- For each chapter give a short title and the exact portion of the original text it covers in "content".
- Call %s with the result.`, title, tocFunctionName)
}

// ReferenceMessage stands in for the full source text in a chapter
// conversation. It reminds the model which document the chapter belongs to
// without resending the document.
func ReferenceMessage(title string, chapterCount int) string {
	return fmt.Sprintf(
		"Recall the full original text of \"%s\" that was shared with you during planning and split into %d chapters. "+
			"Use it as background so this chapter stays consistent with the rest of the podcast.",
		title, chapterCount)
}

// buildChapterInstruction is the per-chapter user turn. The framing section
// depends on where the chapter sits in the podcast.
func buildChapterInstruction(language string, chapter models.ChapterAssignment, pos models.ChapterPosition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the podcast script for chapter %d of %d.\n\n", pos.Index, pos.Count)
	fmt.Fprintf(&b, "Chapter title: %s\n\n", chapter.Title)
	fmt.Fprintf(&b, "Chapter content:\n%s\n\n", chapter.Content)

	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "- Write the script in %s.\n", language)
	b.WriteString("- Keep every fact, detail and fun element of the chapter content. Do not invent facts.\n")
	b.WriteString("- The script is read by a text-to-speech voice, so write it the way a listener should hear it: " +
		"natural spoken sentences, connecting phrases, emphasis through wording.\n")
	b.WriteString("- Restructure sentences where it helps the flow; do not simply recite the text.\n")
	b.WriteString("- Output only the words to be spoken. No stage directions, no sound cues, " +
		"nothing in [brackets], (parentheses used as directions) or {braces}, no speaker labels.\n")

	b.WriteString("\nFRAMING:\n")
	switch {
	case pos.IsFirst() && pos.IsLast():
		b.WriteString("- This is the whole episode. Open with a greeting that welcomes the listener and introduces the topic.\n")
		b.WriteString("- Close with a wrap-up that summarizes the episode and says goodbye.\n")
	case pos.IsFirst():
		b.WriteString("- This is the opening chapter. Start with a greeting that welcomes the listener and introduces the topic.\n")
		b.WriteString("- Do not close the episode; end with a natural lead into the next chapter.\n")
	case pos.IsMiddle():
		b.WriteString("- This is a middle chapter of an ongoing show. Do not greet the listener and do not say goodbye.\n")
		b.WriteString("- Continue naturally from the previous chapter and lead into the next one.\n")
	default:
		b.WriteString("- This is the final chapter. Do not greet the listener again; continue naturally from the previous chapter.\n")
		b.WriteString("- Close with a wrap-up that summarizes the episode and says goodbye.\n")
	}

	return b.String()
}
