package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/devlogai/devlog-backend/internal/types"
)

// Prompt builders for every model call the backend makes. Each returns the
// system/user pair handed to the OpenAI client.

func roadmapPrompt(profile *types.UserProfile) (string, string) {
	system := `You are a Senior Software Architect and educational mentor.
Design technical learning roadmaps as a node graph for a flow-chart library.

NODE RULES:
1. Generate between 5 and 8 key nodes to reach the goal.
2. Nodes must follow a logical dependency sequence.
3. "status": the first node must be "unlocked", every other node "locked".
4. "position": approximate {x, y} coordinates for a fluid vertical or
   horizontal tree layout (spacing of ~250 units).
Return only the JSON object, no Markdown code fences.`

	user := fmt.Sprintf(`Create a detailed technical learning roadmap for this profile:
- Role: %s
- Current level: %s
- Main goal: %s`, profile.Role, profile.Level, profile.Goal)

	return system, user
}

func mentorSystemPrompt(profile *types.UserProfile) string {
	return fmt.Sprintf(`You are a Senior Programming Mentor.

USER PROFILE:
Name: %s
Role: %s
Level: %s
Goal: %s

INSTRUCTIONS:
Answer the user's questions to help them reach their goal. Be Socratic,
encourage critical thinking, and give clear code examples when useful.`,
		profile.Name, profile.Role, profile.Level, profile.Goal)
}

func topicTutorSystemPrompt(topic string, profile *types.UserProfile) string {
	return fmt.Sprintf(`You are a Senior Programming Mentor with a pedagogy background.

TOPIC TO TEACH: %q.
STUDENT PROFILE: %s %s.

YOUR METHODOLOGY (STRICT):
1. NO LECTURES: never explain the whole topic at once. Retention over speed.
2. INITIAL ASSESSMENT: your first interaction must always ask what the
   student already knows about %q to calibrate your explanation.
3. INCREMENTAL TEACHING:
   - Split the topic into 3-4 key micro-concepts.
   - Explain only ONE concept at a time.
   - Stay brief; avoid answers longer than ~150 words when possible.
4. SOCRATIC CHECKS:
   - After each small explanation, ask a simple question or request an
     example to confirm understanding.
   - Do not advance to the next concept until the student answers correctly.

FORMAT:
- Structured Markdown (H3 headings, lists).
- Code blocks with syntax highlighting when relevant.

The goal is mastery step by step, never overwhelm.`,
		topic, profile.Level, profile.Role, topic)
}

func examPrompt(topic string, profile *types.UserProfile) (string, string) {
	system := `You generate short final practical exams that validate topic mastery.
Produce exactly ONE challenging exercise or conceptual question.
If it is about programming, ask for a code snippet.
If it is conceptual, ask for an explanation of the "why" or "how it works".
Return only the JSON object.`

	user := fmt.Sprintf(`Topic: %q.
Student profile: %s %s.`, topic, profile.Level, profile.Role)

	return system, user
}

func gradeExamPrompt(topic, question, answer string) (string, string) {
	system := `You are an Engineering Professor grading an exam answer.
CRITERIA:
- Pass if the answer shows solid understanding.
- Fail if the answer is vague, incorrect, or hallucinated.
The feedback must briefly explain why it passed or failed and how to improve.
Return only the JSON object.`

	user := fmt.Sprintf(`TOPIC: %s
QUESTION: %s
STUDENT ANSWER: %s`, topic, question, answer)

	return system, user
}

func moduleSummaryPrompt(topic, conversation string) (string, string) {
	system := `You are an expert UI/UX web designer.
Analyze a tutoring chat transcript and produce an HTML component (card/section)
summarizing what was learned.

DESIGN REQUIREMENTS:
- Tailwind CSS.
- Style: "Dark Modern / Glassmorphism". Dark background (slate-800/50),
  subtle borders, soft shadows.
- Content:
  1. A compelling title with an inline SVG icon related to the topic.
  2. "What I learned": key bullet points extracted from the chat.
  3. "Key snippet": a code block with the most important code discussed.
- Responsive (single column on mobile).

OUTPUT:
Return ONLY the HTML of this component (no <html>, <head> or <body>, just the
container <div>).`

	user := fmt.Sprintf(`Topic: %q.

CHAT TRANSCRIPT:
%s`, topic, conversation)

	return system, user
}

func portfolioPrompt(profile *types.UserProfile, modulesHTML string) (string, string) {
	system := `You are a Senior Frontend Developer.
Assemble a complete portfolio web page ("Learning Log") combining the provided
pre-generated HTML modules.

DESIGN INSTRUCTIONS:
1. Full HTML5 structure (<!DOCTYPE html>, <html>, <head>, <body>).
2. HEAD:
   - Tailwind CSS CDN: <script src="https://cdn.tailwindcss.com"></script>
   - Configure Tailwind with a modern font (Inter or JetBrains Mono).
   - Custom styles for scrollbars and text selection.
3. BODY:
   - Background: bg-slate-950 text-slate-200.
   - HERO SECTION: an impressive header with the user's name, their goal, and
     a visual progress bar. Use gradients (emerald-500 to cyan-500).
   - GRID SECTION: a grid container (grid-cols-1 md:grid-cols-2 gap-6) where
     the provided module HTML blocks are inserted LITERALLY.
   - FOOTER: "Generated with DevLog AI".
4. INTERACTIVITY: a small script that fades elements in on scroll.

OUTPUT:
Return ONLY the complete HTML document.`

	user := fmt.Sprintf(`PROFILE: %s - %s (%s).
GOAL: %s.

HTML MODULES (already generated):
%s`, profile.Name, profile.Role, profile.Level, profile.Goal, modulesHTML)

	return system, user
}

func sessionPagePrompt(transcript string, includeErrors bool) (string, string) {
	system := `You are a technical writer and web designer.
Turn a mentoring chat transcript into a standalone "learning log" HTML page
styled with the Tailwind CSS CDN (dark theme, slate palette).`
	if includeErrors {
		system += `
Include a section documenting the mistakes and dead ends discussed, and what
was learned from them.`
	}
	system += `
OUTPUT: return ONLY the complete HTML document.`

	user := fmt.Sprintf("CHAT TRANSCRIPT:\n%s", transcript)
	return system, user
}

// StripCodeFence removes a leading/trailing Markdown code fence from a model
// response. Structured responses are requested fence-free, but the model does
// not always comply.
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```html")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// clampText bounds transcript text handed to summary prompts. The cut never
// splits a UTF-8 sequence.
func clampText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func transcriptText(messages []types.Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(strings.ToUpper(string(m.Role)))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return b.String()
}
