package survey

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SocialLevels from the closest circle to the widest one.
var SocialLevels = []string{"Self", "Family", "Friends", "Class", "School", "Community", "City", "Country", "World"}

var (
	levelKeywords = map[string][]string{
		"Self":      {"myself", "me"},
		"Family":    {"family", "home"},
		"Friends":   {"friend", "peer"},
		"Class":     {"class", "team"},
		"School":    {"school"},
		"Community": {"community", "local"},
		"City":      {"city"},
		"Country":   {"country"},
		"World":     {"world"},
	}
	focusWords   = []string{"recycling", "confidence", "kindness"}
	defaultFocus = "growth"
)

const (
	feedbackSystemPrompt = "You are an empathetic assistant that summarizes short surveys and provides two practical, kind suggestions."

	feedbackTask = `Task: Return a JSON object only (no extra text) with the following shape:
{
  "summary": "A short friendly summary (3-5 sentences)",
  "suggestions": ["First suggestion","Second suggestion"]
}

If you cannot produce the JSON exactly, return a single JSON object with an 'error' key describing the problem.
`

	socialLevelTask = "Analyze the user's desired social impact level. The user is 11-15 years old. " +
		"Use the following template. For number 3, suggest what the student could start to do with the desired social level. " +
		"For number 4, suggest 3 topics they can explore further per each social impact level.\n"

	socialLevelTemplate = `RESPOND EXACTLY IN THIS FORMAT (NO EXTRA TEXT):
1. options: %[1]s %[2]s
2. You seek change at %[1]s and %[2]s levels, focusing on %[3]s.
3. Let's do: 
4. suggestion:
- %[1]s: 
- %[2]s: 
`
)

// SocialFocus ranks the social levels by how often their keywords appear in the answers
// and picks the first focus word found. Ties keep the level order.
func SocialFocus(ans Answers) (levels [2]string, focus string) {
	txt := strings.ToLower(answersJSON(ans, ""))

	scores := make(map[string]int, len(SocialLevels))
	for _, lvl := range SocialLevels {
		for _, kw := range levelKeywords[lvl] {
			scores[lvl] += strings.Count(txt, kw)
		}
	}
	ranked := append([]string(nil), SocialLevels...)
	sort.SliceStable(ranked, func(i, j int) bool { return scores[ranked[i]] > scores[ranked[j]] })
	levels = [2]string{ranked[0], ranked[1]}

	focus = defaultFocus
	for _, w := range focusWords {
		if strings.Contains(txt, w) {
			focus = w
			break
		}
	}
	return levels, focus
}

// BuildSocialLevelPrompt asks for the fixed, line-numbered social level analysis.
func BuildSocialLevelPrompt(ans Answers) string {
	levels, focus := SocialFocus(ans)
	return "User survey answers (JSON):\n" + answersJSON(ans, "") + "\n\n" +
		socialLevelTask + fmt.Sprintf(socialLevelTemplate, levels[0], levels[1], focus)
}

// BuildFeedbackPrompt returns the system and user messages of a feedback request.
func BuildFeedbackPrompt(ans Answers, promptOverride string) (system, user string) {
	levels, focus := SocialFocus(ans)

	var b strings.Builder
	b.WriteString("User survey answers (JSON):\n")
	b.WriteString(answersJSON(ans, "  "))
	b.WriteString("\n\n")
	b.WriteString(feedbackTask)
	b.WriteString("\nAlso consider the social levels the student cares about most: ")
	fmt.Fprintf(&b, "%s and %s, focusing on %s.\n", levels[0], levels[1], focus)
	if o := strings.TrimSpace(promptOverride); o != "" {
		b.WriteString("\nAdditional instructions from client: ")
		b.WriteString(promptOverride)
	}
	return feedbackSystemPrompt, b.String()
}

// answersJSON renders the answers with sorted keys.
func answersJSON(ans Answers, indent string) string {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(ans)
	} else {
		data, err = json.MarshalIndent(ans, "", indent)
	}
	if err != nil {
		return fmt.Sprintf("%v", map[string]interface{}(ans))
	}
	return string(data)
}
