package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playperu/triviachat/internal/trivia"
)

const (
	choiceMarker = "🎯"

	msgWelcome         = "🎉 Welcome to Trivia Challenge!\n\nPlease select the number of questions you want to play:"
	msgSelectFromMenu  = "Please select using the menu!"
	msgNoMoreQuestions = "😶 No more questions available!"
	msgNoScores        = "😶 *Oops!*\n\nNo one scored any points this game. Better luck next time!"
	msgUnavailable     = "😶 Trivia is unavailable right now. Please try again later."
)

var medals = []string{"🥇", "🥈", "🥉"}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string { return markdownEscaper.Replace(s) }

func choiceLabels() []string {
	labels := make([]string, len(trivia.QuestionCounts))
	for i, n := range trivia.QuestionCounts {
		labels[i] = fmt.Sprintf("%s %d", choiceMarker, n)
	}
	return labels
}

// parseChoice accepts a menu label or a bare number. It returns 0 for
// anything that is not a number.
func parseChoice(text string) int {
	text = strings.TrimSpace(strings.ReplaceAll(text, choiceMarker, ""))
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

func msgCountAccepted(n int) string {
	return fmt.Sprintf("✅ Got it! We'll play %d questions. Get ready!", n)
}

func msgMovingOn(n, total int) string {
	return fmt.Sprintf("👉 Moving on to Question %d/%d...", n, total)
}

func msgQuestion(n, total int, question string) string {
	return fmt.Sprintf("❓ *Question* %d/%d\n\n%s", n, total, escape(question))
}

// Hints go out as plain text: blanks would otherwise be read as markup.
func msgHint(n, total int, question, hint string) string {
	return fmt.Sprintf("❓ Question %d/%d\n\n%s\n\n💬 Hint: %s", n, total, question, hint)
}

func msgCorrect(answer, name string, points int) string {
	return fmt.Sprintf("✅ That's right, *%s*!\n\n🎖️ *%s* +*%d*", escape(answer), escape(name), points)
}

func msgTimesUp(answer string) string {
	return fmt.Sprintf("⏳ *Time's up!*\n\nThe correct answer was: *%s*", escape(answer))
}

func rankLabel(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d.", i+1)
}

func msgLeaderboard(entries []trivia.ScoreEntry) string {
	if len(entries) == 0 {
		return msgNoScores
	}
	var b strings.Builder
	b.WriteString("🏁 Game Over!\n\n🏆 *Leaderboard* 🏆\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%s *%s*   %d points\n", rankLabel(i), escape(e.Name), e.Points)
	}
	return b.String()
}
