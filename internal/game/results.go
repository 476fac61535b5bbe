package game

import (
	"sort"
	"strings"
	"text/template"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/highscore"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"
)

var funcMap = template.FuncMap{
	"rank": func(i int) int {
		return i + 1
	},
}

var scoreTableTmpl = template.Must(template.New("scores").Funcs(funcMap).Parse(
	`{{range $i, $p := .}}{{rank $i}}. {{$p.Name}}: {{$p.Score}}
{{end}}`))

var highScoresTmpl = template.Must(template.New("highscores").Funcs(funcMap).Parse(
	`Top 10 High Scores:
{{range $i, $e := .}}{{rank $i}}. {{$e.Player}}: {{$e.Score}} (Playlist: {{$e.Playlist}}) (Mode: {{$e.Mode}})
{{end}}`))

// renderScoreTable formats all participants ordered by score descending.
// The sort is stable so ties keep join order. Eliminated players stay on
// the table with their final score.
func renderScoreTable(participants []*Participant) string {
	ranked := make([]*Participant, len(participants))
	copy(ranked, participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	var sb strings.Builder
	if err := scoreTableTmpl.Execute(&sb, ranked); err != nil {
		logger.Logger.Error().Err(err).Msg("Rendering the score table failed")
		return ""
	}
	return sb.String()
}

// renderHighScores formats the merged leaderboard, best score first.
func renderHighScores(entries []highscore.Entry) string {
	var sb strings.Builder
	if err := highScoresTmpl.Execute(&sb, highscore.Ranked(entries)); err != nil {
		logger.Logger.Error().Err(err).Msg("Rendering the high scores failed")
		return ""
	}
	return sb.String()
}

func renderEliminated(eliminated []string) string {
	var sb strings.Builder
	for _, name := range eliminated {
		sb.WriteString(name + " has been eliminated!\n")
	}
	return sb.String()
}
