package render

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/kevinmichaelchen/repo-audit/internal/github"
	"github.com/kevinmichaelchen/repo-audit/internal/models"
	"github.com/kevinmichaelchen/repo-audit/internal/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Score band colors.
var (
	GoodColor = color.New(color.FgBlue, color.Bold)
	FairColor = color.New(color.FgYellow, color.Bold)
	PoorColor = color.New(color.FgRed, color.Bold)

	headingColor = color.New(color.Bold, color.Underline)
	mutedColor   = color.New(color.Faint)
)

const (
	BandGood = "Good"
	BandFair = "Fair"
	BandPoor = "Poor"

	topLanguages = 5
)

// ScoreBand buckets a 0-100 score the same way the dashboard colors it.
func ScoreBand(score int) string {
	switch {
	case score >= 70:
		return BandGood
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

func scoreColor(score int) *color.Color {
	switch ScoreBand(score) {
	case BandGood:
		return GoodColor
	case BandFair:
		return FairColor
	default:
		return PoorColor
	}
}

func priorityColor(p models.Priority) *color.Color {
	switch p {
	case models.PriorityHigh:
		return PoorColor
	case models.PriorityMedium:
		return FairColor
	default:
		return color.New(color.FgCyan)
	}
}

// LanguageShare is one row of the language distribution.
type LanguageShare struct {
	Name    string
	Bytes   int
	Percent float64
}

// TopLanguages returns up to n languages by byte count, largest first, with
// their share of the whole histogram. Ties sort by name.
func TopLanguages(languages map[string]int, n int) []LanguageShare {
	total := 0
	shares := make([]LanguageShare, 0, len(languages))
	for name, bytes := range languages {
		total += bytes
		shares = append(shares, LanguageShare{Name: name, Bytes: bytes})
	}
	slices.SortFunc(shares, func(a, b LanguageShare) int {
		if c := cmp.Compare(b.Bytes, a.Bytes); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(shares) > n {
		shares = shares[:n]
	}
	if total > 0 {
		for i := range shares {
			shares[i].Percent = float64(shares[i].Bytes) * 100 / float64(total)
		}
	}
	return shares
}

// Dashboard writes the human-readable report. width bounds the rule lines
// and long file listings.
func Dashboard(w io.Writer, outcome pipeline.Outcome, width int) error {
	if width <= 0 {
		width = defaultWidth
	}
	summary, result := outcome.Summary, outcome.Result
	rule := strings.Repeat("─", min(width, 100))

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s / %s\n", summary.Owner, headingColor.Sprint(summary.Name))
	if summary.Description != nil && *summary.Description != "" {
		fmt.Fprintln(w, mutedColor.Sprint(*summary.Description))
	}
	fmt.Fprintf(w, "★ %d   forks %d   open issues %d   difficulty %s\n",
		summary.Stars, summary.Forks, summary.OpenIssues, result.DifficultyLevel)
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "Overall score: %s\n\n", scoreColor(result.OverallScore).Sprintf("%d/100 (%s)", result.OverallScore, ScoreBand(result.OverallScore)))
	fmt.Fprintln(w, result.Summary)

	heading(w, "Dimensions")
	if err := dimensionsTable(w, result.Dimensions); err != nil {
		return err
	}
	heading(w, "Languages")
	if err := languagesTable(w, summary.Languages); err != nil {
		return err
	}

	heading(w, "Strengths")
	bullets(w, "+", result.Strengths)
	heading(w, "Weaknesses")
	bullets(w, "-", result.Weaknesses)

	heading(w, "Roadmap")
	if err := roadmapTable(w, result.Roadmap); err != nil {
		return err
	}

	heading(w, "File structure")
	fileStructure(w, summary.FileStructure, width)
	return nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", headingColor.Sprint(title))
}

func dimensionsTable(w io.Writer, dims []models.Dimension) error {
	if len(dims) == 0 {
		fmt.Fprintln(w, mutedColor.Sprint("No dimensions reported."))
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Score", "Band"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, d := range dims {
		data = append(data, []string{d.Name, strconv.Itoa(d.Score), scoreColor(d.Score).Sprint(ScoreBand(d.Score))})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, d := range dims {
		if d.Feedback != "" {
			fmt.Fprintf(w, "  %s: %s\n", d.Name, d.Feedback)
		}
	}
	return nil
}

func languagesTable(w io.Writer, languages map[string]int) error {
	shares := TopLanguages(languages, topLanguages)
	if len(shares) == 0 {
		fmt.Fprintln(w, mutedColor.Sprint("No language data."))
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Language", "Bytes", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range shares {
		data = append(data, []string{s.Name, strconv.Itoa(s.Bytes), fmt.Sprintf("%.1f%%", s.Percent)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func roadmapTable(w io.Writer, steps []models.RoadmapStep) error {
	if len(steps) == 0 {
		fmt.Fprintln(w, mutedColor.Sprint("No roadmap steps."))
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Priority", "Title"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, s := range steps {
		data = append(data, []string{strconv.Itoa(i + 1), priorityColor(s.Priority).Sprint(string(s.Priority)), s.Title})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for i, s := range steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s.Description)
	}
	return nil
}

func bullets(w io.Writer, marker string, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedColor.Sprint("None."))
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", marker, item)
	}
}

func fileStructure(w io.Writer, listing string, width int) {
	if listing == "" || listing == github.NoFileStructure {
		fmt.Fprintln(w, mutedColor.Sprint(github.NoFileStructure))
		return
	}
	for line := range strings.SplitSeq(listing, "\n") {
		fmt.Fprintf(w, "  %s\n", truncateLine(line, width-2))
	}
}

func truncateLine(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
