package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bytehatacademy/academy/internal/app"
	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	accent = lipgloss.Color("#00FF9C")
	dim    = lipgloss.Color("#6B7280")

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	pathStyle    = lipgloss.NewStyle().Foreground(dim)
	countStyle   = lipgloss.NewStyle().Foreground(dim).Italic(true)
	okStyle      = lipgloss.NewStyle().Foreground(accent)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

var searchFlags *StandardFlags

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search courses and articles",
	Long: `Run the site search against the configured catalog.

Examples:
  academy search cloud
  academy search "ethical hacking" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchFlags = AddStandardFlags(searchCmd, "output")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	catalog, err := app.ProvideCatalog(cfg)
	if err != nil {
		return err
	}

	res := search.NewIndex(catalog).Search(strings.Join(args, " "))

	if searchFlags.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderSearch(cmd.OutOrStdout(), res)
	return nil
}

func renderSearch(w io.Writer, res search.Result) {
	if !res.Active {
		fmt.Fprintln(w, "Enter a search term")
		return
	}
	if res.Empty() {
		fmt.Fprintf(w, "No results found for %q\n", res.Query)
		return
	}

	var section search.Kind
	for _, item := range res.Items() {
		if item.Kind() != section {
			section = item.Kind()
			fmt.Fprintf(w, "%s %s\n", sectionStyle.Render(sectionTitle(section)),
				countStyle.Render(fmt.Sprintf("(%d)", sectionCount(res, section))))
		}
		fmt.Fprintf(w, "  %s  %s\n", itemTitle(item), pathStyle.Render(item.Location()))
	}
}

func sectionTitle(k search.Kind) string {
	if k == search.KindCourse {
		return "Courses"
	}
	return "Articles"
}

func sectionCount(res search.Result, k search.Kind) int {
	if k == search.KindCourse {
		return len(res.Courses)
	}
	return len(res.Articles)
}

func itemTitle(item search.SearchableItem) string {
	switch it := item.(type) {
	case search.CourseItem:
		return it.Title
	case search.ArticleItem:
		return it.Title
	}
	return ""
}
