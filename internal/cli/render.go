package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pageza/recipe-finder/internal/frontend"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C0492B"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7F849C"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8"))

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(0, 1)
)

// renderSearch prints the visible parts of a search view
func renderSearch(w io.Writer, view *frontend.SearchView) {
	if view.Error.Visible {
		fmt.Fprintln(w, errorStyle.Render(view.Error.Text))
		return
	}
	if view.EmptyMessage.Visible {
		fmt.Fprintln(w, mutedStyle.Render(view.EmptyMessage.Text))
		return
	}

	if view.ResultsCount.Visible {
		fmt.Fprintln(w, mutedStyle.Render(view.ResultsCount.Text))
	}
	for _, card := range view.Results {
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(card.Title),
			fmt.Sprintf("Prep time: %s minutes", card.PrepTime),
			fmt.Sprintf("Servings: %s", card.Servings),
			mutedStyle.Render(fmt.Sprintf("recipefinder show %d", card.ID)),
		)
		fmt.Fprintln(w, cardStyle.Render(body))
	}

	if view.PageControls.Visible {
		var nav []string
		if !view.PreviousBtn.Disabled {
			nav = append(nav, "< previous")
		}
		nav = append(nav, "page "+view.PageNumber.Text)
		if !view.NextBtn.Disabled {
			nav = append(nav, "next >")
		}
		fmt.Fprintln(w, mutedStyle.Render(strings.Join(nav, "   ")))
	}
}

// renderDetail prints the visible parts of a detail view
func renderDetail(w io.Writer, view *frontend.DetailView) {
	if view.Error.Visible {
		fmt.Fprintln(w, errorStyle.Render(view.Error.Text))
		return
	}
	if !view.Details.Visible {
		return
	}

	fmt.Fprintln(w, titleStyle.Render(view.Title.Text))
	fmt.Fprintln(w, mutedStyle.Render(view.Time.Text+" | "+view.Servings.Text))
	if view.DietTags.Visible {
		fmt.Fprintln(w, mutedStyle.Render(view.DietTags.Text))
	}
	if view.Summary.Visible {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.NewStyle().Width(80).Render(frontend.PlainText(string(view.SummaryHTML))))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Ingredients"))
	for _, line := range view.Ingredients {
		fmt.Fprintln(w, "  - "+strings.TrimSpace(line))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Instructions"))
	for i, step := range view.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	if view.NutritionInfo.Visible {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("Nutrition"))
		for _, item := range view.Nutrition {
			fmt.Fprintf(w, "  %s: %s\n", item.Name, item.Value)
		}
	}
}
