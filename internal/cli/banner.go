package cli

import (
	"fmt"

	"github.com/ternarybob/banner"

	"github.com/nhle/jira-categorize/internal/model"
)

// printBanner shows the run settings before the first prompt.
func printBanner(cfg *model.AppConfig, runID string) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(72)

	fmt.Println()
	b.PrintTopLine()
	b.PrintCenteredText("JIRA CATEGORIZE")
	b.PrintCenteredText("Work Category triage")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", Version, 15)
	b.PrintKeyValue("Server", cfg.Jira.Server, 15)
	b.PrintKeyValue("User", cfg.Jira.User, 15)
	b.PrintKeyValue("Field", cfg.Jira.WorkCategoryField, 15)
	b.PrintKeyValue("Run ID", runID, 15)
	b.PrintBottomLine()
	fmt.Println()
}

// printVersionBanner shows build information.
func printVersionBanner() {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(48)

	b.PrintTopLine()
	b.PrintCenteredText("JIRA CATEGORIZE")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", Version, 15)
	b.PrintKeyValue("Commit", Commit, 15)
	b.PrintKeyValue("Built", BuildDate, 15)
	b.PrintBottomLine()
}
