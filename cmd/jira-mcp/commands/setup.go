package commands

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const tokenURL = "https://id.atlassian.com/manage-profile/security/api-tokens"

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Open the Atlassian API token page to create credentials",
	Long: `Opens the Atlassian API token management page in your browser. Create a
token there and put it in JIRA_API_TOKEN together with JIRA_EMAIL and
JIRA_URL, either in the environment or in a .env file next to the binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Opening %s\n", tokenURL)
		return browser.OpenURL(tokenURL)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
