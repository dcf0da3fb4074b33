package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cortezalberto/aulaguard/internal/sanitize"
)

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [text]",
	Short: "Redact personal data from a text",
	Long: "Replaces emails, phone numbers, ID numbers and card numbers with\n" +
		"redaction tokens. Reads stdin when no argument is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitize,
}

func runSanitize(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		clean, _ := sanitize.Sanitize(args[0])
		fmt.Println(clean)
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		clean, _ := sanitize.Sanitize(scanner.Text())
		fmt.Println(clean)
	}
	return scanner.Err()
}
