package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/surveydash/internal/report"
)

var schemaShowAll bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List detected countries, years and questions by type",
	Long: `Lists what the classifier found in the survey. Questions are numbered so
they can be referenced by number in the yesno, rating and collab commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		out := report.NewTerminal(cmd.OutOrStdout())
		out.List("Countries", s.Countries()[1:])
		out.List("Years", s.Years)
		out.List("Yes/No questions", s.Schema.YesNo)
		out.List("Rating (1-5) questions", s.Schema.Rating)
		out.List("Collaboration options", s.Schema.Collaboration.Labels())
		if schemaShowAll {
			out.List("Other columns", s.Schema.Unclassified)
			out.List("Excluded identity columns", s.Schema.Excluded)
			out.List("Empty columns", s.Schema.Empty)
		}
		for _, w := range s.Schema.Warnings {
			out.Notice("%s", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVarP(&schemaShowAll, "all", "a", false, "also list unclassified, excluded and empty columns")
}
