package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/metadatalab/revisor/internal/rules"
	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a rule set to records from a file",
	Long: `Reads a rule description and a JSON array of records, applies the rules
offline and writes the mutated records back out. Per-record status goes to
stderr so the record stream on stdout stays machine-readable.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().String("rules", "", "rule set JSON file")
	applyCmd.Flags().String("records", "", "records JSON file (array of objects)")
	applyCmd.Flags().String("schema", "literature", "schema name to resolve structure against")
	applyCmd.Flags().String("out", "", "output file (default stdout)")
	_ = applyCmd.MarkFlagRequired("rules")
	_ = applyCmd.MarkFlagRequired("records")
}

func runApply(cmd *cobra.Command, args []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	recordsPath, _ := cmd.Flags().GetString("records")
	schemaName, _ := cmd.Flags().GetString("schema")
	outPath, _ := cmd.Flags().GetString("out")

	raw, err := os.ReadFile(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to read rules: %w", err)
	}
	var spec types.RuleSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("failed to parse rules: %w", err)
	}

	raw, err = os.ReadFile(recordsPath)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("failed to parse records: %w", err)
	}

	node, err := schema.NewRegistry().Resolve(schemaName)
	if err != nil {
		return err
	}
	ruleSet, err := rules.Build(spec)
	if err != nil {
		return err
	}

	var changedCount, unchangedCount, failedCount int
	for i, record := range records {
		changed, err := ruleSet.Apply(record, node)
		switch {
		case err != nil:
			failedCount++
			fmt.Fprintf(os.Stderr, "%s record %d: %v\n", color.RedString("error"), i, err)
		case changed:
			changedCount++
			fmt.Fprintf(os.Stderr, "%s record %d\n", color.GreenString("changed"), i)
		default:
			unchangedCount++
			fmt.Fprintf(os.Stderr, "%s record %d\n", color.YellowString("unchanged"), i)
		}
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	out = append(out, '\n')
	if outPath == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
	} else if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%s, %s, %s\n",
		color.GreenString("%d changed", changedCount),
		color.YellowString("%d unchanged", unchangedCount),
		color.RedString("%d failed", failedCount))
	return nil
}
