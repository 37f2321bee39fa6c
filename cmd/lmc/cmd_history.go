package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantum-lichen/LMC-Scanner/internal/report"
)

var historyFlags struct {
	limit  int
	format string
}

var showFlags struct {
	output outputOptions
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored scans, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Print a stored scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <scan-id>",
	Short: "Delete a stored scan and its sentences",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	hf := historyCmd.Flags()
	hf.IntVarP(&historyFlags.limit, "limit", "n", 20, "Number of scans to list")
	hf.StringVarP(&historyFlags.format, "format", "o", "ascii", "Output format: ascii, markdown or json")

	sf := showCmd.Flags()
	sf.StringVarP(&showFlags.output.format, "format", "o", "ascii", "Output format: ascii, markdown or json")
	sf.BoolVar(&showFlags.output.color, "color", false, "Color diagnostics (ascii only)")
	sf.IntVar(&showFlags.output.width, "width", 60, "Truncate sentences to this many characters")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	st, err := openStore(app.cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	scans, err := st.ListScans(cmd.Context(), historyFlags.limit)
	if err != nil {
		return err
	}
	if strings.EqualFold(historyFlags.format, "json") {
		return report.JSON(cmd.OutOrStdout(), scans)
	}
	mode, err := parseMode(historyFlags.format)
	if err != nil {
		return err
	}
	return report.RenderHistory(cmd.OutOrStdout(), scans, mode)
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(app.cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := st.GetScan(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return writeResult(cmd.OutOrStdout(), result, showFlags.output)
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore(app.cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteScan(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
