// Command ladders is the command-line driver for the ladder-operator
// algebra kernel.
//
//	ladders eval "a_a+"                      # parse, normal order, print
//	ladders eval "a(+)a+" "a(+)a+"           # product of the arguments
//	ladders kerr "a+_a_a+_a(+)a+_a_b+_b"     # Kerr coefficient report
//	ladders run worksheet.yaml               # evaluate a derivation sheet
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bosonic/ladders"
	"github.com/bosonic/ladders/render"
	"github.com/bosonic/ladders/worksheet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "ladders",
		Short:         "Normal-ordering calculator for multimode bosonic ladder operators",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			ladders.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace kernel internals")
	root.AddCommand(newEvalCmd(), newKerrCmd(), newRunCmd())
	return root
}

func newEvalCmd() *cobra.Command {
	var latex bool
	cmd := &cobra.Command{
		Use:   "eval <expr> [<expr>...]",
		Short: "Parse expressions and print their normal-ordered product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ladders.Parse(args[0])
			if err != nil {
				return err
			}
			for _, src := range args[1:] {
				e, err := ladders.Parse(src)
				if err != nil {
					return err
				}
				result = result.Mul(e)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Text(result))
			if latex {
				fmt.Fprintln(cmd.OutOrStdout(), render.LaTeX(result))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "also print LaTeX")
	return cmd
}

func newKerrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kerr <expr>",
		Short: "Report self-Kerr and cross-Kerr coefficients for every mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := ladders.Parse(args[0])
			if err != nil {
				return err
			}
			modes := e.Modes()
			out := cmd.OutOrStdout()
			for _, m := range modes {
				fmt.Fprintf(out, "%c self-Kerr:\t%s\n", m, ladders.FormatCoefficient(ladders.Kerr(e, m)))
			}
			for i, m1 := range modes {
				for _, m2 := range modes[i+1:] {
					fmt.Fprintf(out, "%c-%c cross-Kerr:\t%s\n",
						m1, m2, ladders.FormatCoefficient(ladders.CrossKerr(e, m1, m2)))
				}
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <worksheet.yaml>",
		Short: "Evaluate a derivation worksheet and print every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := worksheet.Load(data)
			if err != nil {
				return err
			}
			results, err := doc.Run()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			names := make([]string, 0, len(doc.Exprs))
			for name := range doc.Exprs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s:\t%s\n", name, render.Text(results[name]))
			}
			for _, step := range doc.Steps {
				fmt.Fprintf(out, "%s:\t%s\n", step.Name, render.Text(results[step.Name]))
			}
			return nil
		},
	}
}
