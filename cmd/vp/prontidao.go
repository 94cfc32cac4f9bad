package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbosa/visionplan/internal/prontidao"
)

func newProntidaoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prontidao",
		Short: "Readiness checklist commands",
	}

	cmd.AddCommand(newProntidaoInitCmd())
	cmd.AddCommand(newProntidaoShowCmd())
	cmd.AddCommand(newProntidaoDerivarCmd())
	cmd.AddCommand(newProntidaoCicloCmd())
	cmd.AddCommand(newProntidaoSetCmd())
	return cmd
}

func newProntidaoInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init <atividade-id>",
		Short: "Initialize an activity's readiness checklist",
		Long:  "Creates the fixed condition set for an activity. Running it again on an initialized activity is a no-op.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			conds, err := prontidao.Initialize(gormDB, cfg.EmpresaID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checklist ready for %s (%d conditions)\n", args[0], len(conds))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newProntidaoShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <atividade-id>",
		Short: "Show an activity's readiness checklist and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			conds, err := prontidao.ListByAtividade(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(conds) == 0 {
				fmt.Fprintln(out, "Checklist not initialized.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCONDICAO\tSTATUS\tATENDIDA EM")
			for _, c := range conds {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.ID, c.TipoCondicao, c.Status, formatDatePtr(c.DataAtendida))
			}
			w.Flush()

			resumo := prontidao.SummarizeConds(args[0], conds)
			fmt.Fprintf(out, "\nProntidao: %d%%", resumo.Percentual)
			if resumo.ProntaParaExecucao {
				fmt.Fprint(out, " — pronta para execucao")
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newProntidaoDerivarCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "derivar <atividade-id>",
		Short: "Re-derive the predecessor condition from dependency state",
		Long:  "Recomputes an activity's PREDECESSORA condition from the completion state of its predecessors.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			cond, err := prontidao.DeriveProgress(gormDB, args[0])
			if err != nil {
				return err
			}
			if cond == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Checklist not initialized.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Condition %s (%s) is now %s\n",
				cond.ID, cond.TipoCondicao, cond.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newProntidaoCicloCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ciclo <condicao-id>",
		Short: "Cycle a condition to its next status",
		Long:  "Advances a condition through PENDENTE → ATENDIDA → NAO_APLICAVEL → PENDENTE.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			cond, err := prontidao.CycleCondition(gormDB, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Condition %s (%s) is now %s\n",
				cond.ID, cond.TipoCondicao, cond.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newProntidaoSetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set <condicao-id> <status>",
		Short: "Set a condition's status directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			cond, err := prontidao.SetStatus(gormDB, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Condition %s (%s) is now %s\n",
				cond.ID, cond.TipoCondicao, cond.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}
