package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbosa/visionplan/internal/atividade"
	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/prontidao"
)

func newAtividadeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atividade",
		Short: "Activity management commands",
	}

	cmd.AddCommand(newAtividadeCreateCmd())
	cmd.AddCommand(newAtividadeListCmd())
	cmd.AddCommand(newAtividadeStatusCmd())
	cmd.AddCommand(newAtividadeDepCmd())
	return cmd
}

func newAtividadeCreateCmd() *cobra.Command {
	var (
		configPath string
		nome       string
		inicio     string
		fim        string
		projetoID  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			opts := atividade.CreateOpts{
				EmpresaID: cfg.EmpresaID,
				Nome:      nome,
				ProjetoID: projetoID,
			}
			if inicio != "" {
				d, err := dates.Parse(inicio)
				if err != nil {
					return fmt.Errorf("--inicio: %w", err)
				}
				opts.DataInicioPlanejada = &d
			}
			if fim != "" {
				d, err := dates.Parse(fim)
				if err != nil {
					return fmt.Errorf("--fim: %w", err)
				}
				opts.DataFimPlanejada = &d
			}

			a, err := atividade.Create(gormDB, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created activity %s\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&nome, "nome", "", "activity name (required)")
	cmd.Flags().StringVar(&inicio, "inicio", "", "planned start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&fim, "fim", "", "planned finish date, YYYY-MM-DD")
	cmd.Flags().StringVar(&projetoID, "projeto", "", "project ID")
	cmd.MarkFlagRequired("nome")
	return cmd
}

func newAtividadeListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		projetoID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			as, err := atividade.List(gormDB, atividade.ListFilters{
				EmpresaID: cfg.EmpresaID,
				Status:    status,
				ProjetoID: projetoID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(as) == 0 {
				fmt.Fprintln(out, "No activities found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOME\tSTATUS\tINICIO\tFIM")
			for _, a := range as {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					a.ID, truncate(a.Nome, 40), a.Status,
					formatDatePtr(a.DataInicioPlanejada), formatDatePtr(a.DataFimPlanejada))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&projetoID, "projeto", "", "filter by project")
	return cmd
}

func newAtividadeStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <id> <novo-status>",
		Short: "Transition an activity's status",
		Long:  "Applies a status transition (PENDENTE, EM_ANDAMENTO, CONCLUIDA, CANCELADA), stamping real start/finish dates and refreshing dependent readiness checklists.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			a, err := atividade.SetStatus(gormDB, args[0], args[1])
			if err != nil {
				return err
			}

			// Successors gate on this activity's completion.
			var ids []string
			gormDB.Table("atividade_deps").Where("depende_de = ?", a.ID).
				Pluck("atividade_id", &ids)
			for _, id := range ids {
				prontidao.DeriveProgress(gormDB, id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Activity %s is now %s\n", a.ID, a.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newAtividadeDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage activity predecessor links",
	}

	cmd.AddCommand(newDepAddCmd())
	cmd.AddCommand(newDepRemoveCmd())
	return cmd
}

func newDepAddCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "add <atividade-id> <depende-de>",
		Short: "Add a predecessor link",
		Long:  "Links an activity to a predecessor it cannot start before. Self-links and dependency cycles are rejected.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := atividade.AddDep(gormDB, args[0], args[1]); err != nil {
				return err
			}
			if _, err := prontidao.DeriveProgress(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s after %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newDepRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <atividade-id> <depende-de>",
		Short: "Remove a predecessor link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := atividade.RemoveDep(gormDB, args[0], args[1]); err != nil {
				return err
			}
			if _, err := prontidao.DeriveProgress(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s from %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}
