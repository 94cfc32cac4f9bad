package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbosa/visionplan/internal/report"
)

func newRelatorioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relatorio",
		Short: "Aggregated report commands",
	}

	cmd.AddCommand(newRelatorioStatusCmd())
	cmd.AddCommand(newRelatorioCausasCmd())
	cmd.AddCommand(newRelatorioResponsabilidadeCmd())
	cmd.AddCommand(newRelatorioLatenciaCmd())
	cmd.AddCommand(newRelatorioProntidaoCmd())
	return cmd
}

func newRelatorioStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Constraint counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := report.StatusResumo(gormDB, cfg.EmpresaID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pendentes:   %d\n", r.Pendentes)
			fmt.Fprintf(out, "Atrasadas:   %d\n", r.Atrasadas)
			fmt.Fprintf(out, "Concluidas:  %d\n", r.Concluidas)
			fmt.Fprintf(out, "Canceladas:  %d\n", r.Canceladas)
			fmt.Fprintf(out, "Total:       %d\n", r.Total)
			fmt.Fprintf(out, "Conclusao:   %d%%\n", r.PercentualConcluir)
			if r.Paralisadoras > 0 {
				fmt.Fprintf(out, "\n%d constraint(s) currently stopping site work\n", r.Paralisadoras)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRelatorioCausasCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "causas",
		Short: "Constraint counts by Ishikawa root cause",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := report.CausaResumo(gormDB, cfg.EmpresaID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CAUSA\tQTD")
			fmt.Fprintf(w, "MATERIAL\t%d\n", r.Material)
			fmt.Fprintf(w, "MAO_DE_OBRA\t%d\n", r.MaoDeObra)
			fmt.Fprintf(w, "EQUIPAMENTO\t%d\n", r.Equipamento)
			fmt.Fprintf(w, "METODO\t%d\n", r.Metodo)
			fmt.Fprintf(w, "MEIO_AMBIENTE\t%d\n", r.MeioAmbiente)
			fmt.Fprintf(w, "MEDICAO\t%d\n", r.Medicao)
			if r.SemCausa > 0 {
				fmt.Fprintf(w, "(sem causa)\t%d\n", r.SemCausa)
			}
			fmt.Fprintf(w, "TOTAL\t%d\n", r.Total)
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRelatorioResponsabilidadeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "responsabilidade",
		Short: "Constraint counts by responsible party",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := report.ResponsabilidadeResumo(gormDB, cfg.EmpresaID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RESPONSABILIDADE\tQTD")
			fmt.Fprintf(w, "PROPRIETARIO\t%d\n", r.Proprietario)
			fmt.Fprintf(w, "FISCALIZACAO\t%d\n", r.Fiscalizacao)
			fmt.Fprintf(w, "CONSTRUTORA\t%d\n", r.Construtora)
			if r.SemAtribuir > 0 {
				fmt.Fprintf(w, "(sem atribuir)\t%d\n", r.SemAtribuir)
			}
			fmt.Fprintf(w, "TOTAL\t%d\n", r.Total)
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRelatorioLatenciaCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "latencia",
		Short: "Work-stoppage latency statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := report.LatenciaResumo(gormDB, cfg.EmpresaID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r.Paralisacoes == 0 {
				fmt.Fprintln(out, "No resolved work stoppages on record.")
				return nil
			}
			fmt.Fprintf(out, "Paralisacoes resolvidas: %d\n", r.Paralisacoes)
			fmt.Fprintf(out, "Dias parados (total):    %d\n", r.DiasTotais)
			fmt.Fprintf(out, "Dias parados (media):    %.1f\n", r.DiasMedia)
			fmt.Fprintf(out, "Maior paralisacao:       %dd\n", r.DiasMaximo)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRelatorioProntidaoCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "prontidao",
		Short: "Readiness rollup across all tracked activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := report.ProntidaoResumo(gormDB, cfg.EmpresaID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(r.Atividades) == 0 {
				fmt.Fprintln(out, "No activities with readiness checklists.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ATIVIDADE\tPRONTIDAO\tPENDENTES\tPRONTA")
			for _, a := range r.Atividades {
				fmt.Fprintf(w, "%s\t%d%%\t%d\t%s\n",
					a.AtividadeID, a.Percentual, a.Pendentes, formatBool(a.ProntaParaExecucao))
			}
			w.Flush()
			fmt.Fprintf(out, "\n%d pronta(s), %d bloqueada(s)\n", r.Prontas, r.Bloqueadas)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}
