package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbosa/visionplan/internal/dates"
	"github.com/gbarbosa/visionplan/internal/models"
	"github.com/gbarbosa/visionplan/internal/restricao"
)

func newRestricaoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restricao",
		Short: "Constraint management commands",
	}

	cmd.AddCommand(newRestricaoCreateCmd())
	cmd.AddCommand(newRestricaoListCmd())
	cmd.AddCommand(newRestricaoShowCmd())
	cmd.AddCommand(newRestricaoReagendarCmd())
	cmd.AddCommand(newRestricaoConcluirCmd())
	cmd.AddCommand(newRestricaoCancelarCmd())
	cmd.AddCommand(newRestricaoAndamentoCmd())
	cmd.AddCommand(newRestricaoEvidenciaCmd())
	return cmd
}

func newRestricaoCreateCmd() *cobra.Command {
	var (
		configPath string
		autor      string
		autorNome  string
		titulo     string
		descricao  string
		causa      string
		resp       string
		prioridade string
		paralisa   bool
		prazo      string
		projetoID  string
		ativID     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new constraint",
		Long:  "Creates a constraint with an auto-generated ID. Work-stoppage constraints are forced to ALTA priority and open a latency window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dates.Parse(prazo)
			if err != nil {
				return fmt.Errorf("--prazo: %w", err)
			}

			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := restricao.Create(gormDB, restricao.CreateOpts{
				EmpresaID:              cfg.EmpresaID,
				CriadoPor:              autor,
				CriadoPorNome:          autorNome,
				Titulo:                 titulo,
				Descricao:              descricao,
				TipoDetalhado:          causa,
				TipoResponsabilidade:   resp,
				Prioridade:             prioridade,
				ParalisarObra:          paralisa,
				DataConclusaoPlanejada: data,
				ProjetoID:              projetoID,
				AtividadeID:            ativID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created constraint %s\n", r.ID)
			fmt.Fprintf(out, "Priority: %s\n", r.Prioridade)
			if r.ParalisarObra {
				fmt.Fprintln(out, "Work stoppage opened — latency window started")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&autor, "autor", "", "creating user ID (required)")
	cmd.Flags().StringVar(&autorNome, "autor-nome", "", "creating user display name")
	cmd.Flags().StringVar(&titulo, "titulo", "", "constraint title (required)")
	cmd.Flags().StringVar(&descricao, "descricao", "", "detailed description")
	cmd.Flags().StringVar(&causa, "causa", "", "root cause (MATERIAL, MAO_DE_OBRA, EQUIPAMENTO, METODO, MEIO_AMBIENTE, MEDICAO)")
	cmd.Flags().StringVar(&resp, "responsabilidade", "", "responsible party (PROPRIETARIO, FISCALIZACAO, CONSTRUTORA)")
	cmd.Flags().StringVar(&prioridade, "prioridade", "", "priority (ALTA, MEDIA, BAIXA)")
	cmd.Flags().BoolVar(&paralisa, "paralisa-obra", false, "constraint stops site work")
	cmd.Flags().StringVar(&prazo, "prazo", "", "planned completion date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&projetoID, "projeto", "", "project ID")
	cmd.Flags().StringVar(&ativID, "atividade", "", "linked activity ID")
	cmd.MarkFlagRequired("autor")
	cmd.MarkFlagRequired("titulo")
	cmd.MarkFlagRequired("prazo")
	return cmd
}

func newRestricaoListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		prioridade string
		causa      string
		projetoID  string
		atrasadas  bool
		criticas   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List constraints",
		Long:  "Lists constraints with optional filters. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			var rs []models.Restricao
			switch {
			case atrasadas:
				rs, err = restricao.ListAtrasadas(gormDB, cfg.EmpresaID)
			case criticas:
				rs, err = restricao.ListCriticas(gormDB, cfg.EmpresaID)
			default:
				rs, err = restricao.List(gormDB, restricao.ListFilters{
					EmpresaID:     cfg.EmpresaID,
					Status:        status,
					Prioridade:    prioridade,
					TipoDetalhado: causa,
					ProjetoID:     projetoID,
				})
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rs) == 0 {
				fmt.Fprintln(out, "No constraints found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITULO\tSTATUS\tPRIORIDADE\tPRAZO\tPARALISA")
			for _, r := range rs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, truncate(r.Titulo, 40), r.Status, r.Prioridade,
					formatDate(r.DataConclusaoPlanejada), formatBool(r.ParalisarObra))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&prioridade, "prioridade", "", "filter by priority")
	cmd.Flags().StringVar(&causa, "causa", "", "filter by root cause")
	cmd.Flags().StringVar(&projetoID, "projeto", "", "filter by project")
	cmd.Flags().BoolVar(&atrasadas, "atrasadas", false, "only overdue constraints")
	cmd.Flags().BoolVar(&criticas, "criticas", false, "only open high-priority blocking constraints")
	return cmd
}

func newRestricaoShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show constraint details",
		Long:  "Displays full details of a constraint including reschedule history, evidence and progress notes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := restricao.Get(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:               %s\n", r.ID)
			fmt.Fprintf(out, "Titulo:           %s\n", r.Titulo)
			fmt.Fprintf(out, "Status:           %s\n", r.Status)
			fmt.Fprintf(out, "Prioridade:       %s\n", r.Prioridade)
			fmt.Fprintf(out, "Causa:            %s\n", r.TipoDetalhado)
			fmt.Fprintf(out, "Responsabilidade: %s\n", r.TipoResponsabilidade)
			fmt.Fprintf(out, "Criado por:       %s\n", r.CriadoPor)
			fmt.Fprintf(out, "Prazo:            %s\n", formatDate(r.DataConclusaoPlanejada))
			fmt.Fprintf(out, "Paralisa obra:    %s\n", formatBool(r.ParalisarObra))
			if r.ParalisarObra {
				fmt.Fprintf(out, "Latencia:         %s (%s → %s)\n",
					formatDias(r.DiasLatencia),
					formatDatePtr(r.DataInicioLatencia), formatDatePtr(r.DataFimLatencia))
			}
			if r.DataConclusao != nil {
				fmt.Fprintf(out, "Concluida em:     %s\n", formatDatePtr(r.DataConclusao))
			}
			if r.Descricao != "" {
				fmt.Fprintf(out, "\nDescricao:\n%s\n", r.Descricao)
			}

			if len(r.Historico) > 0 {
				fmt.Fprintf(out, "\nReagendamentos (%d):\n", len(r.Historico))
				for _, h := range r.Historico {
					fmt.Fprintf(out, "  %s → %s  %s\n",
						formatDate(h.DataAnterior), formatDate(h.DataNova), h.Motivo)
				}
			}
			if len(r.Andamentos) > 0 {
				fmt.Fprintf(out, "\nAndamentos (%d):\n", len(r.Andamentos))
				for _, a := range r.Andamentos {
					fmt.Fprintf(out, "  [%s] %s\n", a.Autor, truncate(a.Texto, 70))
				}
			}
			if len(r.Evidencias) > 0 {
				fmt.Fprintf(out, "\nEvidencias (%d):\n", len(r.Evidencias))
				for _, e := range r.Evidencias {
					fmt.Fprintf(out, "  %s %s (%s)\n", e.ID, e.Nome, e.EnviadoPor)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRestricaoReagendarCmd() *cobra.Command {
	var (
		configPath  string
		novaData    string
		motivo      string
		impacto     string
		responsavel string
	)

	cmd := &cobra.Command{
		Use:   "reagendar <id>",
		Short: "Move a constraint's planned completion date",
		Long:  "Appends an entry to the reschedule history and recomputes the open/overdue status from the new date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dates.Parse(novaData)
			if err != nil {
				return fmt.Errorf("--data: %w", err)
			}

			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			r, err := restricao.Reschedule(gormDB, args[0], data, restricao.RescheduleOpts{
				Motivo:      motivo,
				Impacto:     impacto,
				Responsavel: responsavel,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rescheduled %s to %s (%d reschedule(s) on record)\n",
				r.ID, formatDate(r.DataConclusaoPlanejada), len(r.Historico))
			fmt.Fprintf(out, "Status: %s\n", r.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&novaData, "data", "", "new planned completion date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&motivo, "motivo", "", "reason for the reschedule")
	cmd.Flags().StringVar(&impacto, "impacto", "", "schedule impact description")
	cmd.Flags().StringVar(&responsavel, "responsavel", "", "who requested the change")
	cmd.MarkFlagRequired("data")
	return cmd
}

func newRestricaoConcluirCmd() *cobra.Command {
	var (
		configPath string
		autor      string
	)

	cmd := &cobra.Command{
		Use:   "concluir <id>",
		Short: "Conclude a constraint (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			ok, err := restricao.Conclude(gormDB, args[0], autor)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("constraint %s was not concluded: only the creator may conclude an open constraint", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Concluded %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&autor, "autor", "", "acting user ID (required)")
	cmd.MarkFlagRequired("autor")
	return cmd
}

func newRestricaoCancelarCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cancelar <id>",
		Short: "Cancel a constraint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := restricao.Cancel(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func newRestricaoAndamentoCmd() *cobra.Command {
	var (
		configPath string
		texto      string
		autor      string
	)

	cmd := &cobra.Command{
		Use:   "andamento <id>",
		Short: "Append a progress note to a constraint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			a, err := restricao.AddAndamento(gormDB, args[0], texto, autor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added progress note %s to %s\n", a.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&texto, "texto", "", "note text (required)")
	cmd.Flags().StringVar(&autor, "autor", "", "note author (required)")
	cmd.MarkFlagRequired("texto")
	cmd.MarkFlagRequired("autor")
	return cmd
}

func newRestricaoEvidenciaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evidencia",
		Short: "Manage constraint evidence files",
	}

	cmd.AddCommand(newEvidenciaAddCmd())
	cmd.AddCommand(newEvidenciaRemoveCmd())
	return cmd
}

func newEvidenciaAddCmd() *cobra.Command {
	var (
		configPath string
		nome       string
		caminho    string
		tipo       string
		tamanho    int64
		autor      string
	)

	cmd := &cobra.Command{
		Use:   "add <restricao-id>",
		Short: "Attach an evidence file record to a constraint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}

			ev, err := restricao.AddEvidencia(gormDB, args[0], restricao.EvidenciaOpts{
				Nome:         nome,
				Caminho:      caminho,
				TipoArquivo:  tipo,
				TamanhoBytes: tamanho,
				EnviadoPor:   autor,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added evidence %s to %s\n", ev.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().StringVar(&nome, "nome", "", "file name (required)")
	cmd.Flags().StringVar(&caminho, "caminho", "", "stored file path (required)")
	cmd.Flags().StringVar(&tipo, "tipo", "", "file type")
	cmd.Flags().Int64Var(&tamanho, "tamanho", 0, "file size in bytes")
	cmd.Flags().StringVar(&autor, "autor", "", "uploading user ID")
	cmd.MarkFlagRequired("nome")
	cmd.MarkFlagRequired("caminho")
	return cmd
}

func newEvidenciaRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <restricao-id> <evidencia-id>",
		Short: "Remove an evidence record from a constraint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := storeFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := restricao.RemoveEvidencia(gormDB, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed evidence %s from %s\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}
