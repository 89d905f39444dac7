package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vfg2006/goal-pacing-api/infrastructure/migration"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/authenticating"
	"github.com/vfg2006/goal-pacing-api/pkg/log"
)

var (
	flagSteps  int
	flagDSN    string
	flagEmail  string
	flagUserID int
	flagRoleID int
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Operações de manutenção da API de metas",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas as migrações pendentes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *migration.Migrator) error {
			if err := mg.Up(); err != nil {
				return err
			}
			return printStatus(mg)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Reverte as últimas migrações",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(mg *migration.Migrator) error {
			if err := mg.Down(flagSteps); err != nil {
				return err
			}
			fmt.Printf("%s %d migração(ões) revertida(s)\n", color.New(color.FgYellow).Sprint("DOWN"), flagSteps)
			return printStatus(mg)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão de schema aplicada",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(printStatus)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite um token de acesso para integrações internas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		token, err := authenticating.NewService(cfg.Auth).IssueToken(domain.Claims{
			UserID:     flagUserID,
			UserEmail:  flagEmail,
			UserRoleID: flagRoleID,
		})
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "DSN do PostgreSQL (padrão: configuração do ambiente)")

	downCmd.Flags().IntVar(&flagSteps, "steps", 1, "Quantidade de migrações a reverter")

	tokenCmd.Flags().StringVar(&flagEmail, "email", "", "Email gravado como usuário solicitante")
	tokenCmd.Flags().IntVar(&flagUserID, "user-id", 0, "ID do usuário")
	tokenCmd.Flags().IntVar(&flagRoleID, "role", 2, "Role do usuário (1 admin, 2 supervisor, 3 cliente)")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("ERRO"), err)
		os.Exit(1)
	}
}

func withMigrator(fn func(*migration.Migrator) error) error {
	dsn := flagDSN
	if dsn == "" {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}
		log.Setup(cfg.App.LogLevel)
		dsn = cfg.Database.DSN
	}

	mg, err := migration.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

func printStatus(mg *migration.Migrator) error {
	status, err := mg.Status()
	if err != nil {
		return err
	}

	switch {
	case !status.Applied:
		fmt.Printf("schema: %s\n", color.New(color.FgYellow).Sprint("nenhuma migração aplicada"))
	case status.Dirty:
		fmt.Printf("schema: versão %d %s\n", status.Version, color.New(color.FgRed).Sprint("DIRTY"))
	default:
		fmt.Printf("schema: versão %d %s\n", status.Version, color.New(color.FgGreen).Sprint("OK"))
	}

	return nil
}
