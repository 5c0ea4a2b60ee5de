// @title 在线考试后端 API
// @version 1.0
// @description 班级考试、自动判分与 AI 出题服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"os"

	"edu_exam_backend/internal/app"
	"edu_exam_backend/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "edu-exam",
		Short:        "Exam engine backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "configs", "配置文件目录")

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), sweepCmd())

	// 不带子命令时直接启动服务
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	dir, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := loadConfig(cmd)
			if err != nil {
				log.Printf("Failed to load config: %v", err)
				return err
			}
			// 启动时强制执行数据库迁移（即使是 release 模式）
			cfg.ForceMigrate, _ = cmd.Flags().GetBool("migrate")

			app.NewApp(cfg, dir).Run()
			return nil
		},
	}
	cmd.Flags().Bool("migrate", false, "启动时强制执行数据库迁移")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "只执行数据库迁移，完成后退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := app.Migrate(cfg); err != nil {
				return err
			}
			log.Println("数据库迁移完成，退出程序")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "执行一次超时作答提交和考试状态扫描",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return app.RunSweeps(cmd.Context(), cfg)
		},
	}
}
