package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wentf9/sftpcheck/cmd/version"
	"github.com/wentf9/sftpcheck/global"
	"github.com/wentf9/sftpcheck/pkg/checker"
	"github.com/wentf9/sftpcheck/pkg/config"
	"github.com/wentf9/sftpcheck/pkg/logger"
	"github.com/wentf9/sftpcheck/pkg/report"
	"github.com/wentf9/sftpcheck/pkg/runner"
	"github.com/wentf9/sftpcheck/pkg/ssh"
)

type CheckOptions struct {
	ConfigPath string
	KnownHosts string

	Fs           afero.Fs
	Out          io.Writer
	ErrOut       io.Writer
	ShowProgress bool
}

func NewCheckOptions() *CheckOptions {
	return &CheckOptions{
		Fs:           afero.NewOsFs(),
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		ShowProgress: global.IsStderrTerminal,
	}
}

// NewRootCmd 构建根命令, 根命令本身就是检查命令
func NewRootCmd() *cobra.Command {
	return newRootCmd(NewCheckOptions())
}

func newRootCmd(o *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sftpcheck --config <path>",
		Short: "逐个检查配置文件中的 SFTP 端点能否登录并列出目录",
		Long: `sftpcheck 读取 JSON (或 YAML) 格式的端点列表, 按顺序对每个端点:
加载私钥, 建立 SSH 会话, 打开 SFTP 子系统, 列出目录, 并输出结果。
单个端点失败不会中断后续端点的检查。
用法示例:
sftpcheck --config endpoints.json
sftpcheck --config endpoints.json --known-hosts ~/.ssh/known_hosts

私钥密码从环境变量读取, 变量名由 passphrase_env 指定, 默认 SFTP_PASSPHRASE。
默认接受任意主机密钥, 仅用于诊断; 指定 --known-hosts 后按文件校验。`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debugFlag, _ := cmd.Flags().GetBool("debug")
			if debugFlag {
				logger.SetLogLevel("debug")
				logger.Logger.Debug("debug mode enabled")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Out = cmd.OutOrStdout()
			o.ErrOut = cmd.ErrOrStderr()
			return o.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&o.ConfigPath, "config", "c", "", "端点配置文件路径 (JSON 数组, .yaml/.yml 按 YAML 解析)")
	cmd.Flags().StringVar(&o.KnownHosts, "known-hosts", "", "按 known_hosts 文件校验主机密钥 (默认接受任意主机密钥)")
	cmd.PersistentFlags().Bool("debug", false, "开启调试模式")
	_ = cmd.MarkFlagRequired("config")

	cmd.AddCommand(version.NewCmdVersion())
	return cmd
}

// Run 加载配置并顺序检查所有端点.
// 配置加载失败和端点失败都只输出, 不作为错误返回, 进程以 0 退出.
// 被中断时输出已检查部分的汇总并返回错误
func (o *CheckOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := report.NewPrinter(o.Out)

	endpoints, err := config.Load(o.Fs, o.ConfigPath)
	if err != nil {
		p.ConfigError(err)
	}
	if len(endpoints) == 0 {
		p.NothingToDo()
		return nil
	}
	logger.Logger.Debug("configuration loaded", "path", o.ConfigPath, "endpoints", len(endpoints))

	sshOpts := ssh.Options{HostKeyPolicy: ssh.AcceptAny}
	if o.KnownHosts != "" {
		sshOpts.HostKeyPolicy = ssh.KnownHosts
		sshOpts.KnownHostsFiles = []string{o.KnownHosts}
	}
	c, err := checker.New(checker.Options{SSH: sshOpts})
	if err != nil {
		return fmt.Errorf("failed to initialise checker: %w", err)
	}

	bar := runner.NewProgressBar(o.ErrOut, len(endpoints), o.ShowProgress && len(endpoints) > 1)
	results := runner.RunSequential(ctx, endpoints, c, p, runner.WithProgress(bar))
	p.Summary(results)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted after %d of %d endpoint(s): %w", len(results), len(endpoints), err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if !global.IsTerminal {
		color.NoColor = true
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// 第一次信号取消 ctx, 之后恢复默认处理, 再按一次 Ctrl-C 直接退出
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
