// Package checker 对单个端点执行一次完整的 SFTP 连通性检查:
// 加载私钥 -> 建立 SSH 会话 -> 打开 sftp 子系统 -> 列目录 -> 清理.
// 任何一步失败都转换成 Result.Err, 不会中断调用方的循环.
package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/wentf9/sftpcheck/pkg/logger"
	"github.com/wentf9/sftpcheck/pkg/models"
	"github.com/wentf9/sftpcheck/pkg/sftp"
	"github.com/wentf9/sftpcheck/pkg/ssh"
)

type Options struct {
	SSH ssh.Options
	// Getenv 用于读取私钥密码, 默认 os.Getenv
	Getenv func(string) string
}

// Result 单个端点的检查结果
type Result struct {
	Endpoint models.Endpoint
	Files    []string // 成功时为目录内容, 已排序
	Err      error    // 失败时为 *Error
	Elapsed  time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Checker struct {
	connector *ssh.Connector
	getenv    func(string) string
}

func New(opts Options) (*Checker, error) {
	connector, err := ssh.NewConnector(opts.SSH)
	if err != nil {
		return nil, err
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Checker{
		connector: connector,
		getenv:    getenv,
	}, nil
}

// Check 检查一个端点. 连接和会话都在返回前释放, panic 时也一样
func (c *Checker) Check(ctx context.Context, ep models.Endpoint) (res Result) {
	start := time.Now()
	res.Endpoint = ep
	log := logger.Logger.With("alias", ep.Alias, "addr", ep.Addr())

	defer func() {
		if r := recover(); r != nil {
			res.Files = nil
			res.Err = &Error{Kind: KindUnknown, Op: "check", Err: fmt.Errorf("panic: %v", r)}
		}
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			log.Debug("check failed", "kind", KindOf(res.Err).String(), "error", res.Err, "elapsed", res.Elapsed)
		} else {
			log.Debug("check succeeded", "files", len(res.Files), "elapsed", res.Elapsed)
		}
	}()

	// 后打开的先关闭, 清理失败不覆盖主结果
	var closers []io.Closer
	defer func() { closeAll(log, closers...) }()

	if err := ep.Validate(); err != nil {
		res.Err = &Error{Kind: KindConfig, Op: "invalid endpoint", Err: err}
		return res
	}

	// 1. 加载私钥, 密码在此时才从环境变量读取
	auth := &ssh.KeyAuth{Path: ep.PrivateKeyPath, Passphrase: c.getenv(ep.PassphraseEnv)}
	signer, err := auth.Signer()
	if err != nil {
		res.Err = &Error{Kind: KindKeyLoad, Op: "load private key", Err: err}
		return res
	}
	log.Debug("private key loaded", "type", signer.PublicKey().Type())

	// 2. 建立 SSH 会话
	client, err := c.connector.Connect(ctx, ep, signer)
	if err != nil {
		res.Err = &Error{Kind: interrupted(ctx, classifyConnect(err)), Op: "connect", Err: err}
		return res
	}
	closers = append(closers, client)
	// sftp 请求不感知 ctx, 取消时直接关掉连接让阻塞的调用返回
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	// 3. 打开 sftp 子系统
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		res.Err = &Error{Kind: interrupted(ctx, KindRemote), Op: "open sftp", Err: err}
		return res
	}
	closers = append([]io.Closer{sftpClient}, closers...)

	// 4. 列目录
	files, err := sftpClient.ListDir(ep.ListDir)
	if err != nil {
		res.Err = &Error{Kind: interrupted(ctx, KindRemote), Op: "list directory", Err: err}
		return res
	}
	res.Files = files
	return res
}

// interrupted 在 ctx 已取消时把网络相关的失败归为 KindCanceled, 避免误报端点故障
func interrupted(ctx context.Context, kind Kind) Kind {
	if ctx.Err() != nil {
		return KindCanceled
	}
	return kind
}

func classifyConnect(err error) Kind {
	var dialErr *ssh.DialError
	switch {
	case errors.As(err, &dialErr):
		return KindNetwork
	case ssh.IsHostKeyError(err):
		return KindHostKey
	case ssh.IsAuthError(err):
		return KindAuth
	default:
		return KindNetwork
	}
}

// closeAll 按顺序关闭, 错误只记录日志
func closeAll(log *slog.Logger, closers ...io.Closer) {
	var result *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		log.Debug("cleanup failed", "error", err)
	}
}
