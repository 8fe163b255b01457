package ssh

import (
	"context"
	"net"
	"time"

	"github.com/wentf9/sftpcheck/pkg/logger"
	"github.com/wentf9/sftpcheck/pkg/models"
	"golang.org/x/crypto/ssh"
)

// Connector 负责创建 SSH 连接. 每次 Connect 都是全新的连接, 不做缓存
type Connector struct {
	opts     Options
	dialer   *net.Dialer
	hostKeys ssh.HostKeyCallback
}

// NewConnector 创建一个新的 Connector, known_hosts 在这里一次性加载
func NewConnector(opts Options) (*Connector, error) {
	hostKeys, err := opts.HostKeyPolicy.Callback(opts.KnownHostsFiles...)
	if err != nil {
		return nil, err
	}
	return &Connector{
		opts:     opts,
		dialer:   &net.Dialer{Timeout: opts.Timeout},
		hostKeys: hostKeys,
	}, nil
}

// Connect 拨号并以公钥认证完成 SSH 握手.
// 拨号失败返回 *DialError, 握手/认证/主机密钥失败返回 *HandshakeError
func (c *Connector) Connect(ctx context.Context, ep models.Endpoint, signer ssh.Signer) (*Client, error) {
	targetAddr := ep.Addr()

	// 1. 建立底层 TCP 连接
	logger.Logger.Debug("dialing", "alias", ep.Alias, "addr", targetAddr)
	conn, err := c.dialer.DialContext(ctx, "tcp", targetAddr)
	if err != nil {
		return nil, &DialError{Addr: targetAddr, Err: err}
	}

	sshConfig := &ssh.ClientConfig{
		User:            ep.Username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: c.hostKeys,
		Timeout:         c.opts.Timeout,
	}

	// 2. 建立 SSH 会话. NewClientConn 不感知 ctx, 取消时通过截止时间打断握手
	if c.opts.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.opts.Timeout))
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	ncc, chans, reqs, err := ssh.NewClientConn(conn, targetAddr, sshConfig)
	if !stop() && err == nil {
		err = ctx.Err()
		ncc.Close()
	}
	if err != nil {
		conn.Close()
		return nil, &HandshakeError{Addr: targetAddr, Err: err}
	}
	_ = conn.SetDeadline(time.Time{})

	logger.Logger.Debug("ssh session established", "alias", ep.Alias, "addr", targetAddr,
		"server_version", string(ncc.ServerVersion()))
	return NewClient(ssh.NewClient(ncc, chans, reqs)), nil
}
