package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/wentf9/sftpcheck/pkg/logger"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// HostKeyPolicy 决定如何验证服务器主机密钥
type HostKeyPolicy string

const (
	// AcceptAny 接受任意主机密钥, 不做固定也不查 known_hosts.
	// 这是诊断工具的信任边界: 只证明服务器可达且接受我们的私钥, 不证明服务器身份
	AcceptAny HostKeyPolicy = "accept-any"
	// KnownHosts 按 known_hosts 文件校验, 未知或不匹配的密钥都会失败
	KnownHosts HostKeyPolicy = "known-hosts"
)

// Callback 构建对应策略的 ssh.HostKeyCallback.
// KnownHosts 策略未指定文件时使用 ~/.ssh/known_hosts
func (p HostKeyPolicy) Callback(knownHostsFiles ...string) (ssh.HostKeyCallback, error) {
	switch p {
	case AcceptAny, "":
		return acceptAny, nil
	case KnownHosts:
		files := append([]string(nil), knownHostsFiles...)
		if len(files) == 0 {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate default known_hosts: %w", err)
			}
			files = []string{filepath.Join(home, ".ssh", "known_hosts")}
		}
		for i, f := range files {
			files[i] = expandHomeDir(f)
		}
		cb, err := knownhosts.New(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
		return cb, nil
	default:
		return nil, fmt.Errorf("unsupported host key policy: %s", p)
	}
}

func acceptAny(hostname string, remote net.Addr, key ssh.PublicKey) error {
	logger.Logger.Debug("accepting host key without verification",
		"host", hostname,
		"remote", remote.String(),
		"type", key.Type(),
		"fingerprint", ssh.FingerprintSHA256(key),
	)
	return nil
}

// IsHostKeyError 判断错误是否来自 known_hosts 校验 (未知/不匹配/已吊销)
func IsHostKeyError(err error) bool {
	var keyErr *knownhosts.KeyError
	var revoked *knownhosts.RevokedError
	return errors.As(err, &keyErr) || errors.As(err, &revoked)
}
