package ssh

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// KeyAuth 实现私钥认证
type KeyAuth struct {
	Path       string
	Passphrase string
}

// Signer 读取并解析私钥.
// 未加密的私钥直接解析, 忽略 Passphrase; 加密的私钥必须提供 Passphrase
func (k *KeyAuth) Signer() (ssh.Signer, error) {
	keyData, err := os.ReadFile(expandHomeDir(k.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if k.Passphrase == "" {
			return nil, fmt.Errorf("private key '%s' is encrypted and no passphrase was provided: %w", k.Path, err)
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(k.Passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key '%s': %w", k.Path, err)
	}
	return signer, nil
}

// expandHomeDir 简单的路径处理辅助函数
func expandHomeDir(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return home + path[1:]
		}
	}
	return path
}
