package models

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

const (
	DefaultAlias         = "Unnamed Connection"
	DefaultPassphraseEnv = "SFTP_PASSPHRASE"
	DefaultListDir       = "."
)

// Endpoint 是一次连通性检查的目标, 对应配置文件数组中的一项
type Endpoint struct {
	Alias          string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Host           string `json:"host" yaml:"host"` // IP 或 域名
	Port           int    `json:"port" yaml:"port"`
	Username       string `json:"username" yaml:"username"`
	PrivateKeyPath string `json:"private_key_path" yaml:"private_key_path"`
	PassphraseEnv  string `json:"passphrase_env,omitempty" yaml:"passphrase_env,omitempty"` // 存放私钥密码的环境变量名
	ListDir        string `json:"list_dir,omitempty" yaml:"list_dir,omitempty"`
}

// ApplyDefaults 为可选字段填充默认值, 空字符串视为未设置
func (e *Endpoint) ApplyDefaults() {
	if e.Alias == "" {
		e.Alias = DefaultAlias
	}
	if e.PassphraseEnv == "" {
		e.PassphraseEnv = DefaultPassphraseEnv
	}
	if e.ListDir == "" {
		e.ListDir = DefaultListDir
	}
}

// Validate 检查必填字段. 加载时不校验, 由检查阶段调用
func (e Endpoint) Validate() error {
	var missing []error
	if e.Host == "" {
		missing = append(missing, errors.New("host is required"))
	}
	if e.Port == 0 {
		missing = append(missing, errors.New("port is required"))
	} else if e.Port < 0 || e.Port > 65535 {
		missing = append(missing, fmt.Errorf("port %d out of range", e.Port))
	}
	if e.Username == "" {
		missing = append(missing, errors.New("username is required"))
	}
	if e.PrivateKeyPath == "" {
		missing = append(missing, errors.New("private_key_path is required"))
	}
	return errors.Join(missing...)
}

// Addr 返回 host:port, IPv6 地址会加上方括号
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}
