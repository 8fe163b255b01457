package ssh

import (
	"golang.org/x/crypto/ssh"
)

type Client struct {
	sshClient *ssh.Client
}

func NewClient(raw *ssh.Client) *Client {
	return &Client{sshClient: raw}
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.sshClient.Close()
}

// SSHClient 暴露底层的 ssh.Client (供 SFTP 子系统使用)
func (c *Client) SSHClient() *ssh.Client {
	return c.sshClient
}
