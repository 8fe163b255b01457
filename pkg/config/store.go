package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/wentf9/sftpcheck/pkg/models"
	"gopkg.in/yaml.v3"
)

type Store interface {
	Load() ([]models.Endpoint, error)
}

type defaultStore struct {
	fs   afero.Fs
	Path string
}

// Load 读取并解析端点列表, 按文件顺序返回并填充默认值.
// 这里只做结构解析, 必填字段留到检查时再校验
func (s *defaultStore) Load() ([]models.Endpoint, error) {
	data, err := afero.ReadFile(s.fs, s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var endpoints []models.Endpoint
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &endpoints)
	default:
		err = json.Unmarshal(data, &endpoints)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", s.Path, err)
	}

	for i := range endpoints {
		endpoints[i].ApplyDefaults()
	}
	return endpoints, nil
}

func NewDefaultStore(fs afero.Fs, path string) Store {
	return &defaultStore{
		fs:   fs,
		Path: path,
	}
}

// Load 是 NewDefaultStore(fs, path).Load() 的简写
func Load(fs afero.Fs, path string) ([]models.Endpoint, error) {
	return NewDefaultStore(fs, path).Load()
}
