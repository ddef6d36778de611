// Package seed 读取 yaml 格式的模型目录, 用于初始化 LLM 模型配置
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelEntry 目录中的一个模型; 未填写的生成参数使用默认值
type ModelEntry struct {
	Name        string   `yaml:"name"`
	Provider    string   `yaml:"provider,omitempty"`
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key,omitempty"`
	ModelName   string   `yaml:"model_name"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	TopP        *float64 `yaml:"top_p,omitempty"`
}

// Catalog 模型目录
type Catalog struct {
	Models []ModelEntry `yaml:"models"`
}

// LoadFile 从文件读取目录
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse 解析目录; api_key 支持 ${ENV} 形式引用环境变量
func Parse(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return &catalog, nil
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Models))
	for i := range catalog.Models {
		m := &catalog.Models[i]
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			return nil, fmt.Errorf("models[%d]: name is required", i)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("models[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
		m.APIKey = os.ExpandEnv(m.APIKey)
	}
	return &catalog, nil
}
