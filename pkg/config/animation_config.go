// Package config 提供动画播放器的 YAML 配置支持
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/frameplay/pkg/animation"
)

// AnimationConfig 动画配置文件的顶层结构
// 用于以声明方式定义一个动画播放器：状态列表、帧序列、播放模式等
type AnimationConfig struct {
	// Name 动画名称（用于日志和调试）
	Name string `yaml:"name,omitempty"`

	// Mode 播放模式（"loop"、"once" 或 "pingpong"，默认 "loop"）
	Mode string `yaml:"mode,omitempty"`

	// Scale 初始输出尺寸（可选，省略时保持原始尺寸）
	Scale *ScaleConfig `yaml:"scale,omitempty"`

	// InitialState 构造后激活的状态（可选，默认第一个声明的状态）
	InitialState string `yaml:"initial_state,omitempty"`

	// MaxCacheSize 帧缓存容量（可选，0 表示使用默认值）
	MaxCacheSize int `yaml:"max_cache_size,omitempty"`

	// States 状态列表（按声明顺序，第一个状态是默认初始状态）
	States []StateConfig `yaml:"states"`
}

// ScaleConfig 输出尺寸（像素）
type ScaleConfig struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// StateConfig 单个动画状态的定义
type StateConfig struct {
	// Name 状态名称（如 "idle"、"walk"）
	Name string `yaml:"name"`

	// Duration 每帧持续时间（秒）
	Duration float64 `yaml:"duration"`

	// Frames 帧名列表（通过 ImageSource 解析为图像）
	Frames []string `yaml:"frames"`
}

// LoadAnimationConfig 从 YAML 文件加载动画配置
//
// 参数：
//   - path: 配置文件路径（相对于项目根目录）
//
// 返回：
//   - *AnimationConfig: 解析后的配置对象
//   - error: 加载或解析错误
func LoadAnimationConfig(path string) (*AnimationConfig, error) {
	// 1. 读取文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	// 2. 解析 YAML
	var config AnimationConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}

	// 3. 验证配置
	if err := validateAnimationConfig(&config); err != nil {
		return nil, fmt.Errorf("配置文件 %s 验证失败: %w", path, err)
	}

	return &config, nil
}

// validateAnimationConfig 验证配置的完整性和正确性
func validateAnimationConfig(config *AnimationConfig) error {
	// 验证状态列表
	if len(config.States) == 0 {
		return fmt.Errorf("'states' 列表为空")
	}

	seen := make(map[string]bool)
	for i, state := range config.States {
		if state.Name == "" {
			return fmt.Errorf("状态 #%d 缺少 'name' 字段", i)
		}
		if seen[state.Name] {
			return fmt.Errorf("状态 '%s' 重复定义", state.Name)
		}
		seen[state.Name] = true

		if state.Duration <= 0 {
			return fmt.Errorf("状态 '%s' 的 'duration' 必须为正数，当前值 %v", state.Name, state.Duration)
		}
		if len(state.Frames) == 0 {
			return fmt.Errorf("状态 '%s' 的 'frames' 列表为空", state.Name)
		}
		for j, frame := range state.Frames {
			if frame == "" {
				return fmt.Errorf("状态 '%s' 的第 %d 个帧名为空", state.Name, j)
			}
		}
	}

	// 验证播放模式
	if config.Mode != "" {
		if _, err := animation.ParsePlayMode(config.Mode); err != nil {
			return fmt.Errorf("播放模式无效: %w", err)
		}
	}

	// 验证初始状态引用
	if config.InitialState != "" && !seen[config.InitialState] {
		return fmt.Errorf("初始状态 '%s' 未在 'states' 中定义", config.InitialState)
	}

	// 验证缓存容量
	if config.MaxCacheSize != 0 && config.MaxCacheSize < animation.MinCacheSize {
		return fmt.Errorf("'max_cache_size' 不能小于 %d，当前值 %d", animation.MinCacheSize, config.MaxCacheSize)
	}

	// 验证缩放尺寸
	if config.Scale != nil && (config.Scale.W <= 0 || config.Scale.H <= 0) {
		return fmt.Errorf("'scale' 尺寸必须为正数，当前值 %dx%d", config.Scale.W, config.Scale.H)
	}

	return nil
}

// Build 根据配置构造动画播放器
// 帧名通过 source 解析为图像；未指定 initial_state 时
// 使用第一个声明的状态作为初始状态
//
// 参数：
//   - source: 帧名解析器（如 *resource.Manager）
//
// 返回：
//   - *animation.Player: 构造好的播放器
//   - error: 配置或资源解析错误
func (c *AnimationConfig) Build(source animation.ImageSource) (*animation.Player, error) {
	if err := validateAnimationConfig(c); err != nil {
		return nil, err
	}

	frames := make(map[string][]string, len(c.States))
	durations := make(map[string]float64, len(c.States))
	for _, state := range c.States {
		frames[state.Name] = append([]string(nil), state.Frames...)
		durations[state.Name] = state.Duration
	}

	mode := animation.ModeLoop
	if c.Mode != "" {
		parsed, err := animation.ParsePlayMode(c.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	var scale animation.Scale
	if c.Scale != nil {
		scale = animation.Scale{W: c.Scale.W, H: c.Scale.H}
	}

	// YAML 列表保留声明顺序，这里据此恢复"第一个声明的状态"语义
	initial := c.InitialState
	if initial == "" {
		initial = c.States[0].Name
	}

	return animation.NewPlayer(animation.Config{
		Frames:       frames,
		Durations:    durations,
		Mode:         mode,
		Scale:        scale,
		InitialState: initial,
		MaxCacheSize: c.MaxCacheSize,
		Source:       source,
	})
}
