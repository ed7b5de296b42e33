// cmd/showcase/config.go
// 展示程序的配置文件加载和解析模块

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GlobalConfig 全局配置
type GlobalConfig struct {
	Window   WindowConfig   `yaml:"window"`
	Grid     GridConfig     `yaml:"grid"`
	Playback PlaybackConfig `yaml:"playback"`

	// Manifest 可选的资源清单路径，启动时加载进资源管理器，
	// 供动画定义文件按名称引用外部图片
	Manifest string `yaml:"manifest,omitempty"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// GridConfig 网格布局配置
type GridConfig struct {
	Columns    int `yaml:"columns"`
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	Padding    int `yaml:"padding"`
}

// PlaybackConfig 播放配置
type PlaybackConfig struct {
	TPS int `yaml:"tps"` // 游戏目标 TPS（Ticks Per Second）
}

// 内置演示类型
const (
	DemoKindLoop     = "loop"     // 循环播放演示
	DemoKindOnce     = "once"     // 单次播放演示
	DemoKindPingPong = "pingpong" // 往返播放演示
	DemoKindSheet    = "sheet"    // 图集切分 + 命名帧缓存演示
)

// DemoConfig 单个演示单元配置
//
// Kind 和 Definition 二选一：Kind 选择一个内置演示，
// Definition 指向一个通过 pkg/config 加载的动画定义文件。
type DemoConfig struct {
	Name       string `yaml:"name"`                 // 显示名称
	Kind       string `yaml:"kind,omitempty"`       // 内置演示类型
	Definition string `yaml:"definition,omitempty"` // 动画定义文件路径
}

// ShowcaseConfig 展示程序完整配置
type ShowcaseConfig struct {
	Global GlobalConfig `yaml:"global"`
	Demos  []DemoConfig `yaml:"demos"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*ShowcaseConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config ShowcaseConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	if config.Global.Playback.TPS == 0 {
		config.Global.Playback.TPS = 60
	}
	if config.Global.Window.Width == 0 {
		config.Global.Window.Width = 972
	}
	if config.Global.Window.Height == 0 {
		config.Global.Window.Height = 360
	}
	if config.Global.Window.Title == "" {
		config.Global.Window.Title = "frameplay 动画展示"
	}
	if config.Global.Grid.Columns == 0 {
		config.Global.Grid.Columns = 5
	}
	if config.Global.Grid.CellWidth == 0 {
		config.Global.Grid.CellWidth = 180
	}
	if config.Global.Grid.CellHeight == 0 {
		config.Global.Grid.CellHeight = 280
	}
	if config.Global.Grid.Padding == 0 {
		config.Global.Grid.Padding = 12
	}
	if len(config.Demos) == 0 {
		config.Demos = DefaultDemos()
	}

	// 校验每个演示单元
	for i := range config.Demos {
		if err := validateDemo(&config.Demos[i]); err != nil {
			return nil, fmt.Errorf("演示单元 #%d 无效: %w", i, err)
		}
	}

	return &config, nil
}

// validateDemo 校验单个演示单元配置
func validateDemo(demo *DemoConfig) error {
	if demo.Name == "" {
		return fmt.Errorf("缺少 name")
	}
	if demo.Kind != "" && demo.Definition != "" {
		return fmt.Errorf("kind 和 definition 只能设置一个")
	}
	if demo.Kind == "" && demo.Definition == "" {
		return fmt.Errorf("必须设置 kind 或 definition 之一")
	}
	switch demo.Kind {
	case "", DemoKindLoop, DemoKindOnce, DemoKindPingPong, DemoKindSheet:
		return nil
	}
	return fmt.Errorf("未知的演示类型 %q", demo.Kind)
}

// DefaultDemos 返回内置演示列表（配置文件未声明 demos 时使用）
func DefaultDemos() []DemoConfig {
	return []DemoConfig{
		{Name: "循环播放", Kind: DemoKindLoop},
		{Name: "单次播放", Kind: DemoKindOnce},
		{Name: "往返播放", Kind: DemoKindPingPong},
		{Name: "图集缓存", Kind: DemoKindSheet},
	}
}
