// cmd/showcase/settings.go
// 展示程序设置 - 通过 gdata 跨平台持久化

package main

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ShowcaseSettings 展示程序设置
type ShowcaseSettings struct {
	ShowHelp  bool    `yaml:"showHelp"`  // 启动时显示帮助面板
	ShowDebug bool    `yaml:"showDebug"` // 显示每个单元的调试信息
	Speed     float64 `yaml:"speed"`     // 播放速度倍率 0.25 ~ 4.0
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ShowcaseSettings {
	return &ShowcaseSettings{
		ShowHelp:  true,
		ShowDebug: true,
		Speed:     1.0,
	}
}

// SettingsManager 设置管理器
// 负责展示程序设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ShowcaseSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "showcase"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化 YAML 数据
	var loadedSettings ShowcaseSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	// 旧版本设置文件可能没有 speed 字段
	if loadedSettings.Speed == 0 {
		loadedSettings.Speed = 1.0
	}

	sm.settings = &loadedSettings
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if *verbose {
		log.Printf("[SettingsManager] Settings saved successfully")
	}
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ShowcaseSettings {
	return sm.settings
}

// SetShowHelp 设置帮助面板开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowHelp(show bool) {
	sm.settings.ShowHelp = show
}

// SetShowDebug 设置调试信息开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowDebug(show bool) {
	sm.settings.ShowDebug = show
}

// SetSpeed 设置播放速度倍率
//
// 速度值会被限制在 0.25 ~ 4.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSpeed(speed float64) {
	sm.settings.Speed = clampSpeed(speed)
}

// clampSpeed 将速度倍率限制在 0.25 ~ 4.0 范围内
func clampSpeed(speed float64) float64 {
	if speed < 0.25 {
		return 0.25
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}
