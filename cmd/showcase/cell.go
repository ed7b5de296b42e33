// cmd/showcase/cell.go
// 演示单元 - 包装一个播放器及其展示参数（翻转、缩放/角度扫动）

package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/frameplay/pkg/animation"
	"github.com/decker502/frameplay/pkg/config"
	"github.com/decker502/frameplay/pkg/resource"
	"github.com/decker502/frameplay/pkg/utils"
)

// DemoCell 一个演示单元
//
// 每个单元持有一个独立的播放器。翻转与缩放/角度扫动是单元自己的
// 展示参数，每帧折算成 Update 的环境变换传给播放器。
type DemoCell struct {
	name   string
	kind   string
	player *animation.Player

	baseScale animation.Scale // 扫动的基准输出尺寸

	flip       animation.Flip
	scaleSweep bool
	angleSweep bool
	sweepT     float64

	completions int // 完成回调计数
	frameEvents int // 帧变化回调计数
}

// NewDemoCell 根据配置创建演示单元
func NewDemoCell(cfg *DemoConfig, mgr *resource.Manager) (*DemoCell, error) {
	if cfg.Definition != "" {
		return newDefinitionCell(cfg.Name, cfg.Definition, mgr)
	}
	return newBuiltinCell(cfg.Name, cfg.Kind, mgr)
}

// newBuiltinCell 创建内置演示单元
func newBuiltinCell(name, kind string, mgr *resource.Manager) (*DemoCell, error) {
	var (
		player *animation.Player
		err    error
	)

	switch kind {
	case DemoKindLoop:
		frames := newWalkerFrames(6, 64)
		player, err = animation.NewSimplePlayer(
			map[string][]*ebiten.Image{"walk": frames}, 0.12, animation.ModeLoop)

	case DemoKindOnce:
		frames := newPulseFrames(6, 64)
		player, err = animation.NewPlayer(animation.Config{
			Images:    map[string][]*ebiten.Image{"grow": frames},
			Durations: map[string]float64{"grow": 0.15},
			Mode:      animation.ModeOnce,
		})

	case DemoKindPingPong:
		frames := newPulseFrames(6, 64)
		player, err = animation.NewPlayer(animation.Config{
			Images:    map[string][]*ebiten.Image{"pulse": frames},
			Durations: map[string]float64{"pulse": 0.1},
			Mode:      animation.ModePingPong,
		})

	case DemoKindSheet:
		// 命名帧走资源管理器，用最小缓存容量让淘汰在
		// 调试信息里看得见
		names, sheetErr := mgr.RegisterSheet("runner", newRunnerSheet(48, 48, 8), 48, 48, 8)
		if sheetErr != nil {
			return nil, fmt.Errorf("注册图集失败: %w", sheetErr)
		}
		player, err = animation.NewPlayer(animation.Config{
			Frames:       map[string][]string{"bounce": names},
			Durations:    map[string]float64{"bounce": 0.08},
			Mode:         animation.ModeLoop,
			Source:       mgr,
			MaxCacheSize: animation.MinCacheSize,
		})

	default:
		return nil, fmt.Errorf("未知的演示类型 %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("创建播放器失败: %w", err)
	}

	return newCell(name, kind, player, animation.Scale{W: 96, H: 96}), nil
}

// newDefinitionCell 从动画定义文件创建演示单元
func newDefinitionCell(name, path string, mgr *resource.Manager) (*DemoCell, error) {
	cfg, err := config.LoadAnimationConfig(path)
	if err != nil {
		return nil, err
	}
	player, err := cfg.Build(mgr)
	if err != nil {
		return nil, err
	}

	base := animation.Scale{W: 96, H: 96}
	if cfg.Scale != nil {
		base = animation.Scale{W: cfg.Scale.W, H: cfg.Scale.H}
	}
	return newCell(name, "yaml", player, base), nil
}

// newCell 完成回调接线等公共初始化
func newCell(name, kind string, player *animation.Player, base animation.Scale) *DemoCell {
	c := &DemoCell{
		name:      name,
		kind:      kind,
		player:    player,
		baseScale: base,
	}
	player.OnComplete(func() { c.completions++ })
	player.OnFrameChange(func(int) { c.frameEvents++ })
	player.OnStateChange(func(state string) {
		if *verbose {
			log.Printf("[Showcase] %s: 状态切换 -> %q", name, state)
		}
	})
	return c
}

// Update 推进动画并应用本帧的环境变换
func (c *DemoCell) Update(dt float64) {
	c.sweepT += dt

	scale := c.baseScale
	if c.scaleSweep {
		k := utils.EaseInOutCubic(utils.PingPong(c.sweepT * 0.5))
		f := utils.Lerp(0.7, 1.3, k)
		scale = animation.Scale{
			W: int(float64(c.baseScale.W) * f),
			H: int(float64(c.baseScale.H) * f),
		}
	}

	angle := 0.0
	if c.angleSweep {
		angle = utils.Lerp(-30, 30, utils.EaseOutQuad(utils.PingPong(c.sweepT*0.8)))
	}

	c.player.Update(dt, c.flip, scale, angle)
}

// Render 在单元格内渲染动画（以格子中心对齐）
func (c *DemoCell) Render(screen *ebiten.Image, x, y, w, h int, showDebug bool) {
	c.player.SetCenter(x+w/2, y+h/2)
	if err := c.player.Draw(screen); err != nil {
		ebitenutil.DebugPrintAt(screen, "image not ready", x+6, y+h/2)
	}
	if showDebug {
		c.player.DrawDebugInfo(screen, x+6, y+6)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Done: %d", c.completions), x+6, y+6+4*16)
	}
}

// GetName 返回显示名称
func (c *DemoCell) GetName() string {
	return c.name
}

// StatusLine 返回底部状态行文本（调试字体只支持 ASCII）
func (c *DemoCell) StatusLine() string {
	if !c.player.IsPlaying() {
		return fmt.Sprintf("[%s] paused", c.kind)
	}
	return fmt.Sprintf("[%s] %s #%d %s", c.kind, c.player.State(), c.player.FrameIndex(), c.player.PlayMode())
}

// TogglePause 暂停/恢复播放
func (c *DemoCell) TogglePause() {
	if c.player.IsPlaying() {
		c.player.Pause()
	} else {
		c.player.Resume()
	}
}

// Rewind 回到第一帧
func (c *DemoCell) Rewind() {
	c.player.Rewind()
}

// NextState 切换到下一个声明的状态（单状态动画是空操作）
func (c *DemoCell) NextState() {
	states := c.player.States()
	if len(states) < 2 {
		return
	}
	current := c.player.State()
	next := states[0]
	for i, s := range states {
		if s == current {
			next = states[(i+1)%len(states)]
			break
		}
	}
	if err := c.player.SetState(next, true); err != nil {
		log.Printf("[Showcase] %s: 切换状态失败: %v", c.name, err)
	}
}

// CycleMode 轮换播放模式 loop -> once -> pingpong
func (c *DemoCell) CycleMode() {
	var next animation.PlayMode
	switch c.player.PlayMode() {
	case animation.ModeLoop:
		next = animation.ModeOnce
	case animation.ModeOnce:
		next = animation.ModePingPong
	default:
		next = animation.ModeLoop
	}
	if err := c.player.SetPlayMode(next); err != nil {
		log.Printf("[Showcase] %s: 切换播放模式失败: %v", c.name, err)
	}
}

// ToggleFlipX 切换水平翻转
func (c *DemoCell) ToggleFlipX() {
	c.flip.X = !c.flip.X
}

// ToggleFlipY 切换垂直翻转
func (c *DemoCell) ToggleFlipY() {
	c.flip.Y = !c.flip.Y
}

// ToggleScaleSweep 切换缩放扫动
func (c *DemoCell) ToggleScaleSweep() {
	c.scaleSweep = !c.scaleSweep
}

// ToggleAngleSweep 切换角度扫动
func (c *DemoCell) ToggleAngleSweep() {
	c.angleSweep = !c.angleSweep
}

// Release 释放播放器资源
func (c *DemoCell) Release() (bool, error) {
	return c.player.Release()
}
