// cmd/showcase/main.go
// 动画播放器展示程序
//
// 用法：
//   go run ./cmd/showcase --config=cmd/showcase/config.yaml

package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/frameplay/pkg/resource"
)

var (
	configPath = flag.String("config", "cmd/showcase/config.yaml", "配置文件路径")
	verbose    = flag.Bool("verbose", false, "详细日志")
)

// 顶部信息栏高度（像素）
const infoBarHeight = 28

// Game 主程序结构
type Game struct {
	config   *ShowcaseConfig
	settings *SettingsManager
	cells    []*DemoCell

	selected int // 当前选中的单元序号
}

// NewGame 创建展示程序实例
func NewGame(configPath string, settings *SettingsManager) (*Game, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	log.Printf("✓ 加载配置成功: %d 个演示单元", len(config.Demos))

	mgr := resource.NewManager()

	// 可选资源清单：先于演示单元加载，向管理器注册命名图像
	if config.Global.Manifest != "" {
		if err := mgr.LoadManifest(config.Global.Manifest); err != nil {
			return nil, fmt.Errorf("加载资源清单失败: %w", err)
		}
		log.Printf("✓ 加载资源清单: %s", config.Global.Manifest)
	}

	// 动画定义文件引用的命名帧需要在构建播放器之前注册
	if err := registerHeroFrames(mgr, 64); err != nil {
		return nil, fmt.Errorf("注册演示帧失败: %w", err)
	}

	cells := make([]*DemoCell, 0, len(config.Demos))
	for i := range config.Demos {
		cell, err := NewDemoCell(&config.Demos[i], mgr)
		if err != nil {
			log.Printf("  警告: 无法创建演示单元 [%s]: %v", config.Demos[i].Name, err)
			continue
		}
		cells = append(cells, cell)
		if *verbose {
			log.Printf("  ✓ 创建: %s", cell.GetName())
		}
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("没有成功创建任何演示单元")
	}
	log.Printf("✓ 成功创建 %d 个演示单元", len(cells))

	return &Game{
		config:   config,
		settings: settings,
		cells:    cells,
	}, nil
}

// Update 处理输入并推进所有演示单元
func (g *Game) Update() error {
	// ESC 退出前释放全部播放器
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.releaseAll()
		return ebiten.Termination
	}

	// 面板开关
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.settings.SetShowHelp(!g.settings.GetSettings().ShowHelp)
		g.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.settings.SetShowDebug(!g.settings.GetSettings().ShowDebug)
		g.saveSettings()
	}

	// 方向键/鼠标选择单元
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.selected = (g.selected + 1) % len(g.cells)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.selected = (g.selected - 1 + len(g.cells)) % len(g.cells)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if idx := g.cellAt(x, y); idx >= 0 {
			g.selected = idx
		}
	}

	// 选中单元的播放控制
	cell := g.cells[g.selected]
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		cell.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cell.Rewind()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		cell.CycleMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		cell.NextState()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		cell.ToggleFlipX()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		cell.ToggleFlipY()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		cell.ToggleAngleSweep()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		cell.ToggleScaleSweep()
	}

	// 速度调节
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.settings.SetSpeed(g.settings.GetSettings().Speed / 2)
		g.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.settings.SetSpeed(g.settings.GetSettings().Speed * 2)
		g.saveSettings()
	}

	// 推进动画
	dt := g.settings.GetSettings().Speed / float64(g.config.Global.Playback.TPS)
	for _, c := range g.cells {
		c.Update(dt)
	}

	return nil
}

// saveSettings 持久化设置，失败只记日志
func (g *Game) saveSettings() {
	if err := g.settings.Save(); err != nil {
		log.Printf("警告: 保存设置失败: %v", err)
	}
}

// releaseAll 释放全部播放器资源
func (g *Game) releaseAll() {
	for _, c := range g.cells {
		if _, err := c.Release(); err != nil {
			log.Printf("警告: 释放 [%s] 失败: %v", c.GetName(), err)
		}
	}
	log.Println("✓ 已释放全部播放器资源")
}

// Draw 绘制画面
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{40, 42, 46, 255})

	showDebug := g.settings.GetSettings().ShowDebug
	grid := &g.config.Global.Grid

	for i, cell := range g.cells {
		x, y := g.cellPosition(i)

		// 单元背景和边框（选中高亮）
		vector.DrawFilledRect(screen,
			float32(x), float32(y), float32(grid.CellWidth), float32(grid.CellHeight),
			color.RGBA{58, 60, 66, 255}, false)
		borderColor := color.RGBA{90, 92, 100, 255}
		if i == g.selected {
			borderColor = color.RGBA{255, 200, 60, 255}
		}
		vector.StrokeRect(screen,
			float32(x), float32(y), float32(grid.CellWidth), float32(grid.CellHeight),
			2, borderColor, false)

		// 底部状态条之上的区域留给动画
		cell.Render(screen, x, y, grid.CellWidth, grid.CellHeight-36, showDebug)

		// 状态条（调试字体只支持 ASCII，名称和状态行使用英文）
		vector.DrawFilledRect(screen,
			float32(x), float32(y+grid.CellHeight-36), float32(grid.CellWidth), 36,
			color.RGBA{0, 0, 0, 160}, false)
		ebitenutil.DebugPrintAt(screen, cell.GetName(), x+5, y+grid.CellHeight-34)
		ebitenutil.DebugPrintAt(screen, cell.StatusLine(), x+5, y+grid.CellHeight-18)
	}

	g.drawInfoBar(screen)
	if g.settings.GetSettings().ShowHelp {
		g.drawHelp(screen)
	}
}

// drawInfoBar 绘制顶部信息栏
func (g *Game) drawInfoBar(screen *ebiten.Image) {
	s := g.settings.GetSettings()
	info := fmt.Sprintf("TPS: %.1f | Speed: %.2fx | Cells: %d | Selected: %s",
		ebiten.ActualTPS(), s.Speed, len(g.cells), g.cells[g.selected].GetName())

	vector.DrawFilledRect(screen,
		0, 0, float32(g.config.Global.Window.Width), infoBarHeight,
		color.RGBA{0, 0, 0, 160}, false)
	ebitenutil.DebugPrintAt(screen, info, 10, 6)
}

// drawHelp 绘制帮助面板
func (g *Game) drawHelp(screen *ebiten.Image) {
	helpLines := []string{
		"Controls:",
		"  Left/Right - select cell",
		"  Space      - pause / resume",
		"  R          - rewind",
		"  M          - cycle play mode",
		"  S          - next state",
		"  F / V      - flip X / flip Y",
		"  A / Z      - angle / scale sweep",
		"  [ / ]      - slower / faster",
		"  D          - debug overlay",
		"  H          - toggle help",
		"  Esc        - quit",
	}

	helpWidth := 230
	helpHeight := len(helpLines)*16 + 16
	helpX := g.config.Global.Window.Width - helpWidth - 16
	helpY := infoBarHeight + 8

	vector.DrawFilledRect(screen,
		float32(helpX), float32(helpY), float32(helpWidth), float32(helpHeight),
		color.RGBA{0, 0, 0, 180}, false)
	for i, line := range helpLines {
		ebitenutil.DebugPrintAt(screen, line, helpX+8, helpY+8+i*16)
	}
}

// cellPosition 计算指定序号单元格的左上角坐标
func (g *Game) cellPosition(index int) (int, int) {
	grid := &g.config.Global.Grid
	row := index / grid.Columns
	col := index % grid.Columns
	x := col*(grid.CellWidth+grid.Padding) + grid.Padding
	y := infoBarHeight + row*(grid.CellHeight+grid.Padding) + grid.Padding
	return x, y
}

// cellAt 返回屏幕坐标处的单元序号，不在任何单元内返回 -1
func (g *Game) cellAt(x, y int) int {
	grid := &g.config.Global.Grid
	for i := range g.cells {
		cx, cy := g.cellPosition(i)
		if x >= cx && x <= cx+grid.CellWidth && y >= cy && y <= cy+grid.CellHeight {
			return i
		}
	}
	return -1
}

// Layout 设置窗口布局
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Global.Window.Width, g.config.Global.Window.Height
}

func main() {
	flag.Parse()

	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}

	log.Println("=== 动画展示程序启动 ===")

	// 打开 gdata 本地存储，失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "frameplay_showcase",
	})
	if err != nil {
		log.Printf("警告: 无法打开本地存储: %v (设置将不会持久化)", err)
		gdataManager = nil
	}

	settings, err := NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("警告: 加载设置失败: %v", err)
	}

	game, err := NewGame(*configPath, settings)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(game.config.Global.Window.Width, game.config.Global.Window.Height)
	ebiten.SetWindowTitle(game.config.Global.Window.Title)
	ebiten.SetTPS(game.config.Global.Playback.TPS)

	log.Printf("✓ 窗口配置: %dx%d @ %d TPS",
		game.config.Global.Window.Width,
		game.config.Global.Window.Height,
		game.config.Global.Playback.TPS,
	)
	log.Println("=== 启动完成，开始运行 ===")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	log.Println("=== 已退出 ===")
}
