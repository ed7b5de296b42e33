// verify_playback.go - 播放器行为验证程序
// 无界面运行：构造真实播放器，逐项验证播放序列、回调、缓存
// 和资源释放行为，打印 ✓/✗ 报告，有失败项时以退出码 1 结束
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/frameplay/pkg/animation"
)

var verbose = flag.Bool("verbose", false, "输出播放器内部日志")

// ========== 验证报告结构 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	status := "✗ FAIL"
	if passed {
		status = "✓ PASS"
	}
	log.Printf("%s | %-22s | %s", status, testName, message)
}

// ========== 公共辅助 ==========

// playerLogger 返回被验证播放器使用的日志器
// 默认丢弃内部日志，保持报告输出干净
func playerLogger() animation.Logger {
	if *verbose {
		return animation.StdLogger{}
	}
	return animation.NopLogger{}
}

// newSizedImages 生成宽度随帧号递增的帧序列，宽度即帧号指纹
func newSizedImages(count int) []*ebiten.Image {
	frames := make([]*ebiten.Image, count)
	for i := range frames {
		frames[i] = ebiten.NewImage(10+i, 10)
	}
	return frames
}

// newUniformImages 生成尺寸一致的帧序列
func newUniformImages(count, size int) []*ebiten.Image {
	frames := make([]*ebiten.Image, count)
	for i := range frames {
		frames[i] = ebiten.NewImage(size, size)
	}
	return frames
}

// newModePlayer 创建单状态直接图像播放器（每帧 0.1 秒）
func newModePlayer(mode animation.PlayMode, frameCount int) (*animation.Player, error) {
	return animation.NewPlayer(animation.Config{
		Images:    map[string][]*ebiten.Image{"run": newSizedImages(frameCount)},
		Durations: map[string]float64{"run": 0.1},
		Mode:      mode,
		Logger:    playerLogger(),
	})
}

// tick 以固定步长推进播放器 n 次，不施加任何变换
func tick(p *animation.Player, n int, dt float64) {
	for i := 0; i < n; i++ {
		p.Update(dt, animation.Flip{}, animation.Scale{}, 0)
	}
}

func equalInts(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// flakySource 可切换失败的图像源
type flakySource struct {
	images map[string]*ebiten.Image
	broken bool
}

func (s *flakySource) Resolve(name string) (*ebiten.Image, error) {
	if s.broken {
		return nil, fmt.Errorf("source broken: %s", name)
	}
	img, ok := s.images[name]
	if !ok {
		return nil, fmt.Errorf("unknown frame %q", name)
	}
	return img, nil
}

// recLogger 收集错误日志的记录器
type recLogger struct {
	errors []string
}

func (l *recLogger) Debugf(format string, args ...any) {}
func (l *recLogger) Infof(format string, args ...any)  {}
func (l *recLogger) Warnf(format string, args ...any)  {}
func (l *recLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
func (l *recLogger) Criticalf(format string, args ...any) {}

// ========== 验证函数 ==========

// validateConfigRejection 验证非法配置被拒绝
func validateConfigRejection() {
	// 帧与时长的键集不一致
	_, err := animation.NewPlayer(animation.Config{
		Images:    map[string][]*ebiten.Image{"idle": newSizedImages(2)},
		Durations: map[string]float64{"walk": 0.1},
		Logger:    playerLogger(),
	})
	addReport("配置-键集不一致", errors.Is(err, animation.ErrInvalidConfig),
		fmt.Sprintf("%v", err))

	// 缓存容量低于下限
	_, err = animation.NewPlayer(animation.Config{
		Images:       map[string][]*ebiten.Image{"idle": newSizedImages(2)},
		Durations:    map[string]float64{"idle": 0.1},
		MaxCacheSize: animation.MinCacheSize - 1,
		Logger:       playerLogger(),
	})
	addReport("配置-缓存下限", errors.Is(err, animation.ErrCacheSize),
		fmt.Sprintf("%v", err))

	// 未定义的播放模式
	_, err = animation.NewPlayer(animation.Config{
		Images:    map[string][]*ebiten.Image{"idle": newSizedImages(2)},
		Durations: map[string]float64{"idle": 0.1},
		Mode:      animation.PlayMode(9),
		Logger:    playerLogger(),
	})
	addReport("配置-非法模式", errors.Is(err, animation.ErrInvalidPlayMode),
		fmt.Sprintf("%v", err))
}

// validateLoopSequence 验证循环模式的帧序列
func validateLoopSequence() {
	p, err := newModePlayer(animation.ModeLoop, 4)
	if err != nil {
		addReport("序列-loop", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	var visited []int
	p.OnFrameChange(func(i int) { visited = append(visited, i) })
	tick(p, 8, 0.1)

	want := []int{1, 2, 3, 0, 1, 2, 3, 0}
	addReport("序列-loop", equalInts(visited, want), fmt.Sprintf("访问 %v", visited))
}

// validateOnceSequence 验证单次模式：钳位、完成一次、自动暂停
func validateOnceSequence() {
	p, err := newModePlayer(animation.ModeOnce, 4)
	if err != nil {
		addReport("序列-once", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	var visited []int
	completions := 0
	p.OnFrameChange(func(i int) { visited = append(visited, i) })
	p.OnComplete(func() { completions++ })
	tick(p, 6, 0.1)

	want := []int{1, 2, 3}
	pass := equalInts(visited, want) && completions == 1 && !p.IsPlaying()
	addReport("序列-once", pass,
		fmt.Sprintf("访问 %v, 完成 %d 次, 播放中=%v", visited, completions, p.IsPlaying()))
}

// validatePingPongSequence 验证往返模式：端点反弹、每次反弹计一次完成
func validatePingPongSequence() {
	p, err := newModePlayer(animation.ModePingPong, 4)
	if err != nil {
		addReport("序列-pingpong", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	var visited []int
	completions := 0
	p.OnFrameChange(func(i int) { visited = append(visited, i) })
	p.OnComplete(func() { completions++ })
	tick(p, 10, 0.1)

	want := []int{1, 2, 3, 2, 1, 0, 1, 2, 3, 2}
	pass := equalInts(visited, want) && completions == 3
	addReport("序列-pingpong", pass,
		fmt.Sprintf("访问 %v, 完成 %d 次", visited, completions))
}

// validateCallbackOrder 验证同一拍内回调的派发顺序：完成先于帧变化
func validateCallbackOrder() {
	p, err := newModePlayer(animation.ModePingPong, 4)
	if err != nil {
		addReport("回调-顺序", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	var events []string
	p.OnFrameChange(func(i int) { events = append(events, fmt.Sprintf("frame:%d", i)) })
	p.OnComplete(func() { events = append(events, "complete") })
	tick(p, 4, 0.1)

	want := []string{"frame:1", "frame:2", "frame:3", "complete", "frame:2"}
	addReport("回调-顺序", equalStrings(events, want), fmt.Sprintf("事件 %v", events))
}

// validateCallbackIsolation 验证观察者 panic 被隔离且记入日志
func validateCallbackIsolation() {
	rl := &recLogger{}
	p, err := animation.NewPlayer(animation.Config{
		Images:    map[string][]*ebiten.Image{"run": newSizedImages(2)},
		Durations: map[string]float64{"run": 0.1},
		Mode:      animation.ModeOnce,
		Logger:    rl,
	})
	if err != nil {
		addReport("回调-隔离", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	secondRan := false
	p.OnComplete(func() { panic("observer exploded") })
	p.OnComplete(func() { secondRan = true })
	tick(p, 2, 0.1)

	logged := len(rl.errors) == 1 && strings.Contains(rl.errors[0], "completion callback failed")
	addReport("回调-隔离", secondRan && logged,
		fmt.Sprintf("后续观察者执行=%v, 错误日志 %d 条", secondRan, len(rl.errors)))
}

// validateCacheBound 验证缓存条目数不超过容量上限
func validateCacheBound() {
	images := make(map[string]*ebiten.Image, 12)
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("f%02d", i)
		images[names[i]] = ebiten.NewImage(12, 12)
	}

	p, err := animation.NewPlayer(animation.Config{
		Frames:       map[string][]string{"all": names},
		Durations:    map[string]float64{"all": 0.1},
		Source:       animation.MapSource(images),
		MaxCacheSize: animation.MinCacheSize,
		Logger:       playerLogger(),
	})
	if err != nil {
		addReport("缓存-容量上限", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	for i := range names {
		if _, err := p.Frame("all", i); err != nil {
			addReport("缓存-容量上限", false, fmt.Sprintf("取帧 %d 失败: %v", i, err))
			return
		}
	}

	info := p.CacheInfo()
	pass := info.Size == animation.MinCacheSize && info.MaxSize == animation.MinCacheSize
	addReport("缓存-容量上限", pass, info.String())
}

// validatePlaceholderFallback 验证处理失败时显示占位图且不污染缓存
func validatePlaceholderFallback() {
	src := &flakySource{images: map[string]*ebiten.Image{
		"hero": ebiten.NewImage(12, 12),
	}}
	p, err := animation.NewPlayer(animation.Config{
		Frames:    map[string][]string{"idle": {"hero"}},
		Durations: map[string]float64{"idle": 10},
		Source:    src,
		Logger:    playerLogger(),
	})
	if err != nil {
		addReport("缓存-占位图回退", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	baseline := p.CacheInfo().Size

	// 源失效后改变缩放，强制走一次新键的缓存未命中
	src.broken = true
	p.Update(0.01, animation.Flip{}, animation.Scale{W: 48, H: 48}, 0)
	b := p.Image().Bounds()
	placeholderShown := b.Dx() == 32 && b.Dy() == 32
	notCached := p.CacheInfo().Size == baseline

	// 源恢复后的下一次未命中重新处理成功
	src.broken = false
	p.Update(0.01, animation.Flip{}, animation.Scale{W: 56, H: 56}, 0)
	recovered := p.Image().Bounds().Dx() == 56

	addReport("缓存-占位图回退", placeholderShown && notCached && recovered,
		fmt.Sprintf("占位=%v, 未入缓存=%v, 恢复=%v", placeholderShown, notCached, recovered))
}

// validatePauseResume 验证暂停保留进度、恢复回到原状态
func validatePauseResume() {
	p, err := animation.NewPlayer(animation.Config{
		Images: map[string][]*ebiten.Image{
			"idle": newUniformImages(2, 16),
			"walk": newUniformImages(3, 16),
		},
		Durations:    map[string]float64{"idle": 0.1, "walk": 0.1},
		InitialState: "idle",
		Logger:       playerLogger(),
	})
	if err != nil {
		addReport("控制-暂停恢复", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	if err := p.SetState("walk", true); err != nil {
		addReport("控制-暂停恢复", false, fmt.Sprintf("切换状态失败: %v", err))
		return
	}
	tick(p, 1, 0.1)

	p.Pause()
	pausedIdle := !p.IsPlaying()
	p.Resume()

	pass := pausedIdle && p.State() == "walk" && p.FrameIndex() == 1
	addReport("控制-暂停恢复", pass,
		fmt.Sprintf("恢复到 %q 帧 %d", p.State(), p.FrameIndex()))
}

// validateSetStateClamp 验证状态切换的帧号保留与钳位
func validateSetStateClamp() {
	p, err := animation.NewPlayer(animation.Config{
		Images: map[string][]*ebiten.Image{
			"long":  newUniformImages(5, 16),
			"short": newUniformImages(2, 16),
		},
		Durations:    map[string]float64{"long": 0.1, "short": 0.1},
		InitialState: "long",
		Logger:       playerLogger(),
	})
	if err != nil {
		addReport("控制-切换钳位", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	tick(p, 4, 0.1) // long 走到帧 4

	if err := p.SetState("short", false); err != nil {
		addReport("控制-切换钳位", false, fmt.Sprintf("切换状态失败: %v", err))
		return
	}
	clamped := p.FrameIndex() == 1

	unknownErr := p.SetState("missing", true)
	pass := clamped && errors.Is(unknownErr, animation.ErrUnknownState)
	addReport("控制-切换钳位", pass,
		fmt.Sprintf("钳位到帧 %d, 未知状态=%v", p.FrameIndex(), unknownErr))
}

// validateBoundsCenter 验证尺寸变化时边界框中心保持不动
func validateBoundsCenter() {
	p, err := animation.NewPlayer(animation.Config{
		Images:    map[string][]*ebiten.Image{"run": newUniformImages(2, 64)},
		Durations: map[string]float64{"run": 10},
		Logger:    playerLogger(),
	})
	if err != nil {
		addReport("控制-中心保持", false, fmt.Sprintf("创建失败: %v", err))
		return
	}
	defer p.Release()

	p.SetCenter(100, 100)
	p.Update(0.01, animation.Flip{}, animation.Scale{W: 32, H: 32}, 0)

	b := p.Bounds()
	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2
	pass := cx == 100 && cy == 100 && b.Dx() == 32
	addReport("控制-中心保持", pass, fmt.Sprintf("边界 %v 中心 (%d,%d)", b, cx, cy))
}

// validateRelease 验证释放幂等性和释放后的行为
func validateRelease() {
	p, err := newModePlayer(animation.ModeLoop, 2)
	if err != nil {
		addReport("释放-幂等", false, fmt.Sprintf("创建失败: %v", err))
		return
	}

	first, err1 := p.Release()
	second, err2 := p.Release()

	drawErr := p.Draw(ebiten.NewImage(64, 64))
	setErr := p.SetState("run", true)

	pass := first && err1 == nil && !second && err2 == nil &&
		errors.Is(drawErr, animation.ErrNotReady) &&
		errors.Is(setErr, animation.ErrReleased)
	addReport("释放-幂等", pass,
		fmt.Sprintf("首次=%v 再次=%v draw=%v set=%v", first, second, drawErr, setErr))
}

// ========== 主函数 ==========

func main() {
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ltime)

	log.Printf("====== 播放器行为验证 ======")
	log.Println()

	log.Println(">>> 步骤 1: 配置校验")
	validateConfigRejection()

	log.Println("\n>>> 步骤 2: 播放序列")
	validateLoopSequence()
	validateOnceSequence()
	validatePingPongSequence()

	log.Println("\n>>> 步骤 3: 回调派发")
	validateCallbackOrder()
	validateCallbackIsolation()

	log.Println("\n>>> 步骤 4: 帧缓存")
	validateCacheBound()
	validatePlaceholderFallback()

	log.Println("\n>>> 步骤 5: 播放控制")
	validatePauseResume()
	validateSetStateClamp()
	validateBoundsCenter()

	log.Println("\n>>> 步骤 6: 资源释放")
	validateRelease()

	failCount := printFinalReport()
	if failCount > 0 {
		os.Exit(1)
	}
}

func printFinalReport() int {
	log.Println("\n========================================")
	log.Println("         验证报告摘要")
	log.Println("========================================")

	passCount := 0
	for _, r := range validationReports {
		status := "✗"
		if r.Passed {
			status = "✓"
			passCount++
		}
		log.Printf("%s | %-22s | %s", status, r.TestName, r.Message)
	}

	failCount := len(validationReports) - passCount
	log.Println("========================================")
	log.Printf("总计: %d 通过, %d 失败", passCount, failCount)

	if failCount == 0 {
		log.Println("🎉 所有验证通过！")
	} else {
		log.Println("⚠️  部分验证失败")
	}
	log.Println("========================================")

	return failCount
}
