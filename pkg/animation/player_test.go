package animation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// walkFrames 构造宽度递增的帧序列（第 i 帧宽 10+i、高 10），
// 使材质化结果的尺寸可以反推出帧索引
func walkFrames(count int) []*ebiten.Image {
	frames := make([]*ebiten.Image, count)
	for i := range frames {
		frames[i] = ebiten.NewImage(10+i, 10)
	}
	return frames
}

// newWalkPlayer 构造一个以 walk（3 帧，每帧 0.1 秒）为初始状态的播放器
func newWalkPlayer(t *testing.T, mode PlayMode) *Player {
	t.Helper()
	p, err := NewPlayer(Config{
		Images: map[string][]*ebiten.Image{
			"idle": {ebiten.NewImage(20, 20)},
			"walk": walkFrames(3),
		},
		Durations:    map[string]float64{"idle": 0.5, "walk": 0.1},
		Mode:         mode,
		InitialState: "walk",
		Logger:       NopLogger{},
	})
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	return p
}

// flakySource 可切换失败的帧名解析器
type flakySource struct {
	images map[string]*ebiten.Image
	broken bool
}

func (f *flakySource) Resolve(name string) (*ebiten.Image, error) {
	if f.broken {
		return nil, fmt.Errorf("source offline")
	}
	img, ok := f.images[name]
	if !ok {
		return nil, fmt.Errorf("frame image %q not found", name)
	}
	return img, nil
}

// TestNewPlayerValidation 测试构造参数校验
func TestNewPlayerValidation(t *testing.T) {
	oneFrame := map[string][]*ebiten.Image{"idle": {ebiten.NewImage(8, 8)}}
	oneDuration := map[string]float64{"idle": 0.1}
	source := MapSource{"idle_0": ebiten.NewImage(8, 8)}

	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{
			"同时给出两种帧定义",
			Config{Images: oneFrame, Frames: map[string][]string{"idle": {"idle_0"}}, Durations: oneDuration, Source: source},
			ErrInvalidConfig,
		},
		{
			"两种帧定义都缺失",
			Config{Durations: oneDuration},
			ErrInvalidConfig,
		},
		{
			"帧映射为空",
			Config{Images: map[string][]*ebiten.Image{}, Durations: map[string]float64{}},
			ErrInvalidConfig,
		},
		{
			"缺少持续时间",
			Config{Images: oneFrame, Durations: map[string]float64{}},
			ErrInvalidConfig,
		},
		{
			"多余的持续时间",
			Config{Images: oneFrame, Durations: map[string]float64{"idle": 0.1, "run": 0.1}},
			ErrInvalidConfig,
		},
		{
			"持续时间为零",
			Config{Images: oneFrame, Durations: map[string]float64{"idle": 0}},
			ErrInvalidConfig,
		},
		{
			"持续时间为负",
			Config{Images: oneFrame, Durations: map[string]float64{"idle": -1}},
			ErrInvalidConfig,
		},
		{
			"状态名为空",
			Config{Images: map[string][]*ebiten.Image{"": {ebiten.NewImage(8, 8)}}, Durations: map[string]float64{"": 0.1}},
			ErrInvalidConfig,
		},
		{
			"帧列表为空",
			Config{Images: map[string][]*ebiten.Image{"idle": {}}, Durations: oneDuration},
			ErrInvalidConfig,
		},
		{
			"帧图像为 nil",
			Config{Images: map[string][]*ebiten.Image{"idle": {nil}}, Durations: oneDuration},
			ErrInvalidConfig,
		},
		{
			"符号帧缺少解析器",
			Config{Frames: map[string][]string{"idle": {"idle_0"}}, Durations: oneDuration},
			ErrInvalidConfig,
		},
		{
			"帧名为空",
			Config{Frames: map[string][]string{"idle": {""}}, Durations: oneDuration, Source: source},
			ErrInvalidConfig,
		},
		{
			"帧名无法解析",
			Config{Frames: map[string][]string{"idle": {"missing"}}, Durations: oneDuration, Source: source},
			ErrInvalidConfig,
		},
		{
			"缩放为负",
			Config{Images: oneFrame, Durations: oneDuration, Scale: Scale{W: -1, H: 10}},
			ErrInvalidConfig,
		},
		{
			"缓存容量过小",
			Config{Images: oneFrame, Durations: oneDuration, MaxCacheSize: MinCacheSize - 1},
			ErrCacheSize,
		},
		{
			"播放模式非法",
			Config{Images: oneFrame, Durations: oneDuration, Mode: PlayMode(9)},
			ErrInvalidPlayMode,
		},
		{
			"初始状态未声明",
			Config{Images: oneFrame, Durations: oneDuration, InitialState: "run"},
			ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlayer(tt.cfg)
			if err == nil {
				t.Fatal("Expected a construction error, got nil")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

// TestNewPlayerImmediatelyDrawable 测试构造后立即持有可显示图像
func TestNewPlayerImmediatelyDrawable(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	img := p.Image()
	if img == nil {
		t.Fatal("Expected a materialized image right after construction")
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("Initial frame dimensions = %dx%d, want 10x10", b.Dx(), b.Dy())
	}
	if got := p.Bounds(); got.Min.X != 0 || got.Min.Y != 0 || got.Dx() != 10 {
		t.Errorf("Initial bounds = %v, want origin 10x10", got)
	}

	screen := ebiten.NewImage(64, 64)
	if err := p.Draw(screen); err != nil {
		t.Errorf("Draw failed: %v", err)
	}
}

// TestNewPlayerDefaultInitialState 测试缺省初始状态取字典序第一个
func TestNewPlayerDefaultInitialState(t *testing.T) {
	p, err := NewPlayer(Config{
		Images: map[string][]*ebiten.Image{
			"walk": walkFrames(2),
			"idle": {ebiten.NewImage(20, 20)},
		},
		Durations: map[string]float64{"idle": 0.5, "walk": 0.1},
		Logger:    NopLogger{},
	})
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	if p.State() != "idle" {
		t.Errorf("Initial state = %q, want idle", p.State())
	}
}

// TestUpdateAdvancesFrames 测试时间累积到阈值时推进一帧
func TestUpdateAdvancesFrames(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	// 第一次更新：累积时间不足，不切换帧
	p.Update(0.05, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 0 {
		t.Errorf("Expected FrameIndex=0, got %d", p.FrameIndex())
	}

	// 第二次更新：累积 0.11 >= 0.1，切换到下一帧
	p.Update(0.06, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 1 {
		t.Errorf("Expected FrameIndex=1, got %d", p.FrameIndex())
	}

	// 材质化结果跟随新帧（第 1 帧宽 11）
	if b := p.Image().Bounds(); b.Dx() != 11 {
		t.Errorf("Expected the frame-1 image (width 11), got width %d", b.Dx())
	}
}

// TestUpdateRemainderDropped 测试跨过阈值时丢弃剩余时间
func TestUpdateRemainderDropped(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	// 一次大步长只推进一帧，余量不结转
	p.Update(0.25, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 1 {
		t.Errorf("Expected exactly one advance, got FrameIndex=%d", p.FrameIndex())
	}

	p.Update(0.09, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 1 {
		t.Errorf("Expected no advance at 0.09 accumulated, got %d", p.FrameIndex())
	}

	p.Update(0.01, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 2 {
		t.Errorf("Expected advance at 0.10 accumulated, got %d", p.FrameIndex())
	}
}

// TestOnFrameChangeFiresOnRealChangeOnly 测试帧变化回调只在索引真正变化时触发
func TestOnFrameChangeFiresOnRealChangeOnly(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	var indexes []int
	p.OnFrameChange(func(i int) { indexes = append(indexes, i) })

	p.Update(0.1, Flip{}, Scale{}, 0)
	p.Update(0.1, Flip{}, Scale{}, 0)
	if len(indexes) != 2 || indexes[0] != 1 || indexes[1] != 2 {
		t.Errorf("Expected [1 2], got %v", indexes)
	}

	// 缩放变化会重新材质化，但不触发帧变化回调
	p.Update(0.0, Flip{}, Scale{W: 40, H: 40}, 0)
	if len(indexes) != 2 {
		t.Errorf("Expected no frame-change callback on transform change, got %v", indexes)
	}
}

// TestSingleFrameLoopNeverFiresFrameChange 测试单帧循环状态不产生帧变化
func TestSingleFrameLoopNeverFiresFrameChange(t *testing.T) {
	p, err := NewSimplePlayer(map[string][]*ebiten.Image{
		"idle": {ebiten.NewImage(8, 8)},
	}, 0.1, ModeLoop)
	if err != nil {
		t.Fatalf("NewSimplePlayer failed: %v", err)
	}

	fired := 0
	p.OnFrameChange(func(int) { fired++ })

	for i := 0; i < 5; i++ {
		p.Update(0.1, Flip{}, Scale{}, 0)
	}
	if fired != 0 {
		t.Errorf("Expected no frame-change callbacks on a single frame, got %d", fired)
	}
	if p.FrameIndex() != 0 {
		t.Errorf("Expected FrameIndex=0, got %d", p.FrameIndex())
	}
}

// TestOnceCompletesAndIdles 测试单次模式完成后进入空闲
func TestOnceCompletesAndIdles(t *testing.T) {
	p := newWalkPlayer(t, ModeOnce)

	completions := 0
	p.OnComplete(func() { completions++ })

	// 0 -> 1 -> 2 -> 完成（钳制在最后一帧并暂停）
	for i := 0; i < 3; i++ {
		p.Update(0.1, Flip{}, Scale{}, 0)
	}

	if completions != 1 {
		t.Errorf("Expected exactly 1 completion, got %d", completions)
	}
	if p.IsPlaying() {
		t.Error("Expected idle player after once completion")
	}
	if p.FrameIndex() != 2 {
		t.Errorf("Expected clamp at frame 2, got %d", p.FrameIndex())
	}

	// 空闲后的更新是无操作，完成回调不重复触发
	p.Update(0.5, Flip{}, Scale{}, 0)
	if completions != 1 {
		t.Errorf("Expected no repeat completion, got %d", completions)
	}

	// 恢复后从钳制处继续
	p.Resume()
	if p.State() != "walk" {
		t.Errorf("Expected resume back to walk, got %q", p.State())
	}
	if p.FrameIndex() != 2 {
		t.Errorf("Expected frame kept at 2 across pause, got %d", p.FrameIndex())
	}
}

// TestCompletionDispatchedBeforeFrameChange 测试同一拍内完成回调先于帧变化回调
func TestCompletionDispatchedBeforeFrameChange(t *testing.T) {
	p := newWalkPlayer(t, ModePingPong)

	var sequence []string
	p.OnComplete(func() { sequence = append(sequence, "complete") })
	p.OnFrameChange(func(int) { sequence = append(sequence, "frame") })

	// 0 -> 1 -> 2 -> 反射回 1（反射拍同时触发完成与帧变化）
	for i := 0; i < 3; i++ {
		p.Update(0.1, Flip{}, Scale{}, 0)
	}

	expected := []string{"frame", "frame", "complete", "frame"}
	if len(sequence) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, sequence)
	}
	for i, want := range expected {
		if sequence[i] != want {
			t.Errorf("sequence[%d] = %q, want %q (full: %v)", i, sequence[i], want, sequence)
		}
	}
}

// TestSetState 测试状态切换、回调与重新材质化
func TestSetState(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	var switched []string
	p.OnStateChange(func(s string) { switched = append(switched, s) })

	if err := p.SetState("idle", true); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if len(switched) != 1 || switched[0] != "idle" {
		t.Errorf("Expected state-change callback with idle, got %v", switched)
	}
	// idle 帧是 20x20，切换后立即重新材质化
	if b := p.Image().Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("Expected the idle image 20x20, got %dx%d", b.Dx(), b.Dy())
	}

	// 切换到当前状态不触发回调
	if err := p.SetState("idle", true); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if len(switched) != 1 {
		t.Errorf("Expected no callback on same-state switch, got %v", switched)
	}

	// 未声明的状态报错且不改变现状
	err := p.SetState("run", true)
	if !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState, got %v", err)
	}
	if p.State() != "idle" {
		t.Errorf("State changed on failed switch: %q", p.State())
	}
}

// TestSetStateKeepFrameClamps 测试不重置帧时索引钳制到新状态范围
func TestSetStateKeepFrameClamps(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	// 推进到 walk 的最后一帧（索引 2）
	p.Update(0.1, Flip{}, Scale{}, 0)
	p.Update(0.1, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 2 {
		t.Fatalf("Expected FrameIndex=2, got %d", p.FrameIndex())
	}

	// idle 只有 1 帧：不重置时钳制到 0
	if err := p.SetState("idle", false); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if p.FrameIndex() != 0 {
		t.Errorf("Expected clamp to 0, got %d", p.FrameIndex())
	}
}

// TestPauseResume 测试暂停时更新无效、恢复后继续
func TestPauseResume(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	p.Update(0.1, Flip{}, Scale{}, 0)
	p.Pause()
	if p.IsPlaying() {
		t.Error("Expected IsPlaying=false after Pause")
	}
	if p.State() != "" {
		t.Errorf("Expected empty state while paused, got %q", p.State())
	}

	// 暂停期间时间不累积
	p.Update(1.0, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 1 {
		t.Errorf("Expected frame kept at 1 while paused, got %d", p.FrameIndex())
	}

	p.Resume()
	if p.State() != "walk" {
		t.Errorf("Expected resume to walk, got %q", p.State())
	}
	p.Update(0.1, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 2 {
		t.Errorf("Expected advance after resume, got %d", p.FrameIndex())
	}
}

// TestRewind 测试回绕到第 0 帧并重新材质化
func TestRewind(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	p.Update(0.1, Flip{}, Scale{}, 0)
	p.Update(0.1, Flip{}, Scale{}, 0)

	p.Rewind()
	if p.FrameIndex() != 0 {
		t.Errorf("Expected FrameIndex=0 after rewind, got %d", p.FrameIndex())
	}
	if b := p.Image().Bounds(); b.Dx() != 10 {
		t.Errorf("Expected the frame-0 image (width 10), got width %d", b.Dx())
	}

	// 已在第 0 帧时回绕不重新材质化
	before := p.Image()
	p.Rewind()
	if p.Image() != before {
		t.Error("Expected no rematerialization when already at frame 0")
	}
}

// TestTransformChangeRematerializes 测试缩放/翻转变化触发重新材质化
func TestTransformChangeRematerializes(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	// 缩放变化：尺寸跟随
	p.Update(0.0, Flip{}, Scale{W: 40, H: 40}, 0)
	if b := p.Image().Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Expected 40x40 after scale change, got %dx%d", b.Dx(), b.Dy())
	}

	// 相同变换不重新材质化
	before := p.Image()
	p.Update(0.0, Flip{}, Scale{W: 40, H: 40}, 0)
	if p.Image() != before {
		t.Error("Expected no rematerialization without any change")
	}

	// 翻转变化触发重新材质化
	p.Update(0.0, Flip{X: true}, Scale{W: 40, H: 40}, 0)
	if p.Image() == before {
		t.Error("Expected a new image after flip change")
	}
}

// TestAngleAloneDoesNotRematerialize 测试仅角度变化不立即重建，
// 在下一次材质化时生效
func TestAngleAloneDoesNotRematerialize(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	before := p.Image()
	p.Update(0.0, Flip{}, Scale{}, 45)
	if p.Image() != before {
		t.Error("Expected angle change alone to keep the current image")
	}

	// 翻转变化触发材质化，此时 45 度角生效：10x10 旋转后外接 15x15
	p.Update(0.0, Flip{X: true}, Scale{}, 45)
	if b := p.Image().Bounds(); b.Dx() != 15 || b.Dy() != 15 {
		t.Errorf("Expected 15x15 rotated bounds, got %dx%d", b.Dx(), b.Dy())
	}
}

// TestBoundsCenterPreserved 测试重新材质化时保持边界中心
func TestBoundsCenterPreserved(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	p.SetCenter(50, 50)
	if got := p.Bounds(); got.Min.X != 45 || got.Min.Y != 45 {
		t.Fatalf("Bounds after SetCenter = %v, want (45,45)-(55,55)", got)
	}

	// 缩放到 30x30：中心仍在 (50,50)
	p.Update(0.0, Flip{}, Scale{W: 30, H: 30}, 0)
	got := p.Bounds()
	if got.Min.X != 35 || got.Min.Y != 35 || got.Max.X != 65 || got.Max.Y != 65 {
		t.Errorf("Bounds = %v, want (35,35)-(65,65)", got)
	}
}

// TestSetPosition 测试按左上角定位
func TestSetPosition(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	p.SetPosition(5, 7)
	got := p.Bounds()
	if got.Min.X != 5 || got.Min.Y != 7 || got.Dx() != 10 || got.Dy() != 10 {
		t.Errorf("Bounds = %v, want (5,7)-(15,17)", got)
	}
}

// TestPlaceholderFallbackNotCached 测试运行期解析失败时显示占位图、
// 不污染缓存、源恢复后自动回到真实帧
func TestPlaceholderFallbackNotCached(t *testing.T) {
	src := &flakySource{images: map[string]*ebiten.Image{
		"hero_0": ebiten.NewImage(10, 10),
	}}

	p, err := NewPlayer(Config{
		Frames:    map[string][]string{"idle": {"hero_0"}},
		Durations: map[string]float64{"idle": 0.1},
		Source:    src,
		Logger:    NopLogger{},
	})
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}

	// 构造时材质化成功并缓存了原始变体
	if info := p.CacheInfo(); info.Size != 1 {
		t.Fatalf("Expected 1 cached entry after construction, got %d", info.Size)
	}

	// 源失效后请求新的缩放变体：显示占位图，缓存不增长
	src.broken = true
	p.Update(0.0, Flip{}, Scale{W: 20, H: 20}, 0)
	if b := p.Image().Bounds(); b.Dx() != placeholderSize || b.Dy() != placeholderSize {
		t.Errorf("Expected the %dx%d placeholder, got %dx%d",
			placeholderSize, placeholderSize, b.Dx(), b.Dy())
	}
	if info := p.CacheInfo(); info.Size != 1 {
		t.Errorf("Placeholder must not be cached, got %d entries", info.Size)
	}

	// 源恢复后下一次材质化得到真实帧并缓存
	src.broken = false
	p.Update(0.0, Flip{}, Scale{W: 22, H: 22}, 0)
	if b := p.Image().Bounds(); b.Dx() != 22 || b.Dy() != 22 {
		t.Errorf("Expected the real 22x22 frame after recovery, got %dx%d", b.Dx(), b.Dy())
	}
	if info := p.CacheInfo(); info.Size != 2 {
		t.Errorf("Expected 2 cached entries after recovery, got %d", info.Size)
	}
}

// TestMaterializedImageNeverAliasesCallerFrames 测试材质化结果不是调用方的帧实例
func TestMaterializedImageNeverAliasesCallerFrames(t *testing.T) {
	frame := ebiten.NewImage(10, 10)
	p, err := NewSimplePlayer(map[string][]*ebiten.Image{"idle": {frame}}, 0.1, ModeLoop)
	if err != nil {
		t.Fatalf("NewSimplePlayer failed: %v", err)
	}

	if p.Image() == frame {
		t.Error("Player must display a copy, never the caller's frame instance")
	}
}

// TestFrameAccessor 测试按 (状态, 索引) 取帧
func TestFrameAccessor(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	img, err := p.Frame("walk", 1)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 11 {
		t.Errorf("Expected frame-1 width 11, got %d", b.Dx())
	}

	if _, err := p.Frame("run", 0); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState, got %v", err)
	}
	if _, err := p.Frame("walk", 9); !errors.Is(err, ErrFrameIndex) {
		t.Errorf("Expected ErrFrameIndex, got %v", err)
	}
	if _, err := p.Frame("walk", -1); !errors.Is(err, ErrFrameIndex) {
		t.Errorf("Expected ErrFrameIndex for negative index, got %v", err)
	}
}

// TestReleasePlayer 测试释放的幂等性与释放后的访问行为
func TestReleasePlayer(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)

	first, err := p.Release()
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !first {
		t.Error("Expected true from the first Release")
	}

	second, err := p.Release()
	if err != nil {
		t.Fatalf("Second Release failed: %v", err)
	}
	if second {
		t.Error("Expected false from the second Release")
	}

	// 释放后的查询与操作
	if p.Image() != nil {
		t.Error("Expected nil image after release")
	}
	if !p.Bounds().Empty() {
		t.Errorf("Expected empty bounds after release, got %v", p.Bounds())
	}
	if p.IsPlaying() {
		t.Error("Expected idle player after release")
	}
	if info := p.CacheInfo(); info.Size != 0 {
		t.Errorf("Expected empty cache after release, got %d", info.Size)
	}

	if err := p.SetState("walk", true); !errors.Is(err, ErrReleased) {
		t.Errorf("Expected ErrReleased from SetState, got %v", err)
	}
	if err := p.SetPlayMode(ModeOnce); !errors.Is(err, ErrReleased) {
		t.Errorf("Expected ErrReleased from SetPlayMode, got %v", err)
	}
	if _, err := p.Frame("walk", 0); !errors.Is(err, ErrReleased) {
		t.Errorf("Expected ErrReleased from Frame, got %v", err)
	}

	screen := ebiten.NewImage(32, 32)
	if err := p.Draw(screen); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady from Draw, got %v", err)
	}

	// 更新与回调注册静默忽略
	p.Update(1.0, Flip{}, Scale{}, 0)
	p.OnComplete(func() {})
	p.OnFrameChange(func(int) {})
	p.OnStateChange(func(string) {})
	p.Pause()
	p.Resume()
	p.Rewind()
	if p.IsPlaying() {
		t.Error("Expected player to stay idle after post-release calls")
	}
}

// TestNewSimplePlayer 测试简化构造器
func TestNewSimplePlayer(t *testing.T) {
	p, err := NewSimplePlayer(map[string][]*ebiten.Image{
		"idle": {ebiten.NewImage(8, 8)},
		"walk": walkFrames(2),
	}, 0.2, ModeOnce)
	if err != nil {
		t.Fatalf("NewSimplePlayer failed: %v", err)
	}

	if p.PlayMode() != ModeOnce {
		t.Errorf("PlayMode = %v, want once", p.PlayMode())
	}
	states := p.States()
	if len(states) != 2 || states[0] != "idle" || states[1] != "walk" {
		t.Errorf("States = %v, want [idle walk]", states)
	}

	// 统一帧时长生效：0.2 秒推进一帧
	if err := p.SetState("walk", true); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	p.Update(0.1, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 0 {
		t.Errorf("Expected no advance at 0.1 of 0.2, got %d", p.FrameIndex())
	}
	p.Update(0.1, Flip{}, Scale{}, 0)
	if p.FrameIndex() != 1 {
		t.Errorf("Expected advance at 0.2, got %d", p.FrameIndex())
	}
}

// TestCacheControls 测试播放器暴露的缓存控制
func TestCacheControls(t *testing.T) {
	src := MapSource{
		"hero_0": ebiten.NewImage(10, 10),
		"hero_1": ebiten.NewImage(10, 10),
	}
	p, err := NewPlayer(Config{
		Frames:    map[string][]string{"idle": {"hero_0", "hero_1"}},
		Durations: map[string]float64{"idle": 0.1},
		Source:    src,
		Logger:    NopLogger{},
	})
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}

	// 推进一帧，缓存两个原始变体
	p.Update(0.1, Flip{}, Scale{}, 0)
	if info := p.CacheInfo(); info.Size != 2 {
		t.Errorf("Expected 2 cached entries, got %d", info.Size)
	}

	if err := p.SetMaxCacheSize(MinCacheSize - 5); !errors.Is(err, ErrCacheSize) {
		t.Errorf("Expected ErrCacheSize, got %v", err)
	}
	if err := p.SetMaxCacheSize(MinCacheSize); err != nil {
		t.Errorf("SetMaxCacheSize failed: %v", err)
	}

	p.ClearCache()
	if info := p.CacheInfo(); info.Size != 0 {
		t.Errorf("Expected empty cache after ClearCache, got %d", info.Size)
	}
}

// TestDrawDebugInfo 测试调试信息叠加不会崩溃（内容由 ebitenutil 绘制）
func TestDrawDebugInfo(t *testing.T) {
	p := newWalkPlayer(t, ModeLoop)
	screen := ebiten.NewImage(160, 120)

	p.DrawDebugInfo(screen, 4, 4)

	p.Pause()
	p.DrawDebugInfo(screen, 4, 4)
}
