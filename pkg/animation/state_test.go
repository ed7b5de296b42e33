package animation

import (
	"errors"
	"testing"
)

func newTestStateManager(mode PlayMode) *stateManager {
	counts := map[string]int{"idle": 1, "walk": 3, "jump": 4}
	durations := map[string]float64{"idle": 0.5, "walk": 0.1, "jump": 0.1}
	return newStateManager(counts, durations, mode, NopLogger{})
}

// TestStateOrderSorted 测试状态顺序按字典序排列
func TestStateOrderSorted(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	expected := []string{"idle", "jump", "walk"}
	if len(s.order) != len(expected) {
		t.Fatalf("Expected %d states, got %d", len(expected), len(s.order))
	}
	for i, want := range expected {
		if s.order[i] != want {
			t.Errorf("order[%d] = %q, want %q", i, s.order[i], want)
		}
	}
}

// TestStateManagerSetState 测试状态切换
func TestStateManagerSetState(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	// 切换到已声明的状态
	changed, err := s.setState("walk", true)
	if err != nil {
		t.Fatalf("setState failed: %v", err)
	}
	if !changed {
		t.Error("Expected changed=true for a real switch")
	}
	if s.current != "walk" {
		t.Errorf("current = %q, want walk", s.current)
	}

	// 切换到当前状态是静默无操作
	changed, err = s.setState("walk", true)
	if err != nil {
		t.Fatalf("setState failed: %v", err)
	}
	if changed {
		t.Error("Expected changed=false when switching to the active state")
	}

	// 未声明的状态返回错误，且错误标识可分类
	_, err = s.setState("run", true)
	if err == nil {
		t.Fatal("Expected error for unknown state, got nil")
	}
	if !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState, got %v", err)
	}
}

// TestSetStateFrameReset 测试切换状态时帧索引的重置与钳制
func TestSetStateFrameReset(t *testing.T) {
	s := newTestStateManager(ModeLoop)
	s.current = "jump"
	s.frameIndex = 3
	s.elapsed = 0.05

	// resetFrame=true 时归零
	if _, err := s.setState("walk", true); err != nil {
		t.Fatalf("setState failed: %v", err)
	}
	if s.frameIndex != 0 || s.elapsed != 0 {
		t.Errorf("Expected frameIndex=0 elapsed=0, got %d %v", s.frameIndex, s.elapsed)
	}

	// resetFrame=false 时保留索引，超界则钳制到最后一帧
	s.current = "jump"
	s.frameIndex = 3
	if _, err := s.setState("walk", false); err != nil {
		t.Fatalf("setState failed: %v", err)
	}
	if s.frameIndex != 2 {
		t.Errorf("Expected frameIndex clamped to 2, got %d", s.frameIndex)
	}
}

// TestAdvanceLoop 测试循环模式的帧推进
func TestAdvanceLoop(t *testing.T) {
	s := newTestStateManager(ModeLoop)
	s.current = "walk" // 3 帧

	expected := []int{1, 2, 0, 1, 2, 0}
	for i, want := range expected {
		res := s.advance()
		if res.frameIndex != want {
			t.Errorf("advance %d: frameIndex = %d, want %d", i, res.frameIndex, want)
		}
		if !res.frameChanged {
			t.Errorf("advance %d: expected frameChanged=true", i)
		}
		if res.completed {
			t.Errorf("advance %d: loop mode must never complete", i)
		}
	}
}

// TestAdvanceOnce 测试单次模式：钳制在最后一帧、完成一次、随后暂停
func TestAdvanceOnce(t *testing.T) {
	s := newTestStateManager(ModeOnce)
	s.current = "walk" // 3 帧

	// 前两次推进正常前移
	for i, want := range []int{1, 2} {
		res := s.advance()
		if res.frameIndex != want || res.completed {
			t.Errorf("advance %d: got index=%d completed=%v, want index=%d completed=false",
				i, res.frameIndex, res.completed, want)
		}
	}

	// 第三次推进越过末帧：钳制、完成、暂停
	res := s.advance()
	if res.frameIndex != 2 {
		t.Errorf("Expected clamp at last frame 2, got %d", res.frameIndex)
	}
	if res.frameChanged {
		t.Error("Clamping advance must not report a frame change")
	}
	if !res.completed {
		t.Error("Expected completed=true when passing the last frame")
	}
	if s.current != "" {
		t.Errorf("Expected paused (current empty) after once completion, got %q", s.current)
	}
	if s.previous != "walk" {
		t.Errorf("Expected previous=walk after auto pause, got %q", s.previous)
	}
}

// TestAdvancePingPong 测试乒乓模式：端点反射、每次反射触发完成
func TestAdvancePingPong(t *testing.T) {
	s := newTestStateManager(ModePingPong)
	s.current = "jump" // 4 帧

	// 从 0 出发的访问序列：1 2 3 2 1 0 1 2（端点只停留一次）
	expected := []struct {
		index     int
		completed bool
	}{
		{1, false},
		{2, false},
		{3, false},
		{2, true}, // 顶端反射
		{1, false},
		{0, false},
		{1, true}, // 底端反射
		{2, false},
	}

	for i, want := range expected {
		res := s.advance()
		if res.frameIndex != want.index {
			t.Errorf("advance %d: frameIndex = %d, want %d", i, res.frameIndex, want.index)
		}
		if res.completed != want.completed {
			t.Errorf("advance %d: completed = %v, want %v", i, res.completed, want.completed)
		}
	}
}

// TestAdvanceSingleFrame 测试单帧状态在三种模式下的行为
func TestAdvanceSingleFrame(t *testing.T) {
	// 循环：索引不变，无完成
	s := newTestStateManager(ModeLoop)
	s.current = "idle" // 1 帧
	res := s.advance()
	if res.frameIndex != 0 || res.frameChanged || res.completed {
		t.Errorf("loop: got %+v, want index=0 no change no completion", res)
	}

	// 单次：立即完成并暂停，索引不变
	s = newTestStateManager(ModeOnce)
	s.current = "idle"
	res = s.advance()
	if res.frameIndex != 0 || res.frameChanged {
		t.Errorf("once: got %+v, want index=0 no change", res)
	}
	if !res.completed {
		t.Error("once: expected completion on a single-frame state")
	}
	if s.current != "" {
		t.Error("once: expected pause after completion")
	}

	// 乒乓：每次推进都是一次反射完成，索引不变
	s = newTestStateManager(ModePingPong)
	s.current = "idle"
	for i := 0; i < 3; i++ {
		res = s.advance()
		if res.frameIndex != 0 || res.frameChanged {
			t.Errorf("pingpong advance %d: got %+v, want index=0 no change", i, res)
		}
		if !res.completed {
			t.Errorf("pingpong advance %d: expected completion at every boundary", i)
		}
	}
}

// TestStateManagerPauseResume 测试暂停与恢复
func TestStateManagerPauseResume(t *testing.T) {
	s := newTestStateManager(ModeLoop)
	s.current = "walk"
	s.frameIndex = 2

	s.pause()
	if s.current != "" {
		t.Errorf("Expected current empty after pause, got %q", s.current)
	}
	if s.previous != "walk" {
		t.Errorf("Expected previous=walk, got %q", s.previous)
	}
	if s.frameIndex != 2 {
		t.Errorf("Pause must keep the frame index, got %d", s.frameIndex)
	}

	// 重复暂停不覆盖 previous
	s.pause()
	if s.previous != "walk" {
		t.Errorf("Second pause overwrote previous: %q", s.previous)
	}

	// 恢复回到暂停前的状态
	s.resume()
	if s.current != "walk" {
		t.Errorf("Expected resume to restore walk, got %q", s.current)
	}
	if s.frameIndex != 2 {
		t.Errorf("Resume must keep the frame index, got %d", s.frameIndex)
	}

	// 播放中再次恢复是无操作
	s.resume()
	if s.current != "walk" {
		t.Errorf("Resume while playing changed state to %q", s.current)
	}
}

// TestResumeColdStart 测试从未播放过时恢复到第一个声明的状态
func TestResumeColdStart(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	s.resume()
	if s.current != "idle" {
		t.Errorf("Expected cold resume to pick first state idle, got %q", s.current)
	}
}

// TestStateManagerRewind 测试回绕：重置帧索引与累积时间，保持状态
func TestStateManagerRewind(t *testing.T) {
	s := newTestStateManager(ModeLoop)
	s.current = "walk"
	s.frameIndex = 2
	s.elapsed = 0.07

	s.rewind()
	if s.frameIndex != 0 || s.elapsed != 0 {
		t.Errorf("Expected frameIndex=0 elapsed=0, got %d %v", s.frameIndex, s.elapsed)
	}
	if s.current != "walk" {
		t.Errorf("Rewind must keep the state, got %q", s.current)
	}
}

// TestSetPlayMode 测试播放模式切换及非法值
func TestSetPlayMode(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	if err := s.setPlayMode(ModePingPong); err != nil {
		t.Fatalf("setPlayMode failed: %v", err)
	}
	if s.mode != ModePingPong {
		t.Errorf("mode = %v, want pingpong", s.mode)
	}

	err := s.setPlayMode(PlayMode(7))
	if err == nil {
		t.Fatal("Expected error for invalid mode, got nil")
	}
	if !errors.Is(err, ErrInvalidPlayMode) {
		t.Errorf("Expected ErrInvalidPlayMode, got %v", err)
	}
}

// TestStateManagerRelease 测试释放：停止播放并清空回调
func TestStateManagerRelease(t *testing.T) {
	s := newTestStateManager(ModeLoop)
	s.current = "walk"
	s.onComplete = append(s.onComplete, func() {})
	s.onFrameChange = append(s.onFrameChange, func(int) {})
	s.onStateChange = append(s.onStateChange, func(string) {})

	s.release()
	if s.current != "" || s.previous != "" {
		t.Errorf("Expected no active or previous state, got %q / %q", s.current, s.previous)
	}
	if s.onComplete != nil || s.onFrameChange != nil || s.onStateChange != nil {
		t.Error("Expected all callback registries cleared")
	}
}

// TestCallbackOrderAndIsolation 测试回调按注册顺序执行且互不影响
func TestCallbackOrderAndIsolation(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	var calls []string
	s.onComplete = append(s.onComplete,
		func() { calls = append(calls, "first") },
		func() { panic("observer exploded") },
		func() { calls = append(calls, "third") },
	)

	// 中间的回调 panic，其余照常执行
	s.dispatchComplete()

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "third" {
		t.Errorf("Expected [first third], got %v", calls)
	}
}

// TestFrameChangeDispatchCarriesIndex 测试帧变化回调携带新索引
func TestFrameChangeDispatchCarriesIndex(t *testing.T) {
	s := newTestStateManager(ModeLoop)

	var got []int
	s.onFrameChange = append(s.onFrameChange, func(i int) { got = append(got, i) })

	s.dispatchFrameChange(2)
	s.dispatchFrameChange(0)

	if len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Errorf("Expected [2 0], got %v", got)
	}
}

// TestParsePlayMode 测试播放模式解析
func TestParsePlayMode(t *testing.T) {
	tests := []struct {
		input   string
		want    PlayMode
		wantErr bool
	}{
		{"loop", ModeLoop, false},
		{"once", ModeOnce, false},
		{"pingpong", ModePingPong, false},
		{"bounce", ModeLoop, true},
		{"", ModeLoop, true},
	}

	for _, tt := range tests {
		got, err := ParsePlayMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePlayMode(%q): expected error, got nil", tt.input)
			}
			if !errors.Is(err, ErrInvalidPlayMode) {
				t.Errorf("ParsePlayMode(%q): expected ErrInvalidPlayMode, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePlayMode(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParsePlayMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if got.String() != tt.input {
			t.Errorf("String() = %q, want %q", got.String(), tt.input)
		}
	}
}

// TestNormalizeAngle 测试角度归一化到 [0, 360)
func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input, want float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{720, 0},
	}

	for _, tt := range tests {
		if got := normalizeAngle(tt.input); got != tt.want {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
