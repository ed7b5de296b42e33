// cmd/showcase/sprites.go
// 程序化生成演示帧 - 展示程序不依赖任何外部图片资源

package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/frameplay/pkg/resource"
)

// 演示用调色板
var (
	walkerColor = color.RGBA{0x4c, 0xaf, 0x50, 0xff} // 绿色小人
	orbColor    = color.RGBA{0x42, 0xa5, 0xf5, 0xff} // 蓝色圆球
	orbRimColor = color.RGBA{0xe3, 0xf2, 0xfd, 0xff} // 圆球描边
	runnerColor = color.RGBA{0xff, 0xa7, 0x26, 0xff} // 橙色弹球
	groundColor = color.RGBA{0x8d, 0x6e, 0x63, 0xff} // 地面
	heroColor   = color.RGBA{0xab, 0x47, 0xbc, 0xff} // 紫色主角
)

// newWalkerFrames 生成行走小人帧序列
// 每帧四肢摆动角度不同，循环播放形成行走动画
func newWalkerFrames(count, size int) []*ebiten.Image {
	frames := make([]*ebiten.Image, count)
	s := float64(size)
	cx := float32(s / 2)

	headY := float32(s * 0.20)
	headR := float32(s * 0.10)
	neckY := float32(s * 0.30)
	hipY := float32(s * 0.55)
	shoulderY := float32(s * 0.36)
	limbLen := s * 0.30
	armLen := s * 0.24

	for i := 0; i < count; i++ {
		img := ebiten.NewImage(size, size)
		phase := float64(i) / float64(count) * 2 * math.Pi
		swing := 0.6 * math.Sin(phase)

		// 头和躯干
		vector.DrawFilledCircle(img, cx, headY, headR, walkerColor, true)
		vector.StrokeLine(img, cx, neckY, cx, hipY, 3, walkerColor, true)

		// 双腿反相摆动
		lx := cx + float32(math.Sin(swing)*limbLen)
		ly := hipY + float32(math.Cos(swing)*limbLen)
		rx := cx + float32(math.Sin(-swing)*limbLen)
		ry := hipY + float32(math.Cos(-swing)*limbLen)
		vector.StrokeLine(img, cx, hipY, lx, ly, 3, walkerColor, true)
		vector.StrokeLine(img, cx, hipY, rx, ry, 3, walkerColor, true)

		// 双臂与对侧腿同相
		ax := cx + float32(math.Sin(-swing)*armLen)
		ay := shoulderY + float32(math.Cos(-swing)*armLen)
		bx := cx + float32(math.Sin(swing)*armLen)
		by := shoulderY + float32(math.Cos(swing)*armLen)
		vector.StrokeLine(img, cx, shoulderY, ax, ay, 2, walkerColor, true)
		vector.StrokeLine(img, cx, shoulderY, bx, by, 2, walkerColor, true)

		frames[i] = img
	}
	return frames
}

// newPulseFrames 生成逐帧变大的圆球帧序列
// 半径随帧序号单调增长：once 模式播完定格在最大帧，
// pingpong 模式来回播放形成脉冲效果
func newPulseFrames(count, size int) []*ebiten.Image {
	frames := make([]*ebiten.Image, count)
	s := float64(size)
	c := float32(s / 2)
	rMin := s * 0.12
	rMax := s * 0.42

	for i := 0; i < count; i++ {
		img := ebiten.NewImage(size, size)
		t := float64(i) / float64(count-1)
		r := float32(rMin + (rMax-rMin)*t)
		vector.DrawFilledCircle(img, c, c, r, orbColor, true)
		vector.StrokeCircle(img, c, c, r, 2, orbRimColor, true)
		frames[i] = img
	}
	return frames
}

// newRunnerSheet 生成横向排列的弹球图集（供 RegisterSheet 切分）
func newRunnerSheet(frameW, frameH, count int) *ebiten.Image {
	sheet := ebiten.NewImage(frameW*count, frameH)
	w := float64(frameW)
	h := float64(frameH)
	ballR := float32(w * 0.16)
	groundY := float32(h * 0.88)

	for i := 0; i < count; i++ {
		ox := float32(i * frameW)
		phase := float64(i) / float64(count) * math.Pi

		// 地面
		vector.StrokeLine(sheet, ox+2, groundY, ox+float32(w)-2, groundY, 2, groundColor, true)

		// 弹球高度按半个正弦周期变化，循环播放即持续弹跳
		bounce := math.Sin(phase)
		by := groundY - ballR - float32(bounce*(h*0.55))
		vector.DrawFilledCircle(sheet, ox+float32(w/2), by, ballR, runnerColor, true)
	}
	return sheet
}

// registerHeroFrames 注册动画定义文件引用的全部命名帧
//
// hero.yaml 的 idle 状态引用 hero_idle_N（呼吸徽章），
// spin 状态引用 hero_spin_N（四个朝向的箭头）。
func registerHeroFrames(mgr *resource.Manager, size int) error {
	s := float64(size)
	c := float32(s / 2)

	// idle：内圈半径逐帧变化的徽章
	for i := 0; i < 3; i++ {
		img := ebiten.NewImage(size, size)
		outer := float32(s * 0.40)
		inner := float32(s*0.16 + s*0.05*float64(i))
		vector.StrokeCircle(img, c, c, outer, 3, heroColor, true)
		vector.DrawFilledCircle(img, c, c, inner, heroColor, true)
		if err := mgr.Register(fmt.Sprintf("hero_idle_%d", i), img); err != nil {
			return err
		}
	}

	// spin：依次指向上/右/下/左的箭头
	arm := s * 0.34
	head := s * 0.14
	for i := 0; i < 4; i++ {
		img := ebiten.NewImage(size, size)
		angle := float64(i) * math.Pi / 2
		dx := math.Sin(angle)
		dy := -math.Cos(angle)

		tipX := c + float32(dx*arm)
		tipY := c + float32(dy*arm)
		tailX := c - float32(dx*arm)
		tailY := c - float32(dy*arm)
		vector.StrokeLine(img, tailX, tailY, tipX, tipY, 3, heroColor, true)

		// 箭头两翼
		wingAngle := math.Pi / 4
		for _, sign := range []float64{1, -1} {
			wa := angle + math.Pi + sign*wingAngle
			wx := tipX + float32(math.Sin(wa)*head)
			wy := tipY + float32(-math.Cos(wa)*head)
			vector.StrokeLine(img, tipX, tipY, wx, wy, 3, heroColor, true)
		}
		if err := mgr.Register(fmt.Sprintf("hero_spin_%d", i), img); err != nil {
			return err
		}
	}
	return nil
}
