package tui

import (
	"log"
	"sync"
	"time"

	"github.com/decker502/lanedefense/pkg/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const cueSampleRate = beep.SampleRate(44100)

// BeepCues 终端模式下的提示音
// 通过 beep speaker 播放合成正弦波；扬声器初始化失败时静音
type BeepCues struct {
	mu          sync.Mutex
	initialized bool
	tones       map[string]game.Tone
	settings    *game.SettingsManager
}

// NewBeepCues 创建提示音接收者，settings 可为 nil
func NewBeepCues(settings *game.SettingsManager) *BeepCues {
	return &BeepCues{
		tones:    game.DefaultCueTones,
		settings: settings,
	}
}

// Initialize 打开扬声器
// 失败不致命，之后的 PlayCue 直接返回
func (b *BeepCues) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	b.initialized = true
	return nil
}

// Close 关闭扬声器
func (b *BeepCues) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.initialized = false
}

// PlayCue 实现 core.CueSink
func (b *BeepCues) PlayCue(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	streamer, ok := b.streamerFor(name)
	if !ok {
		return
	}
	speaker.Play(streamer)
}

// streamerFor 构造提示音的音频流，未知提示或静音时返回 false
func (b *BeepCues) streamerFor(name string) (beep.Streamer, bool) {
	tone, ok := b.tones[name]
	if !ok {
		log.Printf("[BeepCues] Unknown cue: %s", name)
		return nil, false
	}

	volume := 0.8
	if b.settings != nil {
		settings := b.settings.GetSettings()
		if !settings.SoundEnabled {
			return nil, false
		}
		volume = settings.SoundVolume
	}
	if volume <= 0 {
		return nil, false
	}

	sine, err := generators.SineTone(cueSampleRate, tone.Frequency)
	if err != nil {
		log.Printf("[BeepCues] Failed to generate %s: %v", name, err)
		return nil, false
	}
	length := cueSampleRate.N(time.Duration(tone.DurationMs) * time.Millisecond)
	// 正弦波幅度为 1，按音量整体缩放
	return &effects.Gain{Streamer: beep.Take(length, sine), Gain: volume*0.5 - 1}, true
}
