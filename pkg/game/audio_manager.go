package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/decker502/lanedefense/pkg/core"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate 音频采样率
const SampleRate = 44100

// Tone 合成音调参数
// 提示音由正弦波合成，不依赖任何音频资源文件
type Tone struct {
	Frequency  float64 // 频率（Hz）
	DurationMs float64 // 时长（毫秒）
}

// DefaultCueTones 默认提示音表
var DefaultCueTones = map[string]Tone{
	core.CueWaveStart:       {Frequency: 440, DurationMs: 250},
	core.CueWaveComplete:    {Frequency: 660, DurationMs: 300},
	core.CueBossSpawn:       {Frequency: 110, DurationMs: 600},
	core.CueSpawnMelee:      {Frequency: 330, DurationMs: 80},
	core.CueSpawnRanged:     {Frequency: 523, DurationMs: 80},
	core.CueSpawnHeavy:      {Frequency: 196, DurationMs: 120},
	core.CuePurchaseSuccess: {Frequency: 880, DurationMs: 60},
	core.CuePurchaseFail:    {Frequency: 150, DurationMs: 150},
	core.CueTurretUpgrade:   {Frequency: 740, DurationMs: 200},
	core.CueVictory:         {Frequency: 1046, DurationMs: 700},
	core.CueDefeat:          {Frequency: 98, DurationMs: 900},
}

// AudioManager 音频管理器
// 职责：
//   - 实现 core.CueSink，把战斗提示转换为合成音效
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 缓存每个提示对应的播放器
//
// context 为 nil 时进入静音降级模式（无头运行、测试），所有播放请求直接返回
type AudioManager struct {
	context         *audio.Context           // ebiten 音频上下文，可为 nil
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置）
	tones           map[string]Tone          // 提示名 -> 音调
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（提示名 -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文（可为 nil，静音模式）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	tones := make(map[string]Tone, len(DefaultCueTones))
	for name, tone := range DefaultCueTones {
		tones[name] = tone
	}
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		tones:           tones,
		soundPlayers:    make(map[string]*audio.Player),
	}
}

// PlayCue 实现 core.CueSink
func (am *AudioManager) PlayCue(name string) {
	am.PlaySound(name)
}

// PlaySound 播放提示音
// 音效使用 SoundVolume 设置控制音量，单次播放后停止
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(cue string) bool {
	if am == nil || am.context == nil {
		return false
	}

	// 检查音效是否启用
	if am.settingsManager != nil {
		settings := am.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false
		}
	}

	player := am.getSoundPlayer(cue)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())

	// 重置并播放
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", cue, err)
	}
	player.Play()

	return true
}

// SetSoundVolume 设置音效音量
// 此方法会影响后续播放的所有音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(clampVolume(volume))
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// getSoundPlayer 获取或合成提示音播放器
func (am *AudioManager) getSoundPlayer(cue string) *audio.Player {
	if player, exists := am.soundPlayers[cue]; exists {
		return player
	}

	tone, ok := am.tones[cue]
	if !ok {
		log.Printf("[AudioManager] Warning: Unknown cue: %s", cue)
		return nil
	}

	player := am.context.NewPlayerFromBytes(SynthesizeTone(tone, am.context.SampleRate()))
	am.soundPlayers[cue] = player
	return player
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}

// PreloadCues 预合成所有提示音，避免首次播放时的延迟
func (am *AudioManager) PreloadCues() {
	if am.context == nil {
		return
	}
	for name := range am.tones {
		am.getSoundPlayer(name)
	}
	log.Printf("[AudioManager] Preloaded %d cues", len(am.tones))
}

// SynthesizeTone 合成 16 位小端立体声 PCM 正弦波
// 结尾做线性淡出，避免爆音
func SynthesizeTone(tone Tone, sampleRate int) []byte {
	frames := int(float64(sampleRate) * tone.DurationMs / 1000)
	if frames <= 0 {
		return nil
	}
	buf := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		envelope := 1 - float64(i)/float64(frames)
		v := math.Sin(2*math.Pi*tone.Frequency*float64(i)/float64(sampleRate)) * envelope * 0.5
		sample := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], sample)
		binary.LittleEndian.PutUint16(buf[i*4+2:], sample)
	}
	return buf
}
