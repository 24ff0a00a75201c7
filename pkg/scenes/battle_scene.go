package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/core"
	"github.com/decker502/lanedefense/pkg/game"
	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/decker502/lanedefense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// VictoryUpgradePoints 每次胜利获得的永久升级点数
const VictoryUpgradePoints = 1

// messageDurationMs 提示消息显示时长
const messageDurationMs = 2000

// BattleSceneOptions 创建战斗场景的参数
type BattleSceneOptions struct {
	SceneManager *game.SceneManager
	Catalog      *config.Catalog
	Level        *config.LevelConfig
	// NextLevelID 胜利后 Enter 进入的关卡，为空表示最后一关
	NextLevelID string
	Settings    *game.SettingsManager
	Upgrades    *game.UpgradeManager
	Cues        core.CueSink
}

// BattleScene 桌面模式的战斗场景
//
// 场景只负责输入和绘制，所有战斗规则都在 systems.BattleSystem 中；
// 场景把 ebiten 的帧时间（秒）换算成毫秒推进模拟。
type BattleScene struct {
	sceneManager *game.SceneManager
	battle       *systems.BattleSystem
	settings     *game.SettingsManager
	upgrades     *game.UpgradeManager
	levelID      string
	nextLevelID  string

	face      font.Face     // 测量宽度
	labelFace *text.GoXFace // 绘制

	message     string
	messageLeft float64

	resultHandled bool
	hoverSlot     int
}

// NewBattleScene 创建战斗场景
func NewBattleScene(opts BattleSceneOptions) (*BattleScene, error) {
	if opts.Level == nil || opts.Catalog == nil {
		return nil, errors.New("battle scene requires a level and a catalog")
	}
	battleOpts := systems.BattleOptions{
		Catalog: opts.Catalog,
		Level:   opts.Level,
		Cues:    opts.Cues,
	}
	// nil 指针不能直接赋给接口
	if opts.Upgrades != nil {
		battleOpts.Upgrades = opts.Upgrades
	}

	battle, err := systems.NewBattleSystem(battleOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create battle: %w", err)
	}

	s := &BattleScene{
		sceneManager: opts.SceneManager,
		battle:       battle,
		settings:     opts.Settings,
		upgrades:     opts.Upgrades,
		levelID:      opts.Level.ID,
		nextLevelID:  opts.NextLevelID,
		face:         basicfont.Face7x13,
		labelFace:    text.NewGoXFace(basicfont.Face7x13),
		hoverSlot:    -1,
	}
	if s.settings != nil {
		battle.DamageNumbers().Enabled = s.settings.GetSettings().ShowDamageNumbers
	}

	log.Printf("[BattleScene] Level %s started (%d waves)", s.levelID, len(opts.Level.Waves))
	return s, nil
}

// Battle 返回场景持有的战斗
func (s *BattleScene) Battle() *systems.BattleSystem {
	return s.battle
}

// Update 处理输入并推进模拟，deltaTime 单位为秒
func (s *BattleScene) Update(deltaTime float64) {
	deltaMs := deltaTime * 1000

	if s.messageLeft > 0 {
		s.messageLeft -= deltaMs
		if s.messageLeft <= 0 {
			s.message = ""
		}
	}

	if s.battle.Outcome() != systems.OutcomeOngoing {
		s.handleResultInput()
		return
	}

	s.handleInput()
	s.battle.Update(deltaMs)

	if s.battle.Outcome() != systems.OutcomeOngoing && !s.resultHandled {
		s.onBattleOver(s.battle.Outcome())
	}
}

func (s *BattleScene) handleInput() {
	x, y := utils.GetPointerPosition()
	s.hoverSlot = loadoutSlotAt(x, y, len(s.battle.Loadout()))

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.battle.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		s.upgradeTurret()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		s.callNextWave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		s.toggleDamageNumbers()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.toggleSound()
	}
	if slot := utils.DigitJustPressed(); slot >= 0 {
		s.spawnSlot(slot)
	}

	clicked, cx, cy := utils.IsJustTouchedOrClicked()
	if !clicked {
		return
	}
	switch {
	case upgradeButtonRect.Contains(cx, cy):
		s.upgradeTurret()
	case waveButtonRect.Contains(cx, cy):
		s.callNextWave()
	default:
		if slot := loadoutSlotAt(cx, cy, len(s.battle.Loadout())); slot >= 0 {
			s.spawnSlot(slot)
		}
	}
}

// handleResultInput 结算画面：R 重开，Enter 进入下一关
func (s *BattleScene) handleResultInput() {
	if s.sceneManager == nil {
		return
	}
	target := ""
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		target = s.levelID
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		target = s.resultTarget()
	}
	if target == "" {
		return
	}
	if err := s.sceneManager.LoadLevel(target); err != nil {
		log.Printf("[BattleScene] Failed to load level %s: %v", target, err)
		s.flash(err.Error())
	}
}

// resultTarget 结算后 Enter 对应的关卡：胜利进入下一关，失败重开
func (s *BattleScene) resultTarget() string {
	if s.battle.Outcome() == systems.OutcomeVictory && s.nextLevelID != "" {
		return s.nextLevelID
	}
	return s.levelID
}

// spawnSlot 购买出兵栏第 slot 个单位
func (s *BattleScene) spawnSlot(slot int) {
	loadout := s.battle.Loadout()
	if slot < 0 || slot >= len(loadout) {
		return
	}
	if _, err := s.battle.SpawnUnit(loadout[slot]); err != nil {
		log.Printf("[BattleScene] Spawn %s failed: %v", loadout[slot], err)
		s.flash(spawnFailureMessage(err))
	}
}

func (s *BattleScene) upgradeTurret() {
	if err := s.battle.UpgradePlayerTurret(); err != nil {
		s.flash(err.Error())
		return
	}
	s.flash("turret upgraded")
}

func (s *BattleScene) callNextWave() {
	if wave, ok := s.battle.CallNextWave(); ok {
		s.flash(fmt.Sprintf("wave %d called", wave))
	}
}

func (s *BattleScene) toggleDamageNumbers() {
	numbers := s.battle.DamageNumbers()
	numbers.Enabled = !numbers.Enabled
	if s.settings != nil {
		s.settings.SetShowDamageNumbers(numbers.Enabled)
	}
}

func (s *BattleScene) toggleSound() {
	if s.settings == nil {
		return
	}
	enabled := !s.settings.GetSettings().SoundEnabled
	s.settings.SetSoundEnabled(enabled)
	if enabled {
		s.flash("sound on")
	} else {
		s.flash("sound off")
	}
}

// onBattleOver 战斗结束时执行一次：胜利奖励升级点数并保存
func (s *BattleScene) onBattleOver(outcome systems.Outcome) {
	s.resultHandled = true
	log.Printf("[BattleScene] Level %s finished: %s", s.levelID, outcome)

	if outcome != systems.OutcomeVictory || s.upgrades == nil {
		return
	}
	s.upgrades.AwardPoints(VictoryUpgradePoints)
	if err := s.upgrades.Save(); err != nil {
		log.Printf("[BattleScene] Warning: Failed to save upgrades: %v", err)
	}
}

// SaveOnExit 实现 game.Saveable
func (s *BattleScene) SaveOnExit() bool {
	ok := true
	if s.settings != nil {
		if err := s.settings.Save(); err != nil {
			log.Printf("[BattleScene] Failed to save settings: %v", err)
			ok = false
		}
	}
	if s.upgrades != nil {
		if err := s.upgrades.Save(); err != nil {
			log.Printf("[BattleScene] Failed to save upgrades: %v", err)
			ok = false
		}
	}
	return ok
}

func (s *BattleScene) flash(msg string) {
	s.message = msg
	s.messageLeft = messageDurationMs
}

// spawnFailureMessage 出兵失败的简短提示
func spawnFailureMessage(err error) string {
	switch {
	case errors.Is(err, systems.ErrInsufficientGold):
		return "not enough gold"
	case errors.Is(err, systems.ErrOnCooldown):
		return "unit is on cooldown"
	case errors.Is(err, systems.ErrNotInLoadout):
		return "unit not in loadout"
	case errors.Is(err, systems.ErrBattleOver):
		return "battle is over"
	default:
		return err.Error()
	}
}
