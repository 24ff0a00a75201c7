package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestStore 在临时目录中创建 gdata 存储
func openTestStore(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return store
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if !settings.ShowDamageNumbers {
		t.Error("ShowDamageNumbers: got false, want true")
	}
}

// TestSettingsManagerNilStore 测试降级模式
func TestSettingsManagerNilStore(t *testing.T) {
	sm := NewSettingsManager(nil)

	sm.SetSoundVolume(1.5)
	if got := sm.GetSettings().SoundVolume; got != 1.0 {
		t.Errorf("音量应被截断到 1.0，实际 %v", got)
	}
	sm.SetSoundVolume(-0.5)
	if got := sm.GetSettings().SoundVolume; got != 0.0 {
		t.Errorf("音量应被截断到 0.0，实际 %v", got)
	}
	if err := sm.Save(); err != nil {
		t.Errorf("降级模式 Save() 不应报错: %v", err)
	}
}

// TestSettingsManagerPersistence 测试设置的保存和加载
func TestSettingsManagerPersistence(t *testing.T) {
	store := openTestStore(t, "lanedefense_settings_test")

	sm := NewSettingsManager(store)
	sm.SetSoundVolume(0.3)
	sm.SetSoundEnabled(false)
	sm.SetShowDamageNumbers(false)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewSettingsManager(store)
	settings := reloaded.GetSettings()
	if settings.SoundVolume != 0.3 {
		t.Errorf("SoundVolume: got %v, want 0.3", settings.SoundVolume)
	}
	if settings.SoundEnabled {
		t.Error("SoundEnabled: got true, want false")
	}
	if settings.ShowDamageNumbers {
		t.Error("ShowDamageNumbers: got true, want false")
	}
}

// TestSettingsManagerCorruptData 测试损坏数据回退到默认设置
func TestSettingsManagerCorruptData(t *testing.T) {
	store := openTestStore(t, "lanedefense_settings_corrupt")
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("soundVolume: [")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := NewSettingsManager(store)
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("损坏数据应回退到默认设置，实际 %+v", sm.GetSettings())
	}
}
