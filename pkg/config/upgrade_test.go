package config

import "testing"

// TestApplyUpgrades 测试永久升级倍率
func TestApplyUpgrades(t *testing.T) {
	base := UnitDefinition{ID: "swordsman", MaxHP: 100, Damage: 20, Cost: 50, CooldownMs: 2000}

	tests := []struct {
		name       string
		tiers      UpgradeTiers
		wantDamage int
		wantHP     int
		wantCost   int
		wantCD     float64
	}{
		{"无升级", UpgradeTiers{}, 20, 100, 50, 2000},
		{"攻击1级", UpgradeTiers{Offense: 1}, 23, 100, 50, 2000},
		{"防御3级", UpgradeTiers{Defense: 3}, 20, 145, 50, 2000},
		{"效率2级", UpgradeTiers{Utility: 2}, 20, 100, 40, 1600},
		{"超出上限被截断", UpgradeTiers{Offense: 9, Defense: -2}, 29, 100, 50, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyUpgrades(base, tt.tiers)
			if got.Damage != tt.wantDamage {
				t.Errorf("Damage = %d, want %d", got.Damage, tt.wantDamage)
			}
			if got.MaxHP != tt.wantHP {
				t.Errorf("MaxHP = %d, want %d", got.MaxHP, tt.wantHP)
			}
			if got.Cost != tt.wantCost {
				t.Errorf("Cost = %d, want %d", got.Cost, tt.wantCost)
			}
			if got.CooldownMs < tt.wantCD-0.001 || got.CooldownMs > tt.wantCD+0.001 {
				t.Errorf("CooldownMs = %.2f, want %.2f", got.CooldownMs, tt.wantCD)
			}
		})
	}

	if base.Damage != 20 {
		t.Error("ApplyUpgrades 不应修改输入定义")
	}
}
