package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/reaper/internal/world"
)

const npcYAML = `
npcs:
  - npc_id: 2025
    name: Ahrim the Blighted
    category: barrows_brother
    hp: 100
  - npc_id: 2215
    name: General Graardor
    category: group_boss
    hp: 255
    boss: true
  - npc_id: 1
    name: Man
    hp: 7
    respawn_ticks: 10
`

func TestParseNpcTable(t *testing.T) {
	tbl, err := ParseNpcTable([]byte(npcYAML))
	if err != nil {
		t.Fatalf("ParseNpcTable: %v", err)
	}
	if tbl.Count() != 3 {
		t.Fatalf("Count = %d, want 3", tbl.Count())
	}
	if got := tbl.Get(1).EntityCategory(); got != world.CategoryStandaloneNPC {
		t.Fatalf("empty category parsed as %v", got)
	}
	if got := tbl.Get(2025).EntityCategory(); got != world.CategoryBarrowsBrother {
		t.Fatalf("brother parsed as %v", got)
	}
	if !tbl.IsBoss(2215) || tbl.IsBoss(1) || tbl.IsBoss(999) {
		t.Fatal("IsBoss mismatch")
	}
	if tbl.Get(999) != nil {
		t.Fatal("unknown template should be nil")
	}
}

func TestParseNpcTableRejectsBadCategory(t *testing.T) {
	for _, cat := range []string{"dragon", "player"} {
		raw := []byte("npcs:\n  - npc_id: 5\n    category: " + cat + "\n")
		if _, err := ParseNpcTable(raw); err == nil {
			t.Fatalf("category %q accepted", cat)
		}
	}
}

func TestParseBossGroups(t *testing.T) {
	raw := []byte(`
groups:
  - name: bandos
    members: [2215, 2216, 2217, 2218]
`)
	tbl, err := ParseBossGroups(raw)
	if err != nil {
		t.Fatalf("ParseBossGroups: %v", err)
	}
	if tbl.GroupOf(2217) != "bandos" || tbl.GroupOf(1) != "" {
		t.Fatal("GroupOf mismatch")
	}
	if tbl.Count() != 1 {
		t.Fatalf("Count = %d", tbl.Count())
	}
}

func TestParseBossGroupsValidation(t *testing.T) {
	short := []byte("groups:\n  - name: a\n    members: [1, 2, 3]\n")
	if _, err := ParseBossGroups(short); err == nil {
		t.Fatal("three-member group accepted")
	}
	dup := []byte(`
groups:
  - name: a
    members: [1, 2, 3, 4]
  - name: b
    members: [4, 5, 6, 7]
`)
	if _, err := ParseBossGroups(dup); err == nil {
		t.Fatal("member in two groups accepted")
	}
}

func TestParseDropTable(t *testing.T) {
	raw := []byte(`
drops:
  - mob_id: 1
    items:
      - {item_id: 526, min: 1, max: 1, chance: 1000000}
      - {item_id: 995, min: 3, max: 25, chance: 500000}
`)
	tbl, err := ParseDropTable(raw)
	if err != nil {
		t.Fatalf("ParseDropTable: %v", err)
	}
	if len(tbl.Get(1)) != 2 || tbl.Get(2) != nil {
		t.Fatal("Get mismatch")
	}
	var nilTable *DropTable
	if nilTable.Get(1) != nil {
		t.Fatal("nil table should return nil")
	}

	bad := []byte("drops:\n  - mob_id: 1\n    items:\n      - {item_id: 1, min: 5, max: 2, chance: 1}\n")
	if _, err := ParseDropTable(bad); err == nil {
		t.Fatal("inverted range accepted")
	}
}

func TestLoadZoneList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone_list.yaml")
	body := `
zones:
  - name: castle_wars
    map_id: 0
    min_x: 2368
    min_y: 3072
    max_x: 2431
    max_y: 3135
    exit: {x: 2440, y: 3090, map_id: 0}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	zones, err := LoadZoneList(path)
	if err != nil {
		t.Fatalf("LoadZoneList: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("len = %d", len(zones))
	}
	z := zones[0]
	if !world.NewLocation(2400, 3100, 0).Within(z.Min(), z.Max()) {
		t.Fatal("point inside zone reported outside")
	}
	if z.ExitLocation() != world.NewLocation(2440, 3090, 0) {
		t.Fatalf("exit = %v", z.ExitLocation())
	}
}

func TestLoadSpawnListMissingFile(t *testing.T) {
	if _, err := LoadSpawnList(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
