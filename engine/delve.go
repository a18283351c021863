package engine

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/DaxxTrias/ProximityAlert/core"
)

// camelSplit inserts a space before each word-starting capital
// Needs lookbehind and an atomic group, so RE2 cannot express it
var camelSplit = regexp2.MustCompile(`((?<=\p{Ll})\p{Lu})|((?!\A)\p{Lu}(?>\p{Ll}))`, regexp2.None)

// delveFarDistance hides low-value chests beyond this grid distance
const delveFarDistance = 100

var delveReplacements = [...][2]string{
	{"Delve Chest ", ""},
	{"Delve Azurite ", "Azurite "},
	{"Delve Mining Supplies ", ""},
	{"_", ""},
}

var delveLowValue = [...]string{"Generic", "Vein", "Flare", "Dynamite", "Armour", "Weapon"}

// prunePath cuts an entity path at its first '@'
func prunePath(path string) string {
	if i := strings.IndexByte(path, '@'); i >= 0 {
		return path[:i]
	}
	return path
}

// baseName returns the last path element, accepting either separator
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// delveName turns a chest path into its display name
func delveName(path string) string {
	name := baseName(path)
	if spaced, err := camelSplit.Replace(name, " $0", -1, -1); err == nil {
		name = spaced
	}
	for _, r := range delveReplacements {
		name = strings.ReplaceAll(name, r[0], r[1])
	}
	return name
}

// delveHidden reports chests that are never worth a line at this distance
func delveHidden(name string, distance float64) bool {
	if strings.HasSuffix(name, " Encounter") || strings.HasSuffix(name, " No Drops") {
		return true
	}
	if distance <= delveFarDistance {
		return false
	}
	for _, kw := range delveLowValue {
		if strings.Contains(name, kw) {
			return strings.Contains(name, "Path ") || !strings.Contains(name, "Currency")
		}
	}
	return false
}

// delveColor picks the line color by chest contents; later keywords take precedence
func delveColor(name string) core.RGBA {
	c := core.RGBAWhite
	if strings.Contains(name, "Currency") || strings.Contains(name, "Fossil") {
		c = core.RGBAMagenta
	}
	if strings.Contains(name, "Flares") {
		c = core.RGBAFlare
	}
	if strings.Contains(name, "Dynamite") || strings.Contains(name, "Explosives") {
		c = core.RGBAExplosive
	}
	return c
}

func (e *Engine) chestName(path string) string {
	return e.names.GetOrCompute(path, delveName)
}
