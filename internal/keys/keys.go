package keys

import (
	"strconv"
	"strings"
)

// TemplateKey produces the canonical catalog key for a monster or ability name.
// Behavior: trims, lower-cases, collapses runs of spaces, dashes and
// underscores into a single underscore. "Fire Bite" and "fire-bite" share a key.
func TemplateKey(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '-', '_', '\t':
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// AIMonsterID is the in-battle id of the n-th AI monster.
func AIMonsterID(n int) string {
	return "ai-" + strconv.Itoa(n)
}
