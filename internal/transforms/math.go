package transforms

import (
	"sort"
	"strings"
)

// latexSymbols maps the common LaTeX commands to their Unicode forms.
// Anything absent passes through untouched.
var latexSymbols = map[string]string{
	`\alpha`:    "α",
	`\beta`:     "β",
	`\gamma`:    "γ",
	`\delta`:    "δ",
	`\epsilon`:  "ε",
	`\theta`:    "θ",
	`\lambda`:   "λ",
	`\mu`:       "μ",
	`\pi`:       "π",
	`\sigma`:    "σ",
	`\phi`:      "φ",
	`\omega`:    "ω",
	`\Delta`:    "Δ",
	`\Gamma`:    "Γ",
	`\Lambda`:   "Λ",
	`\Omega`:    "Ω",
	`\Sigma`:    "Σ",
	`\Pi`:       "Π",
	`\pm`:       "±",
	`\mp`:       "∓",
	`\times`:    "×",
	`\div`:      "÷",
	`\cdot`:     "·",
	`\leq`:      "≤",
	`\geq`:      "≥",
	`\neq`:      "≠",
	`\approx`:   "≈",
	`\equiv`:    "≡",
	`\infty`:    "∞",
	`\sum`:      "Σ",
	`\prod`:     "Π",
	`\int`:      "∫",
	`\partial`:  "∂",
	`\nabla`:    "∇",
	`\sqrt`:     "√",
	`\in`:       "∈",
	`\notin`:    "∉",
	`\subset`:   "⊂",
	`\supset`:   "⊃",
	`\cup`:      "∪",
	`\cap`:      "∩",
	`\forall`:   "∀",
	`\exists`:   "∃",
	`\neg`:      "¬",
	`\land`:     "∧",
	`\lor`:      "∨",
	`\to`:       "→",
	`\gets`:     "←",
	`\implies`:  "⇒",
	`\iff`:      "⇔",
	`\emptyset`: "∅",
	`\ldots`:    "…",
	`\dots`:     "…",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', 'n': 'ⁿ', 'i': 'ⁱ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', 'n': 'ₙ', 'i': 'ᵢ', 'j': 'ⱼ',
	'a': 'ₐ', 'e': 'ₑ', 'x': 'ₓ', 'k': 'ₖ', 'm': 'ₘ', 't': 'ₜ',
}

// symbolReplacer applies latexSymbols longest-command-first so that \in
// never fires inside \infty or \int.
var symbolReplacer = func() *strings.Replacer {
	cmds := make([]string, 0, len(latexSymbols))
	for cmd := range latexSymbols {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		if len(cmds[i]) != len(cmds[j]) {
			return len(cmds[i]) > len(cmds[j])
		}
		return cmds[i] < cmds[j]
	})
	pairs := make([]string, 0, 2*len(cmds))
	for _, cmd := range cmds {
		pairs = append(pairs, cmd, latexSymbols[cmd])
	}
	return strings.NewReplacer(pairs...)
}()

// Math rewrites a LaTeX fragment to plain Unicode, best effort. Known
// commands become symbols, single-character superscripts and subscripts
// use the dedicated code points, grouping braces around converted parts
// are dropped. Unknown commands stay verbatim so nothing is lost.
func Math(latex string) string {
	out := symbolReplacer.Replace(latex)
	out = replaceScripts(out, '^', superscripts)
	out = replaceScripts(out, '_', subscripts)
	out = strings.ReplaceAll(out, `\,`, " ")
	out = strings.ReplaceAll(out, `\ `, " ")
	return out
}

// replaceScripts converts marker-prefixed characters ("^2", "_{10}") when
// every character in the group has a dedicated code point. Groups with
// unconvertible characters keep their original spelling.
func replaceScripts(s string, marker byte, set map[rune]rune) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != marker || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		var group string
		var consumed int
		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			group = s[i+2 : i+2+end]
			consumed = end + 2
		} else {
			group = s[i+1 : i+2]
			consumed = 1
		}

		converted, ok := convertGroup(group, set)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteString(converted)
		i += 1 + consumed
	}
	return b.String()
}

func convertGroup(group string, set map[rune]rune) (string, bool) {
	if group == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range group {
		c, ok := set[r]
		if !ok {
			return "", false
		}
		b.WriteRune(c)
	}
	return b.String(), true
}
