package selftest

// Case is one fixed conversion with its expected literal and warnings.
type Case struct {
	Group    string
	Input    string
	Flags    string
	Want     string
	Warnings []string
}

const (
	warnLookbehind = "Lookbehind assertions have limited support in JavaScript."
	warnUnicode    = "Unicode property escapes require the 'u' flag in JavaScript."
)

// Cases is the built-in table, grouped by construct.
var Cases = []Case{
	{Group: "basic", Input: `hello`, Want: `/hello/`},
	{Group: "basic", Input: `hello world`, Want: `/hello world/`},

	{Group: "class", Input: `[a-z]`, Want: `/[a-z]/`},
	{Group: "class", Input: `[^a-z]`, Want: `/[^a-z]/`},
	{Group: "class", Input: `[a-zA-Z0-9_]`, Want: `/[a-zA-Z0-9_]/`},

	{Group: "quantifier", Input: `a*`, Want: `/a*/`},
	{Group: "quantifier", Input: `a+`, Want: `/a+/`},
	{Group: "quantifier", Input: `a?`, Want: `/a?/`},
	{Group: "quantifier", Input: `a{3}`, Want: `/a{3}/`},
	{Group: "quantifier", Input: `a{3,}`, Want: `/a{3,}/`},
	{Group: "quantifier", Input: `a{3,5}`, Want: `/a{3,5}/`},

	{Group: "anchor", Input: `^start`, Want: `/^start/`},
	{Group: "anchor", Input: `end$`, Want: `/end$/`},
	{Group: "anchor", Input: `\bword\b`, Want: `/\bword\b/`},
	{Group: "anchor", Input: `\Astart`, Want: `/^start/`},
	{Group: "anchor", Input: `end\Z`, Want: `/end$/`},

	{Group: "group", Input: `(group)`, Want: `/(group)/`},
	{Group: "group", Input: `(?:group)`, Want: `/(?:group)/`},
	{Group: "group", Input: `(group)\1`, Want: `/(group)\1/`},
	{Group: "group", Input: `(?P<name>group)`, Want: `/(?<name>group)/`},
	{Group: "group", Input: `(?P=name)`, Want: `/\k<name>/`, Warnings: []string{
		`Named group reference '(?P=name)' is not directly supported in JavaScript. Converted to '\k<name>', but may not work in all browsers.`,
	}},

	{Group: "lookaround", Input: `(?=positive)`, Want: `/(?=positive)/`},
	{Group: "lookaround", Input: `(?!negative)`, Want: `/(?!negative)/`},
	{Group: "lookaround", Input: `(?<=positive)`, Want: `/(?<=positive)/`, Warnings: []string{warnLookbehind}},
	{Group: "lookaround", Input: `(?<!negative)`, Want: `/(?<!negative)/`, Warnings: []string{warnLookbehind}},

	{Group: "shorthand", Input: `\d\D\w\W\s\S`, Want: `/\d\D\w\W\s\S/`},

	{Group: "flags", Input: `case`, Flags: "i", Want: `/case/i`},
	{Group: "flags", Input: `^multi$`, Flags: "m", Want: `/^multi$/m`},
	{Group: "flags", Input: `.`, Flags: "s", Want: `/./s`},

	{Group: "verbose", Flags: "x", Want: `/\d+\s*\w+/`, Input: `(?x)
        \d+  # Match one or more digits
        \s*  # Optional whitespace
        \w+  # Match one or more word characters
        `},

	{Group: "unicode", Input: `\p{Greek}`, Flags: "u", Want: `/\p{Greek}/u`, Warnings: []string{warnUnicode}},
	{Group: "unicode", Input: `\P{ASCII}`, Flags: "u", Want: `/\P{ASCII}/u`, Warnings: []string{warnUnicode}},

	// Without x: under verbose mode "#.*" would be a comment.
	{Group: "complex", Input: `^(?:(?P<word>\w+)\s*:\s*(?P<number>\d+)\s*(?:#.*)?\n?)+$`, Flags: "m",
		Want: `/^(?:(?<word>\w+)\s*:\s*(?<number>\d+)\s*(?:#.*)?\n?)+$/m`},

	{Group: "atomic", Input: `(?>atomic)`, Want: `/(?:atomic)/`, Warnings: []string{
		"Atomic groups are not supported in JavaScript. Converted to non-capturing groups.",
	}},

	{Group: "unsupported", Input: `(?(1)then|else)`, Want: `/(?(1)then|else)/`, Warnings: []string{
		"Conditional patterns are not supported in JavaScript. This part of the regex may not work as expected.",
	}},

	{Group: "edge", Input: ``, Want: `//`},
	{Group: "edge", Input: `[]]`, Want: `/[]]/`},
	{Group: "edge", Input: `[^]]`, Want: `/[^]]/`},
	{Group: "edge", Input: `[\]]`, Want: `/[\]]/`},
	{Group: "edge", Input: `\a\N`, Want: `/\x07[^\n]/`, Warnings: []string{
		`'\N' is converted to '[^\n]', which may not behave identically in all cases.`,
	}},
}
